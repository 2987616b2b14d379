package dnsprove

import (
	"context"
	"strings"
)

const recordPrefix = "openatts"

// TxtRecord binds a document store or token registry to a domain
//
//	openatts net=ethereum netId=1 addr=0x007d40224f6562461633ccfbaffd359ebb2fc9ba
type TxtRecord struct {
	Type  string `json:"type"`
	Net   string `json:"net"`
	NetID string `json:"netId"`
	Addr  string `json:"addr"`
}

// DidRecord binds a DID key to a domain
//
//	openatts a=dns-did; p=did:ethr:0xE712...#controller; v=1.0;
type DidRecord struct {
	Type      string `json:"type"`
	Algorithm string `json:"algorithm"`
	PublicKey string `json:"publicKey"`
	Version   string `json:"version"`
}

// ParseTxtRecord returns false for records that are not well formed openatts
// identity records
func ParseTxtRecord(s string) (TxtRecord, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 || fields[0] != recordPrefix {
		return TxtRecord{}, false
	}

	r := TxtRecord{Type: recordPrefix}
	for _, f := range fields[1:] {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}

		switch k {
		case "net":
			r.Net = v
		case "netId":
			r.NetID = v
		case "addr":
			r.Addr = v
		}
	}

	if r.Net == "" || r.NetID == "" || r.Addr == "" {
		return TxtRecord{}, false
	}

	return r, true
}

func ParseDidRecord(s string) (DidRecord, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, recordPrefix+" ") {
		return DidRecord{}, false
	}

	r := DidRecord{Type: recordPrefix}
	for _, f := range strings.Split(strings.TrimPrefix(s, recordPrefix), ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(f), "=")
		if !ok {
			continue
		}

		switch k {
		case "a":
			r.Algorithm = v
		case "p":
			r.PublicKey = v
		case "v":
			r.Version = v
		}
	}

	if r.Algorithm != "dns-did" || r.PublicKey == "" || r.Version == "" {
		return DidRecord{}, false
	}

	return r, true
}

// QueryTxtRecords looks up and parses the openatts records of a domain,
// ignoring unrelated TXT records
func QueryTxtRecords(ctx context.Context, q Querier, domain string) ([]TxtRecord, error) {
	txts, err := q.TXT(ctx, domain)
	if err != nil {
		return nil, err
	}

	var out []TxtRecord
	for _, t := range txts {
		if r, ok := ParseTxtRecord(t); ok {
			out = append(out, r)
		}
	}

	return out, nil
}

func QueryDidRecords(ctx context.Context, q Querier, domain string) ([]DidRecord, error) {
	txts, err := q.TXT(ctx, domain)
	if err != nil {
		return nil, err
	}

	var out []DidRecord
	for _, t := range txts {
		if r, ok := ParseDidRecord(t); ok {
			out = append(out, r)
		}
	}

	return out, nil
}
