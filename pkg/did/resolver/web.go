package resolver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/did/w3cdid"
)

const maxWebDocumentSize = 1 << 20

// webURL maps did:web:example.com:user:alice to
// https://example.com/user/alice/did.json
func webURL(d w3cdid.URL) (string, error) {
	parts := strings.Split(d.Id(), ":")

	host, err := url.PathUnescape(parts[0])
	if err != nil || host == "" {
		return "", errors.Wrapf(ErrInvalidDID, "bad web host %q", parts[0])
	}

	path := "/.well-known"
	if len(parts) > 1 {
		segs := make([]string, 0, len(parts)-1)
		for _, p := range parts[1:] {
			s, err := url.PathUnescape(p)
			if err != nil {
				return "", errors.Wrapf(ErrInvalidDID, "bad web path %q", p)
			}
			segs = append(segs, s)
		}
		path = "/" + strings.Join(segs, "/")
	}

	u := url.URL{Scheme: "https", Host: host, Path: path + "/did.json"}
	return u.String(), nil
}

func (r *Resolver) resolveWeb(ctx context.Context, d w3cdid.URL) (*w3cdid.Document, error) {
	u, err := webURL(d)
	if err != nil {
		return nil, err
	}

	if r.webTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.webTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/did+json, application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching did document")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Errorf("fetching did document: unexpected status %d", resp.StatusCode)
	}

	doc := &w3cdid.Document{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxWebDocumentSize)).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "decoding did document")
	}

	if doc.ID != string(d) {
		return nil, errors.Errorf("did document id %q does not match %q", doc.ID, d)
	}

	return doc, nil
}
