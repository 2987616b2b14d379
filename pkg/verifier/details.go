package verifier

import (
	"encoding/json"

	"github.com/tcfw/docverify/pkg/document"
)

// Details holds per entity statuses. Single issuer documents report a single
// object rather than a list.
type Details[T any] struct {
	Items  []T
	Single bool
}

func NewDetails[T any](doc *document.Document, items []T) Details[T] {
	return Details[T]{Items: items, Single: doc.IsSingleIssuer() && len(items) == 1}
}

func (d Details[T]) value() interface{} {
	if d.Single {
		return d.Items[0]
	}

	if d.Items == nil {
		return []T{}
	}

	return d.Items
}

func (d Details[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value())
}

func (d Details[T]) MarshalYAML() (interface{}, error) {
	return d.value(), nil
}

type IssuanceStatus struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Issued     bool   `json:"issued" yaml:"issued"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type RevocationStatus struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Revoked    bool   `json:"revoked" yaml:"revoked"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// IssuanceData is the data of verifiers reporting both issuance and
// revocation per entity. The aggregates are derived, never stored.
type IssuanceData struct {
	Issuance   Details[IssuanceStatus]
	Revocation Details[RevocationStatus]
}

func (d IssuanceData) IssuedOnAll() bool {
	for _, s := range d.Issuance.Items {
		if !s.Issued {
			return false
		}
	}

	return true
}

func (d IssuanceData) RevokedOnAny() bool {
	for _, s := range d.Revocation.Items {
		if s.Revoked {
			return true
		}
	}

	return false
}

// FirstNotIssued returns the first entity, in discovery order, that was not
// issued
func (d IssuanceData) FirstNotIssued() (IssuanceStatus, bool) {
	for _, s := range d.Issuance.Items {
		if !s.Issued {
			return s, true
		}
	}

	return IssuanceStatus{}, false
}

func (d IssuanceData) FirstRevoked() (RevocationStatus, bool) {
	for _, s := range d.Revocation.Items {
		if s.Revoked {
			return s, true
		}
	}

	return RevocationStatus{}, false
}

type issuanceDetails struct {
	Issuance   Details[IssuanceStatus]    `json:"issuance" yaml:"issuance"`
	Revocation *Details[RevocationStatus] `json:"revocation,omitempty" yaml:"revocation,omitempty"`
}

type issuanceWire struct {
	IssuedOnAll  bool            `json:"issuedOnAll" yaml:"issuedOnAll"`
	RevokedOnAny bool            `json:"revokedOnAny" yaml:"revokedOnAny"`
	Details      issuanceDetails `json:"details" yaml:"details"`
}

// wire omits revocation for a flattened issuance with nothing revocation
// checked, so single issuer details never mix an object with a list
func (d IssuanceData) wire() issuanceWire {
	w := issuanceWire{
		IssuedOnAll:  d.IssuedOnAll(),
		RevokedOnAny: d.RevokedOnAny(),
		Details:      issuanceDetails{Issuance: d.Issuance},
	}

	if !d.Issuance.Single || len(d.Revocation.Items) > 0 {
		rev := d.Revocation
		w.Details.Revocation = &rev
	}

	return w
}

func (d IssuanceData) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.wire())
}

func (d IssuanceData) MarshalYAML() (interface{}, error) {
	return d.wire(), nil
}

type IdentityStatus struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Location   string `json:"location" yaml:"location"`
	Identified bool   `json:"identified" yaml:"identified"`
	Reason     string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type IdentityData struct {
	Details Details[IdentityStatus]
}

func (d IdentityData) IdentifiedOnAll() bool {
	_, ok := d.FirstUnidentified()
	return !ok
}

func (d IdentityData) FirstUnidentified() (IdentityStatus, bool) {
	for _, s := range d.Details.Items {
		if !s.Identified {
			return s, true
		}
	}

	return IdentityStatus{}, false
}

type identityWire struct {
	IdentifiedOnAll bool                    `json:"identifiedOnAll" yaml:"identifiedOnAll"`
	Details         Details[IdentityStatus] `json:"details" yaml:"details"`
}

func (d IdentityData) MarshalJSON() ([]byte, error) {
	return json.Marshal(identityWire{IdentifiedOnAll: d.IdentifiedOnAll(), Details: d.Details})
}

func (d IdentityData) MarshalYAML() (interface{}, error) {
	return identityWire{IdentifiedOnAll: d.IdentifiedOnAll(), Details: d.Details}, nil
}
