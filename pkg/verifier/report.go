package verifier

import (
	"encoding/json"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/fragment"
)

type Report struct {
	Status    fragment.Overall    `json:"status" yaml:"status"`
	Fragments []fragment.Fragment `json:"fragments" yaml:"fragments"`
}

func (r *Report) Valid() bool {
	return r.Status == fragment.OverallValid
}

// ID is a content identifier over the JSON encoding of the report. Two runs
// with identical capability responses produce the same ID.
func (r *Report) ID() (cid.Cid, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return cid.Undef, errors.Wrap(err, "marshalling report")
	}

	mh, err := multihash.Sum(b, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, errors.Wrap(err, "hashing report")
	}

	return cid.NewCidV1(cid.Raw, mh), nil
}
