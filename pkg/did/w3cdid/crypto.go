package w3cdid

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/cryptography"
)

var (
	ErrVerificationMethodMissing = errors.New("verification method not found")
)

// FindVerificationMethod looks up a verification method by its absolute id.
// Relative ids (#key-1) in the document are resolved against the document id.
func (d *Document) FindVerificationMethod(id string) (*cryptography.VerificationMethod, bool) {
	for i, vm := range d.VerificationMethod {
		if d.absolute(vm.ID) == id {
			return &d.VerificationMethod[i], true
		}
	}

	return nil, false
}

func (d *Document) absolute(id string) string {
	if strings.HasPrefix(id, "#") {
		return d.ID + id
	}

	return id
}

// Verify checks the signature was produced by the given verification method
func (d *Document) Verify(vmID string, signature []byte, msg []byte) error {
	vm, ok := d.FindVerificationMethod(vmID)
	if !ok {
		return errors.Wrap(ErrVerificationMethodMissing, vmID)
	}

	return cryptography.Verify(*vm, signature, msg)
}
