package cli

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/docverify/internal/config"
	internalDid "github.com/tcfw/docverify/internal/did"
	"github.com/tcfw/docverify/pkg/did"
	"github.com/tcfw/docverify/pkg/document"
)

var (
	signCmd = &cobra.Command{
		Use:   "sign <file>",
		Short: "Sign a document's merkle root with an identity from the key store",
		Args:  cobra.ExactArgs(1),
		RunE:  runSign,
	}
)

func init() {
	signCmd.Flags().StringP("key", "k", "", "DID or verification method to sign with. blank defaults to the first identity")
	signCmd.Flags().StringP("out", "O", "", "file to write the signed document to. blank writes to stdout")
}

func runSign(cmd *cobra.Command, args []string) error {
	key, _ := cmd.Flags().GetString("key")
	out, _ := cmd.Flags().GetString("out")

	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	store, err := internalDid.NewFileStore(cfg.KeyStore)
	if err != nil {
		return err
	}

	id, err := findIdentity(store, key)
	if err != nil {
		return err
	}

	raw, err := readInput(args[0])
	if err != nil {
		return err
	}

	doc, err := document.Parse(raw)
	if err != nil {
		return err
	}

	if err := did.SignDocument(doc, id, time.Now()); err != nil {
		return err
	}

	signed, err := mergeProof(raw, doc.Proof)
	if err != nil {
		return err
	}

	if out == "" {
		_, err = os.Stdout.Write(signed)
		return err
	}

	return os.WriteFile(out, signed, 0644)
}

func findIdentity(store did.IdentityStore, key string) (did.PrivateIdentity, error) {
	if key != "" {
		return store.Find(key)
	}

	ids, err := store.List()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, errors.New("key store is empty, create one with 'identity new'")
	}

	return ids[0], nil
}

// mergeProof replaces the proof array of the raw document, keeping every
// other field as it was
func mergeProof(raw []byte, proof []document.SignatureProof) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(err, "unmarshalling document")
	}

	p, err := json.Marshal(proof)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling proof")
	}
	fields["proof"] = p

	b, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshalling document")
	}

	return append(b, '\n'), nil
}
