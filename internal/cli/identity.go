package cli

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tcfw/docverify/internal/config"
	internalDid "github.com/tcfw/docverify/internal/did"
	"github.com/tcfw/docverify/pkg/did"
)

var (
	identityCmd = &cobra.Command{
		Use:   "identity",
		Short: "Signing identity commands",
	}

	identity_newCmd = &cobra.Command{
		Use:   "new",
		Short: "Generate a signing identity into the key store",
		RunE:  runIdentityNew,
	}

	identity_listCmd = &cobra.Command{
		Use:   "list",
		Short: "List identities in the key store",
		RunE:  runIdentityList,
	}
)

func init() {
	identity_newCmd.Flags().StringP("type", "t", "ethr", "key type, ethr or ed25519")
	identity_newCmd.Flags().String("did", "", "DID hosting the key. required for ed25519")
}

func openKeyStore() (*internalDid.FileStore, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}

	return internalDid.NewFileStore(cfg.KeyStore)
}

func runIdentityNew(cmd *cobra.Command, args []string) error {
	t, _ := cmd.Flags().GetString("type")
	d, _ := cmd.Flags().GetString("did")

	store, err := openKeyStore()
	if err != nil {
		return err
	}

	var id did.PrivateIdentity

	switch t {
	case "ethr":
		id, err = did.GenerateEthrIdentity()
	case "ed25519":
		if d == "" {
			return fmt.Errorf("--did is required for ed25519 identities")
		}
		id, err = did.GenerateEd25519Identity(d, rand.Reader)
	default:
		return fmt.Errorf("unknown key type %s", t)
	}
	if err != nil {
		return err
	}

	if err := store.Add(id); err != nil {
		return err
	}

	fmt.Println(id.VerificationMethod())
	return nil
}

func runIdentityList(cmd *cobra.Command, args []string) error {
	store, err := openKeyStore()
	if err != nil {
		return err
	}

	ids, err := store.List()
	if err != nil {
		return err
	}

	for _, id := range ids {
		fmt.Println(id.VerificationMethod())
	}

	return nil
}
