package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tcfw/docverify/pkg/document"
	"github.com/tcfw/docverify/pkg/verifier"
	"gopkg.in/yaml.v3"
)

var (
	verifyCmd = &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify a document. Use '-' to read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE:  runVerify,
	}

	errNotValid = errors.New("document is not valid")
)

func init() {
	verifyCmd.Flags().StringP("output", "o", "json", "report format, json or yaml")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	format, _ := cmd.Flags().GetString("output")

	raw, err := readInput(args[0])
	if err != nil {
		return err
	}

	doc, err := document.Parse(raw)
	if err != nil {
		return err
	}

	e, _, err := newEngine(ctx)
	if err != nil {
		return err
	}

	rep, err := e.Verify(ctx, doc, "")
	if err != nil {
		return err
	}

	if err := writeReport(os.Stdout, rep, format); err != nil {
		return err
	}

	if !rep.Valid() {
		return errors.Wrap(errNotValid, string(rep.Status))
	}

	return nil
}

func writeReport(w io.Writer, rep *verifier.Report, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rep)
	default:
		return fmt.Errorf("unknown output format %s", format)
	}
}
