package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tcfw/docverify/pkg/contracts/documentstore"
)

var (
	storeCmd = &cobra.Command{
		Use:   "store",
		Short: "Document store commands",
	}

	store_executeCmd = &cobra.Command{
		Use:   "execute",
		Short: "Call a read method on a document store",
		RunE:  runStoreExecute,
	}
)

func init() {
	store_executeCmd.Flags().String("address", "", "document store contract address")
	store_executeCmd.Flags().String("method", "", "contract method, isIssued or isRevoked")
	store_executeCmd.Flags().StringArray("arg", []string{}, "method argument. Can be used multiple times")
	store_executeCmd.MarkFlagRequired("address")
	store_executeCmd.MarkFlagRequired("method")
}

func runStoreExecute(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	address, _ := cmd.Flags().GetString("address")
	method, _ := cmd.Flags().GetString("method")
	callArgs, err := cmd.Flags().GetStringArray("arg")
	if err != nil {
		return err
	}

	e, _, err := newEngine(ctx)
	if err != nil {
		return err
	}

	call := documentstore.Call{
		ContractAddress: address,
		Method:          documentstore.Method(method),
	}
	for _, a := range callArgs {
		call.Args = append(call.Args, a)
	}

	res, err := e.Store().Execute(ctx, call)
	if err != nil {
		return err
	}

	b, err := json.Marshal(res)
	if err != nil {
		return err
	}

	fmt.Println(string(b))
	return nil
}
