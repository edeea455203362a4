package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tansive/restadapter/internal/adapter"
)

func (a *app) newUpdateCmd() *cobra.Command {
	opts := &valuesOptions{}
	cmd := &cobra.Command{
		Use:   "update COLLECTION ID (--data JSON | -f FILENAME)",
		Short: "Update a record",
		Long: `Update a record with the connection's update method (PUT unless the
connection sets update_method).

Examples:
  restadapter update widgets 42 --data '{"color":"blue"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := opts.records()
			if err != nil {
				return err
			}
			if len(recs) != 1 {
				return fmt.Errorf("update takes exactly one record, got %d", len(recs))
			}
			q := adapter.Query{Where: map[string]any{adapter.WhereID: args[1]}}
			rsp, err := a.adapter.Update(cmd.Context(), a.conn, args[0], q, recs[0])
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), rsp)
		},
	}
	opts.addFlags(cmd)
	return cmd
}
