package cli

import (
	"github.com/spf13/cobra"

	"github.com/tansive/restadapter/internal/adapter"
)

func (a *app) newDestroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "destroy COLLECTION ID",
		Aliases: []string{"delete"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := adapter.Query{Where: map[string]any{adapter.WhereID: args[1]}}
			rsp, err := a.adapter.Destroy(cmd.Context(), a.conn, args[0], q)
			if err != nil {
				return err
			}
			if err := a.printResult(cmd.OutOrStdout(), rsp); err != nil {
				return err
			}
			if !a.jsonOutput {
				okLabel.Fprintf(cmd.ErrOrStderr(), "deleted %s/%s\n", args[0], args[1])
			}
			return nil
		},
	}
}
