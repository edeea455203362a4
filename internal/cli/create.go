package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type valuesOptions struct {
	data     string
	filename string
}

func (o *valuesOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.data, "data", "d", "", "Record values as JSON")
	cmd.Flags().StringVarP(&o.filename, "filename", "f", "", "YAML or JSON file with record values, one record per document")
	cmd.MarkFlagsMutuallyExclusive("data", "filename")
	cmd.MarkFlagsOneRequired("data", "filename")
}

// records returns the record values given with --data or --filename.
func (o *valuesOptions) records() ([]map[string]any, error) {
	if o.data != "" {
		var rec map[string]any
		if err := json.Unmarshal([]byte(o.data), &rec); err != nil {
			return nil, fmt.Errorf("--data must be a JSON object: %w", err)
		}
		return []map[string]any{rec}, nil
	}
	recs, err := ParseMultiYAML(o.filename)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no records found in %s", o.filename)
	}
	return recs, nil
}

func (a *app) newCreateCmd() *cobra.Command {
	opts := &valuesOptions{}
	cmd := &cobra.Command{
		Use:   "create COLLECTION (--data JSON | -f FILENAME)",
		Short: "Create records in a collection",
		Long: `Create records in a collection. A file may hold several YAML documents;
each one is created in turn and creation stops at the first failure.

Examples:
  restadapter create widgets --data '{"name":"sprocket","color":"red"}'
  restadapter create widgets -f widgets.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := opts.records()
			if err != nil {
				return err
			}
			for _, rec := range recs {
				rsp, err := a.adapter.Create(cmd.Context(), a.conn, args[0], rec)
				if err != nil {
					return err
				}
				if err := a.printResult(cmd.OutOrStdout(), rsp); err != nil {
					return err
				}
				if !a.jsonOutput && len(recs) > 1 {
					fmt.Fprintln(cmd.OutOrStdout(), "---")
				}
			}
			if !a.jsonOutput {
				okLabel.Fprintf(cmd.ErrOrStderr(), "created %d record(s) in %s\n", len(recs), args[0])
			}
			return nil
		},
	}
	opts.addFlags(cmd)
	return cmd
}
