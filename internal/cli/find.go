package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/tansive/restadapter/internal/adapter"
)

type findOptions struct {
	id    string
	where []string
	skip  int
	limit int
	page  string
}

func (a *app) newFindCmd() *cobra.Command {
	opts := &findOptions{}
	cmd := &cobra.Command{
		Use:   "find COLLECTION [flags]",
		Short: "Find records in a collection",
		Long: `Find records in a collection. With --id a single record is fetched;
otherwise a page of records is listed. The page sent to the API is --page
when given, and --skip divided by --limit otherwise.

Filter values are sent as query parameters. Values that parse as JSON
(numbers, booleans, arrays, objects) keep their type.

Examples:
  # Fetch record 42
  restadapter find widgets --id 42

  # Third page of red, large widgets, 10 per page
  restadapter find widgets --where color=red --where size=L --skip 20 --limit 10

  # Explicit page
  restadapter find widgets --page 3 -j`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			rsp, err := a.adapter.Find(cmd.Context(), a.conn, args[0], q)
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), rsp)
		},
	}
	cmd.Flags().StringVar(&opts.id, "id", "", "Id of the record to fetch")
	cmd.Flags().StringArrayVarP(&opts.where, "where", "w", nil, "Filter as field=value (repeatable)")
	cmd.Flags().IntVar(&opts.skip, "skip", 0, "Number of records to skip")
	cmd.Flags().IntVar(&opts.limit, "limit", 30, "Number of records per page")
	cmd.Flags().StringVar(&opts.page, "page", "", "Page to fetch, overrides --skip and --limit")
	return cmd
}

func (o *findOptions) query() (adapter.Query, error) {
	where, err := parseWhere(o.where)
	if err != nil {
		return adapter.Query{}, err
	}
	if o.id != "" {
		where[adapter.WhereID] = o.id
	}
	if o.page != "" {
		where[adapter.WherePage] = o.page
	}
	return adapter.Query{Where: where, Skip: o.skip, Limit: o.limit}, nil
}

// parseWhere turns field=value pairs into a filter map.
func parseWhere(pairs []string) (map[string]any, error) {
	where := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid filter %q, expected field=value", p)
		}
		where[k] = parseValue(v)
	}
	return where, nil
}

// parseValue keeps JSON scalars and structures typed and treats anything
// else as a string.
func parseValue(v string) any {
	if v != "" && gjson.Valid(v) {
		return gjson.Parse(v).Value()
	}
	return v
}
