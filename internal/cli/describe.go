package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func (a *app) newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe COLLECTION",
		Short: "Show the resource URL and request settings of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rsp, err := a.adapter.Describe(cmd.Context(), a.conn, args[0])
			if err != nil {
				return err
			}
			return a.printResult(cmd.OutOrStdout(), rsp)
		},
	}
}

func (a *app) newCollectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List configured connections and their collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.adapter.Registry()
			listing := map[string]map[string]string{}
			for _, id := range reg.Identities() {
				entry, ok := reg.Get(id)
				if !ok {
					continue
				}
				cols := map[string]string{}
				for _, name := range entry.Collections() {
					cols[name], _ = entry.ResourceURL(name)
				}
				listing[id] = cols
			}
			if a.jsonOutput {
				printJSON(cmd.OutOrStdout(), listing)
				return nil
			}
			printCollections(cmd.OutOrStdout(), reg.Identities(), listing, a.conn)
			return nil
		},
	}
}

// printCollections prints one row per collection, marking the connection
// commands run against.
func printCollections(w io.Writer, ids []string, listing map[string]map[string]string, current string) {
	title := cases.Title(language.English)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\n", title.String("connection"), title.String("collection"), title.String("resource url"))
	for _, id := range ids {
		marker := " "
		if id == current {
			marker = "*"
		}
		names := make([]string, 0, len(listing[id]))
		for name := range listing[id] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(tw, "%s %s\t%s\t%s\n", marker, id, name, listing[id][name])
		}
	}
	tw.Flush()
}
