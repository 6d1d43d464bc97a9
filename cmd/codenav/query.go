package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codenav/codenav/pkg/types"
)

var (
	queryLimit  int
	queryCorpus string
	queryTypes  []string
)

var queryCmd = &cobra.Command{
	Use:   "query [text...]",
	Short: "Answer a navigation question and print the report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		q := types.Query{
			Text:  strings.Join(args, " "),
			Limit: queryLimit,
		}
		if queryCorpus != "" || len(queryTypes) > 0 {
			q.Filters = &types.Filters{Corpus: types.Corpus(queryCorpus)}
			for _, t := range queryTypes {
				q.Filters.EntryTypes = append(q.Filters.EntryTypes, types.EntryType(t))
			}
		}

		result, err := eng.Answer(cmd.Context(), q)
		if err != nil {
			return err
		}

		// A composed report is a success even when it carries degraded
		// findings; only infrastructure failures exit non-zero.
		fmt.Print(result.Report)
		if result.Stale {
			fmt.Fprintln(cmd.ErrOrStderr(), "note: index is stale, run 'codenav index'")
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryLimit, "limit", types.DefaultQueryLimit, "maximum hits per corpus")
	queryCmd.Flags().StringVar(&queryCorpus, "corpus", "", "restrict to one corpus (code|document)")
	queryCmd.Flags().StringSliceVar(&queryTypes, "type", nil, "restrict to entry types (repeatable)")
}
