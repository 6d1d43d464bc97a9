package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report entry counts and index freshness",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		status, err := eng.GetStatus(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("code entries: %d\n", status.CodeEntries)
		fmt.Printf("doc entries:  %d\n", status.DocEntries)
		if status.LastBuild.IsZero() {
			fmt.Println("last build:   never")
		} else {
			fmt.Printf("last build:   %s\n", status.LastBuild.Format("2006-01-02T15:04:05Z07:00"))
		}
		fmt.Printf("index stale:  %v\n", status.IndexStale)
		fmt.Printf("embedder:     %s (%s)\n", status.EmbedProvider, status.EmbedModel)
		fmt.Printf("weight cells: %d\n", status.WeightCells)
		return nil
	},
}
