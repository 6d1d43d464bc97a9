package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Run one incremental indexing pass over the configured roots",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		stats, err := eng.Index(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("files seen:      %d\n", stats.FilesSeen)
		fmt.Printf("entries written: %d\n", stats.EntriesWritten)
		fmt.Printf("entries skipped: %d\n", stats.EntriesSkipped)
		fmt.Printf("entries removed: %d\n", stats.EntriesRemoved)
		fmt.Printf("entries failed:  %d\n", stats.EntriesFailed)
		fmt.Printf("duration:        %s\n", stats.Duration.Round(time.Millisecond))

		for _, msg := range stats.ErrorMessages {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
		}
		return nil
	},
}
