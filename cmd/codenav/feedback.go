package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codenav/codenav/pkg/types"
)

var (
	feedbackRating     string
	feedbackIntent     string
	feedbackComponents []string
	feedbackRebuild    bool
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [query text...]",
	Short: "Rate a previous answer to tune future routing",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		defer eng.Close()

		if feedbackRebuild {
			if err := eng.RebuildWeights(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("weights rebuilt from feedback log")
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("query text is required")
		}
		rating, err := types.ParseRating(feedbackRating)
		if err != nil {
			return err
		}

		rec := types.FeedbackRecord{
			QueryText:      strings.Join(args, " "),
			Intent:         types.IntentCategory(feedbackIntent),
			ComponentsUsed: feedbackComponents,
			Rating:         rating,
		}
		saved, err := eng.RecordFeedback(cmd.Context(), rec)
		if err != nil {
			return err
		}

		fmt.Printf("recorded %s feedback %s\n", saved.Rating, saved.ID)
		return nil
	},
}

func init() {
	feedbackCmd.Flags().StringVar(&feedbackRating, "rating", "", "rating: good, noisy, or missing")
	feedbackCmd.Flags().StringVar(&feedbackIntent, "intent", string(types.IntentGeneral), "intent category the answer was routed under")
	feedbackCmd.Flags().StringSliceVar(&feedbackComponents, "component", nil, "component that contributed (repeatable)")
	feedbackCmd.Flags().BoolVar(&feedbackRebuild, "rebuild", false, "rebuild the weight table from the feedback log")
}
