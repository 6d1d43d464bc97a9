package types

import (
	"errors"
	"time"
)

// Rating is the caller's judgement of one answered query
type Rating string

const (
	RatingGood    Rating = "good"
	RatingNoisy   Rating = "noisy"
	RatingMissing Rating = "missing"
)

// ParseRating converts a raw rating string as received from the CLI
func ParseRating(s string) (Rating, error) {
	switch Rating(s) {
	case RatingGood, RatingNoisy, RatingMissing:
		return Rating(s), nil
	default:
		return "", errors.New("rating must be one of: good, noisy, missing")
	}
}

// FeedbackRecord is one append-only feedback event. Records are never
// mutated after being written.
type FeedbackRecord struct {
	ID             string
	QueryText      string
	Intent         IntentCategory
	ComponentsUsed []string
	Rating         Rating
	CreatedAt      time.Time
}

// Validate performs comprehensive validation of the record
func (r *FeedbackRecord) Validate() error {
	if r.QueryText == "" {
		return errors.New("feedback query text is required")
	}

	intent := Intent{Category: r.Intent, Confidence: 0}
	if err := intent.ValidateCategory(); err != nil {
		return err
	}

	if _, err := ParseRating(string(r.Rating)); err != nil {
		return err
	}

	if len(r.ComponentsUsed) == 0 {
		return errors.New("feedback must name at least one component")
	}

	return nil
}
