package types

import (
	"fmt"
	"strings"
)

// Query limits
const (
	DefaultQueryLimit = 5
	MaxQueryLimit     = 50
	MaxQueryLength    = 2048
)

// Filters constrains which entries a query may return
type Filters struct {
	// EntryTypes restricts results to the given types. Empty = no restriction.
	EntryTypes []EntryType

	// Corpus restricts results to a single corpus. Empty = both.
	Corpus Corpus
}

// Matches reports whether an entry passes the filter constraints
func (f *Filters) Matches(e *Entry) bool {
	if f == nil {
		return true
	}

	if f.Corpus != "" && e.Corpus != f.Corpus {
		return false
	}

	if len(f.EntryTypes) > 0 {
		found := false
		for _, t := range f.EntryTypes {
			if e.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Query represents one navigation request
type Query struct {
	Text    string
	Filters *Filters
	Limit   int // Maximum results per corpus
}

// Normalize applies defaults and clamps the result limit
func (q *Query) Normalize() {
	if q.Limit <= 0 {
		q.Limit = DefaultQueryLimit
	}
	if q.Limit > MaxQueryLimit {
		q.Limit = MaxQueryLimit
	}
}

// Validate rejects empty or over-length query text before any processing
func (q *Query) Validate() error {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return fmt.Errorf("%w: empty query text", ErrMalformedQuery)
	}
	if len(q.Text) > MaxQueryLength {
		return fmt.Errorf("%w: query exceeds %d characters", ErrMalformedQuery, MaxQueryLength)
	}
	return nil
}
