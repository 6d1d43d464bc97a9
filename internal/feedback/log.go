package feedback

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/codenav/codenav/pkg/types"
)

// logEntry is the JSONL representation of one feedback record
type logEntry struct {
	ID             string   `json:"id"`
	QueryText      string   `json:"query_text"`
	Intent         string   `json:"intent"`
	ComponentsUsed []string `json:"components_used"`
	Rating         string   `json:"rating"`
	CreatedAt      string   `json:"created_at"`
}

// appendRecord appends one record to the feedback log and flushes it to
// disk before returning. The log is append-only; existing lines are never
// rewritten.
func appendRecord(path string, rec types.FeedbackRecord) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open feedback log: %v", types.ErrStoreUnavailable, err)
	}
	defer f.Close()

	line, err := json.Marshal(logEntry{
		ID:             rec.ID,
		QueryText:      rec.QueryText,
		Intent:         string(rec.Intent),
		ComponentsUsed: rec.ComponentsUsed,
		Rating:         string(rec.Rating),
		CreatedAt:      rec.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal feedback record: %w", err)
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("%w: append feedback log: %v", types.ErrStoreUnavailable, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync feedback log: %v", types.ErrStoreUnavailable, err)
	}
	return nil
}

// readLog loads every record from the feedback log in append order.
// A missing log file yields an empty history, not an error.
func readLog(path string) ([]types.FeedbackRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open feedback log: %v", types.ErrStoreUnavailable, err)
	}
	defer f.Close()

	var records []types.FeedbackRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e logEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("corrupt feedback log line: %w", err)
		}
		created, err := time.Parse(time.RFC3339Nano, e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt feedback timestamp: %w", err)
		}
		records = append(records, types.FeedbackRecord{
			ID:             e.ID,
			QueryText:      e.QueryText,
			Intent:         types.IntentCategory(e.Intent),
			ComponentsUsed: e.ComponentsUsed,
			Rating:         types.Rating(e.Rating),
			CreatedAt:      created,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read feedback log: %v", types.ErrStoreUnavailable, err)
	}
	return records, nil
}
