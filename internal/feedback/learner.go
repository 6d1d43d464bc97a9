package feedback

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codenav/codenav/internal/store"
	"github.com/codenav/codenav/pkg/types"
)

// DefaultWeight applies to any (intent, component) pair without feedback
const DefaultWeight = 1.0

// Config tunes the weight update rule
type Config struct {
	DeltaGood  float64
	DeltaNoisy float64
	WeightCap  float64
}

// Learner records feedback and maintains the learned routing weights.
// The feedback log is the source of truth; the weight table is a derived
// view that Rebuild can reconstruct from the log at any time.
type Learner struct {
	cfg         Config
	logPath     string
	suggestPath string

	db *sql.DB

	mu      sync.RWMutex
	weights map[weightKey]float64
}

type weightKey struct {
	intent    types.IntentCategory
	component string
}

// New opens the learner over the weight database and log files
func New(cfg Config, weightsPath, logPath, suggestPath string) (*Learner, error) {
	db, err := sql.Open(store.DriverName, weightsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open weights db: %v", types.ErrStoreUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: set busy timeout: %v", types.ErrStoreUnavailable, err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS weights (
			intent    TEXT NOT NULL,
			component TEXT NOT NULL,
			weight    REAL NOT NULL,
			PRIMARY KEY (intent, component)
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create weights table: %v", types.ErrStoreUnavailable, err)
	}

	l := &Learner{
		cfg:         cfg,
		logPath:     logPath,
		suggestPath: suggestPath,
		db:          db,
		weights:     make(map[weightKey]float64),
	}
	if err := l.loadWeights(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Close releases the weight database
func (l *Learner) Close() error {
	return l.db.Close()
}

// Weight returns the learned weight for an (intent, component) pair,
// defaulting to 1.0 when no feedback has been recorded. Implements the
// router's weight source.
func (l *Learner) Weight(category types.IntentCategory, component string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if w, ok := l.weights[weightKey{category, component}]; ok {
		return w
	}
	return DefaultWeight
}

// Cells returns the number of learned (intent, component) weight cells
func (l *Learner) Cells() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.weights)
}

// Record validates and logs one feedback event, then applies its weight
// update. The log append happens before the weight change so a crash
// between the two can always be repaired by Rebuild.
func (l *Learner) Record(ctx context.Context, rec types.FeedbackRecord) (types.FeedbackRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := rec.Validate(); err != nil {
		return rec, err
	}

	if err := appendRecord(l.logPath, rec); err != nil {
		return rec, err
	}

	if err := l.apply(rec); err != nil {
		return rec, err
	}
	return rec, nil
}

// apply performs the weight update (or suggestion append) for one record
func (l *Learner) apply(rec types.FeedbackRecord) error {
	switch rec.Rating {
	case types.RatingGood:
		return l.adjust(rec, l.cfg.DeltaGood)
	case types.RatingNoisy:
		return l.adjust(rec, -l.cfg.DeltaNoisy)
	case types.RatingMissing:
		// MISSING never changes weights; it feeds the coverage backlog
		return appendSuggestion(l.suggestPath, rec)
	default:
		return fmt.Errorf("unknown rating %q", rec.Rating)
	}
}

// adjust shifts the weight of every component the answer used, clamped
// to [0, cap]
func (l *Learner) adjust(rec types.FeedbackRecord, delta float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin weights tx: %v", types.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	updated := make(map[weightKey]float64, len(rec.ComponentsUsed))
	for _, component := range rec.ComponentsUsed {
		key := weightKey{rec.Intent, component}
		w, ok := l.weights[key]
		if !ok {
			w = DefaultWeight
		}
		w = clamp(w+delta, 0, l.cfg.WeightCap)

		if _, err := tx.Exec(`
			INSERT INTO weights (intent, component, weight) VALUES (?, ?, ?)
			ON CONFLICT (intent, component) DO UPDATE SET weight = excluded.weight`,
			string(rec.Intent), component, w); err != nil {
			return fmt.Errorf("%w: update weight: %v", types.ErrStoreUnavailable, err)
		}
		updated[key] = w
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit weights: %v", types.ErrStoreUnavailable, err)
	}
	for key, w := range updated {
		l.weights[key] = w
	}
	return nil
}

// Rebuild reconstructs the weight table by replaying the feedback log
// from the beginning. Safe to call on a corrupt or deleted weight table.
func (l *Learner) Rebuild(ctx context.Context) error {
	records, err := readLog(l.logPath)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.weights = make(map[weightKey]float64)
	l.mu.Unlock()

	if _, err := l.db.Exec(`DELETE FROM weights`); err != nil {
		return fmt.Errorf("%w: clear weights: %v", types.ErrStoreUnavailable, err)
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rec.Rating == types.RatingMissing {
			continue // suggestions were already logged at record time
		}
		if err := l.apply(rec); err != nil {
			return err
		}
	}
	return nil
}

// loadWeights hydrates the in-memory view from the weight table
func (l *Learner) loadWeights() error {
	rows, err := l.db.Query(`SELECT intent, component, weight FROM weights`)
	if err != nil {
		return fmt.Errorf("%w: load weights: %v", types.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var intent, component string
		var w float64
		if err := rows.Scan(&intent, &component, &w); err != nil {
			return fmt.Errorf("%w: scan weight: %v", types.ErrStoreUnavailable, err)
		}
		l.weights[weightKey{types.IntentCategory(intent), component}] = w
	}
	return rows.Err()
}

// appendSuggestion adds one line to the coverage suggestion log
func appendSuggestion(path string, rec types.FeedbackRecord) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open suggestion log: %v", types.ErrStoreUnavailable, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\n", rec.CreatedAt.Format(time.RFC3339), rec.Intent, rec.QueryText)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("%w: write suggestion log: %v", types.ErrStoreUnavailable, err)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
