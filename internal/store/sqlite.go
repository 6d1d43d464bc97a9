package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/codenav/codenav/pkg/types"
)

// SQLite implements the Store interface using SQLite
type SQLite struct {
	db *sql.DB

	// Single-writer discipline: WAL mode lets readers proceed while a write
	// transaction is open, so queries never wait on an indexing pass.
	writeMu sync.Mutex
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode so readers are never blocked by the indexing writer
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLite creates a new SQLite store instance
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreUnavailable, err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", types.ErrStoreUnavailable, err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Upsert writes entries whose content hash changed since the last pass.
// Re-running with identical content produces zero writes.
func (s *SQLite) Upsert(ctx context.Context, entries []types.Entry) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin upsert: %v", types.ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	written := 0
	for i := range entries {
		e := &entries[i]
		if err := e.Validate(); err != nil {
			return written, fmt.Errorf("invalid entry %s: %w", e.ID, err)
		}

		// Skip entries whose stored hash matches (idempotent re-indexing)
		var existingHash []byte
		err := tx.QueryRowContext(ctx,
			"SELECT content_hash FROM entries WHERE corpus = ? AND id = ?",
			string(e.Corpus), e.ID).Scan(&existingHash)
		switch {
		case err == sql.ErrNoRows:
			// New entry, fall through to insert
		case err != nil:
			return written, fmt.Errorf("%w: check entry %s: %v", types.ErrStoreUnavailable, e.ID, err)
		default:
			if len(existingHash) == 32 && [32]byte(existingHash) == e.ContentHash {
				continue
			}
		}

		now := time.Now()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO entries (corpus, id, text, content_hash, embedding, dimension,
			                     path, entry_type, priority, module_owner, last_modified, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(corpus, id) DO UPDATE SET
				text = excluded.text,
				content_hash = excluded.content_hash,
				embedding = excluded.embedding,
				dimension = excluded.dimension,
				path = excluded.path,
				entry_type = excluded.entry_type,
				priority = excluded.priority,
				module_owner = excluded.module_owner,
				last_modified = excluded.last_modified,
				updated_at = excluded.updated_at
		`, string(e.Corpus), e.ID, e.Text, e.ContentHash[:], serializeVector(e.Embedding), len(e.Embedding),
			e.Path, string(e.Type), e.Priority, e.ModuleOwner, e.LastModified, now, now)
		if err != nil {
			return written, fmt.Errorf("%w: upsert entry %s: %v", types.ErrStoreUnavailable, e.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return written, fmt.Errorf("%w: commit upsert: %v", types.ErrStoreUnavailable, err)
	}

	return written, nil
}

// GetEntry retrieves a single entry by corpus and ID
func (s *SQLite) GetEntry(ctx context.Context, corpus types.Corpus, id string) (*types.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT corpus, id, text, content_hash, embedding, path, entry_type, priority, module_owner, last_modified
		FROM entries WHERE corpus = ? AND id = ?
	`, string(corpus), id)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get entry %s: %v", types.ErrStoreUnavailable, id, err)
	}
	return entry, nil
}

// Delete removes entries by ID within a corpus
func (s *SQLite) Delete(ctx context.Context, corpus types.Corpus, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin delete: %v", types.ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM entries WHERE corpus = ? AND id = ?", string(corpus), id); err != nil {
			return fmt.Errorf("%w: delete entry %s: %v", types.ErrStoreUnavailable, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit delete: %v", types.ErrStoreUnavailable, err)
	}
	return nil
}

// ListIDs returns all entry IDs in a corpus
func (s *SQLite) ListIDs(ctx context.Context, corpus types.Corpus) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM entries WHERE corpus = ? ORDER BY id", string(corpus))
	if err != nil {
		return nil, fmt.Errorf("%w: list ids: %v", types.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan id: %v", types.ErrStoreUnavailable, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountEntries returns the number of entries in a corpus
func (s *SQLite) CountEntries(ctx context.Context, corpus types.Corpus) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM entries WHERE corpus = ?", string(corpus)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count entries: %v", types.ErrStoreUnavailable, err)
	}
	return count, nil
}

// Query returns the k nearest entries in a corpus ordered ascending by
// distance. Filters are applied before truncation to k.
func (s *SQLite) Query(ctx context.Context, corpus types.Corpus, vector []float32, k int, filters *types.Filters) ([]Scored, error) {
	if k <= 0 {
		return []Scored{}, nil
	}

	query := `
		SELECT corpus, id, text, content_hash, embedding, path, entry_type, priority, module_owner, last_modified
		FROM entries WHERE corpus = ?
	`
	args := []interface{}{string(corpus)}

	// Push entry-type filters into SQL; corpus filter is implicit
	if filters != nil && len(filters.EntryTypes) > 0 {
		query += " AND entry_type IN ("
		for i, t := range filters.EntryTypes {
			if i > 0 {
				query += ","
			}
			query += "?"
			args = append(args, string(t))
		}
		query += ")"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: vector query: %v", types.ErrStoreUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	candidates := make([]candidate, 0, 256)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan entry: %v", types.ErrStoreUnavailable, err)
		}

		if len(entry.Embedding) != len(vector) {
			continue // Dimension mismatch, skip
		}

		candidates = append(candidates, candidate{scored: Scored{
			Entry:    *entry,
			Distance: cosineDistance(vector, entry.Embedding),
		}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entries: %v", types.ErrStoreUnavailable, err)
	}

	sortCandidates(candidates)

	if k > len(candidates) {
		k = len(candidates)
	}
	results := make([]Scored, k)
	for i := 0; i < k; i++ {
		results[i] = candidates[i].scored
	}
	return results, nil
}

// LastBuildTime returns the timestamp of the last completed indexing pass
func (s *SQLite) LastBuildTime(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", MetaLastBuild).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: read meta: %v", types.ErrStoreUnavailable, err)
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid last build timestamp %q: %w", value, err)
	}
	return t, nil
}

// SetLastBuildTime records the completion time of an indexing pass
func (s *SQLite) SetLastBuildTime(ctx context.Context, t time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, MetaLastBuild, t.Format(time.RFC3339Nano), time.Now())
	if err != nil {
		return fmt.Errorf("%w: write meta: %v", types.ErrStoreUnavailable, err)
	}
	return nil
}

// rowScanner is implemented by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEntry reads one entry row
func scanEntry(row rowScanner) (*types.Entry, error) {
	var entry types.Entry
	var corpus, entryType string
	var hash, embedding []byte
	var moduleOwner sql.NullString
	var lastModified sql.NullTime

	err := row.Scan(&corpus, &entry.ID, &entry.Text, &hash, &embedding,
		&entry.Path, &entryType, &entry.Priority, &moduleOwner, &lastModified)
	if err != nil {
		return nil, err
	}

	entry.Corpus = types.Corpus(corpus)
	entry.Type = types.EntryType(entryType)
	if len(hash) == 32 {
		copy(entry.ContentHash[:], hash)
	}
	entry.Embedding = deserializeVector(embedding)
	if moduleOwner.Valid {
		entry.ModuleOwner = moduleOwner.String
	}
	if lastModified.Valid {
		entry.LastModified = lastModified.Time
	}
	return &entry, nil
}
