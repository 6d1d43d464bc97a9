package types

import (
	"crypto/sha256"
	"errors"
	"time"
)

// Corpus identifies which indexed collection an entry belongs to
type Corpus string

const (
	CorpusCode     Corpus = "code"
	CorpusDocument Corpus = "document"
)

// EntryType classifies an indexed unit within its corpus
type EntryType string

const (
	EntryModuleReadme  EntryType = "module-readme"
	EntryInterfaceSpec EntryType = "interface-spec"
	EntryChangelog     EntryType = "changelog"
	EntryProtocolDoc   EntryType = "protocol-doc"
	EntrySource        EntryType = "source"
	EntryOther         EntryType = "other"
)

// Priority bounds for entry metadata
const (
	MinPriority = 1
	MaxPriority = 10
)

// Entry represents one indexed unit of text with its embedding and metadata
type Entry struct {
	// Identification
	ID     string
	Corpus Corpus

	// Content
	Text        string
	ContentHash [32]byte // SHA-256 hash for incremental re-indexing

	// Embedding is immutable once computed for a given ContentHash
	Embedding []float32

	// Metadata
	Path         string
	Type         EntryType
	Priority     int    // 1-10, higher surfaces earlier on similarity ties
	ModuleOwner  string // Nearest enclosing module root, may be empty
	LastModified time.Time
}

// ComputeContentHash computes the SHA-256 hash of the entry text
func (e *Entry) ComputeContentHash() {
	e.ContentHash = sha256.Sum256([]byte(e.Text))
}

// ValidateCorpus checks if the corpus is valid
func (e *Entry) ValidateCorpus() error {
	switch e.Corpus {
	case CorpusCode, CorpusDocument:
		return nil
	default:
		return errors.New("invalid corpus")
	}
}

// ValidateType checks if the entry type is valid
func (e *Entry) ValidateType() error {
	switch e.Type {
	case EntryModuleReadme, EntryInterfaceSpec, EntryChangelog, EntryProtocolDoc, EntrySource, EntryOther:
		return nil
	default:
		return errors.New("invalid entry type")
	}
}

// Validate performs comprehensive validation of the entry
func (e *Entry) Validate() error {
	if e.ID == "" {
		return errors.New("entry ID is required")
	}

	if e.Text == "" {
		return errors.New("entry text cannot be empty")
	}

	if err := e.ValidateCorpus(); err != nil {
		return err
	}

	if err := e.ValidateType(); err != nil {
		return err
	}

	if e.Priority < MinPriority || e.Priority > MaxPriority {
		return errors.New("priority must be between 1 and 10")
	}

	var zeroHash [32]byte
	if e.ContentHash == zeroHash {
		return errors.New("content hash must be computed")
	}

	return nil
}

// ScoredEntry pairs an entry with its bounded similarity score
type ScoredEntry struct {
	Entry      Entry
	Similarity float64 // [0, 1], higher is more similar
}

// SearchResults contains per-corpus hits for one query
type SearchResults struct {
	CodeHits []ScoredEntry
	DocHits  []ScoredEntry

	// Stale indicates the index's last build is older than the configured
	// staleness window. Results are still best-effort valid.
	Stale bool
}
