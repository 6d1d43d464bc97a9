package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyText         = errors.New("text cannot be empty")
	ErrBatchTooLarge     = errors.New("batch size exceeds limit")
	ErrUnsupportedModel  = errors.New("unsupported model")
	ErrNoProviderEnabled = errors.New("no embedding provider configured")
)

// Embedding represents a vector embedding with metadata
type Embedding struct {
	Vector    []float32
	Dimension int
	Provider  string
	Model     string
	Hash      string // Content hash for caching
}

// Request represents a request to embed a single text
type Request struct {
	Text  string
	Model string // Optional: override default model
}

// BatchRequest represents a batch embedding request
type BatchRequest struct {
	Texts []string
	Model string // Optional: override default model
}

// BatchResponse represents a batch embedding response
type BatchResponse struct {
	Embeddings []*Embedding
	Provider   string
	Model      string
}

// Embedder is the gateway to the external embedding model.
//
// Implementations must be deterministic for identical input under a fixed
// model version. Backend failures surface as types.ErrEmbeddingUnavailable
// after retry exhaustion.
type Embedder interface {
	// Embed generates a single embedding for the given text
	Embed(ctx context.Context, req Request) (*Embedding, error)

	// EmbedBatch generates embeddings for multiple texts efficiently
	EmbedBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error)

	// Dimension returns the embedding dimension for this provider
	Dimension() int

	// Provider returns the provider name
	Provider() string

	// Model returns the model name
	Model() string

	// Close releases any resources held by the embedder
	Close() error
}

// Cache provides in-memory LRU caching of embeddings by content hash
type Cache struct {
	cache *lru.Cache[string, *Embedding]
}

// NewCache creates a new embedding cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000
	}
	cache, err := lru.New[string, *Embedding](maxLen)
	if err != nil {
		// Should never happen with positive size, but fall back to default
		cache, _ = lru.New[string, *Embedding](10000)
	}
	return &Cache{cache: cache}
}

// Get retrieves a deep copy of an embedding from cache.
// Returns a copy to prevent caller mutations from affecting cached values.
func (c *Cache) Get(hash string) (*Embedding, bool) {
	emb, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}

	vectorCopy := make([]float32, len(emb.Vector))
	copy(vectorCopy, emb.Vector)

	return &Embedding{
		Vector:    vectorCopy,
		Dimension: emb.Dimension,
		Provider:  emb.Provider,
		Model:     emb.Model,
		Hash:      emb.Hash,
	}, true
}

// Set stores an embedding in cache with automatic LRU eviction
func (c *Cache) Set(hash string, emb *Embedding) {
	c.cache.Add(hash, emb)
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.cache.Purge()
}

// ComputeHash computes SHA-256 hash of text for caching
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// ValidateRequest validates an embedding request
func ValidateRequest(req Request) error {
	if req.Text == "" {
		return ErrEmptyText
	}
	return nil
}

// ValidateBatchRequest validates a batch embedding request
func ValidateBatchRequest(req BatchRequest) error {
	if len(req.Texts) == 0 {
		return fmt.Errorf("%w: no texts provided", ErrInvalidInput)
	}

	for i, text := range req.Texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d is empty", ErrInvalidInput, i)
		}
	}

	return nil
}
