// Package embedder wraps the external embedding model behind a small
// gateway: text in, fixed-dimension vector out.
//
// Embeddings are deterministic for identical input under a fixed model
// version, cached in an LRU keyed by content hash, and batched for
// throughput. Backend failures are retried with exponential backoff and
// surface as types.ErrEmbeddingUnavailable only after retry exhaustion.
//
// Two providers ship by default: an OpenAI HTTP provider and a local
// hash-derived provider used for development and tests.
package embedder
