package store

import (
	"encoding/binary"
	"math"
	"sort"
)

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}

// cosineSimilarity computes the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// cosineDistance converts similarity to a non-negative distance.
// 0 = identical, 2 = opposite.
func cosineDistance(a, b []float32) float64 {
	return 1 - cosineSimilarity(a, b)
}

// candidate represents an entry row with its distance from the query vector
type candidate struct {
	scored Scored
}

// sortCandidates orders candidates ascending by distance with a stable
// tie-break on entry ID for deterministic results
func sortCandidates(candidates []candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].scored.Distance == candidates[j].scored.Distance {
			return candidates[i].scored.Entry.ID < candidates[j].scored.Entry.ID
		}
		return candidates[i].scored.Distance < candidates[j].scored.Distance
	})
}

// SerializeVector is an exported helper for testing
func SerializeVector(vector []float32) []byte {
	return serializeVector(vector)
}

// DeserializeVector is an exported helper for testing
func DeserializeVector(blob []byte) []float32 {
	return deserializeVector(blob)
}

// CosineSimilarity is an exported helper for testing
func CosineSimilarity(a, b []float32) float64 {
	return cosineSimilarity(a, b)
}
