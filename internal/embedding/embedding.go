// Package embedding defines the text-embedding capability shared by the
// keyphrase and ranking components, plus the vector math used on top of it.
package embedding

import (
	"context"
	"math"
)

// Vector is a fixed-dimension embedding produced by an Encoder. Vectors are
// only ever compared via cosine similarity, never element-wise.
type Vector []float32

// Encoder turns a batch of texts into one embedding vector per text, in input
// order. Implementations must be deterministic for identical input and model.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([]Vector, error)
	Model() string
}

// Cosine returns the cosine similarity of a and b. A zero-magnitude vector
// yields 0.
func Cosine(a, b Vector) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
