package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random sources so shuffling and sampling stay
// reproducible for a given seed
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream derives a generator for one named pass of an operation, so
	// different passes get independent but reproducible sequences
	Stream(ctx context.Context, operation, pass string, baseSeed int64) (*rand.Rand, error)
}
