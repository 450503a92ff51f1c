// Package facematch implements nearest-neighbor face matching over fixed
// length embedding vectors, plus the raw byte codec used to persist them.
// It is intentionally small and dependency-free, engineered with the same
// ergonomics as the rest of the backend's pure libraries:
//
//   - No logging in the library (callers decide how/what to log)
//   - No I/O and no internal state (safe for concurrent use)
//   - Deterministic results (first occurrence wins on distance ties)
//
// Two embeddings of the same identity are expected to lie close together
// under Euclidean distance; a candidate "matches" a known embedding iff
// their distance is strictly below the configured threshold.
package facematch

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// DefaultThreshold is the maximum Euclidean distance at which two
// embeddings are still considered the same person. 0.45 is deliberately
// stricter than the face-encoding library's usual 0.6 default.
const DefaultThreshold = 0.45

// EmbeddingDim is the dimensionality produced by the face encoder.
const EmbeddingDim = 128

// ErrDimensionMismatch is returned when embeddings of different lengths
// would be compared, or when a byte blob is not a whole number of float64s.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Embedding is a fixed-length facial descriptor vector.
type Embedding []float64

// Result is the outcome of matching one candidate against a set of known
// embeddings.
type Result struct {
	// Index is the position of the nearest known embedding, or -1 when the
	// known set is empty.
	Index int
	// Distance is the Euclidean distance to the nearest known embedding.
	// Meaningless when Index is -1.
	Distance float64
	// Matched reports whether the nearest distance is strictly below the
	// threshold. An unmatched candidate is a valid outcome ("unknown
	// face"), distinct from the input-rejected "no face detected" case
	// handled upstream.
	Matched bool
}

// Match compares candidate against every known embedding and returns the
// nearest neighbor verdict. An empty known set yields {Index: -1} without
// computing any distances. threshold <= 0 falls back to DefaultThreshold.
//
// All known embeddings must have the same dimensionality as the candidate;
// a mismatch is an error rather than a silent skip.
func Match(known []Embedding, candidate Embedding, threshold float64) (Result, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if len(known) == 0 {
		return Result{Index: -1}, nil
	}

	bestIdx := -1
	bestDist := math.Inf(1)
	for i, k := range known {
		if len(k) != len(candidate) {
			return Result{}, fmt.Errorf("known[%d] has %d dims, candidate has %d: %w",
				i, len(k), len(candidate), ErrDimensionMismatch)
		}
		// Strict < keeps the first occurrence on exact ties.
		if d := Distance(k, candidate); d < bestDist {
			bestIdx, bestDist = i, d
		}
	}

	return Result{
		Index:    bestIdx,
		Distance: bestDist,
		Matched:  bestDist < threshold,
	}, nil
}

// Distance returns the Euclidean distance between two equal-length vectors.
func Distance(a, b Embedding) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Encode serializes an embedding as little-endian float64 bytes
// (8 bytes per dimension), the layout shared with the face encoder.
func Encode(e Embedding) []byte {
	buf := make([]byte, 8*len(e))
	for i, v := range e {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// Decode deserializes raw little-endian float64 bytes back into an
// embedding. A blob whose length is not a multiple of 8 is corrupt.
func Decode(b []byte) (Embedding, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("blob of %d bytes is not a float64 array: %w",
			len(b), ErrDimensionMismatch)
	}
	e := make(Embedding, len(b)/8)
	for i := range e {
		e[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return e, nil
}
