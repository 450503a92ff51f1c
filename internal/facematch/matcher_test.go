package facematch

import (
	"errors"
	"math"
	"testing"
)

func TestMatch_EmptyKnownSet(t *testing.T) {
	res, err := Match(nil, Embedding{1, 2, 3}, DefaultThreshold)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Index != -1 || res.Matched {
		t.Fatalf("empty set should yield Index=-1, unmatched; got %+v", res)
	}
}

func TestMatch_ExactDuplicate(t *testing.T) {
	known := []Embedding{{0.1, 0.2, 0.3}, {0.9, 0.9, 0.9}}
	res, err := Match(known, Embedding{0.1, 0.2, 0.3}, DefaultThreshold)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !res.Matched || res.Index != 0 {
		t.Fatalf("exact duplicate should match index 0; got %+v", res)
	}
	if res.Distance != 0 {
		t.Fatalf("Distance = %v, want 0", res.Distance)
	}
}

func TestMatch_ThresholdIsStrict(t *testing.T) {
	// One-dimensional vectors make the distance trivially exact.
	known := []Embedding{{0.45}}
	candidate := Embedding{0}

	res, err := Match(known, candidate, 0.45)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Matched {
		t.Fatalf("distance exactly at threshold must not match; got %+v", res)
	}

	res, err = Match([]Embedding{{0.449999}}, candidate, 0.45)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !res.Matched {
		t.Fatalf("distance just under threshold should match; got %+v", res)
	}
}

func TestMatch_TieBreaksOnFirstOccurrence(t *testing.T) {
	known := []Embedding{{1, 0}, {1, 0}, {0.5, 0}}
	res, err := Match(known, Embedding{1, 0}, DefaultThreshold)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Index != 0 {
		t.Fatalf("tie should resolve to first occurrence; got index %d", res.Index)
	}
}

func TestMatch_DimensionMismatch(t *testing.T) {
	known := []Embedding{{1, 2, 3}, {1, 2}}
	_, err := Match(known, Embedding{1, 2, 3}, DefaultThreshold)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("error = %v, want ErrDimensionMismatch", err)
	}
}

func TestMatch_ZeroThresholdUsesDefault(t *testing.T) {
	res, err := Match([]Embedding{{0.4}}, Embedding{0}, 0)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !res.Matched {
		t.Fatalf("distance 0.4 under default threshold 0.45 should match; got %+v", res)
	}
}

func TestDistance(t *testing.T) {
	d := Distance(Embedding{0, 0}, Embedding{3, 4})
	if d != 5 {
		t.Fatalf("Distance = %v, want 5", d)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	in := make(Embedding, EmbeddingDim)
	for i := range in {
		in[i] = math.Sin(float64(i)) * 0.5
	}
	blob := Encode(in)
	if len(blob) != 8*EmbeddingDim {
		t.Fatalf("blob size = %d, want %d", len(blob), 8*EmbeddingDim)
	}
	out, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("decoded length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("value %d changed: %v vs %v", i, in[i], out[i])
		}
	}
}

func TestDecode_TruncatedBlob(t *testing.T) {
	if _, err := Decode(make([]byte, 13)); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("error = %v, want ErrDimensionMismatch", err)
	}
}
