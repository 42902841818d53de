package pool

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand/v2"
)

var ErrEmptySequence = errors.New("cannot shuffle an empty sequence")

// GridDigits is the number of distinct digit labels per axis.
const GridDigits = 10

// Shuffle returns a new slice holding the elements of values in uniformly
// random order, using the Fisher-Yates algorithm: every one of the n!
// orderings is equally likely given an unbiased source. The input is not
// mutated.
func Shuffle[T any](r *rand.Rand, values []T) ([]T, error) {
	if len(values) == 0 {
		return nil, ErrEmptySequence
	}

	out := make([]T, len(values))
	copy(out, values)
	for i := len(out) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Permutation returns a uniformly random permutation of 0..n-1.
func Permutation(r *rand.Rand, n int) ([]int, error) {
	if n <= 0 {
		return nil, ErrEmptySequence
	}

	values := make([]int, n)
	for i := range values {
		values[i] = i
	}
	return Shuffle(r, values)
}

// DigitLabels returns a random ordering of the digits 0..9, used for one
// axis of the grid.
func DigitLabels(r *rand.Rand) ([]int, error) {
	return Permutation(r, GridDigits)
}

// NewRand builds a PCG generator seeded from the OS entropy source. The
// shuffle is a fairness mechanic, not a secret, so a statistically sound
// PRNG with an unpredictable seed is all that is required.
func NewRand() *rand.Rand {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// runtime-seeded generator rather than panicking mid-assignment.
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}
