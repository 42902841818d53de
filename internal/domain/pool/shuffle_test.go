package pool

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func TestShuffle_PreservesElements(t *testing.T) {
	input := []string{"a", "b", "c", "d", "e", "f", "g"}

	out, err := Shuffle(testRand(1), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(input) {
		t.Fatalf("expected %d elements, got %d", len(input), len(out))
	}

	counts := map[string]int{}
	for _, v := range out {
		counts[v]++
	}
	for _, v := range input {
		if counts[v] != 1 {
			t.Fatalf("element %q appears %d times in shuffle output", v, counts[v])
		}
	}
}

func TestShuffle_EmptyInput(t *testing.T) {
	if _, err := Shuffle(testRand(1), []int{}); !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
	if _, err := Permutation(testRand(1), 0); !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence for n=0, got %v", err)
	}
}

func TestPermutation_CoversRange(t *testing.T) {
	const n = 100

	perm, err := Permutation(testRand(7), n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(perm) != n {
		t.Fatalf("expected %d values, got %d", n, len(perm))
	}

	seen := make([]bool, n)
	for _, v := range perm {
		if v < 0 || v >= n {
			t.Fatalf("value %d out of range", v)
		}
		if seen[v] {
			t.Fatalf("value %d appears twice", v)
		}
		seen[v] = true
	}
}

func TestDigitLabels_RoughlyUniform(t *testing.T) {
	const runs = 10000

	r := testRand(42)
	var counts [GridDigits][GridDigits]int
	for i := 0; i < runs; i++ {
		labels, err := DigitLabels(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for pos, digit := range labels {
			counts[pos][digit]++
		}
	}

	// Each digit should land on each position about runs/10 times.
	expected := runs / GridDigits
	tolerance := expected / 4
	for pos := 0; pos < GridDigits; pos++ {
		for digit := 0; digit < GridDigits; digit++ {
			got := counts[pos][digit]
			if got < expected-tolerance || got > expected+tolerance {
				t.Errorf("digit %d at position %d occurred %d times, expected ~%d", digit, pos, got, expected)
			}
		}
	}
}

func TestNewRand_IndependentStreams(t *testing.T) {
	a := NewRand()
	b := NewRand()

	same := true
	for i := 0; i < 10; i++ {
		if a.Uint64() != b.Uint64() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("two generators produced identical streams, seeding is broken")
	}
}
