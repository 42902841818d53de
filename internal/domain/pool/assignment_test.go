package pool

import (
	"errors"
	"fmt"
	"testing"
)

func gridSquareIDs(n int) []string {
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, fmt.Sprintf("sq-%03d", i))
	}
	return ids
}

func TestBuildGridAssignment_Bijection(t *testing.T) {
	got, err := BuildGridAssignment(testRand(3), gridSquareIDs(GridSize))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Squares) != GridSize {
		t.Fatalf("expected %d assignments, got %d", GridSize, len(got.Squares))
	}

	positions := map[int]struct{}{}
	pairs := map[[2]int]struct{}{}
	for _, a := range got.Squares {
		positions[a.GridPosition] = struct{}{}
		pairs[[2]int{a.WinningTeamNumber, a.LosingTeamNumber}] = struct{}{}
	}
	if len(positions) != GridSize {
		t.Fatalf("expected %d distinct grid positions, got %d", GridSize, len(positions))
	}
	if len(pairs) != GridSize {
		t.Fatalf("expected %d distinct digit pairs, got %d", GridSize, len(pairs))
	}
}

func TestBuildGridAssignment_LabelsArePermutations(t *testing.T) {
	got, err := BuildGridAssignment(testRand(11), gridSquareIDs(GridSize))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, labels := range map[string][]int{
		"winning": got.WinningTeamNumbers,
		"losing":  got.LosingTeamNumbers,
	} {
		if len(labels) != GridDigits {
			t.Fatalf("%s labels: expected %d digits, got %d", name, GridDigits, len(labels))
		}
		seen := make([]bool, GridDigits)
		for _, d := range labels {
			if d < 0 || d >= GridDigits {
				t.Fatalf("%s labels: digit %d out of range", name, d)
			}
			if seen[d] {
				t.Fatalf("%s labels: digit %d appears twice", name, d)
			}
			seen[d] = true
		}
	}
}

func TestBuildGridAssignment_LabelsMatchPositions(t *testing.T) {
	got, err := BuildGridAssignment(testRand(19), gridSquareIDs(GridSize))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, a := range got.Squares {
		row := a.GridPosition / GridDigits
		col := a.GridPosition % GridDigits
		if a.WinningTeamNumber != got.WinningTeamNumbers[col] {
			t.Fatalf("square %s: winning number %d does not match column label %d",
				a.SquareID, a.WinningTeamNumber, got.WinningTeamNumbers[col])
		}
		if a.LosingTeamNumber != got.LosingTeamNumbers[row] {
			t.Fatalf("square %s: losing number %d does not match row label %d",
				a.SquareID, a.LosingTeamNumber, got.LosingTeamNumbers[row])
		}
	}
}

func TestBuildGridAssignment_RejectsBadInput(t *testing.T) {
	if _, err := BuildGridAssignment(testRand(1), gridSquareIDs(GridSize-1)); !errors.Is(err, ErrWrongSquareCount) {
		t.Fatalf("expected ErrWrongSquareCount for 99 squares, got %v", err)
	}
	if _, err := BuildGridAssignment(testRand(1), gridSquareIDs(GridSize+1)); !errors.Is(err, ErrWrongSquareCount) {
		t.Fatalf("expected ErrWrongSquareCount for 101 squares, got %v", err)
	}

	ids := gridSquareIDs(GridSize)
	ids[50] = ids[49]
	if _, err := BuildGridAssignment(testRand(1), ids); !errors.Is(err, ErrDuplicateSquare) {
		t.Fatalf("expected ErrDuplicateSquare, got %v", err)
	}
}
