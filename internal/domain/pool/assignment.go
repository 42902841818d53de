package pool

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/riskibarqy/squares-pool/internal/domain/square"
)

// GridSize is the number of cells in a board's grid.
const GridSize = GridDigits * GridDigits

var (
	ErrWrongSquareCount = errors.New("assignment requires exactly one square per grid cell")
	ErrDuplicateSquare  = errors.New("duplicate square in assignment input")
)

// GridAssignment is the full result of one assignment run: the two digit
// label permutations and a bijective square-to-cell mapping derived from
// them.
type GridAssignment struct {
	WinningTeamNumbers []int
	LosingTeamNumbers  []int
	Squares            []square.Assignment
}

// BuildGridAssignment maps the given squares (in their stable enumeration
// order) onto random grid cells and digit labels. Draws three independent
// permutations: the 10 column digits, the 10 row digits, and the 100 cell
// positions. For a square landing on cell p, the column digit is
// winning[p%10] and the row digit is losing[p/10], which makes the multiset
// of digit pairs across the board exactly the 10x10 cross product.
func BuildGridAssignment(r *rand.Rand, squareIDs []string) (GridAssignment, error) {
	if len(squareIDs) != GridSize {
		return GridAssignment{}, fmt.Errorf("%w: got %d", ErrWrongSquareCount, len(squareIDs))
	}

	seen := make(map[string]struct{}, len(squareIDs))
	for _, id := range squareIDs {
		if id == "" {
			return GridAssignment{}, fmt.Errorf("square id is required")
		}
		if _, exists := seen[id]; exists {
			return GridAssignment{}, fmt.Errorf("%w: %s", ErrDuplicateSquare, id)
		}
		seen[id] = struct{}{}
	}

	winning, err := DigitLabels(r)
	if err != nil {
		return GridAssignment{}, err
	}
	losing, err := DigitLabels(r)
	if err != nil {
		return GridAssignment{}, err
	}
	positions, err := Permutation(r, GridSize)
	if err != nil {
		return GridAssignment{}, err
	}

	assignments := make([]square.Assignment, 0, GridSize)
	for i, id := range squareIDs {
		pos := positions[i]
		row := pos / GridDigits
		col := pos % GridDigits
		assignments = append(assignments, square.Assignment{
			SquareID:          id,
			GridPosition:      pos,
			WinningTeamNumber: winning[col],
			LosingTeamNumber:  losing[row],
		})
	}

	return GridAssignment{
		WinningTeamNumbers: winning,
		LosingTeamNumbers:  losing,
		Squares:            assignments,
	}, nil
}
