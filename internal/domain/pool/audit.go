package pool

import (
	"fmt"

	"github.com/riskibarqy/squares-pool/internal/domain/square"
)

// AuditStats summarizes one board audit.
type AuditStats struct {
	TotalSquares       int
	AssignedSquares    int
	DuplicatePositions int
	InvalidPositions   int
}

// AuditReport is the outcome of a read-only assignment audit. A board that
// has not been assigned at all is valid with zero assigned squares; the
// audit only fails on evidence that an assignment ran and is broken.
type AuditReport struct {
	Valid  bool
	Errors []string
	Stats  AuditStats
}

// AuditAssignments re-checks a board's squares for bijectivity and range
// correctness: every grid position in 0..99 and used at most once, every
// digit label in 0..9, and no digit pair appearing twice. Never mutates its
// input.
func AuditAssignments(squares []square.Square) AuditReport {
	report := AuditReport{
		Valid:  true,
		Errors: []string{},
		Stats:  AuditStats{TotalSquares: len(squares)},
	}

	assigned := 0
	for _, item := range squares {
		if item.Assigned() {
			assigned++
		}
	}
	report.Stats.AssignedSquares = assigned
	if assigned == 0 {
		return report
	}

	fail := func(format string, args ...any) {
		report.Valid = false
		report.Errors = append(report.Errors, fmt.Sprintf(format, args...))
	}

	positionsSeen := make(map[int]string, len(squares))
	pairsSeen := make(map[[2]int]string, len(squares))
	for _, item := range squares {
		if item.GridPosition == nil {
			report.Stats.InvalidPositions++
			fail("square %s has no grid position while the board is assigned", item.ID)
			continue
		}

		pos := *item.GridPosition
		if pos < 0 || pos >= GridSize {
			report.Stats.InvalidPositions++
			fail("square %s has out-of-range grid position %d", item.ID, pos)
		} else if other, dup := positionsSeen[pos]; dup {
			report.Stats.DuplicatePositions++
			fail("squares %s and %s share grid position %d", other, item.ID, pos)
		} else {
			positionsSeen[pos] = item.ID
		}

		if item.WinningTeamNumber == nil || item.LosingTeamNumber == nil {
			fail("square %s is missing digit labels", item.ID)
			continue
		}
		win, lose := *item.WinningTeamNumber, *item.LosingTeamNumber
		if win < 0 || win >= GridDigits {
			fail("square %s has out-of-range winning team number %d", item.ID, win)
			continue
		}
		if lose < 0 || lose >= GridDigits {
			fail("square %s has out-of-range losing team number %d", item.ID, lose)
			continue
		}

		pair := [2]int{win, lose}
		if other, dup := pairsSeen[pair]; dup {
			fail("squares %s and %s share digit pair (%d,%d)", other, item.ID, win, lose)
		} else {
			pairsSeen[pair] = item.ID
		}
	}

	return report
}
