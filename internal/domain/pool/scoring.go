package pool

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/squares-pool/internal/domain/square"
)

var (
	ErrNegativeScore   = errors.New("scores must be non-negative")
	ErrNoSquares       = errors.New("no squares provided")
	ErrMultipleWinners = errors.New("multiple squares match the winning digits")
)

// WinningNumbers are the last digits of the two final scores.
type WinningNumbers struct {
	Team1Digit int
	Team2Digit int
}

// FindWinningSquare locates the at most one square whose digit pair matches
// the final score's last digits. No match is a normal outcome (only 1 of 100
// squares can match). More than one match means the assignment invariant is
// broken and is reported as an error rather than silently picking one.
func FindWinningSquare(squares []square.Square, team1Score, team2Score int) (square.Square, WinningNumbers, bool, error) {
	if team1Score < 0 || team2Score < 0 {
		return square.Square{}, WinningNumbers{}, false, fmt.Errorf("%w: got %d and %d", ErrNegativeScore, team1Score, team2Score)
	}
	if len(squares) == 0 {
		return square.Square{}, WinningNumbers{}, false, ErrNoSquares
	}

	numbers := WinningNumbers{
		Team1Digit: team1Score % 10,
		Team2Digit: team2Score % 10,
	}

	var winner square.Square
	found := false
	for _, item := range squares {
		if !item.Assigned() {
			continue
		}
		if *item.WinningTeamNumber != numbers.Team1Digit || *item.LosingTeamNumber != numbers.Team2Digit {
			continue
		}
		if found {
			return square.Square{}, numbers, false, fmt.Errorf(
				"%w: squares %s and %s both match (%d,%d)",
				ErrMultipleWinners, winner.ID, item.ID, numbers.Team1Digit, numbers.Team2Digit,
			)
		}
		winner = item
		found = true
	}

	return winner, numbers, found, nil
}
