package pool

import (
	"errors"
	"testing"

	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/domain/square"
)

func scoringSquares() []square.Square {
	return []square.Square{
		{ID: "sq-a", WinningTeamNumber: intPtr(8), LosingTeamNumber: intPtr(4), GridPosition: intPtr(0)},
		{ID: "sq-b", WinningTeamNumber: intPtr(0), LosingTeamNumber: intPtr(0), GridPosition: intPtr(1)},
		{ID: "sq-c", WinningTeamNumber: intPtr(3), LosingTeamNumber: intPtr(7), GridPosition: intPtr(2)},
	}
}

func TestFindWinningSquare_Match(t *testing.T) {
	winner, numbers, found, err := FindWinningSquare(scoringSquares(), 78, 74)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a winner")
	}
	if winner.ID != "sq-a" {
		t.Fatalf("expected sq-a, got %s", winner.ID)
	}
	if numbers.Team1Digit != 8 || numbers.Team2Digit != 4 {
		t.Fatalf("unexpected winning numbers: %+v", numbers)
	}
}

func TestFindWinningSquare_NoMatchIsSuccess(t *testing.T) {
	squares := []square.Square{
		{ID: "sq-a", WinningTeamNumber: intPtr(8), LosingTeamNumber: intPtr(4), GridPosition: intPtr(0)},
	}

	_, numbers, found, err := FindWinningSquare(squares, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected no winner")
	}
	if numbers.Team1Digit != 0 || numbers.Team2Digit != 0 {
		t.Fatalf("unexpected winning numbers: %+v", numbers)
	}
}

func TestFindWinningSquare_RejectsBadInput(t *testing.T) {
	if _, _, _, err := FindWinningSquare(scoringSquares(), -5, 10); !errors.Is(err, ErrNegativeScore) {
		t.Fatalf("expected ErrNegativeScore, got %v", err)
	}
	if _, _, _, err := FindWinningSquare(nil, 10, 10); !errors.Is(err, ErrNoSquares) {
		t.Fatalf("expected ErrNoSquares, got %v", err)
	}
}

func TestFindWinningSquare_MultipleMatchesIsIntegrityError(t *testing.T) {
	squares := []square.Square{
		{ID: "sq-a", WinningTeamNumber: intPtr(8), LosingTeamNumber: intPtr(4), GridPosition: intPtr(0)},
		{ID: "sq-b", WinningTeamNumber: intPtr(8), LosingTeamNumber: intPtr(4), GridPosition: intPtr(1)},
	}

	_, _, _, err := FindWinningSquare(squares, 78, 74)
	if !errors.Is(err, ErrMultipleWinners) {
		t.Fatalf("expected ErrMultipleWinners, got %v", err)
	}
}

func TestFindWinningSquare_SkipsUnassignedSquares(t *testing.T) {
	squares := []square.Square{
		{ID: "sq-bare"},
		{ID: "sq-a", WinningTeamNumber: intPtr(8), LosingTeamNumber: intPtr(4), GridPosition: intPtr(0)},
	}

	winner, _, found, err := FindWinningSquare(squares, 8, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found || winner.ID != "sq-a" {
		t.Fatalf("expected sq-a to win, got found=%v winner=%s", found, winner.ID)
	}
}

func TestPayoutCents_DefaultMultipliers(t *testing.T) {
	cases := []struct {
		round game.Round
		want  int64
	}{
		{game.RoundRound1, 2500},
		{game.RoundRound2, 5000},
		{game.RoundSweet16, 10000},
		{game.RoundElite8, 20000},
		{game.RoundFinal4, 35000},
		{game.RoundChampionship, 50000},
	}

	for _, tc := range cases {
		got, err := PayoutCents(tc.round, 1000, nil)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.round, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %d cents, got %d", tc.round, tc.want, got)
		}
	}
}

func TestPayoutCents_BoardOverrideWins(t *testing.T) {
	overrides := map[game.Round]int64{game.RoundRound1: 9900}

	got, err := PayoutCents(game.RoundRound1, 1000, overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 9900 {
		t.Fatalf("expected override payout 9900, got %d", got)
	}

	got, err = PayoutCents(game.RoundRound2, 1000, overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5000 {
		t.Fatalf("expected default payout 5000 for unoverridden round, got %d", got)
	}
}

func TestPayoutCents_UnknownRound(t *testing.T) {
	if _, err := PayoutCents(game.Round("PLAY_IN"), 1000, nil); !errors.Is(err, ErrUnknownRound) {
		t.Fatalf("expected ErrUnknownRound, got %v", err)
	}
}
