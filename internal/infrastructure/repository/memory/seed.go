package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/domain/square"
)

const (
	BoardIDOfficePool  = "board-office-pool"
	BoardIDAlumniPool  = "board-alumni-pool"
	GameIDChampionship = "game-championship"
)

func SeedBoards() []board.Board {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []board.Board{
		{
			ID:                  BoardIDOfficePool,
			Name:                "Office Pool 2026",
			PricePerSquareCents: 1000,
			Status:              board.StatusOpen,
			CreatedAt:           created,
			UpdatedAt:           created,
		},
		{
			ID:                  BoardIDAlumniPool,
			Name:                "Alumni Pool 2026",
			PricePerSquareCents: 2500,
			Status:              board.StatusOpen,
			PayoutOverridesCents: map[game.Round]int64{
				game.RoundChampionship: 200000,
			},
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}

// SeedFullyPaidSquares returns 100 paid squares for a board, ready for
// assignment. Ten owners each hold ten squares.
func SeedFullyPaidSquares(boardID string) []square.Square {
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	out := make([]square.Square, 0, board.TotalSquares)
	for i := 0; i < board.TotalSquares; i++ {
		owner := i % 10
		out = append(out, square.Square{
			ID:            fmt.Sprintf("%s-sq-%03d", boardID, i),
			BoardID:       boardID,
			OwnerID:       fmt.Sprintf("owner-%02d", owner),
			OwnerName:     fmt.Sprintf("Owner %02d", owner),
			PaymentStatus: square.PaymentPaid,
			ClaimOrder:    i + 1,
			CreatedAt:     created,
			UpdatedAt:     created,
		})
	}
	return out
}

func SeedGames(boardID string) []game.Game {
	created := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return []game.Game{
		{
			ID:         boardID + "-game-01",
			BoardID:    boardID,
			GameNumber: 1,
			Round:      game.RoundRound1,
			Team1:      "Duke",
			Team2:      "Vermont",
			Status:     game.StatusScheduled,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
		{
			ID:         GameIDChampionship,
			BoardID:    boardID,
			GameNumber: 63,
			Round:      game.RoundChampionship,
			Team1:      "Kansas",
			Team2:      "Gonzaga",
			Status:     game.StatusScheduled,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
	}
}
