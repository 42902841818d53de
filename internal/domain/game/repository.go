package game

import (
	"context"
	"time"
)

// Repository describes game persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Game, bool, error)
	ListByBoard(ctx context.Context, boardID string) ([]Game, error)
	Create(ctx context.Context, item Game) error

	// SetInProgress moves a SCHEDULED game to IN_PROGRESS. Returns false
	// without error when the game is not in the expected status.
	SetInProgress(ctx context.Context, id string) (Game, bool, error)

	// CompleteWithScore records the final score and moves the game to
	// COMPLETED in one conditional write. Returns false when the game was
	// already completed.
	CompleteWithScore(ctx context.Context, id string, team1Score, team2Score int, completedAt time.Time) (Game, bool, error)

	// SetWinnerSquare binds the winning square id, only if none is set yet.
	SetWinnerSquare(ctx context.Context, id string, squareID string) (bool, error)
}
