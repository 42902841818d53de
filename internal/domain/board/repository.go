package board

import "context"

// Repository describes board persistence needs from use cases.
//
// SetAssigned and UpdateStatus are conditional writes: the storage layer, not
// the caller, decides whether the transition happens, so two racing callers
// resolve to exactly one winner.
type Repository interface {
	GetByID(ctx context.Context, id string) (Board, bool, error)
	List(ctx context.Context) ([]Board, error)
	Create(ctx context.Context, item Board) error

	// SetAssigned atomically stores the digit labels and moves the board to
	// ASSIGNED, only if the current status is OPEN or FILLED. Returns false
	// when the guard fails (board already assigned or further along).
	SetAssigned(ctx context.Context, id string, winningNumbers, losingNumbers []int) (Board, bool, error)

	// UpdateStatus moves the board from one expected status to the next.
	// Returns false when the board was not in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to Status) (Board, bool, error)
}
