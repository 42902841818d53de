package square

import "context"

// Repository describes square persistence needs from use cases.
//
// ListPaidByBoard must return squares in a stable order (claim order, then
// id): the assignment step maps squares to grid cells by index, so the order
// of this read is part of the assignment's correctness.
type Repository interface {
	GetByID(ctx context.Context, id string) (Square, bool, error)
	ListByBoard(ctx context.Context, boardID string) ([]Square, error)
	ListPaidByBoard(ctx context.Context, boardID string) ([]Square, error)
	CountByBoard(ctx context.Context, boardID string) (int, error)
	CountPaidByBoard(ctx context.Context, boardID string) (int, error)

	// Claim stores a new pending square and assigns it the board's next
	// claim order.
	Claim(ctx context.Context, item Square) (Square, error)

	// MarkPaid flips a pending square to PAID. Returns false when the
	// square is already paid.
	MarkPaid(ctx context.Context, id string) (Square, bool, error)

	// ApplyAssignments persists the grid positions and digit labels for a
	// board's squares as one logical unit.
	ApplyAssignments(ctx context.Context, boardID string, assignments []Assignment) error
}
