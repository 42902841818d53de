package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/square"
)

type SquareRepository struct {
	mu        sync.RWMutex
	items     map[string]square.Square
	claimSeqs map[string]int
	now       func() time.Time
}

func NewSquareRepository(squares ...square.Square) *SquareRepository {
	r := &SquareRepository{
		items:     make(map[string]square.Square, len(squares)),
		claimSeqs: make(map[string]int),
		now:       time.Now,
	}

	for _, sq := range squares {
		r.items[sq.ID] = cloneSquare(sq)
		if sq.ClaimOrder > r.claimSeqs[sq.BoardID] {
			r.claimSeqs[sq.BoardID] = sq.ClaimOrder
		}
	}

	return r
}

func (r *SquareRepository) GetByID(_ context.Context, squareID string) (square.Square, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[squareID]
	if !ok {
		return square.Square{}, false, nil
	}

	return cloneSquare(item), true, nil
}

func (r *SquareRepository) ListByBoard(_ context.Context, boardID string) ([]square.Square, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listByBoardLocked(boardID, false), nil
}

func (r *SquareRepository) ListPaidByBoard(_ context.Context, boardID string) ([]square.Square, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.listByBoardLocked(boardID, true), nil
}

func (r *SquareRepository) listByBoardLocked(boardID string, paidOnly bool) []square.Square {
	out := make([]square.Square, 0, len(r.items))
	for _, item := range r.items {
		if item.BoardID != boardID {
			continue
		}
		if paidOnly && item.PaymentStatus != square.PaymentPaid {
			continue
		}
		out = append(out, cloneSquare(item))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ClaimOrder != out[j].ClaimOrder {
			return out[i].ClaimOrder < out[j].ClaimOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *SquareRepository) CountByBoard(_ context.Context, boardID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.BoardID == boardID {
			count++
		}
	}
	return count, nil
}

func (r *SquareRepository) CountPaidByBoard(_ context.Context, boardID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.BoardID == boardID && item.PaymentStatus == square.PaymentPaid {
			count++
		}
	}
	return count, nil
}

func (r *SquareRepository) Claim(_ context.Context, item square.Square) (square.Square, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return square.Square{}, fmt.Errorf("square %s already exists", item.ID)
	}

	r.claimSeqs[item.BoardID]++
	item.ClaimOrder = r.claimSeqs[item.BoardID]
	r.items[item.ID] = cloneSquare(item)

	return cloneSquare(item), nil
}

func (r *SquareRepository) MarkPaid(_ context.Context, squareID string) (square.Square, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[squareID]
	if !ok {
		return square.Square{}, false, fmt.Errorf("square %s not found", squareID)
	}
	if item.PaymentStatus == square.PaymentPaid {
		return cloneSquare(item), false, nil
	}

	item.PaymentStatus = square.PaymentPaid
	item.UpdatedAt = r.now().UTC()
	r.items[squareID] = item

	return cloneSquare(item), true, nil
}

func (r *SquareRepository) ApplyAssignments(_ context.Context, boardID string, assignments []square.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Validate the batch before touching anything, so a bad input never
	// leaves a board half-assigned.
	for _, a := range assignments {
		item, ok := r.items[a.SquareID]
		if !ok {
			return fmt.Errorf("square %s not found", a.SquareID)
		}
		if item.BoardID != boardID {
			return fmt.Errorf("square %s belongs to board %s, not %s", a.SquareID, item.BoardID, boardID)
		}
	}

	now := r.now().UTC()
	for _, a := range assignments {
		a := a
		item := r.items[a.SquareID]
		item.GridPosition = &a.GridPosition
		item.WinningTeamNumber = &a.WinningTeamNumber
		item.LosingTeamNumber = &a.LosingTeamNumber
		item.UpdatedAt = now
		r.items[a.SquareID] = item
	}

	return nil
}

func cloneSquare(item square.Square) square.Square {
	copied := item
	copied.GridPosition = cloneIntPtr(item.GridPosition)
	copied.WinningTeamNumber = cloneIntPtr(item.WinningTeamNumber)
	copied.LosingTeamNumber = cloneIntPtr(item.LosingTeamNumber)
	return copied
}

func cloneIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
