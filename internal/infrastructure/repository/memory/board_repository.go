package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/game"
)

type BoardRepository struct {
	mu     sync.RWMutex
	items  map[string]board.Board
	orders []string
	now    func() time.Time
}

func NewBoardRepository(boards ...board.Board) *BoardRepository {
	items := make(map[string]board.Board, len(boards))
	orders := make([]string, 0, len(boards))

	for _, b := range boards {
		items[b.ID] = cloneBoard(b)
		orders = append(orders, b.ID)
	}

	return &BoardRepository{
		items:  items,
		orders: orders,
		now:    time.Now,
	}
}

func (r *BoardRepository) GetByID(_ context.Context, boardID string) (board.Board, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[boardID]
	if !ok {
		return board.Board{}, false, nil
	}

	return cloneBoard(item), true, nil
}

func (r *BoardRepository) List(_ context.Context) ([]board.Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]board.Board, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneBoard(r.items[id]))
	}

	return out, nil
}

func (r *BoardRepository) Create(_ context.Context, item board.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("board %s already exists", item.ID)
	}

	r.items[item.ID] = cloneBoard(item)
	r.orders = append(r.orders, item.ID)
	return nil
}

func (r *BoardRepository) SetAssigned(_ context.Context, boardID string, winningNumbers, losingNumbers []int) (board.Board, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[boardID]
	if !ok {
		return board.Board{}, false, nil
	}
	if !item.Assignable() {
		return board.Board{}, false, nil
	}

	item.Status = board.StatusAssigned
	item.WinningTeamNumbers = append([]int(nil), winningNumbers...)
	item.LosingTeamNumbers = append([]int(nil), losingNumbers...)
	item.UpdatedAt = r.now().UTC()
	r.items[boardID] = item

	return cloneBoard(item), true, nil
}

func (r *BoardRepository) UpdateStatus(_ context.Context, boardID string, from, to board.Status) (board.Board, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[boardID]
	if !ok {
		return board.Board{}, false, nil
	}
	if item.Status != from {
		return board.Board{}, false, nil
	}

	item.Status = to
	item.UpdatedAt = r.now().UTC()
	r.items[boardID] = item

	return cloneBoard(item), true, nil
}

func cloneBoard(item board.Board) board.Board {
	copied := item
	copied.WinningTeamNumbers = append([]int(nil), item.WinningTeamNumbers...)
	copied.LosingTeamNumbers = append([]int(nil), item.LosingTeamNumbers...)
	if item.PayoutOverridesCents != nil {
		copied.PayoutOverridesCents = make(map[game.Round]int64, len(item.PayoutOverridesCents))
		for round, amount := range item.PayoutOverridesCents {
			copied.PayoutOverridesCents[round] = amount
		}
	}
	return copied
}
