package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
	now   func() time.Time
}

func NewGameRepository(games ...game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	for _, g := range games {
		items[g.ID] = cloneGame(g)
	}

	return &GameRepository{
		items: items,
		now:   time.Now,
	}
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}

	return cloneGame(item), true, nil
}

func (r *GameRepository) ListByBoard(_ context.Context, boardID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, item := range r.items {
		if item.BoardID == boardID {
			out = append(out, cloneGame(item))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GameNumber < out[j].GameNumber
	})
	return out, nil
}

func (r *GameRepository) Create(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("game %s already exists", item.ID)
	}

	r.items[item.ID] = cloneGame(item)
	return nil
}

func (r *GameRepository) SetInProgress(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}
	if item.Status != game.StatusScheduled {
		return game.Game{}, false, nil
	}

	item.Status = game.StatusInProgress
	item.UpdatedAt = r.now().UTC()
	r.items[gameID] = item

	return cloneGame(item), true, nil
}

func (r *GameRepository) CompleteWithScore(_ context.Context, gameID string, team1Score, team2Score int, completedAt time.Time) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[gameID]
	if !ok {
		return game.Game{}, false, nil
	}
	if item.Status == game.StatusCompleted {
		return game.Game{}, false, nil
	}

	item.Team1Score = &team1Score
	item.Team2Score = &team2Score
	item.Status = game.StatusCompleted
	item.CompletedAt = &completedAt
	item.UpdatedAt = r.now().UTC()
	r.items[gameID] = item

	return cloneGame(item), true, nil
}

func (r *GameRepository) SetWinnerSquare(_ context.Context, gameID string, squareID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[gameID]
	if !ok {
		return false, fmt.Errorf("game %s not found", gameID)
	}
	if item.WinnerSquareID != "" {
		return false, nil
	}

	item.WinnerSquareID = squareID
	item.UpdatedAt = r.now().UTC()
	r.items[gameID] = item

	return true, nil
}

func cloneGame(item game.Game) game.Game {
	copied := item
	if item.Team1Score != nil {
		score := *item.Team1Score
		copied.Team1Score = &score
	}
	if item.Team2Score != nil {
		score := *item.Team2Score
		copied.Team2Score = &score
	}
	if item.CompletedAt != nil {
		at := *item.CompletedAt
		copied.CompletedAt = &at
	}
	return copied
}
