package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squares-pool/internal/domain/game"
	qb "github.com/riskibarqy/squares-pool/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("public_id", gameID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by id query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListByBoard(ctx context.Context, boardID string) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("board_public_id", boardID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("game_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games by board query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games by board: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) Create(ctx context.Context, item game.Game) error {
	query, args, err := qb.InsertModel("games", gameInsertModel{
		PublicID:   item.ID,
		BoardID:    item.BoardID,
		GameNumber: item.GameNumber,
		Round:      string(item.Round),
		Team1:      item.Team1,
		Team2:      item.Team2,
		Status:     string(item.Status),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert game query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *GameRepository) SetInProgress(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Update("games").
		Set("status", string(game.StatusInProgress)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", gameID),
			qb.Eq("status", string(game.StatusScheduled)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build set game in progress query: %w", err)
	}

	return r.conditionalUpdate(ctx, gameID, query, args, "set game in progress")
}

func (r *GameRepository) CompleteWithScore(ctx context.Context, gameID string, team1Score, team2Score int, completedAt time.Time) (game.Game, bool, error) {
	query, args, err := qb.Update("games").
		Set("team1_score", team1Score).
		Set("team2_score", team2Score).
		Set("status", string(game.StatusCompleted)).
		Set("completed_at", completedAt).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", gameID),
			qb.Expr("status <> ?", string(game.StatusCompleted)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build complete game query: %w", err)
	}

	return r.conditionalUpdate(ctx, gameID, query, args, "complete game with score")
}

// SetWinnerSquare binds the winner at most once. The NULL guard in the WHERE
// clause makes racing settle attempts resolve to a single write.
func (r *GameRepository) SetWinnerSquare(ctx context.Context, gameID, squareID string) (bool, error) {
	query, args, err := qb.Update("games").
		Set("winner_square_public_id", squareID).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", gameID),
			qb.IsNull("winner_square_public_id"),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build set winner square query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set winner square: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set winner square rows affected: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	_, found, err := r.GetByID(ctx, gameID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, fmt.Errorf("game %s not found", gameID)
	}
	return false, nil
}

func (r *GameRepository) conditionalUpdate(ctx context.Context, gameID, query string, args []any, op string) (game.Game, bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return game.Game{}, false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("%s rows affected: %w", op, err)
	}

	item, found, err := r.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, false, err
	}
	if !found {
		return game.Game{}, false, fmt.Errorf("game %s not found", gameID)
	}
	return item, affected > 0, nil
}
