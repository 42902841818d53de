package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	qb "github.com/riskibarqy/squares-pool/internal/platform/querybuilder"
)

type BoardRepository struct {
	db *sqlx.DB
}

func NewBoardRepository(db *sqlx.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) GetByID(ctx context.Context, boardID string) (board.Board, bool, error) {
	query, args, err := qb.Select("*").From("boards").
		Where(
			qb.Eq("public_id", boardID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return board.Board{}, false, fmt.Errorf("build get board by id query: %w", err)
	}

	var row boardTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return board.Board{}, false, nil
		}
		return board.Board{}, false, fmt.Errorf("get board by id: %w", err)
	}

	item, err := boardFromRow(row)
	if err != nil {
		return board.Board{}, false, fmt.Errorf("decode board row: %w", err)
	}
	return item, true, nil
}

func (r *BoardRepository) List(ctx context.Context) ([]board.Board, error) {
	query, args, err := qb.Select("*").From("boards").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list boards query: %w", err)
	}

	var rows []boardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	out := make([]board.Board, 0, len(rows))
	for _, row := range rows {
		item, err := boardFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("decode board row: %w", err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *BoardRepository) Create(ctx context.Context, item board.Board) error {
	overrides, err := sonic.Marshal(item.PayoutOverridesCents)
	if err != nil {
		return fmt.Errorf("encode payout overrides: %w", err)
	}

	query, args, err := qb.InsertModel("boards", boardInsertModel{
		PublicID:            item.ID,
		Name:                item.Name,
		PricePerSquareCents: item.PricePerSquareCents,
		Status:              string(item.Status),
		PayoutOverrides:     overrides,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert board query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert board: %w", err)
	}
	return nil
}

// SetAssigned stores the digit labels and flips the status to ASSIGNED in a
// single conditional UPDATE. The status guard in the WHERE clause is what
// makes concurrent assignment runs resolve to one winner.
func (r *BoardRepository) SetAssigned(ctx context.Context, boardID string, winningNumbers, losingNumbers []int) (board.Board, bool, error) {
	query, args, err := qb.Update("boards").
		Set("winning_team_numbers", intsToInt64s(winningNumbers)).
		Set("losing_team_numbers", intsToInt64s(losingNumbers)).
		Set("status", string(board.StatusAssigned)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", boardID),
			qb.In("status", []any{string(board.StatusOpen), string(board.StatusFilled)}),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return board.Board{}, false, fmt.Errorf("build set board assigned query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return board.Board{}, false, fmt.Errorf("set board assigned: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return board.Board{}, false, fmt.Errorf("set board assigned rows affected: %w", err)
	}

	item, found, err := r.GetByID(ctx, boardID)
	if err != nil {
		return board.Board{}, false, err
	}
	if !found {
		return board.Board{}, false, fmt.Errorf("board %s not found", boardID)
	}
	return item, affected > 0, nil
}

func (r *BoardRepository) UpdateStatus(ctx context.Context, boardID string, from, to board.Status) (board.Board, bool, error) {
	query, args, err := qb.Update("boards").
		Set("status", string(to)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", boardID),
			qb.Eq("status", string(from)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return board.Board{}, false, fmt.Errorf("build update board status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return board.Board{}, false, fmt.Errorf("update board status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return board.Board{}, false, fmt.Errorf("update board status rows affected: %w", err)
	}

	item, found, err := r.GetByID(ctx, boardID)
	if err != nil {
		return board.Board{}, false, err
	}
	if !found {
		return board.Board{}, false, fmt.Errorf("board %s not found", boardID)
	}
	return item, affected > 0, nil
}
