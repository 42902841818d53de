package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squares-pool/internal/domain/square"
	qb "github.com/riskibarqy/squares-pool/internal/platform/querybuilder"
)

type SquareRepository struct {
	db *sqlx.DB
}

func NewSquareRepository(db *sqlx.DB) *SquareRepository {
	return &SquareRepository{db: db}
}

func (r *SquareRepository) GetByID(ctx context.Context, squareID string) (square.Square, bool, error) {
	query, args, err := qb.Select("*").From("squares").
		Where(
			qb.Eq("public_id", squareID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return square.Square{}, false, fmt.Errorf("build get square by id query: %w", err)
	}

	var row squareTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return square.Square{}, false, nil
		}
		return square.Square{}, false, fmt.Errorf("get square by id: %w", err)
	}

	return squareFromRow(row), true, nil
}

func (r *SquareRepository) ListByBoard(ctx context.Context, boardID string) ([]square.Square, error) {
	return r.listByBoard(ctx, boardID, false)
}

func (r *SquareRepository) ListPaidByBoard(ctx context.Context, boardID string) ([]square.Square, error) {
	return r.listByBoard(ctx, boardID, true)
}

func (r *SquareRepository) listByBoard(ctx context.Context, boardID string, paidOnly bool) ([]square.Square, error) {
	builder := qb.Select("*").From("squares").
		Where(
			qb.Eq("board_public_id", boardID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("claim_order", "public_id")
	if paidOnly {
		builder = builder.Where(qb.Eq("payment_status", string(square.PaymentPaid)))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list squares by board query: %w", err)
	}

	var rows []squareTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list squares by board: %w", err)
	}

	out := make([]square.Square, 0, len(rows))
	for _, row := range rows {
		out = append(out, squareFromRow(row))
	}
	return out, nil
}

func (r *SquareRepository) CountByBoard(ctx context.Context, boardID string) (int, error) {
	return r.countByBoard(ctx, boardID, false)
}

func (r *SquareRepository) CountPaidByBoard(ctx context.Context, boardID string) (int, error) {
	return r.countByBoard(ctx, boardID, true)
}

func (r *SquareRepository) countByBoard(ctx context.Context, boardID string, paidOnly bool) (int, error) {
	builder := qb.Select("COUNT(*)").From("squares").
		Where(
			qb.Eq("board_public_id", boardID),
			qb.IsNull("deleted_at"),
		)
	if paidOnly {
		builder = builder.Where(qb.Eq("payment_status", string(square.PaymentPaid)))
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count squares by board query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count squares by board: %w", err)
	}
	return count, nil
}

// claimSquareQuery computes the board's next claim order inside the insert so
// two concurrent claims cannot read the same maximum and both win it. The
// unique index on (board_public_id, claim_order) backstops the race.
const claimSquareQuery = `
INSERT INTO squares (public_id, board_public_id, owner_id, owner_name, payment_status, claim_order)
SELECT $1, $2, $3, $4, $5, COALESCE(MAX(claim_order), 0) + 1
FROM squares
WHERE board_public_id = $2 AND deleted_at IS NULL
RETURNING claim_order, created_at, updated_at`

func (r *SquareRepository) Claim(ctx context.Context, item square.Square) (square.Square, error) {
	row := r.db.QueryRowxContext(ctx, claimSquareQuery,
		item.ID, item.BoardID, item.OwnerID, item.OwnerName, string(item.PaymentStatus))
	if err := row.Scan(&item.ClaimOrder, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return square.Square{}, fmt.Errorf("claim square: %w", err)
	}
	return item, nil
}

func (r *SquareRepository) MarkPaid(ctx context.Context, squareID string) (square.Square, bool, error) {
	query, args, err := qb.Update("squares").
		Set("payment_status", string(square.PaymentPaid)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", squareID),
			qb.Eq("payment_status", string(square.PaymentPending)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return square.Square{}, false, fmt.Errorf("build mark square paid query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return square.Square{}, false, fmt.Errorf("mark square paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return square.Square{}, false, fmt.Errorf("mark square paid rows affected: %w", err)
	}

	item, found, err := r.GetByID(ctx, squareID)
	if err != nil {
		return square.Square{}, false, err
	}
	if !found {
		return square.Square{}, false, fmt.Errorf("square %s not found", squareID)
	}
	return item, affected > 0, nil
}

// ApplyAssignments writes all of a board's grid positions and digit labels in
// one transaction, so a failed run never leaves a board half-assigned.
func (r *SquareRepository) ApplyAssignments(ctx context.Context, boardID string, assignments []square.Assignment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply assignments tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, a := range assignments {
		query, args, err := qb.Update("squares").
			Set("grid_position", a.GridPosition).
			Set("winning_team_number", a.WinningTeamNumber).
			Set("losing_team_number", a.LosingTeamNumber).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", a.SquareID),
				qb.Eq("board_public_id", boardID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build apply assignment query: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("apply assignment for square %s: %w", a.SquareID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("apply assignment rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("square %s not found", a.SquareID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply assignments tx: %w", err)
	}
	return nil
}
