package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/square"
)

type squareTableModel struct {
	ID                int64         `db:"id"`
	PublicID          string        `db:"public_id"`
	BoardID           string        `db:"board_public_id"`
	OwnerID           string        `db:"owner_id"`
	OwnerName         string        `db:"owner_name"`
	PaymentStatus     string        `db:"payment_status"`
	ClaimOrder        int           `db:"claim_order"`
	GridPosition      sql.NullInt64 `db:"grid_position"`
	WinningTeamNumber sql.NullInt64 `db:"winning_team_number"`
	LosingTeamNumber  sql.NullInt64 `db:"losing_team_number"`
	CreatedAt         time.Time     `db:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
	DeletedAt         *time.Time    `db:"deleted_at"`
}

func squareFromRow(row squareTableModel) square.Square {
	return square.Square{
		ID:                row.PublicID,
		BoardID:           row.BoardID,
		OwnerID:           row.OwnerID,
		OwnerName:         row.OwnerName,
		PaymentStatus:     square.PaymentStatus(row.PaymentStatus),
		ClaimOrder:        row.ClaimOrder,
		GridPosition:      nullInt64ToIntPtr(row.GridPosition),
		WinningTeamNumber: nullInt64ToIntPtr(row.WinningTeamNumber),
		LosingTeamNumber:  nullInt64ToIntPtr(row.LosingTeamNumber),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}
