package postgres

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/lib/pq"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/game"
)

type boardTableModel struct {
	ID                  int64         `db:"id"`
	PublicID            string        `db:"public_id"`
	Name                string        `db:"name"`
	PricePerSquareCents int64         `db:"price_per_square_cents"`
	Status              string        `db:"status"`
	WinningTeamNumbers  pq.Int64Array `db:"winning_team_numbers"`
	LosingTeamNumbers   pq.Int64Array `db:"losing_team_numbers"`
	PayoutOverrides     []byte        `db:"payout_overrides"`
	CreatedAt           time.Time     `db:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at"`
	DeletedAt           *time.Time    `db:"deleted_at"`
}

type boardInsertModel struct {
	PublicID            string `db:"public_id"`
	Name                string `db:"name"`
	PricePerSquareCents int64  `db:"price_per_square_cents"`
	Status              string `db:"status"`
	PayoutOverrides     []byte `db:"payout_overrides"`
}

func boardFromRow(row boardTableModel) (board.Board, error) {
	overrides := map[game.Round]int64{}
	if len(row.PayoutOverrides) > 0 {
		if err := sonic.Unmarshal(row.PayoutOverrides, &overrides); err != nil {
			return board.Board{}, err
		}
	}

	return board.Board{
		ID:                   row.PublicID,
		Name:                 row.Name,
		PricePerSquareCents:  row.PricePerSquareCents,
		Status:               board.Status(row.Status),
		WinningTeamNumbers:   int64sToInts(row.WinningTeamNumbers),
		LosingTeamNumbers:    int64sToInts(row.LosingTeamNumbers),
		PayoutOverridesCents: overrides,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func int64sToInts(values pq.Int64Array) []int {
	if values == nil {
		return nil
	}
	out := make([]int, 0, len(values))
	for _, v := range values {
		out = append(out, int(v))
	}
	return out
}

func intsToInt64s(values []int) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(values))
	for _, v := range values {
		out = append(out, int64(v))
	}
	return out
}
