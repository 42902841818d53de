package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/squares-pool/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo boards and games into an empty database, so a
// fresh local environment has something to claim squares on.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM boards WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count boards for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, b := range memory.SeedBoards() {
		overrides, err := sonic.Marshal(b.PayoutOverridesCents)
		if err != nil {
			return fmt.Errorf("encode seed board %s payout overrides: %w", b.ID, err)
		}

		sqlQuery, args, err := sqlx.Named(`
INSERT INTO boards (public_id, name, price_per_square_cents, status, payout_overrides)
VALUES (:public_id, :name, :price_per_square_cents, :status, :payout_overrides)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":              b.ID,
			"name":                   b.Name,
			"price_per_square_cents": b.PricePerSquareCents,
			"status":                 string(b.Status),
			"payout_overrides":       overrides,
		})
		if err != nil {
			return fmt.Errorf("bind seed board %s query: %w", b.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed board %s: %w", b.ID, err)
		}
	}

	for _, g := range memory.SeedGames(memory.BoardIDOfficePool) {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO games (public_id, board_public_id, game_number, round, team1_name, team2_name, status)
VALUES (:public_id, :board_public_id, :game_number, :round, :team1_name, :team2_name, :status)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":       g.ID,
			"board_public_id": g.BoardID,
			"game_number":     g.GameNumber,
			"round":           string(g.Round),
			"team1_name":      g.Team1,
			"team2_name":      g.Team2,
			"status":          string(g.Status),
		})
		if err != nil {
			return fmt.Errorf("bind seed game %s query: %w", g.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed game %s: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
