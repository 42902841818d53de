package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/game"
)

type gameTableModel struct {
	ID             int64          `db:"id"`
	PublicID       string         `db:"public_id"`
	BoardID        string         `db:"board_public_id"`
	GameNumber     int            `db:"game_number"`
	Round          string         `db:"round"`
	Team1          string         `db:"team1_name"`
	Team2          string         `db:"team2_name"`
	Team1Score     sql.NullInt64  `db:"team1_score"`
	Team2Score     sql.NullInt64  `db:"team2_score"`
	Status         string         `db:"status"`
	WinnerSquareID sql.NullString `db:"winner_square_public_id"`
	CompletedAt    *time.Time     `db:"completed_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	DeletedAt      *time.Time     `db:"deleted_at"`
}

type gameInsertModel struct {
	PublicID   string `db:"public_id"`
	BoardID    string `db:"board_public_id"`
	GameNumber int    `db:"game_number"`
	Round      string `db:"round"`
	Team1      string `db:"team1_name"`
	Team2      string `db:"team2_name"`
	Status     string `db:"status"`
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:             row.PublicID,
		BoardID:        row.BoardID,
		GameNumber:     row.GameNumber,
		Round:          game.Round(row.Round),
		Team1:          row.Team1,
		Team2:          row.Team2,
		Team1Score:     nullInt64ToIntPtr(row.Team1Score),
		Team2Score:     nullInt64ToIntPtr(row.Team2Score),
		Status:         game.Status(row.Status),
		WinnerSquareID: row.WinnerSquareID.String,
		CompletedAt:    row.CompletedAt,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
