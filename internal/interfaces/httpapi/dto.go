package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/domain/pool"
	"github.com/riskibarqy/squares-pool/internal/domain/square"
	"github.com/riskibarqy/squares-pool/internal/usecase"
)

type boardDTO struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	PricePerSquareCents  int64            `json:"price_per_square_cents"`
	Status               string           `json:"status"`
	WinningTeamNumbers   []int            `json:"winning_team_numbers,omitempty"`
	LosingTeamNumbers    []int            `json:"losing_team_numbers,omitempty"`
	PayoutOverridesCents map[string]int64 `json:"payout_overrides_cents,omitempty"`
	CreatedAtUTC         string           `json:"created_at_utc"`
	UpdatedAtUTC         string           `json:"updated_at_utc"`
}

type boardSummaryDTO struct {
	Board          boardDTO    `json:"board"`
	ClaimedSquares int         `json:"claimed_squares"`
	PaidSquares    int         `json:"paid_squares"`
	Squares        []squareDTO `json:"squares"`
}

type squareDTO struct {
	ID                string `json:"id"`
	BoardID           string `json:"board_id"`
	OwnerID           string `json:"owner_id"`
	OwnerName         string `json:"owner_name,omitempty"`
	PaymentStatus     string `json:"payment_status"`
	ClaimOrder        int    `json:"claim_order"`
	GridPosition      *int   `json:"grid_position,omitempty"`
	WinningTeamNumber *int   `json:"winning_team_number,omitempty"`
	LosingTeamNumber  *int   `json:"losing_team_number,omitempty"`
}

type gameDTO struct {
	ID             string `json:"id"`
	BoardID        string `json:"board_id"`
	GameNumber     int    `json:"game_number"`
	Round          string `json:"round"`
	Team1          string `json:"team1"`
	Team2          string `json:"team2"`
	Team1Score     *int   `json:"team1_score,omitempty"`
	Team2Score     *int   `json:"team2_score,omitempty"`
	Status         string `json:"status"`
	WinnerSquareID string `json:"winner_square_id,omitempty"`
	CompletedAtUTC string `json:"completed_at_utc,omitempty"`
}

type assignBoardDTO struct {
	Board              boardDTO       `json:"board"`
	WinningTeamNumbers []int          `json:"winning_team_numbers"`
	LosingTeamNumbers  []int          `json:"losing_team_numbers"`
	Audit              auditReportDTO `json:"audit"`
	Shared             bool           `json:"shared"`
}

type auditReportDTO struct {
	Valid  bool            `json:"valid"`
	Errors []string        `json:"errors,omitempty"`
	Stats  pool.AuditStats `json:"stats"`
}

type scoreResultDTO struct {
	Game         gameDTO    `json:"game"`
	WinnerFound  bool       `json:"winner_found"`
	WinnerSquare *squareDTO `json:"winner_square,omitempty"`
	Team1Digit   int        `json:"team1_digit"`
	Team2Digit   int        `json:"team2_digit"`
	PayoutCents  int64      `json:"payout_cents"`
}

func boardToDTO(ctx context.Context, v board.Board) boardDTO {
	ctx, span := startSpan(ctx, "httpapi.boardToDTO")
	defer span.End()

	var overrides map[string]int64
	if len(v.PayoutOverridesCents) > 0 {
		overrides = make(map[string]int64, len(v.PayoutOverridesCents))
		for round, cents := range v.PayoutOverridesCents {
			overrides[string(round)] = cents
		}
	}

	return boardDTO{
		ID:                   v.ID,
		Name:                 v.Name,
		PricePerSquareCents:  v.PricePerSquareCents,
		Status:               string(v.Status),
		WinningTeamNumbers:   append([]int(nil), v.WinningTeamNumbers...),
		LosingTeamNumbers:    append([]int(nil), v.LosingTeamNumbers...),
		PayoutOverridesCents: overrides,
		CreatedAtUTC:         v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:         v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func squareToDTO(ctx context.Context, v square.Square) squareDTO {
	ctx, span := startSpan(ctx, "httpapi.squareToDTO")
	defer span.End()

	return squareDTO{
		ID:                v.ID,
		BoardID:           v.BoardID,
		OwnerID:           v.OwnerID,
		OwnerName:         v.OwnerName,
		PaymentStatus:     string(v.PaymentStatus),
		ClaimOrder:        v.ClaimOrder,
		GridPosition:      v.GridPosition,
		WinningTeamNumber: v.WinningTeamNumber,
		LosingTeamNumber:  v.LosingTeamNumber,
	}
}

func gameToDTO(ctx context.Context, v game.Game) gameDTO {
	ctx, span := startSpan(ctx, "httpapi.gameToDTO")
	defer span.End()

	completedAt := ""
	if v.CompletedAt != nil {
		completedAt = v.CompletedAt.UTC().Format(time.RFC3339)
	}

	return gameDTO{
		ID:             v.ID,
		BoardID:        v.BoardID,
		GameNumber:     v.GameNumber,
		Round:          string(v.Round),
		Team1:          v.Team1,
		Team2:          v.Team2,
		Team1Score:     v.Team1Score,
		Team2Score:     v.Team2Score,
		Status:         string(v.Status),
		WinnerSquareID: v.WinnerSquareID,
		CompletedAtUTC: completedAt,
	}
}

func auditReportToDTO(ctx context.Context, v pool.AuditReport) auditReportDTO {
	ctx, span := startSpan(ctx, "httpapi.auditReportToDTO")
	defer span.End()

	return auditReportDTO{
		Valid:  v.Valid,
		Errors: append([]string(nil), v.Errors...),
		Stats:  v.Stats,
	}
}

func scoreResultToDTO(ctx context.Context, v usecase.ScoreGameResult) scoreResultDTO {
	ctx, span := startSpan(ctx, "httpapi.scoreResultToDTO")
	defer span.End()

	out := scoreResultDTO{
		Game:        gameToDTO(ctx, v.Game),
		WinnerFound: v.WinnerFound,
		Team1Digit:  v.WinningNumbers.Team1Digit,
		Team2Digit:  v.WinningNumbers.Team2Digit,
		PayoutCents: v.PayoutCents,
	}
	if v.WinnerFound {
		winner := squareToDTO(ctx, v.WinnerSquare)
		out.WinnerSquare = &winner
	}
	return out
}
