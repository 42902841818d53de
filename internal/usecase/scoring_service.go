package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/domain/pool"
	"github.com/riskibarqy/squares-pool/internal/domain/square"
	"github.com/riskibarqy/squares-pool/internal/platform/logging"
)

type WinnerNotification struct {
	BoardID     string     `json:"board_id"`
	GameID      string     `json:"game_id"`
	GameNumber  int        `json:"game_number"`
	Round       game.Round `json:"round"`
	SquareID    string     `json:"square_id"`
	OwnerID     string     `json:"owner_id"`
	OwnerName   string     `json:"owner_name"`
	Team1Digit  int        `json:"team1_digit"`
	Team2Digit  int        `json:"team2_digit"`
	PayoutCents int64      `json:"payout_cents"`
}

// WinnerNotifier delivers winner announcements to an external channel.
// Delivery is best effort: scoring never fails because a notification did.
type WinnerNotifier interface {
	NotifyWinner(ctx context.Context, notification WinnerNotification) error
}

type ScoreGameResult struct {
	Game           game.Game
	WinnerFound    bool
	WinnerSquare   square.Square
	WinningNumbers pool.WinningNumbers
	PayoutCents    int64
}

// ScoringService settles completed games: it finds the square matching the
// final score's last digits, computes the payout, and binds the winner to
// the game exactly once.
type ScoringService struct {
	gameRepo   game.Repository
	boardRepo  board.Repository
	squareRepo square.Repository
	notifier   WinnerNotifier
	logger     *logging.Logger
	now        func() time.Time
}

func NewScoringService(
	gameRepo game.Repository,
	boardRepo board.Repository,
	squareRepo square.Repository,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		gameRepo:   gameRepo,
		boardRepo:  boardRepo,
		squareRepo: squareRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ScoringService) SetNotifier(notifier WinnerNotifier) {
	s.notifier = notifier
}

// ScoreGame determines and records the winner of a completed game. No
// matching square is a normal outcome, not an error. Re-scoring a settled
// game returns the existing result.
func (s *ScoringService) ScoreGame(ctx context.Context, gameID string) (ScoreGameResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return ScoreGameResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return ScoreGameResult{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return ScoreGameResult{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}
	if item.Status != game.StatusCompleted || item.Team1Score == nil || item.Team2Score == nil {
		return ScoreGameResult{}, fmt.Errorf("%w: game=%s has no final score", ErrPreconditionFailed, gameID)
	}

	boardItem, exists, err := s.boardRepo.GetByID(ctx, item.BoardID)
	if err != nil {
		return ScoreGameResult{}, fmt.Errorf("get board: %w", err)
	}
	if !exists {
		return ScoreGameResult{}, fmt.Errorf("%w: board=%s", ErrNotFound, item.BoardID)
	}
	if !boardItem.Assigned() {
		return ScoreGameResult{}, fmt.Errorf("%w: board=%s numbers are not assigned yet", ErrPreconditionFailed, item.BoardID)
	}

	squares, err := s.squareRepo.ListByBoard(ctx, item.BoardID)
	if err != nil {
		return ScoreGameResult{}, fmt.Errorf("list squares: %w", err)
	}

	winner, numbers, found, err := pool.FindWinningSquare(squares, *item.Team1Score, *item.Team2Score)
	if err != nil {
		if errors.Is(err, pool.ErrMultipleWinners) {
			return ScoreGameResult{}, fmt.Errorf("%w: %s", ErrDataIntegrity, err)
		}
		return ScoreGameResult{}, fmt.Errorf("find winning square: %w", err)
	}

	result := ScoreGameResult{
		Game:           item,
		WinningNumbers: numbers,
	}
	if !found {
		s.logger.InfoContext(ctx, "no_winning_square",
			"game_id", gameID,
			"team1_digit", numbers.Team1Digit,
			"team2_digit", numbers.Team2Digit,
		)
		return result, nil
	}

	payout, err := pool.PayoutCents(item.Round, boardItem.PricePerSquareCents, boardItem.PayoutOverridesCents)
	if err != nil {
		return ScoreGameResult{}, fmt.Errorf("compute payout: %w", err)
	}

	result.WinnerFound = true
	result.WinnerSquare = winner
	result.PayoutCents = payout

	if item.WinnerSquareID != "" {
		if item.WinnerSquareID != winner.ID {
			return ScoreGameResult{}, fmt.Errorf(
				"%w: game=%s has winner square %s but score digits match %s",
				ErrDataIntegrity, gameID, item.WinnerSquareID, winner.ID,
			)
		}
		return result, nil
	}

	set, err := s.gameRepo.SetWinnerSquare(ctx, gameID, winner.ID)
	if err != nil {
		return ScoreGameResult{}, fmt.Errorf("set winner square: %w", err)
	}
	if !set {
		// A concurrent settle wrote first; verify it agreed with us.
		current, _, err := s.gameRepo.GetByID(ctx, gameID)
		if err != nil {
			return ScoreGameResult{}, fmt.Errorf("reload game after winner race: %w", err)
		}
		if current.WinnerSquareID != winner.ID {
			return ScoreGameResult{}, fmt.Errorf(
				"%w: game=%s winner square diverged (%s vs %s)",
				ErrDataIntegrity, gameID, current.WinnerSquareID, winner.ID,
			)
		}
		result.Game = current
		return result, nil
	}

	result.Game.WinnerSquareID = winner.ID

	s.logger.InfoContext(ctx, "winning_square_settled",
		"game_id", gameID,
		"board_id", item.BoardID,
		"square_id", winner.ID,
		"owner_id", winner.OwnerID,
		"payout_cents", payout,
	)

	s.notifyWinner(ctx, item, winner, numbers, payout)
	return result, nil
}

func (s *ScoringService) notifyWinner(ctx context.Context, item game.Game, winner square.Square, numbers pool.WinningNumbers, payout int64) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.NotifyWinner(ctx, WinnerNotification{
		BoardID:     item.BoardID,
		GameID:      item.ID,
		GameNumber:  item.GameNumber,
		Round:       item.Round,
		SquareID:    winner.ID,
		OwnerID:     winner.OwnerID,
		OwnerName:   winner.OwnerName,
		Team1Digit:  numbers.Team1Digit,
		Team2Digit:  numbers.Team2Digit,
		PayoutCents: payout,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "winner_notification_failed",
			"game_id", item.ID,
			"square_id", winner.ID,
			"error", err,
		)
	}
}
