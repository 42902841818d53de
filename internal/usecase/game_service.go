package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/platform/id"
	"github.com/riskibarqy/squares-pool/internal/platform/logging"
)

type ScheduleGameInput struct {
	BoardID    string
	GameNumber int
	Round      string
	Team1      string
	Team2      string
}

type gameScorer interface {
	ScoreGame(ctx context.Context, gameID string) (ScoreGameResult, error)
}

// GameService owns the game lifecycle: scheduling, tip-off, and final score
// reporting. Scoring a completed game is delegated to the scoring service.
type GameService struct {
	gameRepo  game.Repository
	boardRepo board.Repository
	idGen     id.Generator
	scorer    gameScorer
	logger    *logging.Logger
	now       func() time.Time
}

func NewGameService(gameRepo game.Repository, boardRepo board.Repository, idGen id.Generator, logger *logging.Logger) *GameService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameService{
		gameRepo:  gameRepo,
		boardRepo: boardRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

// SetScorer wires score settlement after construction.
func (s *GameService) SetScorer(scorer gameScorer) {
	s.scorer = scorer
}

func (s *GameService) ScheduleGame(ctx context.Context, input ScheduleGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ScheduleGame")
	defer span.End()

	input.BoardID = strings.TrimSpace(input.BoardID)
	input.Team1 = strings.TrimSpace(input.Team1)
	input.Team2 = strings.TrimSpace(input.Team2)
	if input.BoardID == "" {
		return game.Game{}, fmt.Errorf("%w: board id is required", ErrInvalidInput)
	}
	if input.Team1 == "" || input.Team2 == "" {
		return game.Game{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}

	round, err := game.ParseRound(strings.TrimSpace(input.Round))
	if err != nil {
		return game.Game{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	_, exists, err := s.boardRepo.GetByID(ctx, input.BoardID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get board: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: board=%s", ErrNotFound, input.BoardID)
	}

	gameID, err := s.idGen.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	now := s.now().UTC()
	item := game.Game{
		ID:         gameID,
		BoardID:    input.BoardID,
		GameNumber: input.GameNumber,
		Round:      round,
		Team1:      input.Team1,
		Team2:      input.Team2,
		Status:     game.StatusScheduled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := item.ValidateBasic(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.gameRepo.Create(ctx, item); err != nil {
		return game.Game{}, fmt.Errorf("create game: %w", err)
	}

	return item, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	return item, nil
}

func (s *GameService) ListGamesByBoard(ctx context.Context, boardID string) ([]game.Game, error) {
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return nil, fmt.Errorf("%w: board id is required", ErrInvalidInput)
	}

	games, err := s.gameRepo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("list games by board: %w", err)
	}

	return games, nil
}

func (s *GameService) StartGame(ctx context.Context, gameID string) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.StartGame")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	_, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	updated, ok, err := s.gameRepo.SetInProgress(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("start game: %w", err)
	}
	if !ok {
		return game.Game{}, fmt.Errorf("%w: game=%s is not scheduled", ErrPreconditionFailed, gameID)
	}

	return updated, nil
}

// ReportFinalScore records the final score, completes the game, and settles
// the winning square. Re-reporting the same final score is idempotent and
// returns the settled result; a conflicting score is rejected.
func (s *GameService) ReportFinalScore(ctx context.Context, gameID string, team1Score, team2Score int) (ScoreGameResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ReportFinalScore")
	defer span.End()

	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return ScoreGameResult{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if team1Score < 0 || team2Score < 0 {
		return ScoreGameResult{}, fmt.Errorf("%w: scores must be non-negative", ErrInvalidInput)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return ScoreGameResult{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return ScoreGameResult{}, fmt.Errorf("%w: game=%s", ErrNotFound, gameID)
	}

	if item.Status == game.StatusCompleted {
		if item.Team1Score == nil || item.Team2Score == nil ||
			*item.Team1Score != team1Score || *item.Team2Score != team2Score {
			return ScoreGameResult{}, fmt.Errorf(
				"%w: game=%s already completed with a different score",
				ErrPreconditionFailed, gameID,
			)
		}
		return s.settle(ctx, gameID)
	}

	_, ok, err := s.gameRepo.CompleteWithScore(ctx, gameID, team1Score, team2Score, s.now().UTC())
	if err != nil {
		return ScoreGameResult{}, fmt.Errorf("complete game with score: %w", err)
	}
	if !ok {
		// Lost a race with another reporter; re-read and compare.
		return s.ReportFinalScore(ctx, gameID, team1Score, team2Score)
	}

	s.logger.InfoContext(ctx, "final_score_reported",
		"game_id", gameID,
		"team1_score", team1Score,
		"team2_score", team2Score,
	)

	return s.settle(ctx, gameID)
}

func (s *GameService) settle(ctx context.Context, gameID string) (ScoreGameResult, error) {
	if s.scorer == nil {
		return ScoreGameResult{}, fmt.Errorf("%w: scoring is not configured", ErrDependencyUnavailable)
	}
	return s.scorer.ScoreGame(ctx, gameID)
}
