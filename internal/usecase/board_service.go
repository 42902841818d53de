package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/domain/square"
	"github.com/riskibarqy/squares-pool/internal/platform/cache"
	"github.com/riskibarqy/squares-pool/internal/platform/id"
	"github.com/riskibarqy/squares-pool/internal/platform/logging"
)

type CreateBoardInput struct {
	Name                 string
	PricePerSquareCents  int64
	PayoutOverridesCents map[game.Round]int64
}

type ClaimSquareInput struct {
	BoardID   string
	OwnerID   string
	OwnerName string
}

type BoardSummary struct {
	Board          board.Board
	ClaimedSquares int
	PaidSquares    int
	Squares        []square.Square
}

type boardAssigner interface {
	AssignBoard(ctx context.Context, boardID string) (AssignBoardResult, error)
}

// BoardService owns the board lifecycle up to assignment: creation, square
// claims, payments, and the fill watcher that kicks off assignment when the
// last square is paid.
type BoardService struct {
	boardRepo  board.Repository
	squareRepo square.Repository
	cache      *cache.Store
	idGen      id.Generator
	assigner   boardAssigner
	logger     *logging.Logger
	now        func() time.Time
}

func NewBoardService(
	boardRepo board.Repository,
	squareRepo square.Repository,
	cacheStore *cache.Store,
	idGen id.Generator,
	logger *logging.Logger,
) *BoardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BoardService{
		boardRepo:  boardRepo,
		squareRepo: squareRepo,
		cache:      cacheStore,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// SetAssigner wires the assignment trigger after construction, breaking the
// BoardService/AssignmentService construction cycle.
func (s *BoardService) SetAssigner(assigner boardAssigner) {
	s.assigner = assigner
}

func (s *BoardService) CreateBoard(ctx context.Context, input CreateBoardInput) (board.Board, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.CreateBoard")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return board.Board{}, fmt.Errorf("%w: board name is required", ErrInvalidInput)
	}
	if input.PricePerSquareCents <= 0 {
		return board.Board{}, fmt.Errorf("%w: price per square must be greater than zero", ErrInvalidInput)
	}

	boardID, err := s.idGen.NewID()
	if err != nil {
		return board.Board{}, fmt.Errorf("generate board id: %w", err)
	}

	now := s.now().UTC()
	item := board.Board{
		ID:                   boardID,
		Name:                 input.Name,
		PricePerSquareCents:  input.PricePerSquareCents,
		Status:               board.StatusOpen,
		PayoutOverridesCents: input.PayoutOverridesCents,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := item.ValidateBasic(); err != nil {
		return board.Board{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.boardRepo.Create(ctx, item); err != nil {
		return board.Board{}, fmt.Errorf("create board: %w", err)
	}

	s.logger.InfoContext(ctx, "board_created",
		"board_id", item.ID,
		"price_per_square_cents", item.PricePerSquareCents,
	)
	return item, nil
}

func (s *BoardService) GetBoard(ctx context.Context, boardID string) (board.Board, error) {
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return board.Board{}, fmt.Errorf("%w: board id is required", ErrInvalidInput)
	}

	item, exists, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return board.Board{}, fmt.Errorf("get board: %w", err)
	}
	if !exists {
		return board.Board{}, fmt.Errorf("%w: board=%s", ErrNotFound, boardID)
	}

	return item, nil
}

func (s *BoardService) ListBoards(ctx context.Context) ([]board.Board, error) {
	boards, err := s.boardRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}

	return boards, nil
}

// GetBoardSummary returns the board with its squares and fill counts. The
// result is cached briefly; any write to the board invalidates it.
func (s *BoardService) GetBoardSummary(ctx context.Context, boardID string) (BoardSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.GetBoardSummary")
	defer span.End()

	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return BoardSummary{}, fmt.Errorf("%w: board id is required", ErrInvalidInput)
	}

	load := func(ctx context.Context) (any, error) {
		return s.loadBoardSummary(ctx, boardID)
	}

	var value any
	var err error
	if s.cache != nil {
		value, err = s.cache.GetOrLoad(ctx, boardSummaryCacheKey(boardID), load)
	} else {
		value, err = load(ctx)
	}
	if err != nil {
		return BoardSummary{}, err
	}

	summary, ok := value.(BoardSummary)
	if !ok {
		return BoardSummary{}, fmt.Errorf("unexpected board summary type %T", value)
	}
	return summary, nil
}

func (s *BoardService) loadBoardSummary(ctx context.Context, boardID string) (BoardSummary, error) {
	item, exists, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return BoardSummary{}, fmt.Errorf("get board: %w", err)
	}
	if !exists {
		return BoardSummary{}, fmt.Errorf("%w: board=%s", ErrNotFound, boardID)
	}

	squares, err := s.squareRepo.ListByBoard(ctx, boardID)
	if err != nil {
		return BoardSummary{}, fmt.Errorf("list squares: %w", err)
	}

	paid := 0
	for _, sq := range squares {
		if sq.PaymentStatus == square.PaymentPaid {
			paid++
		}
	}
	item.PaidSquares = paid

	return BoardSummary{
		Board:          item,
		ClaimedSquares: len(squares),
		PaidSquares:    paid,
		Squares:        squares,
	}, nil
}

// ClaimSquare reserves one open cell for an owner. Claims are only accepted
// while the board is OPEN and has unclaimed squares left.
func (s *BoardService) ClaimSquare(ctx context.Context, input ClaimSquareInput) (square.Square, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.ClaimSquare")
	defer span.End()

	input.BoardID = strings.TrimSpace(input.BoardID)
	input.OwnerID = strings.TrimSpace(input.OwnerID)
	input.OwnerName = strings.TrimSpace(input.OwnerName)
	if input.BoardID == "" {
		return square.Square{}, fmt.Errorf("%w: board id is required", ErrInvalidInput)
	}
	if input.OwnerID == "" {
		return square.Square{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	item, exists, err := s.boardRepo.GetByID(ctx, input.BoardID)
	if err != nil {
		return square.Square{}, fmt.Errorf("get board: %w", err)
	}
	if !exists {
		return square.Square{}, fmt.Errorf("%w: board=%s", ErrNotFound, input.BoardID)
	}
	if item.Status != board.StatusOpen {
		return square.Square{}, fmt.Errorf("%w: board=%s is not open for claims (status=%s)", ErrPreconditionFailed, input.BoardID, item.Status)
	}

	claimed, err := s.squareRepo.CountByBoard(ctx, input.BoardID)
	if err != nil {
		return square.Square{}, fmt.Errorf("count squares: %w", err)
	}
	if claimed >= board.TotalSquares {
		return square.Square{}, fmt.Errorf("%w: board=%s has no unclaimed squares", ErrPreconditionFailed, input.BoardID)
	}

	squareID, err := s.idGen.NewID()
	if err != nil {
		return square.Square{}, fmt.Errorf("generate square id: %w", err)
	}

	now := s.now().UTC()
	sq := square.Square{
		ID:            squareID,
		BoardID:       input.BoardID,
		OwnerID:       input.OwnerID,
		OwnerName:     input.OwnerName,
		PaymentStatus: square.PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := sq.ValidateBasic(); err != nil {
		return square.Square{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	created, err := s.squareRepo.Claim(ctx, sq)
	if err != nil {
		return square.Square{}, fmt.Errorf("claim square: %w", err)
	}

	s.invalidateBoardCache(ctx, input.BoardID)
	return created, nil
}

// MarkSquarePaid records payment for a claimed square. Marking an already
// paid square again is a no-op. When the payment fills the board, the fill
// watcher flips the board to FILLED and triggers the number assignment;
// an assignment failure is logged but never fails the payment, since the
// explicit assign operation can retry it.
func (s *BoardService) MarkSquarePaid(ctx context.Context, squareID string) (square.Square, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.MarkSquarePaid")
	defer span.End()

	squareID = strings.TrimSpace(squareID)
	if squareID == "" {
		return square.Square{}, fmt.Errorf("%w: square id is required", ErrInvalidInput)
	}

	sq, exists, err := s.squareRepo.GetByID(ctx, squareID)
	if err != nil {
		return square.Square{}, fmt.Errorf("get square: %w", err)
	}
	if !exists {
		return square.Square{}, fmt.Errorf("%w: square=%s", ErrNotFound, squareID)
	}

	paid, updated, err := s.squareRepo.MarkPaid(ctx, squareID)
	if err != nil {
		return square.Square{}, fmt.Errorf("mark square paid: %w", err)
	}
	if !updated {
		return paid, nil
	}

	s.invalidateBoardCache(ctx, sq.BoardID)
	s.watchBoardFill(ctx, sq.BoardID)
	return paid, nil
}

func (s *BoardService) watchBoardFill(ctx context.Context, boardID string) {
	paidCount, err := s.squareRepo.CountPaidByBoard(ctx, boardID)
	if err != nil {
		s.logger.ErrorContext(ctx, "board_fill_check_failed", "board_id", boardID, "error", err)
		return
	}
	if paidCount != board.TotalSquares {
		return
	}

	item, exists, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil || !exists {
		s.logger.ErrorContext(ctx, "board_fill_check_failed", "board_id", boardID, "error", err)
		return
	}
	if !item.Assignable() {
		return
	}

	if item.Status == board.StatusOpen {
		// Losing this transition means another payment raced us there,
		// which is fine: assignment below is guarded on its own.
		if _, _, err := s.boardRepo.UpdateStatus(ctx, boardID, board.StatusOpen, board.StatusFilled); err != nil {
			s.logger.ErrorContext(ctx, "board_fill_transition_failed", "board_id", boardID, "error", err)
			return
		}
		s.invalidateBoardCache(ctx, boardID)
	}

	if s.assigner == nil {
		return
	}

	if _, err := s.assigner.AssignBoard(ctx, boardID); err != nil {
		if errors.Is(err, ErrAlreadyAssigned) {
			return
		}
		s.logger.ErrorContext(ctx, "auto_assignment_failed", "board_id", boardID, "error", err)
		return
	}

	s.invalidateBoardCache(ctx, boardID)
	s.logger.InfoContext(ctx, "board_filled_and_assigned", "board_id", boardID)
}

// ActivateBoard moves an assigned board into play.
func (s *BoardService) ActivateBoard(ctx context.Context, boardID string) (board.Board, error) {
	return s.transitionBoard(ctx, boardID, board.StatusAssigned, board.StatusActive)
}

// CompleteBoard closes out a board after its tournament ends.
func (s *BoardService) CompleteBoard(ctx context.Context, boardID string) (board.Board, error) {
	return s.transitionBoard(ctx, boardID, board.StatusActive, board.StatusCompleted)
}

func (s *BoardService) transitionBoard(ctx context.Context, boardID string, from, to board.Status) (board.Board, error) {
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return board.Board{}, fmt.Errorf("%w: board id is required", ErrInvalidInput)
	}

	_, exists, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return board.Board{}, fmt.Errorf("get board: %w", err)
	}
	if !exists {
		return board.Board{}, fmt.Errorf("%w: board=%s", ErrNotFound, boardID)
	}

	updated, ok, err := s.boardRepo.UpdateStatus(ctx, boardID, from, to)
	if err != nil {
		return board.Board{}, fmt.Errorf("update board status: %w", err)
	}
	if !ok {
		return board.Board{}, fmt.Errorf("%w: board=%s is not %s", ErrPreconditionFailed, boardID, from)
	}

	s.invalidateBoardCache(ctx, boardID)
	return updated, nil
}

func (s *BoardService) invalidateBoardCache(ctx context.Context, boardID string) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(ctx, "board:"+boardID+":")
}

func boardSummaryCacheKey(boardID string) string {
	return "board:" + boardID + ":summary"
}
