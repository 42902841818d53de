package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/pool"
	"github.com/riskibarqy/squares-pool/internal/domain/square"
	"github.com/riskibarqy/squares-pool/internal/platform/logging"
	"github.com/riskibarqy/squares-pool/internal/platform/resilience"
)

const (
	auditStatusValid   = "valid"
	auditStatusInvalid = "invalid"
	auditStatusFailed  = "failed"
)

type AssignBoardResult struct {
	Board              board.Board
	WinningTeamNumbers []int
	LosingTeamNumbers  []int
	Report             pool.AuditReport
	// Shared is true when this caller joined an assignment already in flight.
	Shared bool
}

type AuditAllResult struct {
	BoardCount   int             `json:"board_count"`
	ValidCount   int             `json:"valid_count"`
	InvalidCount int             `json:"invalid_count"`
	FailedCount  int             `json:"failed_count"`
	WorkerCount  int             `json:"worker_count"`
	Boards       []BoardAuditRow `json:"boards"`
}

type BoardAuditRow struct {
	BoardID    string           `json:"board_id"`
	Status     string           `json:"status"`
	Report     pool.AuditReport `json:"report"`
	DurationMs int64            `json:"duration_ms"`
	Message    string           `json:"message,omitempty"`
}

// AssignmentService runs the one-shot random number assignment for boards
// and the read-only audits over assigned boards.
type AssignmentService struct {
	boardRepo  board.Repository
	squareRepo square.Repository
	logger     *logging.Logger
	flight     resilience.SingleFlight
	newRand    func() *rand.Rand
	now        func() time.Time
}

func NewAssignmentService(boardRepo board.Repository, squareRepo square.Repository, logger *logging.Logger) *AssignmentService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AssignmentService{
		boardRepo:  boardRepo,
		squareRepo: squareRepo,
		logger:     logger,
		newRand:    pool.NewRand,
		now:        time.Now,
	}
}

// AssignBoard assigns random grid positions and digit labels to every paid
// square on a fully paid board. Runs at most once per board: concurrent
// callers collapse onto one in-flight run, and a conditional status update
// in the store rejects a second run that raced past the in-process guard.
func (s *AssignmentService) AssignBoard(ctx context.Context, boardID string) (AssignBoardResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.AssignBoard")
	defer span.End()

	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return AssignBoardResult{}, fmt.Errorf("%w: board id is required", ErrInvalidInput)
	}

	value, err, shared := s.flight.Do("assign:"+boardID, func() (any, error) {
		return s.assignBoard(ctx, boardID)
	})
	if err != nil {
		return AssignBoardResult{}, err
	}

	result, ok := value.(AssignBoardResult)
	if !ok {
		return AssignBoardResult{}, fmt.Errorf("unexpected assignment result type %T", value)
	}
	result.Shared = shared
	return result, nil
}

func (s *AssignmentService) assignBoard(ctx context.Context, boardID string) (AssignBoardResult, error) {
	item, exists, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return AssignBoardResult{}, fmt.Errorf("get board: %w", err)
	}
	if !exists {
		return AssignBoardResult{}, fmt.Errorf("%w: board=%s", ErrNotFound, boardID)
	}
	if item.Assigned() {
		return AssignBoardResult{}, fmt.Errorf("%w: board=%s status=%s", ErrAlreadyAssigned, boardID, item.Status)
	}

	paidCount, err := s.squareRepo.CountPaidByBoard(ctx, boardID)
	if err != nil {
		return AssignBoardResult{}, fmt.Errorf("count paid squares: %w", err)
	}
	if paidCount != board.TotalSquares {
		return AssignBoardResult{}, fmt.Errorf(
			"%w: board=%s has %d of %d squares paid",
			ErrPreconditionFailed, boardID, paidCount, board.TotalSquares,
		)
	}

	paidSquares, err := s.squareRepo.ListPaidByBoard(ctx, boardID)
	if err != nil {
		return AssignBoardResult{}, fmt.Errorf("list paid squares: %w", err)
	}

	squareIDs := make([]string, 0, len(paidSquares))
	for _, sq := range paidSquares {
		squareIDs = append(squareIDs, sq.ID)
	}

	grid, err := pool.BuildGridAssignment(s.newRand(), squareIDs)
	if err != nil {
		return AssignBoardResult{}, fmt.Errorf("build grid assignment: %w", err)
	}

	// Conditional status flip is the real once-only guard: it only succeeds
	// while the board is still unassigned, so a racing run on another
	// process loses here and never writes square assignments.
	updated, won, err := s.boardRepo.SetAssigned(ctx, boardID, grid.WinningTeamNumbers, grid.LosingTeamNumbers)
	if err != nil {
		return AssignBoardResult{}, fmt.Errorf("mark board assigned: %w", err)
	}
	if !won {
		return AssignBoardResult{}, fmt.Errorf("%w: board=%s lost assignment race", ErrAlreadyAssigned, boardID)
	}

	if err := s.squareRepo.ApplyAssignments(ctx, boardID, grid.Squares); err != nil {
		return AssignBoardResult{}, fmt.Errorf("apply square assignments: %w", err)
	}

	report, err := s.auditBoard(ctx, boardID)
	if err != nil {
		return AssignBoardResult{}, err
	}
	if !report.Valid {
		s.logger.ErrorContext(ctx, "post_assignment_audit_failed",
			"board_id", boardID,
			"errors", report.Errors,
		)
		return AssignBoardResult{}, fmt.Errorf(
			"%w: board=%s failed post-assignment audit: %s",
			ErrDataIntegrity, boardID, strings.Join(report.Errors, "; "),
		)
	}

	s.logger.InfoContext(ctx, "board_assigned",
		"board_id", boardID,
		"assigned_squares", report.Stats.AssignedSquares,
	)

	return AssignBoardResult{
		Board:              updated,
		WinningTeamNumbers: grid.WinningTeamNumbers,
		LosingTeamNumbers:  grid.LosingTeamNumbers,
		Report:             report,
	}, nil
}

// AuditBoard re-validates a board's stored assignments without mutating
// anything.
func (s *AssignmentService) AuditBoard(ctx context.Context, boardID string) (pool.AuditReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.AuditBoard")
	defer span.End()

	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return pool.AuditReport{}, fmt.Errorf("%w: board id is required", ErrInvalidInput)
	}

	_, exists, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return pool.AuditReport{}, fmt.Errorf("get board: %w", err)
	}
	if !exists {
		return pool.AuditReport{}, fmt.Errorf("%w: board=%s", ErrNotFound, boardID)
	}

	return s.auditBoard(ctx, boardID)
}

func (s *AssignmentService) auditBoard(ctx context.Context, boardID string) (pool.AuditReport, error) {
	squares, err := s.squareRepo.ListByBoard(ctx, boardID)
	if err != nil {
		return pool.AuditReport{}, fmt.Errorf("list squares for audit: %w", err)
	}
	return pool.AuditAssignments(squares), nil
}

// AuditAllBoards audits every board concurrently on a bounded worker pool.
func (s *AssignmentService) AuditAllBoards(ctx context.Context, maxWorkers int) (AuditAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AssignmentService.AuditAllBoards")
	defer span.End()

	boards, err := s.boardRepo.List(ctx)
	if err != nil {
		return AuditAllResult{}, fmt.Errorf("list boards: %w", err)
	}

	workerCount := normalizeAuditWorkerCount(maxWorkers, len(boards))
	result := AuditAllResult{
		BoardCount:  len(boards),
		WorkerCount: workerCount,
		Boards:      make([]BoardAuditRow, 0, len(boards)),
	}
	if len(boards) == 0 {
		return result, nil
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return AuditAllResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	rows := make(chan BoardAuditRow, len(boards))
	var validCount atomic.Int32
	var invalidCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, item := range boards {
		item := item
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := BoardAuditRow{BoardID: item.ID}

			report, auditErr := s.auditBoard(ctx, item.ID)
			switch {
			case auditErr != nil:
				row.Status = auditStatusFailed
				row.Message = auditErr.Error()
				failedCount.Add(1)
			case report.Valid:
				row.Status = auditStatusValid
				row.Report = report
				validCount.Add(1)
			default:
				row.Status = auditStatusInvalid
				row.Report = report
				invalidCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()

			rows <- row
		}); err != nil {
			workers.Done()
			return AuditAllResult{}, fmt.Errorf("submit audit to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Boards = append(result.Boards, row)
	}
	sort.SliceStable(result.Boards, func(i, j int) bool {
		return result.Boards[i].BoardID < result.Boards[j].BoardID
	})

	result.ValidCount = int(validCount.Load())
	result.InvalidCount = int(invalidCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func normalizeAuditWorkerCount(value int, boardCount int) int {
	if boardCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > 4 {
		value = 4
	}
	if value > boardCount {
		value = boardCount
	}
	return value
}
