package usecase

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/pool"
	"github.com/riskibarqy/squares-pool/internal/domain/square"
	"github.com/riskibarqy/squares-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squares-pool/internal/platform/logging"
)

func seededRand(seed uint64) func() *rand.Rand {
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, seed+1))
	}
}

func TestAssignmentService_AssignBoard_Success(t *testing.T) {
	boardRepo := memory.NewBoardRepository(memory.SeedBoards()...)
	squareRepo := memory.NewSquareRepository(memory.SeedFullyPaidSquares(memory.BoardIDOfficePool)...)

	svc := NewAssignmentService(boardRepo, squareRepo, logging.NewNop())
	svc.newRand = seededRand(7)

	result, err := svc.AssignBoard(t.Context(), memory.BoardIDOfficePool)
	if err != nil {
		t.Fatalf("assign board: %v", err)
	}

	if result.Board.Status != board.StatusAssigned {
		t.Fatalf("expected board status ASSIGNED, got %s", result.Board.Status)
	}
	if !result.Report.Valid {
		t.Fatalf("expected valid post-assignment audit, got errors: %v", result.Report.Errors)
	}
	if result.Report.Stats.AssignedSquares != board.TotalSquares {
		t.Fatalf("expected %d assigned squares, got %d", board.TotalSquares, result.Report.Stats.AssignedSquares)
	}

	for name, labels := range map[string][]int{
		"winning": result.WinningTeamNumbers,
		"losing":  result.LosingTeamNumbers,
	} {
		seen := make(map[int]struct{}, len(labels))
		for _, d := range labels {
			seen[d] = struct{}{}
		}
		if len(seen) != pool.GridDigits {
			t.Fatalf("%s labels are not a permutation of 0..9: %v", name, labels)
		}
	}
}

func TestAssignmentService_AssignBoard_NotFullyPaid(t *testing.T) {
	squares := memory.SeedFullyPaidSquares(memory.BoardIDOfficePool)
	squares[42].PaymentStatus = square.PaymentPending

	boardRepo := memory.NewBoardRepository(memory.SeedBoards()...)
	squareRepo := memory.NewSquareRepository(squares...)

	svc := NewAssignmentService(boardRepo, squareRepo, logging.NewNop())

	_, err := svc.AssignBoard(t.Context(), memory.BoardIDOfficePool)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got %v", err)
	}
}

func TestAssignmentService_AssignBoard_UnknownBoard(t *testing.T) {
	svc := NewAssignmentService(memory.NewBoardRepository(), memory.NewSquareRepository(), logging.NewNop())

	_, err := svc.AssignBoard(t.Context(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignmentService_AssignBoard_SecondRunRejected(t *testing.T) {
	boardRepo := memory.NewBoardRepository(memory.SeedBoards()...)
	squareRepo := memory.NewSquareRepository(memory.SeedFullyPaidSquares(memory.BoardIDOfficePool)...)

	svc := NewAssignmentService(boardRepo, squareRepo, logging.NewNop())
	svc.newRand = seededRand(11)

	if _, err := svc.AssignBoard(t.Context(), memory.BoardIDOfficePool); err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	_, err := svc.AssignBoard(t.Context(), memory.BoardIDOfficePool)
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got %v", err)
	}
}

func TestAssignmentService_AssignBoard_ConcurrentCallersShareOneRun(t *testing.T) {
	boardRepo := memory.NewBoardRepository(memory.SeedBoards()...)
	squareRepo := memory.NewSquareRepository(memory.SeedFullyPaidSquares(memory.BoardIDOfficePool)...)

	svc := NewAssignmentService(boardRepo, squareRepo, logging.NewNop())
	svc.newRand = seededRand(23)

	const callers = 16
	var wg sync.WaitGroup
	wg.Add(callers)
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.AssignBoard(t.Context(), memory.BoardIDOfficePool)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// Every caller either joins the winning run or observes the board as
	// already assigned; assignments are never applied twice.
	for err := range errs {
		if err != nil && !errors.Is(err, ErrAlreadyAssigned) {
			t.Fatalf("unexpected error from concurrent assignment: %v", err)
		}
	}

	report, err := svc.AuditBoard(t.Context(), memory.BoardIDOfficePool)
	if err != nil {
		t.Fatalf("audit after concurrent assignment: %v", err)
	}
	if !report.Valid {
		t.Fatalf("expected valid assignment after concurrent calls, got errors: %v", report.Errors)
	}
}

func TestAssignmentService_AuditAllBoards(t *testing.T) {
	boardRepo := memory.NewBoardRepository(memory.SeedBoards()...)
	squareRepo := memory.NewSquareRepository(memory.SeedFullyPaidSquares(memory.BoardIDOfficePool)...)

	svc := NewAssignmentService(boardRepo, squareRepo, logging.NewNop())
	svc.newRand = seededRand(31)

	if _, err := svc.AssignBoard(t.Context(), memory.BoardIDOfficePool); err != nil {
		t.Fatalf("assign board: %v", err)
	}

	result, err := svc.AuditAllBoards(t.Context(), 2)
	if err != nil {
		t.Fatalf("audit all boards: %v", err)
	}

	if result.BoardCount != 2 {
		t.Fatalf("expected 2 boards, got %d", result.BoardCount)
	}
	if result.ValidCount != 2 || result.InvalidCount != 0 || result.FailedCount != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Boards) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Boards))
	}
	for _, row := range result.Boards {
		if row.Status != auditStatusValid {
			t.Fatalf("board %s: expected valid, got %s (%s)", row.BoardID, row.Status, row.Message)
		}
	}
}
