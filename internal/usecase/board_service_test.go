package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/domain/square"
	"github.com/riskibarqy/squares-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squares-pool/internal/platform/cache"
	"github.com/riskibarqy/squares-pool/internal/platform/id"
	"github.com/riskibarqy/squares-pool/internal/platform/logging"
)

func newBoardService(boardRepo board.Repository, squareRepo square.Repository) *BoardService {
	return NewBoardService(boardRepo, squareRepo, cache.NewStore(time.Minute), id.NewRandomGenerator(), logging.NewNop())
}

func TestBoardService_CreateBoard(t *testing.T) {
	svc := newBoardService(memory.NewBoardRepository(), memory.NewSquareRepository())

	created, err := svc.CreateBoard(t.Context(), CreateBoardInput{
		Name:                "March Pool",
		PricePerSquareCents: 1000,
		PayoutOverridesCents: map[game.Round]int64{
			game.RoundChampionship: 75000,
		},
	})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}

	if created.Status != board.StatusOpen {
		t.Fatalf("expected new board to be OPEN, got %s", created.Status)
	}
	if created.ID == "" {
		t.Fatal("expected generated board id")
	}

	got, err := svc.GetBoard(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("get board: %v", err)
	}
	if got.PayoutOverridesCents[game.RoundChampionship] != 75000 {
		t.Fatalf("payout override not persisted: %+v", got.PayoutOverridesCents)
	}
}

func TestBoardService_CreateBoard_RejectsBadInput(t *testing.T) {
	svc := newBoardService(memory.NewBoardRepository(), memory.NewSquareRepository())

	cases := []CreateBoardInput{
		{Name: "", PricePerSquareCents: 1000},
		{Name: "Pool", PricePerSquareCents: 0},
		{Name: "Pool", PricePerSquareCents: 1000, PayoutOverridesCents: map[game.Round]int64{"PLAY_IN": 100}},
		{Name: "Pool", PricePerSquareCents: 1000, PayoutOverridesCents: map[game.Round]int64{game.RoundRound1: -5}},
	}
	for i, input := range cases {
		if _, err := svc.CreateBoard(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestBoardService_ClaimSquare(t *testing.T) {
	svc := newBoardService(memory.NewBoardRepository(memory.SeedBoards()...), memory.NewSquareRepository())

	first, err := svc.ClaimSquare(t.Context(), ClaimSquareInput{
		BoardID:   memory.BoardIDOfficePool,
		OwnerID:   "owner-01",
		OwnerName: "Pat",
	})
	if err != nil {
		t.Fatalf("claim square: %v", err)
	}
	if first.PaymentStatus != square.PaymentPending {
		t.Fatalf("expected PENDING payment status, got %s", first.PaymentStatus)
	}
	if first.ClaimOrder != 1 {
		t.Fatalf("expected claim order 1, got %d", first.ClaimOrder)
	}

	second, err := svc.ClaimSquare(t.Context(), ClaimSquareInput{
		BoardID: memory.BoardIDOfficePool,
		OwnerID: "owner-02",
	})
	if err != nil {
		t.Fatalf("claim second square: %v", err)
	}
	if second.ClaimOrder != 2 {
		t.Fatalf("expected claim order 2, got %d", second.ClaimOrder)
	}
}

func TestBoardService_ClaimSquare_FullBoard(t *testing.T) {
	svc := newBoardService(
		memory.NewBoardRepository(memory.SeedBoards()...),
		memory.NewSquareRepository(memory.SeedFullyPaidSquares(memory.BoardIDOfficePool)...),
	)

	_, err := svc.ClaimSquare(t.Context(), ClaimSquareInput{
		BoardID: memory.BoardIDOfficePool,
		OwnerID: "owner-late",
	})
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed, got %v", err)
	}
}

func TestBoardService_MarkSquarePaid_Idempotent(t *testing.T) {
	squares := memory.SeedFullyPaidSquares(memory.BoardIDOfficePool)
	squares[0].PaymentStatus = square.PaymentPending

	svc := newBoardService(
		memory.NewBoardRepository(memory.SeedBoards()...),
		memory.NewSquareRepository(squares...),
	)

	paid, err := svc.MarkSquarePaid(t.Context(), squares[0].ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.PaymentStatus != square.PaymentPaid {
		t.Fatalf("expected PAID, got %s", paid.PaymentStatus)
	}

	again, err := svc.MarkSquarePaid(t.Context(), squares[0].ID)
	if err != nil {
		t.Fatalf("second mark paid: %v", err)
	}
	if again.PaymentStatus != square.PaymentPaid {
		t.Fatalf("expected PAID on repeat, got %s", again.PaymentStatus)
	}
}

func TestBoardService_LastPaymentTriggersAssignment(t *testing.T) {
	squares := memory.SeedFullyPaidSquares(memory.BoardIDOfficePool)
	squares[99].PaymentStatus = square.PaymentPending

	boardRepo := memory.NewBoardRepository(memory.SeedBoards()...)
	squareRepo := memory.NewSquareRepository(squares...)

	svc := newBoardService(boardRepo, squareRepo)
	assigner := NewAssignmentService(boardRepo, squareRepo, logging.NewNop())
	assigner.newRand = seededRand(3)
	svc.SetAssigner(assigner)

	if _, err := svc.MarkSquarePaid(t.Context(), squares[99].ID); err != nil {
		t.Fatalf("mark last square paid: %v", err)
	}

	got, err := svc.GetBoard(t.Context(), memory.BoardIDOfficePool)
	if err != nil {
		t.Fatalf("get board: %v", err)
	}
	if got.Status != board.StatusAssigned {
		t.Fatalf("expected board ASSIGNED after final payment, got %s", got.Status)
	}

	report, err := assigner.AuditBoard(t.Context(), memory.BoardIDOfficePool)
	if err != nil {
		t.Fatalf("audit board: %v", err)
	}
	if !report.Valid || report.Stats.AssignedSquares != board.TotalSquares {
		t.Fatalf("expected fully assigned valid board, got %+v", report.Stats)
	}
}

func TestBoardService_GetBoardSummary(t *testing.T) {
	squares := memory.SeedFullyPaidSquares(memory.BoardIDOfficePool)
	squares[0].PaymentStatus = square.PaymentPending
	squares[1].PaymentStatus = square.PaymentPending

	svc := newBoardService(
		memory.NewBoardRepository(memory.SeedBoards()...),
		memory.NewSquareRepository(squares...),
	)

	summary, err := svc.GetBoardSummary(t.Context(), memory.BoardIDOfficePool)
	if err != nil {
		t.Fatalf("get board summary: %v", err)
	}

	if summary.ClaimedSquares != board.TotalSquares {
		t.Fatalf("expected %d claimed squares, got %d", board.TotalSquares, summary.ClaimedSquares)
	}
	if summary.PaidSquares != board.TotalSquares-2 {
		t.Fatalf("expected %d paid squares, got %d", board.TotalSquares-2, summary.PaidSquares)
	}
	if summary.Board.PaidSquares != summary.PaidSquares {
		t.Fatalf("board paid count mismatch: %d vs %d", summary.Board.PaidSquares, summary.PaidSquares)
	}
}

func TestBoardService_ActivateBoard_RequiresAssignment(t *testing.T) {
	svc := newBoardService(memory.NewBoardRepository(memory.SeedBoards()...), memory.NewSquareRepository())

	_, err := svc.ActivateBoard(t.Context(), memory.BoardIDOfficePool)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected ErrPreconditionFailed for OPEN board, got %v", err)
	}
}
