package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/usecase"
)

type createBoardRequest struct {
	Name                 string           `json:"name" validate:"required,max=120"`
	PricePerSquareCents  int64            `json:"price_per_square_cents" validate:"required,gt=0"`
	PayoutOverridesCents map[string]int64 `json:"payout_overrides_cents" validate:"omitempty,dive,gt=0"`
}

type claimSquareRequest struct {
	OwnerID   string `json:"owner_id" validate:"required,max=120"`
	OwnerName string `json:"owner_name" validate:"max=120"`
}

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateBoard")
	defer span.End()

	var req createBoardRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var overrides map[game.Round]int64
	if len(req.PayoutOverridesCents) > 0 {
		overrides = make(map[game.Round]int64, len(req.PayoutOverridesCents))
		for round, cents := range req.PayoutOverridesCents {
			overrides[game.Round(round)] = cents
		}
	}

	created, err := h.boardService.CreateBoard(ctx, usecase.CreateBoardInput{
		Name:                 req.Name,
		PricePerSquareCents:  req.PricePerSquareCents,
		PayoutOverridesCents: overrides,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create board failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, boardToDTO(ctx, created))
}

func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBoards")
	defer span.End()

	boards, err := h.boardService.ListBoards(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list boards failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]boardDTO, 0, len(boards))
	for _, b := range boards {
		items = append(items, boardToDTO(ctx, b))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoard")
	defer span.End()

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	item, err := h.boardService.GetBoard(ctx, boardID)
	if err != nil {
		h.logger.WarnContext(ctx, "get board failed", "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boardToDTO(ctx, item))
}

func (h *Handler) GetBoardSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoardSummary")
	defer span.End()

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	summary, err := h.boardService.GetBoardSummary(ctx, boardID)
	if err != nil {
		h.logger.WarnContext(ctx, "get board summary failed", "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	squares := make([]squareDTO, 0, len(summary.Squares))
	for _, sq := range summary.Squares {
		squares = append(squares, squareToDTO(ctx, sq))
	}

	writeSuccess(ctx, w, http.StatusOK, boardSummaryDTO{
		Board:          boardToDTO(ctx, summary.Board),
		ClaimedSquares: summary.ClaimedSquares,
		PaidSquares:    summary.PaidSquares,
		Squares:        squares,
	})
}

func (h *Handler) ClaimSquare(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClaimSquare")
	defer span.End()

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	var req claimSquareRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	claimed, err := h.boardService.ClaimSquare(ctx, usecase.ClaimSquareInput{
		BoardID:   boardID,
		OwnerID:   req.OwnerID,
		OwnerName: req.OwnerName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "claim square failed", "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, squareToDTO(ctx, claimed))
}

func (h *Handler) MarkSquarePaid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkSquarePaid")
	defer span.End()

	squareID := strings.TrimSpace(r.PathValue("squareID"))
	paid, err := h.boardService.MarkSquarePaid(ctx, squareID)
	if err != nil {
		h.logger.WarnContext(ctx, "mark square paid failed", "square_id", squareID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squareToDTO(ctx, paid))
}

func (h *Handler) ActivateBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateBoard")
	defer span.End()

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	item, err := h.boardService.ActivateBoard(ctx, boardID)
	if err != nil {
		h.logger.WarnContext(ctx, "activate board failed", "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boardToDTO(ctx, item))
}

func (h *Handler) CompleteBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteBoard")
	defer span.End()

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	item, err := h.boardService.CompleteBoard(ctx, boardID)
	if err != nil {
		h.logger.WarnContext(ctx, "complete board failed", "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boardToDTO(ctx, item))
}
