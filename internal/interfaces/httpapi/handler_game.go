package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/squares-pool/internal/usecase"
)

type scheduleGameRequest struct {
	GameNumber int    `json:"game_number" validate:"required,min=1,max=63"`
	Round      string `json:"round" validate:"required"`
	Team1      string `json:"team1" validate:"required,max=120"`
	Team2      string `json:"team2" validate:"required,max=120"`
}

type reportFinalScoreRequest struct {
	Team1Score int `json:"team1_score" validate:"min=0"`
	Team2Score int `json:"team2_score" validate:"min=0"`
}

func (h *Handler) ScheduleGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleGame")
	defer span.End()

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	var req scheduleGameRequest
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

	created, err := h.gameService.ScheduleGame(ctx, usecase.ScheduleGameInput{
		BoardID:    boardID,
		GameNumber: req.GameNumber,
		Round:      req.Round,
		Team1:      req.Team1,
		Team2:      req.Team2,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "schedule game failed", "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(ctx, created))
}

func (h *Handler) ListGamesByBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGamesByBoard")
	defer span.End()

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	games, err := h.gameService.ListGamesByBoard(ctx, boardID)
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]gameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, gameToDTO(ctx, g))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.gameService.GetGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, item))
}

func (h *Handler) StartGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartGame")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	started, err := h.gameService.StartGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "start game failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameToDTO(ctx, started))
}

func (h *Handler) ReportFinalScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReportFinalScore")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	var req reportFinalScoreRequest
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

	result, err := h.gameService.ReportFinalScore(ctx, gameID, req.Team1Score, req.Team2Score)
	if err != nil {
		h.logger.WarnContext(ctx, "report final score failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreResultToDTO(ctx, result))
}
