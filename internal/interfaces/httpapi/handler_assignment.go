package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/squares-pool/internal/usecase"
)

func (h *Handler) AssignBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignBoard")
	defer span.End()

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	result, err := h.assignmentService.AssignBoard(ctx, boardID)
	if err != nil {
		h.logger.WarnContext(ctx, "assign board failed", "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, assignBoardDTO{
		Board:              boardToDTO(ctx, result.Board),
		WinningTeamNumbers: result.WinningTeamNumbers,
		LosingTeamNumbers:  result.LosingTeamNumbers,
		Audit:              auditReportToDTO(ctx, result.Report),
		Shared:             result.Shared,
	})
}

func (h *Handler) AuditBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AuditBoard")
	defer span.End()

	boardID := strings.TrimSpace(r.PathValue("boardID"))
	report, err := h.assignmentService.AuditBoard(ctx, boardID)
	if err != nil {
		h.logger.WarnContext(ctx, "audit board failed", "board_id", boardID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, auditReportToDTO(ctx, report))
}

// RunBoardAuditJob sweeps every board's assignment. It is wired behind the
// internal job token, meant for a scheduler rather than interactive use.
func (h *Handler) RunBoardAuditJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBoardAuditJob")
	defer span.End()

	maxWorkers := h.auditJobWorkers
	if raw := strings.TrimSpace(r.URL.Query().Get("workers")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: workers must be an integer", usecase.ErrInvalidInput))
			return
		}
		maxWorkers = parsed
	}

	result, err := h.assignmentService.AuditAllBoards(ctx, maxWorkers)
	if err != nil {
		h.logger.ErrorContext(ctx, "board audit job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
