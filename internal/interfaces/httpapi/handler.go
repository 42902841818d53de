package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/squares-pool/internal/platform/logging"
	"github.com/riskibarqy/squares-pool/internal/usecase"
)

type Handler struct {
	boardService      *usecase.BoardService
	gameService       *usecase.GameService
	assignmentService *usecase.AssignmentService
	logger            *logging.Logger
	validator         *validator.Validate
	auditJobWorkers   int
}

func NewHandler(
	boardService *usecase.BoardService,
	gameService *usecase.GameService,
	assignmentService *usecase.AssignmentService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		boardService:      boardService,
		gameService:       gameService,
		assignmentService: assignmentService,
		logger:            logger,
		validator:         validator.New(),
	}
}

// SetAuditJobWorkers overrides the worker pool size the bulk audit job uses
// when the request does not pass one.
func (h *Handler) SetAuditJobWorkers(workers int) {
	h.auditJobWorkers = workers
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
