package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/squares-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squares-pool/internal/platform/cache"
	"github.com/riskibarqy/squares-pool/internal/platform/id"
	"github.com/riskibarqy/squares-pool/internal/platform/logging"
	"github.com/riskibarqy/squares-pool/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	boardRepo := memory.NewBoardRepository(memory.SeedBoards()...)
	squareRepo := memory.NewSquareRepository()
	gameRepo := memory.NewGameRepository()
	logger := logging.NewNop()

	assignmentService := usecase.NewAssignmentService(boardRepo, squareRepo, logger)
	boardService := usecase.NewBoardService(boardRepo, squareRepo, cache.NewStore(time.Minute), id.NewRandomGenerator(), logger)
	boardService.SetAssigner(assignmentService)
	scoringService := usecase.NewScoringService(gameRepo, boardRepo, squareRepo, logger)
	gameService := usecase.NewGameService(gameRepo, boardRepo, id.NewRandomGenerator(), logger)
	gameService.SetScorer(scoringService)

	handler := NewHandler(boardService, gameService, assignmentService, logger)
	return NewRouter(handler, logger, []string{"*"}, "job-secret")
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal %s %s response: %v", method, path, err)
		}
	}
	return rec.Code, envelope
}

func TestRouter_CreateAndGetBoard(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodPost, "/v1/boards",
		`{"name":"Regional Pool","price_per_square_cents":1500}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%v)", status, body)
	}

	data := body["data"].(map[string]any)
	boardID := data["id"].(string)
	if data["status"] != "OPEN" {
		t.Fatalf("expected new board OPEN, got %v", data["status"])
	}

	status, body = doJSON(t, router, http.MethodGet, "/v1/boards/"+boardID, "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
}

func TestRouter_CreateBoard_RejectsUnknownFields(t *testing.T) {
	router := newTestRouter(t)

	status, _ := doJSON(t, router, http.MethodPost, "/v1/boards",
		`{"name":"Pool","price_per_square_cents":1000,"bogus":true}`)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", status)
	}
}

func TestRouter_ClaimPayAssignScoreFlow(t *testing.T) {
	router := newTestRouter(t)

	// Claim all 100 squares, then pay each one. The final payment fills the
	// board and kicks off automatic assignment.
	squareIDs := make([]string, 0, 100)
	for i := 0; i < 100; i++ {
		status, body := doJSON(t, router, http.MethodPost,
			"/v1/boards/"+memory.BoardIDOfficePool+"/squares",
			`{"owner_id":"owner-a","owner_name":"Alex"}`)
		if status != http.StatusCreated {
			t.Fatalf("claim %d: expected 201, got %d (%v)", i, status, body)
		}
		data := body["data"].(map[string]any)
		squareIDs = append(squareIDs, data["id"].(string))
	}

	status, _ := doJSON(t, router, http.MethodPost,
		"/v1/boards/"+memory.BoardIDOfficePool+"/squares",
		`{"owner_id":"owner-late"}`)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 claiming beyond a full board, got %d", status)
	}

	for i, squareID := range squareIDs {
		status, body := doJSON(t, router, http.MethodPost, "/v1/squares/"+squareID+"/pay", "")
		if status != http.StatusOK {
			t.Fatalf("pay %d: expected 200, got %d (%v)", i, status, body)
		}
	}

	status, body := doJSON(t, router, http.MethodGet, "/v1/boards/"+memory.BoardIDOfficePool, "")
	if status != http.StatusOK {
		t.Fatalf("get board: expected 200, got %d", status)
	}
	boardData := body["data"].(map[string]any)
	if boardData["status"] != "ASSIGNED" {
		t.Fatalf("expected ASSIGNED after final payment, got %v", boardData["status"])
	}

	status, body = doJSON(t, router, http.MethodGet, "/v1/boards/"+memory.BoardIDOfficePool+"/audit", "")
	if status != http.StatusOK {
		t.Fatalf("audit: expected 200, got %d", status)
	}
	audit := body["data"].(map[string]any)
	if audit["valid"] != true {
		t.Fatalf("expected valid audit, got %v", body)
	}

	status, _ = doJSON(t, router, http.MethodPost,
		"/v1/boards/"+memory.BoardIDOfficePool+"/assign", "")
	if status != http.StatusConflict {
		t.Fatalf("expected 409 for second assignment, got %d", status)
	}

	status, body = doJSON(t, router, http.MethodPost,
		"/v1/boards/"+memory.BoardIDOfficePool+"/games",
		`{"game_number":63,"round":"CHAMPIONSHIP","team1":"Kansas","team2":"Gonzaga"}`)
	if status != http.StatusCreated {
		t.Fatalf("schedule game: expected 201, got %d (%v)", status, body)
	}
	gameID := body["data"].(map[string]any)["id"].(string)

	status, _ = doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/start", "")
	if status != http.StatusOK {
		t.Fatalf("start game: expected 200, got %d", status)
	}

	status, body = doJSON(t, router, http.MethodPost, "/v1/games/"+gameID+"/score",
		`{"team1_score":78,"team2_score":74}`)
	if status != http.StatusOK {
		t.Fatalf("score game: expected 200, got %d (%v)", status, body)
	}
	result := body["data"].(map[string]any)
	if result["winner_found"] != true {
		t.Fatalf("expected a winner on a fully assigned board, got %v", result)
	}
	// Championship on the $10 seed board pays 50x.
	if result["payout_cents"] != float64(50000) {
		t.Fatalf("expected payout 50000, got %v", result["payout_cents"])
	}
}

func TestRouter_AuditJobRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/audit-boards", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/audit-boards", nil)
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}
