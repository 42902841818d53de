package notify

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/platform/logging"
	"github.com/riskibarqy/squares-pool/internal/usecase"
)

func testNotification() usecase.WinnerNotification {
	return usecase.WinnerNotification{
		BoardID:     "board-1",
		GameID:      "game-63",
		GameNumber:  63,
		Round:       game.RoundChampionship,
		SquareID:    "sq-a",
		OwnerID:     "owner-01",
		OwnerName:   "Pat",
		Team1Digit:  8,
		Team2Digit:  4,
		PayoutCents: 50000,
	}
}

func TestWebhookNotifier_NotifyWinner(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hook-secret" {
			t.Errorf("unexpected authorization header: %s", got)
		}

		var payload map[string]any
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if payload["square_id"] != "sq-a" {
			t.Errorf("unexpected square id: %v", payload["square_id"])
		}
		if payload["payout_cents"] != float64(50000) {
			t.Errorf("unexpected payout: %v", payload["payout_cents"])
		}

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	notifier, err := NewWebhookNotifier(WebhookNotifierConfig{
		URL:   srv.URL,
		Token: "hook-secret",
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("new webhook notifier: %v", err)
	}

	if err := notifier.NotifyWinner(t.Context(), testNotification()); err != nil {
		t.Fatalf("notify winner: %v", err)
	}
}

func TestWebhookNotifier_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier, err := NewWebhookNotifier(WebhookNotifierConfig{URL: srv.URL}, logging.NewNop())
	if err != nil {
		t.Fatalf("new webhook notifier: %v", err)
	}

	if err := notifier.NotifyWinner(t.Context(), testNotification()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestWebhookNotifier_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	notifier, err := NewWebhookNotifier(WebhookNotifierConfig{URL: srv.URL}, logging.NewNop())
	if err != nil {
		t.Fatalf("new webhook notifier: %v", err)
	}

	// Default breaker opens after 5 failures; later calls never hit the server.
	for i := 0; i < 8; i++ {
		if err := notifier.NotifyWinner(t.Context(), testNotification()); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}
	if got := hits.Load(); got != 5 {
		t.Fatalf("expected 5 server hits before circuit opened, got %d", got)
	}
}

func TestNewWebhookNotifier_RejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewWebhookNotifier(WebhookNotifierConfig{URL: "ftp://example.com"}, logging.NewNop()); err == nil {
		t.Fatal("expected error for unsupported scheme")
	}
	if _, err := NewWebhookNotifier(WebhookNotifierConfig{URL: "   "}, logging.NewNop()); err == nil {
		t.Fatal("expected error for empty url")
	}
}
