package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/squares-pool/internal/config"
	"github.com/riskibarqy/squares-pool/internal/domain/board"
	"github.com/riskibarqy/squares-pool/internal/domain/game"
	"github.com/riskibarqy/squares-pool/internal/domain/square"
	"github.com/riskibarqy/squares-pool/internal/infrastructure/notify"
	"github.com/riskibarqy/squares-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squares-pool/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/squares-pool/internal/interfaces/httpapi"
	"github.com/riskibarqy/squares-pool/internal/platform/cache"
	idgen "github.com/riskibarqy/squares-pool/internal/platform/id"
	"github.com/riskibarqy/squares-pool/internal/platform/logging"
	"github.com/riskibarqy/squares-pool/internal/platform/resilience"
	"github.com/riskibarqy/squares-pool/internal/usecase"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Server *http.Server
	db     *sqlx.DB
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	boardRepo, squareRepo, gameRepo, db, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	assignmentSvc := usecase.NewAssignmentService(boardRepo, squareRepo, logger)
	boardSvc := usecase.NewBoardService(boardRepo, squareRepo, cacheStore, idgen.NewRandomGenerator(), logger)
	boardSvc.SetAssigner(assignmentSvc)

	scoringSvc := usecase.NewScoringService(gameRepo, boardRepo, squareRepo, logger)
	if cfg.WinnerWebhookEnabled {
		notifier, err := notify.NewWebhookNotifier(notify.WebhookNotifierConfig{
			URL:     cfg.WinnerWebhookURL,
			Token:   cfg.WinnerWebhookToken,
			Timeout: cfg.WinnerWebhookTimeout,
			Breaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WinnerWebhookCircuitEnabled,
				FailureThreshold: cfg.WinnerWebhookCircuitFailures,
				OpenTimeout:      cfg.WinnerWebhookCircuitOpenWait,
				HalfOpenMaxReq:   cfg.WinnerWebhookCircuitHalfOpen,
			},
		}, logger)
		if err != nil {
			closeDB(db, logger)
			return nil, fmt.Errorf("build winner webhook notifier: %w", err)
		}
		scoringSvc.SetNotifier(notifier)
	}

	gameSvc := usecase.NewGameService(gameRepo, boardRepo, idgen.NewRandomGenerator(), logger)
	gameSvc.SetScorer(scoringSvc)

	handler := httpapi.NewHandler(boardSvc, gameSvc, assignmentSvc, logger)
	handler.SetAuditJobWorkers(cfg.AuditJobWorkers)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		closeDB(db, logger)
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, db: db, logger: logger}, nil
}

// Close releases resources owned by the app. The HTTP server is shut down
// separately by the caller.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (board.Repository, square.Repository, game.Repository, *sqlx.DB, error) {
	if useMemoryRepositories(cfg.DBURL) {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty or memory")
		boardRepo := memory.NewBoardRepository(memory.SeedBoards()...)
		gameRepo := memory.NewGameRepository(memory.SeedGames(memory.BoardIDOfficePool)...)
		return boardRepo, memory.NewSquareRepository(), gameRepo, nil, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		closeDB(db, logger)
		return nil, nil, nil, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))
	return postgres.NewBoardRepository(db), postgres.NewSquareRepository(db), postgres.NewGameRepository(db), db, nil
}

func useMemoryRepositories(dbURL string) bool {
	value := strings.ToLower(strings.TrimSpace(dbURL))
	return value == "" || value == "memory"
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return db, nil
}

func closeDB(db *sqlx.DB, logger *logging.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("close db", "error", err)
	}
}
