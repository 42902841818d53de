package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerBoardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/boards", handler.CreateBoard)
	mux.HandleFunc("GET /v1/boards", handler.ListBoards)
	mux.HandleFunc("GET /v1/boards/{boardID}", handler.GetBoard)
	mux.HandleFunc("GET /v1/boards/{boardID}/summary", handler.GetBoardSummary)
	mux.HandleFunc("POST /v1/boards/{boardID}/squares", handler.ClaimSquare)
	mux.HandleFunc("POST /v1/squares/{squareID}/pay", handler.MarkSquarePaid)
	mux.HandleFunc("POST /v1/boards/{boardID}/assign", handler.AssignBoard)
	mux.HandleFunc("GET /v1/boards/{boardID}/audit", handler.AuditBoard)
	mux.HandleFunc("POST /v1/boards/{boardID}/activate", handler.ActivateBoard)
	mux.HandleFunc("POST /v1/boards/{boardID}/complete", handler.CompleteBoard)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/boards/{boardID}/games", handler.ScheduleGame)
	mux.HandleFunc("GET /v1/boards/{boardID}/games", handler.ListGamesByBoard)
	mux.HandleFunc("GET /v1/games/{gameID}", handler.GetGame)
	mux.HandleFunc("POST /v1/games/{gameID}/start", handler.StartGame)
	mux.HandleFunc("POST /v1/games/{gameID}/score", handler.ReportFinalScore)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/audit-boards", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBoardAuditJob)))
}
