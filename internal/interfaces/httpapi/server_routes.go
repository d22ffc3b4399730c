package httpapi

import (
	"net/http"

	"github.com/riskibarqy/youth-cup/internal/platform/logging"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/live", handler.Live)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/pools", handler.ListPools)
	mux.HandleFunc("GET /v1/pools/standings", handler.ListPoolStandings)
	mux.HandleFunc("GET /v1/games", handler.ListGames)
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/qualification", handler.GetQualification)
	mux.HandleFunc("GET /v1/bracket", handler.GetBracket)
	mux.HandleFunc("GET /v1/schedule/start-times", handler.GetStartTimes)
	mux.HandleFunc("GET /v1/schedule/grid", handler.GetGrid)
	mux.HandleFunc("GET /v1/schedule/audit", handler.AuditSchedule)
	// Read-only check, so it stays open to the scheduling UI.
	mux.HandleFunc("POST /v1/schedule/validate", handler.ValidateSlot)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string, logger *logging.Logger) {
	admin := func(fn http.HandlerFunc) http.Handler {
		return RequireAdminToken(adminToken, logger, fn)
	}

	mux.Handle("POST /v1/teams", admin(handler.RegisterTeam))
	mux.Handle("PUT /v1/teams/{teamID}/pool", admin(handler.AssignTeamPool))
	mux.Handle("PUT /v1/teams/{teamID}/fair-play", admin(handler.SetFairPlayPoints))
	mux.Handle("POST /v1/pools", admin(handler.CreatePool))
	mux.Handle("POST /v1/pools/{poolID}/round-robin", admin(handler.GenerateRoundRobin))
	mux.Handle("POST /v1/games", admin(handler.CreateGame))
	mux.Handle("PUT /v1/games/{gameID}/result", admin(handler.RecordResult))
	mux.Handle("PUT /v1/games/{gameID}/slot", admin(handler.AssignSlot))
	mux.Handle("DELETE /v1/games/{gameID}/slot", admin(handler.UnassignSlot))
	mux.Handle("POST /v1/bracket", admin(handler.GenerateBracket))
	mux.Handle("POST /v1/bracket/advance", admin(handler.AdvanceBracket))
	mux.Handle("POST /v1/schedule/auto", admin(handler.AutoSchedule))
}
