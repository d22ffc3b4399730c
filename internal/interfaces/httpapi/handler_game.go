package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/usecase"
)

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	query := r.URL.Query()
	games, err := h.services.Games.List(ctx, usecase.GameFilter{
		PoolID: strings.TrimSpace(query.Get("poolId")),
		TeamID: strings.TrimSpace(query.Get("teamId")),
		Round:  strings.TrimSpace(query.Get("round")),
		Status: strings.TrimSpace(query.Get("status")),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list games failed", "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, gamesToDTO(games))
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	var req createGameRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.services.Games.CreatePoolGame(ctx, usecase.CreateGameInput{
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		StartTime:  req.StartTime,
		Field:      req.Field,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create game failed", "home_team_id", req.HomeTeamID, "away_team_id", req.AwayTeamID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, gameToDTO(item))
}

func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordResult")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	var req recordResultRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.services.Games.RecordResult(ctx, usecase.RecordResultInput{
		GameID:    gameID,
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record result failed", "game_id", gameID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, recordResultDTO{
		Game:     gameToDTO(out.Game),
		Advanced: gamesToDTO(out.Advanced),
	})
}
