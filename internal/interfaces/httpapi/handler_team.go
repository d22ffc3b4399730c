package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.services.Teams.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, teamsToDTO(teams))
}

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterTeam")
	defer span.End()

	var req registerTeamRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.services.Teams.Register(ctx, usecase.RegisterTeamInput{
		Name:           req.Name,
		Captain:        req.Captain,
		Contact:        req.Contact,
		PoolID:         req.PoolID,
		FairPlayPoints: req.FairPlayPoints,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register team failed", "name", req.Name, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, teamToDTO(item))
}

func (h *Handler) AssignTeamPool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignTeamPool")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	var req assignPoolRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.services.Teams.AssignPool(ctx, teamID, req.PoolID)
	if err != nil {
		h.logger.WarnContext(ctx, "assign team pool failed", "team_id", teamID, "pool_id", req.PoolID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) SetFairPlayPoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetFairPlayPoints")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	var req fairPlayRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.services.Teams.SetFairPlayPoints(ctx, teamID, *req.Points)
	if err != nil {
		h.logger.WarnContext(ctx, "set fair play points failed", "team_id", teamID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) ListPools(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPools")
	defer span.End()

	pools, err := h.services.Pools.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list pools failed", "error", err)
		writeError(w, err)
		return
	}

	items := make([]poolDTO, 0, len(pools))
	for _, p := range pools {
		items = append(items, poolToDTO(p))
	}
	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) CreatePool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePool")
	defer span.End()

	var req createPoolRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.services.Pools.Create(ctx, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create pool failed", "name", req.Name, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, poolDTO{ID: item.ID, Name: item.Name, Teams: []teamDTO{}})
}

func (h *Handler) GenerateRoundRobin(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateRoundRobin")
	defer span.End()

	poolID := strings.TrimSpace(r.PathValue("poolID"))
	games, err := h.services.Games.GenerateRoundRobin(ctx, poolID)
	if err != nil {
		h.logger.WarnContext(ctx, "generate round robin failed", "pool_id", poolID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, gamesToDTO(games))
}
