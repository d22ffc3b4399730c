package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/usecase"
)

func (h *Handler) GetStartTimes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStartTimes")
	defer span.End()

	times, err := h.services.Schedule.StartTimes(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list start times failed", "error", err)
		writeError(w, err)
		return
	}

	cfg := h.services.Schedule.Config()
	writeSuccess(w, http.StatusOK, scheduleConfigDTO{
		TournamentStart:      cfg.TournamentStart,
		TournamentEnd:        cfg.TournamentEnd,
		GameDurationMinutes:  cfg.GameDurationMinutes,
		BreakDurationMinutes: cfg.BreakDurationMinutes,
		Fields:               cfg.FieldNames,
		StartTimes:           times,
	})
}

func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGrid")
	defer span.End()

	grid, err := h.services.Schedule.Grid(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "build schedule grid failed", "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, grid)
}

func (h *Handler) AuditSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AuditSchedule")
	defer span.End()

	conflicts, err := h.services.Schedule.Audit(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit schedule failed", "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, conflicts)
}

func (h *Handler) ValidateSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateSlot")
	defer span.End()

	var req validateSlotRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(w, err)
		return
	}

	conflict, err := h.services.Schedule.Validate(ctx, usecase.ValidateSlotInput{
		GameID:     req.GameID,
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		StartTime:  req.StartTime,
		Field:      req.Field,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, validateSlotDTO{Valid: conflict == nil, Conflict: conflict})
}

func (h *Handler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignSlot")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	var req slotRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.services.Schedule.Assign(ctx, usecase.SlotInput{
		GameID:    gameID,
		StartTime: req.StartTime,
		Field:     req.Field,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) UnassignSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnassignSlot")
	defer span.End()

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	item, err := h.services.Schedule.Unassign(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "unassign slot failed", "game_id", gameID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, gameToDTO(item))
}

func (h *Handler) AutoSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AutoSchedule")
	defer span.End()

	result, err := h.services.Schedule.AutoSchedule(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "auto schedule failed", "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result)
}
