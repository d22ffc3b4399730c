package httpapi

import (
	"net/http"

	"github.com/riskibarqy/youth-cup/internal/usecase"
)

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	items, err := h.services.Standings.Overall(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list standings failed", "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, standingsToDTO(items))
}

func (h *Handler) ListPoolStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPoolStandings")
	defer span.End()

	pools, err := h.services.Standings.ByPool(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list pool standings failed", "error", err)
		writeError(w, err)
		return
	}

	items := make([]poolStandingsDTO, 0, len(pools))
	for _, p := range pools {
		items = append(items, poolStandingsDTO{
			PoolID:    p.Pool.ID,
			PoolName:  p.Pool.Name,
			Standings: standingsToDTO(p.Standings),
		})
	}
	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) GetQualification(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetQualification")
	defer span.End()

	result, err := h.services.Qualification.Evaluate(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "evaluate qualification failed", "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, qualificationToDTO(result))
}

func (h *Handler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateBracket")
	defer span.End()

	var req generateBracketRequest
	if r.ContentLength != 0 {
		if err := h.decodeAndValidate(ctx, r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	out, err := h.services.Bracket.Generate(ctx, usecase.GenerateBracketInput{WildcardTeamIDs: req.WildcardTeamIDs})
	if err != nil {
		h.logger.WarnContext(ctx, "generate bracket failed", "wildcard_team_ids", req.WildcardTeamIDs, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, generateBracketDTO{
		Seeds:          seedsToDTO(out.Seeds),
		Quarterfinals:  gamesToDTO(out.Quarterfinals),
		ResolvedByHand: out.ResolvedByHand,
	})
}

func (h *Handler) GetBracket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBracket")
	defer span.End()

	view, err := h.services.Bracket.View(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get bracket failed", "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, bracketToDTO(view))
}

func (h *Handler) AdvanceBracket(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvanceBracket")
	defer span.End()

	created, err := h.services.Bracket.Advance(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "advance bracket failed", "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, gamesToDTO(created))
}
