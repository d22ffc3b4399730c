package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
	"github.com/riskibarqy/youth-cup/internal/usecase"
)

// Services groups the use cases the API exposes.
type Services struct {
	Teams         *usecase.TeamService
	Pools         *usecase.PoolService
	Games         *usecase.GameService
	Standings     *usecase.StandingsService
	Qualification *usecase.QualificationService
	Bracket       *usecase.BracketService
	Schedule      *usecase.ScheduleService
}

type Handler struct {
	services  Services
	live      http.Handler
	logger    *logging.Logger
	validator *validator.Validate
}

// NewHandler builds the API handler. live serves GET /v1/live and may be nil.
func NewHandler(services Services, live http.Handler, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if live == nil {
		live = http.NotFoundHandler()
	}

	return &Handler{
		services:  services,
		live:      live,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	h.live.ServeHTTP(w, r)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeAndValidate reads the JSON body into req and runs the struct validation tags.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, req any) error {
	if err := decodeJSON(r, req); err != nil {
		return err
	}
	return h.validateRequest(ctx, req)
}
