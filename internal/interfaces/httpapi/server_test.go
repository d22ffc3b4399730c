package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/youth-cup/internal/domain/qualification"
	"github.com/riskibarqy/youth-cup/internal/domain/schedule"
	"github.com/riskibarqy/youth-cup/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/youth-cup/internal/platform/id"
	"github.com/riskibarqy/youth-cup/internal/usecase"
)

const testAdminToken = "s3cret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore(memory.SeedPools(), memory.SeedTeams(), memory.SeedGames())
	cfg := schedule.Config{
		TournamentStart:      "08:00",
		TournamentEnd:        "18:00",
		GameDurationMinutes:  45,
		BreakDurationMinutes: 10,
		FieldNames:           []string{"Field 1", "Field 2"},
	}
	rules := qualification.DefaultRules()
	ids := idgen.NewUUIDGenerator("")

	services := Services{
		Teams:         usecase.NewTeamService(store, ids, nil, nil),
		Pools:         usecase.NewPoolService(store, ids, nil),
		Games:         usecase.NewGameService(store, cfg, ids, nil, nil),
		Standings:     usecase.NewStandingsService(store, nil),
		Qualification: usecase.NewQualificationService(store, rules, nil),
		Bracket:       usecase.NewBracketService(store, rules, ids, nil, nil),
		Schedule:      usecase.NewScheduleService(store, cfg, 2, nil, nil),
	}
	return NewRouter(NewHandler(services, nil, nil), nil, nil, testAdminToken)
}

func doRequest(router http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set(adminTokenHeader, testAdminToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorStatus(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error body, got %s", rec.Body.String())
	}
	return errorObj
}

func TestRouter_Healthz(t *testing.T) {
	rec := doRequest(newTestRouter(t), http.MethodGet, "/healthz", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_WritesRequireAdminToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/v1/teams", `{"name":"Dune Runners"}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPost, "/v1/teams", `{"name":"Dune Runners","captain":"Sam"}`, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 with token, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, http.MethodPost, "/v1/teams", `{"name":"dune runners"}`, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate name, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RejectsUnknownFields(t *testing.T) {
	rec := doRequest(newTestRouter(t), http.MethodPost, "/v1/pools", `{"name":"Pool G","colour":"red"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouter_RecordResultValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPut, "/v1/games/game-a-1/result", `{"homeScore":-1,"awayScore":0}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative score, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPut, "/v1/games/missing/result", `{"homeScore":1,"awayScore":0}`, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown game, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPut, "/v1/games/game-a-1/result", `{"homeScore":2,"awayScore":1}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_SlotConflictCarriesDetail(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodPut, "/v1/games/game-a-1/slot", `{"startTime":"08:00","field":"Field 1"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for first slot, got %d: %s", rec.Code, rec.Body.String())
	}

	// game-a-2 shares team-a1 with game-a-1.
	rec = doRequest(router, http.MethodPut, "/v1/games/game-a-2/slot", `{"startTime":"08:30","field":"Field 2"}`, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	detail, ok := errorStatus(t, rec)["conflict"].(map[string]any)
	if !ok {
		t.Fatalf("expected conflict detail: %s", rec.Body.String())
	}
	if detail["kind"] != schedule.ConflictTeam || detail["conflictingGameId"] != "game-a-1" {
		t.Fatalf("unexpected conflict detail: %v", detail)
	}

	rec = doRequest(router, http.MethodPost, "/v1/schedule/validate", `{"gameId":"game-a-2","startTime":"08:55","field":"Field 2"}`, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from validate, got %d", rec.Code)
	}
	var body struct {
		Data validateSlotDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal validate: %v", err)
	}
	if !body.Data.Valid {
		t.Fatalf("expected 08:55 to be free after the break, got %+v", body.Data.Conflict)
	}
}

func TestRouter_BracketBeforePoolPlay(t *testing.T) {
	rec := doRequest(newTestRouter(t), http.MethodPost, "/v1/bracket", "", true)
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := errorStatus(t, rec)["status"]; got != "FAILED_PRECONDITION" {
		t.Fatalf("unexpected status %v", got)
	}
}

func TestRouter_StartTimes(t *testing.T) {
	rec := doRequest(newTestRouter(t), http.MethodGet, "/v1/schedule/start-times", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data scheduleConfigDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Data.StartTimes) == 0 || body.Data.StartTimes[0] != "08:00" {
		t.Fatalf("unexpected start times: %v", body.Data.StartTimes)
	}
	if len(body.Data.Fields) != 2 {
		t.Fatalf("unexpected fields: %v", body.Data.Fields)
	}
}

func TestRequireAdminToken_EmptyTokenIsOpen(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	RequireAdminToken("  ", nil, next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/pools", nil))
	if !called || rec.Code != http.StatusNoContent {
		t.Fatalf("expected passthrough, called=%v code=%d", called, rec.Code)
	}
}

func TestRequireAdminToken_WrongToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("next must not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/pools", nil)
	req.Header.Set(adminTokenHeader, "nope")
	rec := httptest.NewRecorder()
	RequireAdminToken(testAdminToken, nil, next).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestShouldTraceRequest(t *testing.T) {
	if shouldTraceRequest("/healthz") || shouldTraceRequest("/v1/live") {
		t.Fatalf("probes and websocket must not be traced")
	}
	if !shouldTraceRequest("/v1/standings") {
		t.Fatalf("api routes must be traced")
	}
}
