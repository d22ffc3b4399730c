package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/schedule"
	"github.com/riskibarqy/youth-cup/internal/usecase"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	return body
}

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("dial tcp 10.0.0.5:5432: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	errorObj := decodeEnvelope(t, rec)["error"].(map[string]any)
	if got := errorObj["message"]; got != "internal server error" {
		t.Fatalf("expected generic message, got %v", got)
	}
}

func TestWriteError_ScheduleConflictDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	conflict := schedule.Conflict{
		Kind:              schedule.ConflictField,
		GameID:            "g2",
		ConflictingGameID: "g1",
		Field:             "Field 1",
		Start:             "08:00",
		End:               "08:45",
		Message:           "field Field 1 is occupied",
	}
	writeError(rec, &usecase.ScheduleConflictError{Conflict: conflict})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	errorObj := decodeEnvelope(t, rec)["error"].(map[string]any)
	detail, ok := errorObj["conflict"].(map[string]any)
	if !ok {
		t.Fatalf("expected conflict detail in error body: %v", errorObj)
	}
	if detail["kind"] != schedule.ConflictField || detail["conflictingGameId"] != "g1" {
		t.Fatalf("unexpected conflict detail: %v", detail)
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid score", err: fmt.Errorf("record: %w", game.ErrInvalidScore), status: http.StatusBadRequest},
		{name: "playoff tie", err: game.ErrPlayoffTie, status: http.StatusBadRequest},
		{name: "not found", err: fmt.Errorf("%w: game=x", usecase.ErrNotFound), status: http.StatusNotFound},
		{name: "unauthorized", err: usecase.ErrUnauthorized, status: http.StatusUnauthorized},
		{name: "conflict", err: fmt.Errorf("%w: name taken", usecase.ErrConflict), status: http.StatusConflict},
		{name: "not ready", err: fmt.Errorf("%w: pool play pending", usecase.ErrNotReady), status: http.StatusPreconditionFailed},
		{name: "dependency", err: usecase.ErrDependencyUnavailable, status: http.StatusServiceUnavailable},
		{name: "unknown", err: fmt.Errorf("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapError(tt.err).HTTPStatus; got != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, got)
			}
		})
	}
}
