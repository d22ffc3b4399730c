package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/youth-cup/internal/config"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
)

type capturedBatches struct {
	mu      sync.Mutex
	auth    string
	batches [][]map[string]any
}

func (c *capturedBatches) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var batch []map[string]any
		if err := sonic.Unmarshal(body, &batch); err != nil {
			t.Errorf("expected JSON array body: %v", err)
		}
		c.mu.Lock()
		c.auth = r.Header.Get("Authorization")
		c.batches = append(c.batches, batch)
		c.mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}
}

func (c *capturedBatches) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, batch := range c.batches {
		for _, entry := range batch {
			msg, _ := entry["msg"].(string)
			out = append(out, msg)
		}
	}
	return out
}

func betterStackConfig(endpoint string) config.Config {
	return config.Config{
		LogLevel:            logging.LevelError,
		BetterStackEnabled:  true,
		BetterStackEndpoint: endpoint,
		BetterStackToken:    "secret-token",
		BetterStackTimeout:  2 * time.Second,
		BetterStackMinLevel: logging.LevelError,
		ServiceName:         "youth-cup-api",
		AppEnv:              config.EnvDev,
	}
}

func TestNewLogger_ShipsErrorsAndAuditTrail(t *testing.T) {
	captured := &capturedBatches{}
	server := httptest.NewServer(captured.handler(t))
	defer server.Close()

	logger, shutdown, err := NewLogger(betterStackConfig(server.URL))
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	logger.ErrorContext(context.Background(), "store update failed", "component", "usecase")
	logger.InfoContext(context.Background(), "qualification decided", "status", "ready")
	logger.InfoContext(context.Background(), "team registered", "team_id", "t1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown logger: %v", err)
	}

	got := captured.messages()
	want := map[string]bool{"store update failed": true, "qualification decided": true}
	if len(got) != len(want) {
		t.Fatalf("expected %d shipped entries, got %v", len(want), got)
	}
	for _, msg := range got {
		if !want[msg] {
			t.Fatalf("unexpected shipped entry %q", msg)
		}
	}
	if captured.auth != "Bearer secret-token" {
		t.Fatalf("unexpected authorization header: %q", captured.auth)
	}
}

func TestNewLogger_Disabled(t *testing.T) {
	logger, shutdown, err := NewLogger(config.Config{LogLevel: logging.LevelError})
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected stdout logger")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNormalizeBetterStackEndpoint(t *testing.T) {
	tests := map[string]string{
		"":                           "",
		"in.logs.example.com":        "https://in.logs.example.com",
		"http://localhost:9000/logs": "http://localhost:9000/logs",
	}
	for in, want := range tests {
		if got := normalizeBetterStackEndpoint(in); got != want {
			t.Fatalf("normalize(%q)=%q want=%q", in, got, want)
		}
	}
}
