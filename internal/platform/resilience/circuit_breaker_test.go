package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	var transitions []string
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	}, func(from, to CircuitState) {
		transitions = append(transitions, string(from)+">"+string(to))
	})

	now := time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}

	want := []string{"closed>open", "open>half_open", "half_open>closed"}
	if len(transitions) != len(want) {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("unexpected transitions: %v", transitions)
		}
	}
}

func TestCircuitBreaker_ExecuteClassifiesFailures(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute}, nil)

	permanent := errors.New("bad request")
	transient := errors.New("upstream 503")
	isTransient := func(err error) bool { return errors.Is(err, transient) }

	if err := b.Execute(func() error { return permanent }, isTransient); !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error back, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("permanent errors must not open the circuit, got %s", state)
	}

	if err := b.Execute(func() error { return transient }, isTransient); !errors.Is(err, transient) {
		t.Fatalf("expected transient error back, got %v", err)
	}

	called := false
	err := b.Execute(func() error { called = true; return nil }, isTransient)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected open circuit to short-circuit, err=%v called=%v", err, called)
	}
}

func TestCircuitBreaker_Disabled(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1}, nil)
	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("disabled breaker must allow, got %v", err)
	}
}

func TestNormalizeCircuitBreakerConfig(t *testing.T) {
	got := NormalizeCircuitBreakerConfig(CircuitBreakerConfig{Enabled: true, OpenTimeout: -time.Second})
	want := CircuitBreakerConfig{Enabled: true, FailureThreshold: 3, OpenTimeout: 30 * time.Second, HalfOpenMaxReq: 1}
	if got != want {
		t.Fatalf("unexpected normalized config: got %+v want %+v", got, want)
	}

	custom := CircuitBreakerConfig{Enabled: true, FailureThreshold: 7, OpenTimeout: time.Minute, HalfOpenMaxReq: 2}
	if got := NormalizeCircuitBreakerConfig(custom); got != custom {
		t.Fatalf("expected explicit settings to survive, got %+v", got)
	}
}
