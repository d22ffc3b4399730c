package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	attrGameID = attribute.Key("tournament.game_id")
	attrField  = attribute.Key("tournament.field")
	attrStart  = attribute.Key("tournament.start_time")
)

var usecaseTracer = otel.Tracer("youth-cup/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan only opens a span under a sampled request; background calls stay untraced.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// slotAttributes describes a slot write; empty values are left out.
func slotAttributes(gameID, start, field string) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, 3)
	if v := strings.TrimSpace(gameID); v != "" {
		out = append(out, attrGameID.String(v))
	}
	if v := strings.TrimSpace(start); v != "" {
		out = append(out, attrStart.String(v))
	}
	if v := strings.TrimSpace(field); v != "" {
		out = append(out, attrField.String(v))
	}
	return out
}
