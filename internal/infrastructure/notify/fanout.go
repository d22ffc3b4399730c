package notify

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/youth-cup/internal/usecase"
)

// Fanout delivers each event to every publisher and reports all failures together.
type Fanout []usecase.EventPublisher

func NewFanout(publishers ...usecase.EventPublisher) Fanout {
	out := make(Fanout, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (f Fanout) Publish(ctx context.Context, event usecase.Event) error {
	var combined error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			combined = crerr.CombineErrors(combined, err)
		}
	}
	return combined
}
