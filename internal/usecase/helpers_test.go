package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
)

type sequenceIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s%d", g.prefix, g.next), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, event := range p.events {
		out = append(out, event.Type)
	}
	return out
}

// runUpdate makes a mocked Store.Update call fn with a fixed snapshot and repositories.
func runUpdate(snap tournament.Snapshot, repos tournament.Repositories) func(context.Context, func(context.Context, tournament.Snapshot, tournament.Repositories) error) error {
	return func(ctx context.Context, fn func(context.Context, tournament.Snapshot, tournament.Repositories) error) error {
		return fn(ctx, snap, repos)
	}
}
