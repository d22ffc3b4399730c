package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
)

// GameRepository stores games by value. Score pointers are copied on the way in and out
// so callers never share them with the stored rows.
type GameRepository struct {
	mu    sync.RWMutex
	items []game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	r := &GameRepository{items: make([]game.Game, 0, len(games))}
	for _, item := range games {
		r.items = append(r.items, detach(item))
	}
	return r
}

func (r *GameRepository) List(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, detach(item))
	}
	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == gameID {
			return detach(item), true, nil
		}
	}

	return game.Game{}, false, nil
}

func (r *GameRepository) Create(_ context.Context, items ...game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if slices.ContainsFunc(r.items, func(existing game.Game) bool { return existing.ID == item.ID }) {
			return fmt.Errorf("game already exists: game=%s", item.ID)
		}
	}
	for _, item := range items {
		r.items = append(r.items, detach(item))
	}

	return nil
}

func (r *GameRepository) Update(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.items {
		if r.items[idx].ID == item.ID {
			r.items[idx] = detach(item)
			return nil
		}
	}

	return fmt.Errorf("game not found: game=%s", item.ID)
}

func (r *GameRepository) clone() *GameRepository {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return NewGameRepository(r.items)
}

func detach(item game.Game) game.Game {
	if item.HomeScore != nil {
		item.HomeScore = game.IntPtr(*item.HomeScore)
	}
	if item.AwayScore != nil {
		item.AwayScore = game.IntPtr(*item.AwayScore)
	}
	return item
}
