package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/youth-cup/internal/domain/pool"
)

type PoolRepository struct {
	mu    sync.RWMutex
	items []pool.Pool
}

func NewPoolRepository(pools []pool.Pool) *PoolRepository {
	return &PoolRepository{items: slices.Clone(pools)}
}

func (r *PoolRepository) List(_ context.Context) ([]pool.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.items), nil
}

func (r *PoolRepository) GetByID(_ context.Context, poolID string) (pool.Pool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == poolID {
			return item, true, nil
		}
	}

	return pool.Pool{}, false, nil
}

func (r *PoolRepository) Create(_ context.Context, item pool.Pool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.ID == item.ID {
			return fmt.Errorf("pool already exists: pool=%s", item.ID)
		}
	}
	r.items = append(r.items, item)

	return nil
}

func (r *PoolRepository) clone() *PoolRepository {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &PoolRepository{items: slices.Clone(r.items)}
}
