package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/youth-cup/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items []team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	return &TeamRepository{items: slices.Clone(teams)}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.items), nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == teamID {
			return item, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.ID == item.ID {
			return fmt.Errorf("team already exists: team=%s", item.ID)
		}
	}
	r.items = append(r.items, item)

	return nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.items {
		if r.items[idx].ID == item.ID {
			r.items[idx] = item
			return nil
		}
	}

	return fmt.Errorf("team not found: team=%s", item.ID)
}

func (r *TeamRepository) clone() *TeamRepository {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &TeamRepository{items: slices.Clone(r.items)}
}
