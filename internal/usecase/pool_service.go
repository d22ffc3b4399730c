package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	idgen "github.com/riskibarqy/youth-cup/internal/platform/id"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
)

type PoolWithTeams struct {
	Pool  pool.Pool
	Teams []team.Team
}

type PoolService struct {
	store  tournament.Store
	idGen  idgen.Generator
	logger *logging.Logger
}

func NewPoolService(store tournament.Store, idGen idgen.Generator, logger *logging.Logger) *PoolService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PoolService{
		store:  store,
		idGen:  idGen,
		logger: logger,
	}
}

// List returns pools ordered by name with their members ordered by name.
func (s *PoolService) List(ctx context.Context) ([]PoolWithTeams, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.List")
	defer span.End()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	out := make([]PoolWithTeams, 0, len(snap.Pools))
	for _, item := range snap.Pools {
		members := snap.TeamsInPool(item.ID)
		sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		out = append(out, PoolWithTeams{Pool: item, Teams: members})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pool.Name != out[j].Pool.Name {
			return out[i].Pool.Name < out[j].Pool.Name
		}
		return out[i].Pool.ID < out[j].Pool.ID
	})

	return out, nil
}

func (s *PoolService) Create(ctx context.Context, name string) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.Create")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return pool.Pool{}, fmt.Errorf("%w: pool name is required", ErrInvalidInput)
	}
	poolID, err := s.idGen.NewID()
	if err != nil {
		return pool.Pool{}, fmt.Errorf("generate pool id: %w", err)
	}
	item := pool.Pool{ID: poolID, Name: name}

	err = s.store.Update(ctx, func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		for _, existing := range snap.Pools {
			if strings.EqualFold(existing.Name, name) {
				return fmt.Errorf("%w: pool name %q is taken", ErrConflict, name)
			}
		}
		if err := repos.Pools.Create(ctx, item); err != nil {
			return fmt.Errorf("create pool: %w", err)
		}
		return nil
	})
	if err != nil {
		return pool.Pool{}, err
	}

	s.logger.InfoContext(ctx, "pool created", "pool_id", item.ID, "name", item.Name)
	return item, nil
}
