package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/standing"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	"github.com/riskibarqy/youth-cup/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
)

type PoolStandings struct {
	Pool      pool.Pool
	Standings []standing.Standing
}

type StandingsService struct {
	store  tournament.Store
	logger *logging.Logger
}

func NewStandingsService(store tournament.Store, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		store:  store,
		logger: logger,
	}
}

// Overall ranks every registered team across all pool games. Playoff games never count.
func (s *StandingsService) Overall(ctx context.Context) ([]standing.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Overall")
	defer span.End()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	rows, err := standing.Compute(snap.Teams, snap.PoolGames())
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ByPool builds each pool table from games played inside that pool.
func (s *StandingsService) ByPool(ctx context.Context) ([]PoolStandings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ByPool")
	defer span.End()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	pools := append([]pool.Pool(nil), snap.Pools...)
	sort.SliceStable(pools, func(i, j int) bool {
		if pools[i].Name != pools[j].Name {
			return pools[i].Name < pools[j].Name
		}
		return pools[i].ID < pools[j].ID
	})

	poolGames := snap.PoolGames()
	tables, err := iter.MapErr(pools, func(item *pool.Pool) (PoolStandings, error) {
		rows, err := standing.ComputeRestricted(snap.TeamsInPool(item.ID), poolGames)
		if err != nil {
			return PoolStandings{}, fmt.Errorf("pool=%s: %w", item.ID, err)
		}
		return PoolStandings{Pool: *item, Standings: rows}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "pool standings computed", "pools", len(tables), "pool_games", len(poolGames))
	return tables, nil
}
