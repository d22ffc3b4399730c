package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
)

// Store keeps the whole tournament in process. Update works on copies of the
// repositories and swaps them in only when fn succeeds.
type Store struct {
	mu    sync.RWMutex
	teams *TeamRepository
	pools *PoolRepository
	games *GameRepository
}

func NewStore(pools []pool.Pool, teams []team.Team, games []game.Game) *Store {
	return &Store{
		teams: NewTeamRepository(teams),
		pools: NewPoolRepository(pools),
		games: NewGameRepository(games),
	}
}

func (s *Store) Snapshot(ctx context.Context) (tournament.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return tournament.LoadSnapshot(ctx, s.repositories())
}

func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := &Store{
		teams: s.teams.clone(),
		pools: s.pools.clone(),
		games: s.games.clone(),
	}
	repos := staged.repositories()
	snap, err := tournament.LoadSnapshot(ctx, repos)
	if err != nil {
		return err
	}
	if err := fn(ctx, snap, repos); err != nil {
		return err
	}

	s.teams, s.pools, s.games = staged.teams, staged.pools, staged.games
	return nil
}

func (s *Store) repositories() tournament.Repositories {
	return tournament.Repositories{
		Teams: s.teams,
		Pools: s.pools,
		Games: s.games,
	}
}
