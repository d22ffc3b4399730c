package tournament

import (
	"context"
	"fmt"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
)

// Repositories bundles the per-entity repositories bound to one unit of work.
type Repositories struct {
	Teams team.Repository
	Pools pool.Repository
	Games game.Repository
}

// Snapshot is a consistent read of every team, pool and game.
type Snapshot struct {
	Teams []team.Team
	Pools []pool.Pool
	Games []game.Game
}

// Store serializes writers. Update hands fn a snapshot read under the same lock
// as the writes, so anything computed from it is still true when fn persists.
type Store interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Update(ctx context.Context, fn func(ctx context.Context, snap Snapshot, repos Repositories) error) error
}

// LoadSnapshot reads all three collections through repos.
func LoadSnapshot(ctx context.Context, repos Repositories) (Snapshot, error) {
	teams, err := repos.Teams.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list teams: %w", err)
	}
	pools, err := repos.Pools.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list pools: %w", err)
	}
	games, err := repos.Games.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list games: %w", err)
	}

	return Snapshot{Teams: teams, Pools: pools, Games: games}, nil
}

func (s Snapshot) Team(teamID string) (team.Team, bool) {
	for _, item := range s.Teams {
		if item.ID == teamID {
			return item, true
		}
	}
	return team.Team{}, false
}

func (s Snapshot) Pool(poolID string) (pool.Pool, bool) {
	for _, item := range s.Pools {
		if item.ID == poolID {
			return item, true
		}
	}
	return pool.Pool{}, false
}

func (s Snapshot) Game(gameID string) (game.Game, bool) {
	for _, item := range s.Games {
		if item.ID == gameID {
			return item, true
		}
	}
	return game.Game{}, false
}

// PoolGames returns games that belong to the round-robin phase.
func (s Snapshot) PoolGames() []game.Game {
	out := make([]game.Game, 0, len(s.Games))
	for _, item := range s.Games {
		if !item.IsPlayoff() {
			out = append(out, item)
		}
	}
	return out
}

func (s Snapshot) PlayoffGames() []game.Game {
	out := make([]game.Game, 0, 7)
	for _, item := range s.Games {
		if item.IsPlayoff() {
			out = append(out, item)
		}
	}
	return out
}

// TeamsInPool returns the members of a pool in snapshot order.
func (s Snapshot) TeamsInPool(poolID string) []team.Team {
	out := make([]team.Team, 0, 4)
	for _, item := range s.Teams {
		if item.PoolID == poolID {
			out = append(out, item)
		}
	}
	return out
}
