package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	tournamentmock "github.com/riskibarqy/youth-cup/internal/mocks/domain/tournament"
	"github.com/stretchr/testify/mock"
)

func TestStandingsService_RejectsCorruptResultUsingMockery(t *testing.T) {
	t.Parallel()

	corrupt := game.Game{
		ID:         "g1",
		HomeTeamID: "t1",
		AwayTeamID: "t2",
		PoolID:     "pool-a",
		Status:     game.StatusCompleted,
		HomeScore:  game.IntPtr(-3),
		AwayScore:  game.IntPtr(0),
	}
	snap := tournament.Snapshot{
		Pools: []pool.Pool{{ID: "pool-a", Name: "Pool A"}},
		Teams: []team.Team{
			{ID: "t1", Name: "Lions", PoolID: "pool-a"},
			{ID: "t2", Name: "Tigers", PoolID: "pool-a"},
		},
		Games: []game.Game{corrupt},
	}

	store := tournamentmock.NewStore(t)
	store.On("Snapshot", mock.Anything).Return(snap, nil).Twice()

	service := NewStandingsService(store, nil)
	if _, err := service.Overall(context.Background()); !errors.Is(err, game.ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore from Overall, got %v", err)
	}
	if _, err := service.ByPool(context.Background()); !errors.Is(err, game.ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore from ByPool, got %v", err)
	}
}
