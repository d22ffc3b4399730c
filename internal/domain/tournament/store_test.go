package tournament

import (
	"testing"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
)

func TestSnapshotLookups(t *testing.T) {
	snap := Snapshot{
		Teams: []team.Team{{ID: "t1", Name: "Lions", PoolID: "p1"}, {ID: "t2", Name: "Tigers", PoolID: "p2"}},
		Pools: []pool.Pool{{ID: "p1", Name: "Pool A"}, {ID: "p2", Name: "Pool B"}},
		Games: []game.Game{
			{ID: "g1", HomeTeamID: "t1", AwayTeamID: "t2", PoolID: "p1"},
			{ID: "q1", HomeTeamID: "t1", AwayTeamID: "t2", Round: game.RoundQuarterfinal, Position: 1},
		},
	}

	if got, ok := snap.Team("t2"); !ok || got.Name != "Tigers" {
		t.Fatalf("unexpected team lookup: %+v %v", got, ok)
	}
	if _, ok := snap.Pool("missing"); ok {
		t.Fatalf("expected missing pool")
	}
	if got, ok := snap.Game("q1"); !ok || !got.IsPlayoff() {
		t.Fatalf("unexpected game lookup: %+v %v", got, ok)
	}
	if len(snap.PoolGames()) != 1 || len(snap.PlayoffGames()) != 1 {
		t.Fatalf("unexpected game split: pool=%d playoff=%d", len(snap.PoolGames()), len(snap.PlayoffGames()))
	}
	if members := snap.TeamsInPool("p1"); len(members) != 1 || members[0].ID != "t1" {
		t.Fatalf("unexpected pool members: %+v", members)
	}
}
