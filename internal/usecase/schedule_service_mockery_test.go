package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/schedule"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	gamemock "github.com/riskibarqy/youth-cup/internal/mocks/domain/game"
	tournamentmock "github.com/riskibarqy/youth-cup/internal/mocks/domain/tournament"
	"github.com/stretchr/testify/mock"
)

func testScheduleConfig() schedule.Config {
	return schedule.Config{
		TournamentStart:      "09:00",
		TournamentEnd:        "12:00",
		GameDurationMinutes:  45,
		BreakDurationMinutes: 10,
		FieldNames:           []string{"Field 1", "Field 2"},
	}
}

func gameBetween(id, home, away, poolID string) game.Game {
	return game.Game{ID: id, HomeTeamID: home, AwayTeamID: away, PoolID: poolID, Status: game.StatusScheduled}
}

func placedGame(id, home, away, start, field string) game.Game {
	g := gameBetween(id, home, away, "pool-a")
	g.StartTime = start
	g.Field = field
	return g
}

func TestScheduleService_Assign_ConflictUsingMockery(t *testing.T) {
	t.Parallel()

	store := tournamentmock.NewStore(t)
	gameRepo := gamemock.NewRepository(t)
	publisher := &recordingPublisher{}
	snap := tournament.Snapshot{Games: []game.Game{
		placedGame("g1", "t1", "t2", "09:00", "Field 1"),
		gameBetween("g2", "t3", "t4", "pool-a"),
	}}

	store.On("Update", mock.Anything, mock.Anything).Return(runUpdate(snap, tournament.Repositories{Games: gameRepo})).Once()

	service := NewScheduleService(store, testScheduleConfig(), 2, publisher, nil)
	_, err := service.Assign(context.Background(), SlotInput{GameID: "g2", StartTime: "09:30", Field: "Field 1"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	var conflictErr *ScheduleConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ScheduleConflictError, got %T", err)
	}
	if conflictErr.Conflict.Kind != schedule.ConflictField || conflictErr.Conflict.ConflictingGameID != "g1" {
		t.Fatalf("unexpected conflict: %+v", conflictErr.Conflict)
	}
	gameRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	if len(publisher.types()) != 0 {
		t.Fatalf("rejected assignment must not publish, got %v", publisher.types())
	}
}

func TestScheduleService_Assign_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	store := tournamentmock.NewStore(t)
	gameRepo := gamemock.NewRepository(t)
	publisher := &recordingPublisher{}
	snap := tournament.Snapshot{Games: []game.Game{
		placedGame("g1", "t1", "t2", "09:00", "Field 1"),
		gameBetween("g2", "t3", "t4", "pool-a"),
	}}

	store.On("Update", mock.Anything, mock.Anything).Return(runUpdate(snap, tournament.Repositories{Games: gameRepo})).Once()
	gameRepo.
		On("Update", mock.Anything, mock.MatchedBy(func(item game.Game) bool {
			return item.ID == "g2" && item.StartTime == "09:55" && item.Field == "Field 1"
		})).
		Return(nil).
		Once()

	service := NewScheduleService(store, testScheduleConfig(), 2, publisher, nil)
	got, err := service.Assign(context.Background(), SlotInput{GameID: "g2", StartTime: "9:55", Field: " Field 1 "})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got.StartTime != "09:55" {
		t.Fatalf("expected normalized start time, got %q", got.StartTime)
	}
	if types := publisher.types(); len(types) != 1 || types[0] != EventScheduleAssigned {
		t.Fatalf("unexpected events: %v", types)
	}
}

func TestScheduleService_Assign_CompletedGameIsLocked(t *testing.T) {
	t.Parallel()

	store := tournamentmock.NewStore(t)
	done := placedGame("g1", "t1", "t2", "09:00", "Field 1")
	done.Status = game.StatusCompleted
	done.HomeScore, done.AwayScore = game.IntPtr(1), game.IntPtr(0)

	store.On("Update", mock.Anything, mock.Anything).Return(runUpdate(tournament.Snapshot{Games: []game.Game{done}}, tournament.Repositories{})).Once()

	service := NewScheduleService(store, testScheduleConfig(), 2, nil, nil)
	if _, err := service.Assign(context.Background(), SlotInput{GameID: "g1", StartTime: "09:55", Field: "Field 2"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestScheduleService_Validate(t *testing.T) {
	t.Parallel()

	store := tournamentmock.NewStore(t)
	snap := tournament.Snapshot{Games: []game.Game{
		placedGame("g1", "t1", "t2", "09:00", "Field 1"),
		gameBetween("g2", "t1", "t3", "pool-a"),
	}}
	store.On("Snapshot", mock.Anything).Return(snap, nil)

	service := NewScheduleService(store, testScheduleConfig(), 2, nil, nil)

	conflict, err := service.Validate(context.Background(), ValidateSlotInput{GameID: "g2", StartTime: "09:30", Field: "Field 2"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if conflict == nil || conflict.Kind != schedule.ConflictTeam || conflict.TeamID != "t1" {
		t.Fatalf("expected team conflict on t1, got %+v", conflict)
	}

	conflict, err = service.Validate(context.Background(), ValidateSlotInput{HomeTeamID: "t5", AwayTeamID: "t6", StartTime: "09:55", Field: "Field 1"})
	if err != nil {
		t.Fatalf("validate hypothetical game: %v", err)
	}
	if conflict != nil {
		t.Fatalf("expected free slot, got %+v", conflict)
	}

	if _, err := service.Validate(context.Background(), ValidateSlotInput{GameID: "missing", StartTime: "09:00", Field: "Field 1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestScheduleService_Audit(t *testing.T) {
	t.Parallel()

	store := tournamentmock.NewStore(t)
	snap := tournament.Snapshot{Games: []game.Game{
		placedGame("g1", "t1", "t2", "09:00", "Field 1"),
		placedGame("g2", "t3", "t4", "09:30", "Field 1"),
		placedGame("g3", "t1", "t5", "09:30", "Field 2"),
		placedGame("g4", "t6", "t7", "10:50", "Field 2"),
	}}
	store.On("Snapshot", mock.Anything).Return(snap, nil).Once()

	service := NewScheduleService(store, testScheduleConfig(), 3, nil, nil)
	conflicts, err := service.Audit(context.Background())
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %+v", conflicts)
	}
	if conflicts[0].GameID != "g1" || conflicts[1].GameID != "g1" {
		t.Fatalf("expected both conflicts reported against g1: %+v", conflicts)
	}
}

func TestScheduleService_Audit_OffGridFieldDoesNotHideConflicts(t *testing.T) {
	t.Parallel()

	store := tournamentmock.NewStore(t)
	snap := tournament.Snapshot{Games: []game.Game{
		placedGame("g1", "t1", "t2", "09:00", "Field 1"),
		placedGame("g2", "t1", "t3", "09:00", "Field 1"),
		placedGame("g3", "t4", "t5", "09:00", "Old Field"),
	}}
	store.On("Snapshot", mock.Anything).Return(snap, nil).Once()

	service := NewScheduleService(store, testScheduleConfig(), 2, nil, nil)
	conflicts, err := service.Audit(context.Background())
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %+v", conflicts)
	}
	if conflicts[0].Kind != schedule.ConflictTeam || conflicts[0].ConflictingGameID != "g2" {
		t.Fatalf("expected team conflict between g1 and g2, got %+v", conflicts[0])
	}
	if conflicts[1].Kind != schedule.ConflictOffGrid || conflicts[1].GameID != "g3" {
		t.Fatalf("expected off_grid conflict for g3, got %+v", conflicts[1])
	}
}

func TestScheduleService_StartTimes(t *testing.T) {
	t.Parallel()

	cfg := testScheduleConfig()
	cfg.TournamentEnd = "10:00"
	service := NewScheduleService(tournamentmock.NewStore(t), cfg, 0, nil, nil)

	got, err := service.StartTimes(context.Background())
	if err != nil {
		t.Fatalf("start times: %v", err)
	}
	if len(got) != 1 || got[0] != "09:00" {
		t.Fatalf("unexpected start times: %v", got)
	}
}
