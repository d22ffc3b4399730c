package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
	"github.com/stretchr/testify/suite"
)

var (
	teamColumns = []string{"public_id", "name", "captain", "contact", "pool_public_id", "fair_play_points", "created_at"}
	poolColumns = []string{"public_id", "name", "created_at"}
	gameColumns = []string{
		"public_id", "home_team_public_id", "away_team_public_id", "pool_public_id", "status",
		"home_score", "away_score", "field", "start_time", "round", "position", "created_at",
	}
)

const (
	listTeamsQuery = "SELECT public_id, name, captain, contact, pool_public_id, fair_play_points, created_at FROM teams WHERE deleted_at IS NULL ORDER BY id"
	listPoolsQuery = "SELECT public_id, name, created_at FROM pools WHERE deleted_at IS NULL ORDER BY id"
	listGamesQuery = "SELECT public_id, home_team_public_id, away_team_public_id, pool_public_id, status, home_score, away_score, field, start_time, round, position, created_at FROM games WHERE deleted_at IS NULL ORDER BY id"
)

type RepositorySuite struct {
	suite.Suite
	db   *sqlx.DB
	mock sqlmock.Sqlmock
	now  time.Time
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	raw, mock, err := sqlmock.New()
	s.Require().NoError(err)

	s.db = sqlx.NewDb(raw, "postgres")
	s.mock = mock
	s.now = time.Date(2026, 6, 6, 8, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	_ = s.db.Close()
}

func exact(query string) string {
	return "^" + regexp.QuoteMeta(query) + "$"
}

func (s *RepositorySuite) TestTeamRepository_List() {
	s.mock.ExpectQuery(exact(listTeamsQuery)).WillReturnRows(
		sqlmock.NewRows(teamColumns).
			AddRow("team-a1", "Eagles", "Ana", "ana@example.com", "pool-a", 3, s.now).
			AddRow("team-x", "Drifters", "", "", nil, 0, s.now),
	)

	teams, err := NewTeamRepository(s.db).List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(teams, 2)
	s.Equal(team.Team{ID: "team-a1", Name: "Eagles", Captain: "Ana", Contact: "ana@example.com", PoolID: "pool-a", FairPlayPoints: 3}, teams[0])
	s.False(teams[1].InPool())
}

func (s *RepositorySuite) TestTeamRepository_GetByIDMissing() {
	query := "SELECT public_id, name, captain, contact, pool_public_id, fair_play_points, created_at FROM teams WHERE public_id = $1 AND deleted_at IS NULL LIMIT 1"
	s.mock.ExpectQuery(exact(query)).WithArgs("missing").WillReturnRows(sqlmock.NewRows(teamColumns))

	_, ok, err := NewTeamRepository(s.db).GetByID(context.Background(), "missing")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RepositorySuite) TestTeamRepository_CreateDuplicate() {
	query := "INSERT INTO teams (public_id, name, captain, contact, pool_public_id, fair_play_points) VALUES ($1, $2, $3, $4, $5, $6)"
	s.mock.ExpectExec(exact(query)).
		WithArgs("team-a1", "Eagles", "", "", "pool-a", 0).
		WillReturnError(&pq.Error{Code: uniqueViolationCode})

	err := NewTeamRepository(s.db).Create(context.Background(), team.Team{ID: "team-a1", Name: "Eagles", PoolID: "pool-a"})
	s.Require().Error(err)
	s.Contains(err.Error(), "team already exists")

	var pqErr *pq.Error
	s.True(errors.As(err, &pqErr))
}

func (s *RepositorySuite) TestTeamRepository_Update() {
	query := "UPDATE teams SET name = $1, captain = $2, contact = $3, pool_public_id = $4, fair_play_points = $5, updated_at = NOW() WHERE public_id = $6 AND deleted_at IS NULL"
	s.mock.ExpectExec(exact(query)).
		WithArgs("Eagles", "Ana", "", nil, 4, "team-a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(exact(query)).
		WithArgs("Ghosts", "", "", nil, 0, "team-zz").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTeamRepository(s.db)
	s.Require().NoError(repo.Update(context.Background(), team.Team{ID: "team-a1", Name: "Eagles", Captain: "Ana", FairPlayPoints: 4}))

	err := repo.Update(context.Background(), team.Team{ID: "team-zz", Name: "Ghosts"})
	s.Require().Error(err)
	s.Contains(err.Error(), "team not found")
}

func (s *RepositorySuite) TestPoolRepository_CreateAndList() {
	s.mock.ExpectExec(exact("INSERT INTO pools (public_id, name) VALUES ($1, $2)")).
		WithArgs("pool-g", "Pool G").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery(exact(listPoolsQuery)).
		WillReturnRows(sqlmock.NewRows(poolColumns).AddRow("pool-g", "Pool G", s.now))

	repo := NewPoolRepository(s.db)
	s.Require().NoError(repo.Create(context.Background(), pool.Pool{ID: "pool-g", Name: "Pool G"}))

	pools, err := repo.List(context.Background())
	s.Require().NoError(err)
	s.Equal([]pool.Pool{{ID: "pool-g", Name: "Pool G"}}, pools)
}

func (s *RepositorySuite) TestGameRepository_ListMapsNulls() {
	s.mock.ExpectQuery(exact(listGamesQuery)).WillReturnRows(
		sqlmock.NewRows(gameColumns).
			AddRow("game-a-1", "team-a1", "team-a2", "pool-a", game.StatusScheduled, nil, nil, nil, nil, nil, 0, s.now).
			AddRow("qf-1", "team-d1", "team-e2", nil, game.StatusCompleted, 2, 1, "Field A", "13:35", game.RoundQuarterfinal, 1, s.now),
	)

	games, err := NewGameRepository(s.db).List(context.Background())
	s.Require().NoError(err)
	s.Require().Len(games, 2)

	s.Nil(games[0].HomeScore)
	s.False(games[0].IsScheduled())
	s.False(games[0].IsPlayoff())

	s.Require().NotNil(games[1].HomeScore)
	s.Equal(2, *games[1].HomeScore)
	s.Equal("13:35", games[1].StartTime)
	s.Equal(game.RoundQuarterfinal, games[1].Round)
	s.Empty(games[1].PoolID)
}

func (s *RepositorySuite) TestGameRepository_CreateBatch() {
	columns := "public_id, home_team_public_id, away_team_public_id, pool_public_id, status, home_score, away_score, field, start_time, round, position"
	query := fmt.Sprintf("INSERT INTO games (%s) VALUES (%s), (%s)", columns, placeholders(1, 11), placeholders(12, 11))
	s.mock.ExpectExec(exact(query)).
		WithArgs(
			"qf-1", "team-d1", "team-e2", nil, game.StatusScheduled, nil, nil, nil, nil, game.RoundQuarterfinal, 1,
			"qf-2", "team-e1", "team-f2", nil, game.StatusScheduled, nil, nil, nil, nil, game.RoundQuarterfinal, 2,
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := NewGameRepository(s.db).Create(context.Background(),
		game.Game{ID: "qf-1", HomeTeamID: "team-d1", AwayTeamID: "team-e2", Status: game.StatusScheduled, Round: game.RoundQuarterfinal, Position: 1},
		game.Game{ID: "qf-2", HomeTeamID: "team-e1", AwayTeamID: "team-f2", Status: game.StatusScheduled, Round: game.RoundQuarterfinal, Position: 2},
	)
	s.Require().NoError(err)

	s.Require().NoError(NewGameRepository(s.db).Create(context.Background()))
}

func (s *RepositorySuite) TestGameRepository_UpdateWritesScores() {
	query := "UPDATE games SET home_team_public_id = $1, away_team_public_id = $2, pool_public_id = $3, status = $4, home_score = $5, away_score = $6, field = $7, start_time = $8, round = $9, position = $10, updated_at = NOW() WHERE public_id = $11 AND deleted_at IS NULL"
	s.mock.ExpectExec(exact(query)).
		WithArgs("team-a1", "team-a2", "pool-a", game.StatusCompleted, 3, 0, "Field B", "09:55", nil, 0, "game-a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewGameRepository(s.db).Update(context.Background(), game.Game{
		ID: "game-a-1", HomeTeamID: "team-a1", AwayTeamID: "team-a2", PoolID: "pool-a",
		Status: game.StatusCompleted, HomeScore: game.IntPtr(3), AwayScore: game.IntPtr(0),
		Field: "Field B", StartTime: "09:55",
	})
	s.Require().NoError(err)
}

func (s *RepositorySuite) expectSnapshotReads() {
	s.mock.ExpectQuery(exact(listTeamsQuery)).WillReturnRows(
		sqlmock.NewRows(teamColumns).
			AddRow("team-a1", "Eagles", "", "", "pool-a", 0, s.now).
			AddRow("team-a2", "Hawks", "", "", "pool-a", 0, s.now),
	)
	s.mock.ExpectQuery(exact(listPoolsQuery)).WillReturnRows(
		sqlmock.NewRows(poolColumns).AddRow("pool-a", "Pool A", s.now),
	)
	s.mock.ExpectQuery(exact(listGamesQuery)).WillReturnRows(
		sqlmock.NewRows(gameColumns).
			AddRow("game-a-1", "team-a1", "team-a2", "pool-a", game.StatusScheduled, nil, nil, nil, nil, nil, 0, s.now),
	)
}

func (s *RepositorySuite) TestStore_Snapshot() {
	s.mock.ExpectBegin()
	s.expectSnapshotReads()
	s.mock.ExpectCommit()

	snap, err := NewStore(s.db, 0).Snapshot(context.Background())
	s.Require().NoError(err)
	s.Len(snap.Teams, 2)
	s.Len(snap.TeamsInPool("pool-a"), 2)
	s.Len(snap.PoolGames(), 1)
}

func (s *RepositorySuite) TestStore_UpdateLocksAndCommits() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(exact("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(DefaultLockKey).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.expectSnapshotReads()
	s.mock.ExpectExec(`^UPDATE games SET .* WHERE public_id = \$11 AND deleted_at IS NULL$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := NewStore(s.db, 0).Update(context.Background(), func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error {
		item, ok := snap.Game("game-a-1")
		s.Require().True(ok)
		item.StartTime = "09:00"
		item.Field = "Field A"
		return repos.Games.Update(ctx, item)
	})
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestStore_UpdateRollsBackOnError() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(exact("SELECT pg_advisory_xact_lock($1)")).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.expectSnapshotReads()
	s.mock.ExpectRollback()

	boom := errors.New("slot taken")
	err := NewStore(s.db, 42).Update(context.Background(), func(context.Context, tournament.Snapshot, tournament.Repositories) error {
		return boom
	})
	s.ErrorIs(err, boom)
}

func (s *RepositorySuite) TestBootstrapSeed_SkipsPopulatedDatabase() {
	s.mock.ExpectQuery(exact("SELECT COUNT(1) FROM pools WHERE deleted_at IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	err := BootstrapSeed(context.Background(), s.db, []pool.Pool{{ID: "pool-a", Name: "Pool A"}}, nil, nil)
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestBootstrapSeed_InsertsEverything() {
	s.mock.ExpectQuery(exact("SELECT COUNT(1) FROM pools WHERE deleted_at IS NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`INSERT INTO pools \(public_id, name\)`).
		WithArgs("pool-a", "Pool A").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`INSERT INTO teams \(public_id, name, captain, contact, pool_public_id, fair_play_points\)`).
		WithArgs("team-a1", "Eagles", "Ana", "", "pool-a", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`INSERT INTO games \(`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := BootstrapSeed(context.Background(), s.db,
		[]pool.Pool{{ID: "pool-a", Name: "Pool A"}},
		[]team.Team{{ID: "team-a1", Name: "Eagles", Captain: "Ana", PoolID: "pool-a"}},
		[]game.Game{{ID: "game-a-1", HomeTeamID: "team-a1", AwayTeamID: "team-a2", PoolID: "pool-a", Status: game.StatusScheduled}},
	)
	s.Require().NoError(err)
}

func placeholders(from, count int) string {
	parts := make([]string, 0, count)
	for i := from; i < from+count; i++ {
		parts = append(parts, fmt.Sprintf("$%d", i))
	}
	return strings.Join(parts, ", ")
}
