package postgres

import (
	"database/sql"
	"time"
)

const (
	poolsTable = "pools"
	teamsTable = "teams"
	gamesTable = "games"
)

type poolTableModel struct {
	PublicID  string    `db:"public_id,key"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at,readonly"`
}

type teamTableModel struct {
	PublicID       string         `db:"public_id,key"`
	Name           string         `db:"name"`
	Captain        string         `db:"captain"`
	Contact        string         `db:"contact"`
	PoolID         sql.NullString `db:"pool_public_id"`
	FairPlayPoints int            `db:"fair_play_points"`
	CreatedAt      time.Time      `db:"created_at,readonly"`
}

type gameTableModel struct {
	PublicID   string         `db:"public_id,key"`
	HomeTeamID string         `db:"home_team_public_id"`
	AwayTeamID string         `db:"away_team_public_id"`
	PoolID     sql.NullString `db:"pool_public_id"`
	Status     string         `db:"status"`
	HomeScore  sql.NullInt64  `db:"home_score"`
	AwayScore  sql.NullInt64  `db:"away_score"`
	Field      sql.NullString `db:"field"`
	StartTime  sql.NullString `db:"start_time"`
	Round      sql.NullString `db:"round"`
	Position   int            `db:"position"`
	CreatedAt  time.Time      `db:"created_at,readonly"`
}
