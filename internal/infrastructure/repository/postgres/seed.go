package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/youth-cup/internal/domain/game"
	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
)

// BootstrapSeed loads the demo tournament into an empty database. It is a no-op once any pool exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, pools []pool.Pool, teams []team.Team, games []game.Game) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM pools WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count pools for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range pools {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO pools (public_id, name)
VALUES (:public_id, :name)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id": p.ID,
			"name":      p.Name,
		})
		if err != nil {
			return fmt.Errorf("bind seed pool %s query: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed pool %s: %w", p.ID, err)
		}
	}

	for _, t := range teams {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, name, captain, contact, pool_public_id, fair_play_points)
VALUES (:public_id, :name, :captain, :contact, :pool_public_id, :fair_play_points)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":        t.ID,
			"name":             t.Name,
			"captain":          t.Captain,
			"contact":          t.Contact,
			"pool_public_id":   nullableString(t.PoolID),
			"fair_play_points": t.FairPlayPoints,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	if err := NewGameRepository(tx).Create(ctx, games...); err != nil {
		return fmt.Errorf("seed games: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
