package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/youth-cup/internal/domain/tournament"
)

// DefaultLockKey names the advisory lock that serializes tournament writers across replicas.
const DefaultLockKey int64 = 0x59435550

// Store runs every read in a repeatable-read transaction and every write under a
// transaction-scoped advisory lock, so concurrent API replicas never interleave writers.
type Store struct {
	db      *sqlx.DB
	lockKey int64
}

func NewStore(db *sqlx.DB, lockKey int64) *Store {
	if lockKey == 0 {
		lockKey = DefaultLockKey
	}
	return &Store{db: db, lockKey: lockKey}
}

func (s *Store) Snapshot(ctx context.Context) (tournament.Snapshot, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return tournament.Snapshot{}, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	snap, err := tournament.LoadSnapshot(ctx, repositories(tx))
	if err != nil {
		return tournament.Snapshot{}, err
	}
	if err := tx.Commit(); err != nil {
		return tournament.Snapshot{}, fmt.Errorf("commit snapshot tx: %w", err)
	}
	return snap, nil
}

func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, snap tournament.Snapshot, repos tournament.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, s.lockKey); err != nil {
		return fmt.Errorf("acquire tournament lock: %w", err)
	}

	repos := repositories(tx)
	snap, err := tournament.LoadSnapshot(ctx, repos)
	if err != nil {
		return err
	}
	if err := fn(ctx, snap, repos); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update tx: %w", err)
	}
	return nil
}

func repositories(tx *sqlx.Tx) tournament.Repositories {
	return tournament.Repositories{
		Teams: NewTeamRepository(tx),
		Pools: NewPoolRepository(tx),
		Games: NewGameRepository(tx),
	}
}
