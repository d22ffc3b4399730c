package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/youth-cup/internal/domain/pool"
	qb "github.com/riskibarqy/youth-cup/internal/platform/querybuilder"
)

type PoolRepository struct {
	db sqlx.ExtContext
}

func NewPoolRepository(db sqlx.ExtContext) *PoolRepository {
	return &PoolRepository{db: db}
}

func (r *PoolRepository) List(ctx context.Context) ([]pool.Pool, error) {
	query, args, err := qb.Select(qb.Columns(poolTableModel{})...).From(poolsTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pools query: %w", err)
	}

	var rows []poolTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pools: %w", err)
	}

	out := make([]pool.Pool, 0, len(rows))
	for _, row := range rows {
		out = append(out, pool.Pool{ID: row.PublicID, Name: row.Name})
	}
	return out, nil
}

func (r *PoolRepository) GetByID(ctx context.Context, poolID string) (pool.Pool, bool, error) {
	query, args, err := qb.Select(qb.Columns(poolTableModel{})...).From(poolsTable).
		Where(qb.Eq("public_id", poolID), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return pool.Pool{}, false, fmt.Errorf("build select pool by id query: %w", err)
	}

	var row poolTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pool.Pool{}, false, nil
		}
		return pool.Pool{}, false, fmt.Errorf("get pool by id: %w", err)
	}

	return pool.Pool{ID: row.PublicID, Name: row.Name}, true, nil
}

func (r *PoolRepository) Create(ctx context.Context, item pool.Pool) error {
	query, args, err := qb.InsertModel(poolsTable, poolTableModel{PublicID: item.ID, Name: item.Name}, "")
	if err != nil {
		return fmt.Errorf("build insert pool query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("pool already exists: pool=%s: %w", item.ID, err)
		}
		return fmt.Errorf("insert pool: %w", err)
	}
	return nil
}
