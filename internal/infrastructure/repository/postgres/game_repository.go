package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/youth-cup/internal/domain/game"
	qb "github.com/riskibarqy/youth-cup/internal/platform/querybuilder"
)

type GameRepository struct {
	db sqlx.ExtContext
}

func NewGameRepository(db sqlx.ExtContext) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) List(ctx context.Context) ([]game.Game, error) {
	query, args, err := qb.Select(qb.Columns(gameTableModel{})...).From(gamesTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := qb.Select(qb.Columns(gameTableModel{})...).From(gamesTable).
		Where(qb.Eq("public_id", gameID), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game by id query: %w", err)
	}

	var row gameTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}

	return gameFromRow(row), true, nil
}

// Create inserts every game in a single statement.
func (r *GameRepository) Create(ctx context.Context, items ...game.Game) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]any, 0, len(items))
	for _, item := range items {
		models = append(models, gameToRow(item))
	}
	query, args, err := qb.InsertModels(gamesTable, "", models...)
	if err != nil {
		return fmt.Errorf("build insert games query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("game id or bracket slot already taken: %w", err)
		}
		return fmt.Errorf("insert games: %w", err)
	}
	return nil
}

func (r *GameRepository) Update(ctx context.Context, item game.Game) error {
	builder, err := qb.UpdateModel(gamesTable, gameToRow(item))
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}
	query, args, err := builder.
		SetExpr("updated_at", "NOW()").
		Where(qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return expectOneRow(res, "game", item.ID)
}

func gameToRow(item game.Game) gameTableModel {
	return gameTableModel{
		PublicID:   item.ID,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
		PoolID:     nullableString(item.PoolID),
		Status:     item.Status,
		HomeScore:  nullableInt(item.HomeScore),
		AwayScore:  nullableInt(item.AwayScore),
		Field:      nullableString(item.Field),
		StartTime:  nullableString(item.StartTime),
		Round:      nullableString(item.Round),
		Position:   item.Position,
	}
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:         row.PublicID,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		PoolID:     row.PoolID.String,
		Status:     row.Status,
		HomeScore:  intFromNull(row.HomeScore),
		AwayScore:  intFromNull(row.AwayScore),
		Field:      row.Field.String,
		StartTime:  row.StartTime.String,
		Round:      row.Round.String,
		Position:   row.Position,
	}
}
