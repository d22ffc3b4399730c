package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/youth-cup/internal/domain/team"
	qb "github.com/riskibarqy/youth-cup/internal/platform/querybuilder"
)

type TeamRepository struct {
	db sqlx.ExtContext
}

func NewTeamRepository(db sqlx.ExtContext) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(qb.Columns(teamTableModel{})...).From(teamsTable).
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select(qb.Columns(teamTableModel{})...).From(teamsTable).
		Where(qb.Eq("public_id", teamID), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by id query: %w", err)
	}

	var row teamTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	query, args, err := qb.InsertModel(teamsTable, teamToRow(item), "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("team already exists: team=%s: %w", item.ID, err)
		case isForeignKeyViolation(err):
			return fmt.Errorf("team references unknown pool: team=%s pool=%s: %w", item.ID, item.PoolID, err)
		}
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	builder, err := qb.UpdateModel(teamsTable, teamToRow(item))
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	query, args, err := builder.
		SetExpr("updated_at", "NOW()").
		Where(qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return expectOneRow(res, "team", item.ID)
}

func teamToRow(item team.Team) teamTableModel {
	return teamTableModel{
		PublicID:       item.ID,
		Name:           item.Name,
		Captain:        item.Captain,
		Contact:        item.Contact,
		PoolID:         nullableString(item.PoolID),
		FairPlayPoints: item.FairPlayPoints,
	}
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:             row.PublicID,
		Name:           row.Name,
		Captain:        row.Captain,
		Contact:        row.Contact,
		PoolID:         row.PoolID.String,
		FairPlayPoints: row.FairPlayPoints,
	}
}
