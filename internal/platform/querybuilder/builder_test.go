package querybuilder

import (
	"reflect"
	"testing"
)

type rowModel struct {
	PublicID  string `db:"public_id,key"`
	Name      string `db:"name"`
	Score     *int   `db:"score"`
	CreatedAt string `db:"created_at,readonly"`
	internal  string
}

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("public_id", "name").
		From("teams").
		Where(Eq("pool_public_id", "pool-a"), IsNull("deleted_at")).
		OrderBy("name", "public_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id, name FROM teams WHERE pool_public_id = $1 AND deleted_at IS NULL ORDER BY name, public_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "pool-a" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ExprAndLock(t *testing.T) {
	query, args, err := Select("public_id").
		From("games").
		Where(Expr("lower(name) = lower(?)", "Eagles"), IsNotNull("start_time")).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT public_id FROM games WHERE lower(name) = lower($1) AND start_time IS NOT NULL FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "Eagles" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	query, args, err := InsertInto("pools").
		Columns("public_id", "name").
		Values("pool-a", "Pool A").
		Values("pool-b", "Pool B").
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO pools (public_id, name) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "pool-b" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("teams").
		Set("name", "new").
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "t1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE teams SET name = $1, updated_at = NOW() WHERE public_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "new" || args[1] != "t1" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := Update("teams").Set("name", "x").ToSQL(); err == nil {
		t.Fatalf("expected update without where to be rejected")
	}
}

func TestColumns(t *testing.T) {
	got := Columns(rowModel{})
	want := []string{"public_id", "name", "score", "created_at"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected columns: %v", got)
	}
}

func TestInsertModels(t *testing.T) {
	score := 3
	query, args, err := InsertModels("rows", "",
		rowModel{PublicID: "r1", Name: "one"},
		&rowModel{PublicID: "r2", Name: "two", Score: &score},
	)
	if err != nil {
		t.Fatalf("insert models: %v", err)
	}

	wantQuery := "INSERT INTO rows (public_id, name, score) VALUES ($1, $2, $3), ($4, $5, $6)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[3] != "r2" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModels("rows", ""); err == nil {
		t.Fatalf("expected error for empty model list")
	}
}

func TestUpdateModel(t *testing.T) {
	builder, err := UpdateModel("rows", rowModel{PublicID: "r1", Name: "one"})
	if err != nil {
		t.Fatalf("update model: %v", err)
	}
	query, args, err := builder.SetExpr("updated_at", "NOW()").Where(IsNull("deleted_at")).ToSQL()
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	wantQuery := "UPDATE rows SET name = $1, score = $2, updated_at = NOW() WHERE public_id = $3 AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != "r1" {
		t.Fatalf("unexpected args: %+v", args)
	}

	type keyless struct {
		Name string `db:"name"`
	}
	if _, err := UpdateModel("rows", keyless{Name: "x"}); err == nil {
		t.Fatalf("expected error for model without key")
	}
}
