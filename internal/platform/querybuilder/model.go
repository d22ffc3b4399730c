package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// Table models describe their columns with `db` tags. Two tag options are understood:
//
//	key       the column identifies the row; UpdateModel filters on it instead of setting it
//	readonly  the database fills the column; it is selected but never written
type column struct {
	name     string
	key      bool
	readonly bool
	value    any
}

// Columns lists every db column of model in field order, suitable for Select.
func Columns(model any) []string {
	cols, err := modelColumns(model)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		out = append(out, col.name)
	}
	return out
}

func InsertModel(table string, model any, suffix string) (string, []any, error) {
	return InsertModels(table, suffix, model)
}

// InsertModels writes all models in one statement. Every model must share the same type.
func InsertModels(table, suffix string, models ...any) (string, []any, error) {
	if len(models) == 0 {
		return "", nil, fmt.Errorf("insert models are required")
	}

	builder := InsertInto(table).Suffix(suffix)
	var names []string
	for i, model := range models {
		cols, err := modelColumns(model)
		if err != nil {
			return "", nil, err
		}
		writable := make([]string, 0, len(cols))
		values := make([]any, 0, len(cols))
		for _, col := range cols {
			if col.readonly {
				continue
			}
			writable = append(writable, col.name)
			values = append(values, col.value)
		}
		if i == 0 {
			names = writable
			builder.Columns(names...)
		} else if strings.Join(writable, ",") != strings.Join(names, ",") {
			return "", nil, fmt.Errorf("insert model %d has different columns", i)
		}
		builder.Values(values...)
	}

	return builder.ToSQL()
}

// UpdateModel returns an update that sets every writable column and filters on the key columns.
// Callers add extra predicates and expressions before ToSQL.
func UpdateModel(table string, model any) (*UpdateBuilder, error) {
	cols, err := modelColumns(model)
	if err != nil {
		return nil, err
	}

	builder := Update(table)
	var keys int
	for _, col := range cols {
		switch {
		case col.key:
			builder.Where(Eq(col.name, col.value))
			keys++
		case col.readonly:
		default:
			builder.Set(col.name, col.value)
		}
	}
	if keys == 0 {
		return nil, fmt.Errorf("model has no key column: table=%s", table)
	}
	return builder, nil
}

func modelColumns(model any) ([]column, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	cols := make([]column, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		parts := strings.Split(strings.TrimSpace(field.Tag.Get("db")), ",")
		name := strings.TrimSpace(parts[0])
		if name == "" || name == "-" {
			continue
		}
		col := column{name: name, value: value.Field(i).Interface()}
		for _, opt := range parts[1:] {
			switch strings.TrimSpace(opt) {
			case "key":
				col.key = true
			case "readonly":
				col.readonly = true
			}
		}
		cols = append(cols, col)
	}

	if len(cols) == 0 {
		return nil, fmt.Errorf("model has no db columns")
	}
	return cols, nil
}
