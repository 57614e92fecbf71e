package models

import (
	"context"
	"fmt"

	"go.hackfix.me/curator/db/types"
)

func filterCount(ctx context.Context, d types.Querier, table string, filter *types.Filter) (int, error) {
	countQ := fmt.Sprintf(`SELECT COUNT(*) FROM "%s" WHERE %s`, table, filter.Where)
	var count int
	err := d.QueryRowContext(ctx, countQ, filter.Args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed scanning %s count query: %w", table, err)
	}

	return count, nil
}

// filterClause returns the WHERE and LIMIT clauses for filter.
func filterClause(filter *types.Filter) (where string, args []any, limit string) {
	where = "WHERE 1=1"
	args = []any{}
	if filter != nil {
		if filter.Where != "" {
			where = fmt.Sprintf("WHERE %s", filter.Where)
			args = filter.Args
		}
		if filter.Limit > 0 {
			limit = fmt.Sprintf("LIMIT %d", filter.Limit)
		}
	}

	return where, args, limit
}

// execOne runs a statement that must affect exactly one row.
func execOne(ctx context.Context, d types.Querier, modelName, id, stmt string, args ...any) error {
	res, err := d.ExecContext(ctx, stmt, args...)
	if err != nil {
		return types.Err(modelName, id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed getting affected rows: %w", err)
	}
	if n == 0 {
		return types.NoResultError{ModelName: modelName, ID: id}
	}
	if n > 1 {
		return types.IntegrityError{Msg: fmt.Sprintf("affected %d %s records", n, modelName)}
	}

	return nil
}
