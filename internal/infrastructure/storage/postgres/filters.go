package postgres

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"stocktrack/internal/domain/filter"
)

// ApplyFilters applies filter conditions to a SELECT builder.
// Column names are whitelisted for SQL injection protection.
func ApplyFilters(q squirrel.SelectBuilder, items []filter.Item, validCols map[string]bool) (squirrel.SelectBuilder, error) {
	for _, item := range items {
		if !validCols[item.Field] {
			return q, fmt.Errorf("invalid filter column: %s", item.Field)
		}

		switch item.Operator {
		case filter.Equal:
			q = q.Where(squirrel.Eq{item.Field: item.Value})
		case filter.GreaterOrEqual:
			q = q.Where(squirrel.GtOrEq{item.Field: item.Value})
		case filter.LessOrEqual:
			q = q.Where(squirrel.LtOrEq{item.Field: item.Value})
		case filter.Contains:
			val := fmt.Sprintf("%%%v%%", item.Value)
			q = q.Where(squirrel.ILike{item.Field: val})
		default:
			return q, fmt.Errorf("unsupported filter operator: %s", item.Operator)
		}
	}

	return q, nil
}

// ColumnWhitelist builds the valid-column set for ApplyFilters.
func ColumnWhitelist(cols ...string) map[string]bool {
	valid := make(map[string]bool, len(cols))
	for _, col := range cols {
		valid[col] = true
	}
	return valid
}
