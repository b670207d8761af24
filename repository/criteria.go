package repository

import "github.com/uptrace/bun"

// SelectCriteria narrows or reorders a GetAll query.
type SelectCriteria func(*bun.SelectQuery) *bun.SelectQuery

// Paginate applies offset/limit. Values are passed through as-is;
// clamping to sane bounds is a caller decision, not a contract one.
func Paginate(offset, limit int) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if offset > 0 {
			q = q.Offset(offset)
		}
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q
	}
}

// Where adds a filter condition.
func Where(cond string, args ...any) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(cond, args...)
	}
}

// OrderBy overrides the default primary-key ordering.
func OrderBy(order string) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order(order)
	}
}
