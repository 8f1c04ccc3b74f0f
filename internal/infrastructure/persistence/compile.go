package persistence

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

// compileWhere renders a predicate as a WHERE body with ? placeholders.
// A nil predicate yields an empty clause.
func compileWhere(m *tableMeta, p repository.Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, nil
	}
	switch v := p.(type) {
	case repository.Condition:
		return compileCondition(m, v)
	case repository.Conjunction:
		return compileGroup(m, v.Terms, "AND", "1 = 1")
	case repository.Disjunction:
		return compileGroup(m, v.Terms, "OR", "1 = 0")
	case repository.Negation:
		if v.Term == nil {
			return "", nil, fmt.Errorf("%w: negation of an empty predicate", repository.ErrInvalidArgument)
		}
		sql, args, err := compileWhere(m, v.Term)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + sql + ")", args, nil
	default:
		return "", nil, fmt.Errorf("%w: unsupported predicate %T", repository.ErrInvalidArgument, p)
	}
}

func compileGroup(m *tableMeta, terms []repository.Predicate, joiner, empty string) (string, []any, error) {
	if len(terms) == 0 {
		return empty, nil, nil
	}
	parts := make([]string, 0, len(terms))
	var args []any
	for _, t := range terms {
		if t == nil {
			continue
		}
		sql, a, err := compileWhere(m, t)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, a...)
	}
	if len(parts) == 0 {
		return empty, nil, nil
	}
	return "(" + strings.Join(parts, " "+joiner+" ") + ")", args, nil
}

func compileCondition(m *tableMeta, c repository.Condition) (string, []any, error) {
	if !m.has(c.Column) {
		return "", nil, fmt.Errorf("%w: unknown column %q on %s", repository.ErrInvalidArgument, c.Column, m.name)
	}
	switch c.Op {
	case repository.OpEq:
		if c.Value == nil {
			return c.Column + " IS NULL", nil, nil
		}
	case repository.OpNe:
		if c.Value == nil {
			return c.Column + " IS NOT NULL", nil, nil
		}
	case repository.OpGt, repository.OpGte, repository.OpLt, repository.OpLte, repository.OpLike:
		if c.Value == nil {
			return "", nil, fmt.Errorf("%w: %s %s needs a value", repository.ErrInvalidArgument, c.Column, c.Op)
		}
	case repository.OpIsNull, repository.OpNotNull:
		return c.Column + " " + string(c.Op), nil, nil
	case repository.OpIn:
		return compileIn(c)
	default:
		return "", nil, fmt.Errorf("%w: unsupported operator %q", repository.ErrInvalidArgument, c.Op)
	}
	return c.Column + " " + string(c.Op) + " ?", []any{c.Value}, nil
}

func compileIn(c repository.Condition) (string, []any, error) {
	rv := reflect.ValueOf(c.Value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Type().Elem().Kind() == reflect.Uint8 {
		return "", nil, fmt.Errorf("%w: IN on %s needs a slice, got %T", repository.ErrInvalidArgument, c.Column, c.Value)
	}
	if rv.Len() == 0 {
		return "1 = 0", nil, nil
	}
	sql, args, err := sqlx.In(c.Column+" IN (?)", c.Value)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", repository.ErrInvalidArgument, err)
	}
	return sql, args, nil
}

func compileOrder(m *tableMeta, orders []repository.Order) (string, error) {
	if len(orders) == 0 {
		orders = defaultOrder
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		if !m.has(o.Column) {
			return "", fmt.Errorf("%w: unknown sort column %q on %s", repository.ErrInvalidArgument, o.Column, m.name)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts[i] = o.Column + " " + dir
	}
	return strings.Join(parts, ", "), nil
}

var defaultOrder = []repository.Order{repository.Asc("created_at"), repository.Asc("id")}

// buildSelect assembles a full SELECT for q against m.
func buildSelect(m *tableMeta, q repository.Query) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(m.selectList())
	sb.WriteString(" FROM ")
	sb.WriteString(m.name)
	where, args, err := compileWhere(m, q.Where)
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	order, err := compileOrder(m, q.OrderBy)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(order)
	if q.Limit < 0 || q.Offset < 0 {
		return "", nil, fmt.Errorf("%w: negative limit or offset", repository.ErrInvalidArgument)
	}
	if q.Offset > 0 && q.Limit == 0 {
		return "", nil, fmt.Errorf("%w: offset requires a limit", repository.ErrInvalidArgument)
	}
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, q.Limit, q.Offset)
	}
	return sb.String(), args, nil
}

func buildCount(m *tableMeta, where repository.Predicate) (string, []any, error) {
	clause, args, err := compileWhere(m, where)
	if err != nil {
		return "", nil, err
	}
	sql := "SELECT COUNT(*) FROM " + m.name
	if clause != "" {
		sql += " WHERE " + clause
	}
	return sql, args, nil
}
