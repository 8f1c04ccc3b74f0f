package repository

import "github.com/oksasatya/go-ddd-campus/internal/domain/entity"

type Operator string

const (
	OpEq      Operator = "="
	OpNe      Operator = "<>"
	OpGt      Operator = ">"
	OpGte     Operator = ">="
	OpLt      Operator = "<"
	OpLte     Operator = "<="
	OpLike    Operator = "LIKE"
	OpIn      Operator = "IN"
	OpIsNull  Operator = "IS NULL"
	OpNotNull Operator = "IS NOT NULL"
)

// Predicate is a filter expression compiled to a SQL WHERE clause by the
// persistence layer. Column names are the db column names of the entity.
type Predicate interface {
	predicate()
}

type Condition struct {
	Column string
	Op     Operator
	Value  any
}

type Conjunction struct {
	Terms []Predicate
}

type Disjunction struct {
	Terms []Predicate
}

type Negation struct {
	Term Predicate
}

func (Condition) predicate()   {}
func (Conjunction) predicate() {}
func (Disjunction) predicate() {}
func (Negation) predicate()    {}

func Where(column string, op Operator, value any) Predicate {
	return Condition{Column: column, Op: op, Value: value}
}

func Eq(column string, value any) Predicate   { return Where(column, OpEq, value) }
func Ne(column string, value any) Predicate   { return Where(column, OpNe, value) }
func Gt(column string, value any) Predicate   { return Where(column, OpGt, value) }
func Gte(column string, value any) Predicate  { return Where(column, OpGte, value) }
func Lt(column string, value any) Predicate   { return Where(column, OpLt, value) }
func Lte(column string, value any) Predicate  { return Where(column, OpLte, value) }
func Like(column string, value any) Predicate { return Where(column, OpLike, value) }

// In matches any element of values, which must be a slice.
func In(column string, values any) Predicate { return Where(column, OpIn, values) }

func IsNull(column string) Predicate  { return Where(column, OpIsNull, nil) }
func NotNull(column string) Predicate { return Where(column, OpNotNull, nil) }

// And drops nil terms; it returns nil when nothing is left.
func And(terms ...Predicate) Predicate {
	kept := compact(terms)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return Conjunction{Terms: kept}
}

func Or(terms ...Predicate) Predicate {
	kept := compact(terms)
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return Disjunction{Terms: kept}
}

func Not(term Predicate) Predicate {
	return Negation{Term: term}
}

// Active matches rows whose status column is "active".
func Active() Predicate {
	return Eq("status", entity.StatusActive)
}

func compact(terms []Predicate) []Predicate {
	kept := make([]Predicate, 0, len(terms))
	for _, t := range terms {
		if t != nil {
			kept = append(kept, t)
		}
	}
	return kept
}
