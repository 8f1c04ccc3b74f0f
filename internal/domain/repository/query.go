package repository

import (
	"fmt"
	"math"
)

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Query describes a filtered, ordered read. A zero Limit means no limit.
type Query struct {
	Where   Predicate
	OrderBy []Order
	Limit   int
	Offset  int
}

func NewQuery(where ...Predicate) Query {
	return Query{Where: And(where...)}
}

func (q Query) Sorted(orders ...Order) Query {
	q.OrderBy = append(append([]Order(nil), q.OrderBy...), orders...)
	return q
}

// PaginatedResult is one page of a larger result set. PageIndex starts at 1.
type PaginatedResult[T any] struct {
	Items      []T   `json:"items"`
	PageIndex  int   `json:"pageIndex"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

func NewPaginatedResult[T any](items []T, pageIndex, pageSize int, total int64) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if pageSize > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PaginatedResult[T]{
		Items:      items,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: pages,
	}
}

func (p *PaginatedResult[T]) HasPreviousPage() bool { return p.PageIndex > 1 }
func (p *PaginatedResult[T]) HasNextPage() bool     { return p.PageIndex < p.TotalPages }

// MapPage projects the items of a page, keeping its counters.
func MapPage[T, U any](p *PaginatedResult[T], fn func(T) U) *PaginatedResult[U] {
	items := make([]U, len(p.Items))
	for i, it := range p.Items {
		items[i] = fn(it)
	}
	return NewPaginatedResult(items, p.PageIndex, p.PageSize, p.TotalCount)
}

// ValidatePage rejects page indexes and sizes below one and pages whose
// offset does not fit in 32 bits.
func ValidatePage(pageIndex, pageSize int) error {
	if pageIndex < 1 {
		return fmt.Errorf("%w: page index must be >= 1, got %d", ErrInvalidArgument, pageIndex)
	}
	if pageSize < 1 {
		return fmt.Errorf("%w: page size must be >= 1, got %d", ErrInvalidArgument, pageSize)
	}
	if pageIndex-1 > math.MaxInt32/pageSize {
		return fmt.Errorf("%w: page %d of size %d is out of range", ErrInvalidArgument, pageIndex, pageSize)
	}
	return nil
}
