package persistence

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jmoiron/sqlx"

	"github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

// sqlRepository implements repository.Repository[T] on top of the owning
// unit of work's tracker and connection.
type sqlRepository[T repository.Entity] struct {
	uow  *UnitOfWork
	elem reflect.Type
	meta *tableMeta
}

func (r *sqlRepository[T]) GetAll(ctx context.Context, where ...repository.Predicate) ([]T, error) {
	return r.Find(ctx, repository.NewQuery(where...))
}

func (r *sqlRepository[T]) Find(ctx context.Context, q repository.Query) ([]T, error) {
	query, args, err := buildSelect(r.meta, q)
	if err != nil {
		return nil, err
	}
	rows, err := r.selectRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r.resolve(rows), nil
}

func (r *sqlRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	if en, ok := r.uow.tracker.lookup(r.meta.name, id); ok {
		if en.state == stateDeleted {
			return zero, r.notFound(id)
		}
		return en.entity.(T), nil
	}
	e, err := r.GetByIDNoTracking(ctx, id)
	if err != nil {
		return zero, err
	}
	r.uow.tracker.attach(r.meta, e)
	return e, nil
}

func (r *sqlRepository[T]) GetByIDNoTracking(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, fmt.Errorf("%w: id is required", repository.ErrInvalidArgument)
	}
	if !repository.ValidID(id) {
		return zero, r.notFound(id)
	}
	e := r.newEntity()
	q := r.ext().Rebind("SELECT " + r.meta.selectList() + " FROM " + r.meta.name + " WHERE id = ?")
	if err := sqlx.GetContext(ctx, r.ext(), e, q, id); err != nil {
		err = translateError(err)
		if isNotFound(err) {
			return zero, r.notFound(id)
		}
		return zero, err
	}
	return e, nil
}

func (r *sqlRepository[T]) GetPage(ctx context.Context, q repository.Query, pageIndex, pageSize int) (*repository.PaginatedResult[T], error) {
	if err := repository.ValidatePage(pageIndex, pageSize); err != nil {
		return nil, err
	}
	total, err := r.Count(ctx, q.Where)
	if err != nil {
		return nil, err
	}
	q.Limit = pageSize
	q.Offset = (pageIndex - 1) * pageSize
	items, err := r.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	return repository.NewPaginatedResult(items, pageIndex, pageSize, total), nil
}

func (r *sqlRepository[T]) Insert(ctx context.Context, e T) (T, error) {
	if isNil(e) {
		return e, fmt.Errorf("%w: nil %s entity", repository.ErrInvalidArgument, r.meta.name)
	}
	if e.GetID() == "" {
		return e, fmt.Errorf("%w: %s entity has no id", repository.ErrInvalidArgument, r.meta.name)
	}
	if _, ok := r.uow.tracker.lookup(r.meta.name, e.GetID()); ok {
		return e, fmt.Errorf("%w: %s %s is already tracked", repository.ErrInvalidArgument, r.meta.name, e.GetID())
	}
	r.uow.tracker.stage(r.meta, e, stateAdded)
	return e, nil
}

func (r *sqlRepository[T]) Update(ctx context.Context, e T) error {
	if isNil(e) {
		return fmt.Errorf("%w: nil %s entity", repository.ErrInvalidArgument, r.meta.name)
	}
	en, ok := r.uow.tracker.lookup(r.meta.name, e.GetID())
	if !ok {
		r.uow.tracker.stage(r.meta, e, stateModified)
		return nil
	}
	switch en.state {
	case stateDeleted:
		return r.notFound(e.GetID())
	case stateAdded:
		en.entity = e
	default:
		r.uow.tracker.stage(r.meta, e, stateModified)
	}
	return nil
}

func (r *sqlRepository[T]) Delete(ctx context.Context, id string) error {
	if en, ok := r.uow.tracker.lookup(r.meta.name, id); ok {
		switch en.state {
		case stateDeleted:
			return r.notFound(id)
		case stateAdded:
			r.uow.tracker.forget(en)
		default:
			r.uow.tracker.mark(en, stateDeleted)
		}
		return nil
	}
	e, err := r.GetByIDNoTracking(ctx, id)
	if err != nil {
		return err
	}
	r.uow.tracker.stage(r.meta, e, stateDeleted)
	return nil
}

// DeleteWhere stages a delete for every row matching where. A nil predicate
// is refused rather than treated as "all rows".
func (r *sqlRepository[T]) DeleteWhere(ctx context.Context, where repository.Predicate) (int, error) {
	if where == nil {
		return 0, fmt.Errorf("%w: delete needs a predicate", repository.ErrInvalidArgument)
	}
	matches, err := r.Find(ctx, repository.Query{Where: where})
	if err != nil {
		return 0, err
	}
	for _, e := range matches {
		if err := r.Delete(ctx, e.GetID()); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

func (r *sqlRepository[T]) DeleteRange(ctx context.Context, entities []T) (int, error) {
	for _, e := range entities {
		if isNil(e) {
			return 0, fmt.Errorf("%w: nil %s entity", repository.ErrInvalidArgument, r.meta.name)
		}
		if err := r.Delete(ctx, e.GetID()); err != nil {
			return 0, err
		}
	}
	return len(entities), nil
}

func (r *sqlRepository[T]) SoftDelete(ctx context.Context, id string) error {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	e.SetStatus(e.DeletedStatus())
	return r.Update(ctx, e)
}

func (r *sqlRepository[T]) Exists(ctx context.Context, where repository.Predicate) (bool, error) {
	n, err := r.Count(ctx, where)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *sqlRepository[T]) Count(ctx context.Context, where ...repository.Predicate) (int64, error) {
	query, args, err := buildCount(r.meta, repository.And(where...))
	if err != nil {
		return 0, err
	}
	var n int64
	if err := sqlx.GetContext(ctx, r.ext(), &n, r.ext().Rebind(query), args...); err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

func (r *sqlRepository[T]) Any(ctx context.Context, where ...repository.Predicate) (bool, error) {
	return r.Exists(ctx, repository.And(where...))
}

func (r *sqlRepository[T]) Save(ctx context.Context) (int, error) {
	return r.uow.SaveChanges(ctx)
}

func (r *sqlRepository[T]) ext() sqlx.ExtContext {
	return r.uow.querier()
}

func (r *sqlRepository[T]) newEntity() T {
	return reflect.New(r.elem).Interface().(T)
}

func (r *sqlRepository[T]) selectRows(ctx context.Context, query string, args ...any) ([]T, error) {
	var rows []T
	if err := sqlx.SelectContext(ctx, r.ext(), &rows, r.ext().Rebind(query), args...); err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

// resolve swaps loaded rows for tracked instances, drops rows staged for
// deletion and attaches the rest.
func (r *sqlRepository[T]) resolve(rows []T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if en, ok := r.uow.tracker.lookup(r.meta.name, row.GetID()); ok {
			if en.state == stateDeleted {
				continue
			}
			out = append(out, en.entity.(T))
			continue
		}
		r.uow.tracker.attach(r.meta, row)
		out = append(out, row)
	}
	return out
}

func (r *sqlRepository[T]) notFound(id string) error {
	return fmt.Errorf("%w: %s %s", repository.ErrNotFound, r.meta.name, id)
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, repository.ErrNotFound)
}

func isNil(e repository.Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
