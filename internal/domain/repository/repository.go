package repository

import "context"

// Repository is the generic data access contract for one entity type. T is a
// pointer to an entity struct. Writes are staged in the owning unit of work
// and reach the database on SaveChanges or CommitTransaction.
type Repository[T Entity] interface {
	// GetAll returns every row matching all of the given predicates.
	GetAll(ctx context.Context, where ...Predicate) ([]T, error)
	Find(ctx context.Context, q Query) ([]T, error)
	// GetByID sees staged inserts and updates and hides staged deletes.
	GetByID(ctx context.Context, id string) (T, error)
	// GetByIDNoTracking reads straight from the store without attaching the result.
	GetByIDNoTracking(ctx context.Context, id string) (T, error)
	GetPage(ctx context.Context, q Query, pageIndex, pageSize int) (*PaginatedResult[T], error)

	Insert(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, id string) error
	DeleteWhere(ctx context.Context, where Predicate) (int, error)
	DeleteRange(ctx context.Context, entities []T) (int, error)
	// SoftDelete stages an update that sets the entity's deleted status.
	// Queries that hit the database, such as Exists and Count, still see the
	// row as active until SaveChanges runs.
	SoftDelete(ctx context.Context, id string) error

	Exists(ctx context.Context, where Predicate) (bool, error)
	Count(ctx context.Context, where ...Predicate) (int64, error)
	Any(ctx context.Context, where ...Predicate) (bool, error)

	// Save flushes the owning unit of work.
	Save(ctx context.Context) (int, error)
}
