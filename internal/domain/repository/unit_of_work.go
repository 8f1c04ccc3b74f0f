package repository

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
)

// UnitOfWork owns one repository per entity type, a change set and at most
// one open transaction. It is request scoped and not safe for concurrent use.
type UnitOfWork interface {
	Users() Repository[*entity.User]
	Semesters() Repository[*entity.Semester]
	Classes() Repository[*entity.Class]
	Enrollments() Repository[*entity.ClassEnrollment]
	Topics() Repository[*entity.Topic]

	BeginTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	InTransaction() bool

	// SaveChanges flushes staged changes and returns the number of rows written.
	SaveChanges(ctx context.Context) (int, error)
	// Close rolls back an open transaction and drops tracked state. It is safe
	// to call more than once.
	Close() error
}

type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// WithTransaction runs fn inside a transaction on uow. The transaction is
// committed when fn returns nil and rolled back on error or panic.
func WithTransaction(ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) error) (err error) {
	if err := uow.BeginTransaction(ctx); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = uow.RollbackTransaction(ctx)
			panic(p)
		}
	}()
	if err := fn(ctx); err != nil {
		if rbErr := uow.RollbackTransaction(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return uow.CommitTransaction(ctx)
}
