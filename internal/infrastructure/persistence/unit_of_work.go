package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	"github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

// UnitOfWork is the sqlx implementation of repository.UnitOfWork.
type UnitOfWork struct {
	id      string
	db      *sqlx.DB
	tx      *sqlx.Tx
	logger  *logrus.Logger
	tracker *tracker
	repos   map[string]any
	closed  bool
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(db *sqlx.DB, logger *logrus.Logger) *UnitOfWork {
	return &UnitOfWork{
		id:      uuid.NewString(),
		db:      db,
		logger:  logger,
		tracker: newTracker(),
		repos:   make(map[string]any),
	}
}

// RepositoryFor returns the repository for T owned by u, creating it on first use.
func RepositoryFor[T repository.Entity](u *UnitOfWork) repository.Repository[T] {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("persistence: %s is not a pointer to a struct", typ))
	}
	proto := reflect.New(typ.Elem()).Interface().(T)
	table := proto.TableName()
	if r, ok := u.repos[table]; ok {
		return r.(repository.Repository[T])
	}
	r := &sqlRepository[T]{uow: u, elem: typ.Elem(), meta: metaFor(typ.Elem(), table)}
	u.repos[table] = r
	return r
}

func (u *UnitOfWork) Users() repository.Repository[*entity.User] {
	return RepositoryFor[*entity.User](u)
}

func (u *UnitOfWork) Semesters() repository.Repository[*entity.Semester] {
	return RepositoryFor[*entity.Semester](u)
}

func (u *UnitOfWork) Classes() repository.Repository[*entity.Class] {
	return RepositoryFor[*entity.Class](u)
}

func (u *UnitOfWork) Enrollments() repository.Repository[*entity.ClassEnrollment] {
	return RepositoryFor[*entity.ClassEnrollment](u)
}

func (u *UnitOfWork) Topics() repository.Repository[*entity.Topic] {
	return RepositoryFor[*entity.Topic](u)
}

func (u *UnitOfWork) InTransaction() bool { return u.tx != nil }

func (u *UnitOfWork) BeginTransaction(ctx context.Context) error {
	if u.closed {
		return fmt.Errorf("%w: unit of work is closed", repository.ErrInvalidState)
	}
	if u.tx != nil {
		return fmt.Errorf("%w: transaction already open", repository.ErrInvalidState)
	}
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return translateError(err)
	}
	u.tx = tx
	u.debug("transaction started")
	return nil
}

// CommitTransaction flushes outstanding changes and commits. A failed flush
// rolls the transaction back and discards tracked state.
func (u *UnitOfWork) CommitTransaction(ctx context.Context) error {
	if u.tx == nil {
		return fmt.Errorf("%w: no open transaction", repository.ErrInvalidState)
	}
	tx := u.tx
	if u.tracker.hasPending() {
		if _, err := u.flush(ctx, tx); err != nil {
			u.abort(tx)
			return err
		}
		u.tracker.accept()
	}
	u.tx = nil
	if err := tx.Commit(); err != nil {
		u.tracker.reset()
		return translateError(err)
	}
	u.debug("transaction committed")
	return nil
}

func (u *UnitOfWork) RollbackTransaction(ctx context.Context) error {
	if u.tx == nil {
		return fmt.Errorf("%w: no open transaction", repository.ErrInvalidState)
	}
	return u.abort(u.tx)
}

func (u *UnitOfWork) abort(tx *sqlx.Tx) error {
	u.tx = nil
	u.tracker.reset()
	err := tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return translateError(err)
	}
	u.debug("transaction rolled back")
	return nil
}

// SaveChanges writes every staged change. Without an open transaction the
// flush runs in its own transaction; inside one it runs under a savepoint
// and durability waits for commit.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int, error) {
	if u.closed {
		return 0, fmt.Errorf("%w: unit of work is closed", repository.ErrInvalidState)
	}
	if !u.tracker.hasPending() {
		return 0, nil
	}
	if u.tx != nil {
		n, err := u.flushSavepoint(ctx, u.tx)
		if err != nil {
			return 0, err
		}
		u.tracker.accept()
		return n, nil
	}

	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, translateError(err)
	}
	n, err := u.flush(ctx, tx)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, translateError(err)
	}
	u.tracker.accept()
	return n, nil
}

func (u *UnitOfWork) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	var err error
	if u.tx != nil {
		err = u.abort(u.tx)
	}
	u.tracker.reset()
	return err
}

const savepointName = "uow_flush"

// flushSavepoint flushes inside an open transaction. A failed flush rolls
// back to the savepoint so rows written before the failure do not stay in
// the transaction while their entries remain staged.
func (u *UnitOfWork) flushSavepoint(ctx context.Context, tx *sqlx.Tx) (int, error) {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepointName); err != nil {
		return 0, translateError(err)
	}
	n, err := u.flush(ctx, tx)
	if err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepointName); rbErr != nil {
			u.log().WithError(rbErr).Warn("rollback to savepoint failed")
			return 0, err
		}
		if _, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName); relErr != nil {
			u.log().WithError(relErr).Warn("release savepoint failed")
		}
		u.debug("flush rolled back to savepoint")
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepointName); err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

// querier is the open transaction if there is one, otherwise the pool.
func (u *UnitOfWork) querier() sqlx.ExtContext {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWork) flush(ctx context.Context, ext sqlx.ExtContext) (int, error) {
	written := 0
	for _, en := range u.tracker.pending {
		var err error
		switch en.state {
		case stateAdded:
			_, err = sqlx.NamedExecContext(ctx, ext, en.meta.insertSQL(), en.entity)
			err = translateError(err)
		case stateModified:
			en.entity.Touch(entity.Now())
			err = u.guarded(ctx, ext, en, func() (sql.Result, error) {
				return sqlx.NamedExecContext(ctx, ext, en.meta.updateSQL(), en.entity)
			})
		case stateDeleted:
			err = u.guarded(ctx, ext, en, func() (sql.Result, error) {
				return ext.ExecContext(ctx, ext.Rebind(en.meta.deleteSQL()), en.entity.GetID(), en.entity.GetVersion())
			})
		}
		if err != nil {
			u.logEntry(en).WithError(err).Debug("flush failed")
			return written, err
		}
		written++
	}
	u.debugf("flushed %d changes", written)
	return written, nil
}

// guarded runs a version-checked write. Zero affected rows means the row is
// gone or another writer bumped its version first.
func (u *UnitOfWork) guarded(ctx context.Context, ext sqlx.ExtContext, en *entry, exec func() (sql.Result, error)) error {
	res, err := exec()
	if err != nil {
		return translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translateError(err)
	}
	if n == 1 {
		return nil
	}
	var count int64
	q := ext.Rebind("SELECT COUNT(*) FROM " + en.meta.name + " WHERE id = ?")
	if err := sqlx.GetContext(ctx, ext, &count, q, en.entity.GetID()); err != nil {
		return translateError(err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s %s", repository.ErrNotFound, en.meta.name, en.entity.GetID())
	}
	return fmt.Errorf("%w: %s %s was modified concurrently (expected version %d)",
		repository.ErrConcurrencyConflict, en.meta.name, en.entity.GetID(), en.entity.GetVersion())
}

func (u *UnitOfWork) log() logrus.FieldLogger {
	if u.logger == nil {
		return logrus.NewEntry(discard)
	}
	return u.logger.WithField("uow", u.id)
}

func (u *UnitOfWork) logEntry(en *entry) logrus.FieldLogger {
	return u.log().WithFields(logrus.Fields{"table": en.meta.name, "id": en.entity.GetID(), "state": en.state.String()})
}

func (u *UnitOfWork) debug(msg string)                  { u.log().Debug(msg) }
func (u *UnitOfWork) debugf(format string, args ...any) { u.log().Debugf(format, args...) }
