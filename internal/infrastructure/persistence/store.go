package persistence

import (
	"context"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Store hands out units of work over one database handle.
type Store struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

var _ repository.UnitOfWorkFactory = (*Store)(nil)

func NewStore(db *sqlx.DB, logger *logrus.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) New() repository.UnitOfWork {
	return NewUnitOfWork(s.db, s.logger)
}

func (s *Store) DB() *sqlx.DB { return s.db }

// Ping checks the database within a short timeout.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
