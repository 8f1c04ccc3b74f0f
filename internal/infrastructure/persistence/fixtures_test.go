package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/persistence"
	"github.com/oksasatya/go-ddd-campus/internal/testutil"
)

func newStore(t *testing.T) *persistence.Store {
	t.Helper()
	return persistence.NewStore(testutil.SetupTestDB(t), nil)
}

func newUoW(t *testing.T, s *persistence.Store) *persistence.UnitOfWork {
	t.Helper()
	u := persistence.NewUnitOfWork(s.DB(), nil)
	t.Cleanup(func() { _ = u.Close() })
	return u
}

func mustUser(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := entity.NewUser(email, "User "+email, entity.RoleStudent, "2024")
	require.NoError(t, err)
	return u
}

func mustSemester(t *testing.T, code string) *entity.Semester {
	t.Helper()
	s, err := entity.NewSemester(code, entity.TermFall, 2024,
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return s
}

// seedUsers inserts users through a throwaway unit of work.
func seedUsers(t *testing.T, s *persistence.Store, emails ...string) []*entity.User {
	t.Helper()
	ctx := context.Background()
	u := newUoW(t, s)
	out := make([]*entity.User, 0, len(emails))
	for _, e := range emails {
		usr := mustUser(t, e)
		_, err := u.Users().Insert(ctx, usr)
		require.NoError(t, err)
		out = append(out, usr)
		// distinct created_at values keep the default ordering stable
		time.Sleep(time.Millisecond)
	}
	_, err := u.SaveChanges(ctx)
	require.NoError(t, err)
	return out
}

func utc(ts ...*time.Time) {
	for _, t := range ts {
		*t = t.UTC()
	}
}
