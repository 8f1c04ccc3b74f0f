package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	"github.com/oksasatya/go-ddd-campus/internal/domain/repository"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/persistence"
)

func TestInsertSaveGetByID_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	want := mustUser(t, "Ada@Example.com")
	want.SetAvatar("https://cdn.example.com/ada.png")

	u := newUoW(t, s)
	_, err := u.Users().Insert(ctx, want)
	require.NoError(t, err)
	n, err := u.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := newUoW(t, s).Users().GetByID(ctx, want.ID)
	require.NoError(t, err)
	utc(&got.CreatedAt, &got.UpdatedAt)

	assert.Equal(t, *want, *got)
	assert.Equal(t, "ada@example.com", got.Email)
	require.NotNil(t, got.Cohort)
	assert.Equal(t, "2024", *got.Cohort)
}

func TestGetByID_UnknownID(t *testing.T) {
	u := newUoW(t, newStore(t))
	_, err := u.Users().GetByID(context.Background(), "4b4f8c1e-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = u.Users().GetByIDNoTracking(context.Background(), "")
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)
}

func TestGetPage(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seeded := seedUsers(t, s, "a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io")

	repo := newUoW(t, s).Users()
	for _, tc := range []struct {
		index, size, wantLen int
	}{
		{1, 2, 2}, {2, 2, 2}, {3, 2, 1}, {4, 2, 0}, {1, 10, 5}, {1, 1, 1},
	} {
		page, err := repo.GetPage(ctx, repository.Query{}, tc.index, tc.size)
		require.NoError(t, err)
		assert.Len(t, page.Items, tc.wantLen, "page %d size %d", tc.index, tc.size)
		assert.LessOrEqual(t, len(page.Items), tc.size)
		assert.GreaterOrEqual(t, page.TotalCount, int64(len(page.Items)))
		assert.Equal(t, int64(5), page.TotalCount)
	}

	page, err := repo.GetPage(ctx, repository.Query{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, seeded[2].ID, page.Items[0].ID)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage())
	assert.True(t, page.HasPreviousPage())

	filtered, err := repo.GetPage(ctx, repository.NewQuery(repository.In("email", []string{"a@x.io", "e@x.io"})).
		Sorted(repository.Desc("email")), 1, 10)
	require.NoError(t, err)
	require.Len(t, filtered.Items, 2)
	assert.Equal(t, "e@x.io", filtered.Items[0].Email)
	assert.Equal(t, int64(2), filtered.TotalCount)

	for _, bad := range [][2]int{{0, 10}, {1, 0}, {-1, -1}} {
		_, err := repo.GetPage(ctx, repository.Query{}, bad[0], bad[1])
		assert.ErrorIs(t, err, repository.ErrInvalidArgument)
	}
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	usr := seedUsers(t, s, "soft@x.io")[0]

	u := newUoW(t, s)
	require.NoError(t, u.Users().SoftDelete(ctx, usr.ID))

	got, err := u.Users().GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusDeleted, got.Status)

	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)

	exists, err := u.Users().Exists(ctx, repository.And(repository.Eq("id", usr.ID), repository.Active()))
	require.NoError(t, err)
	assert.False(t, exists)

	fresh, err := newUoW(t, s).Users().GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusDeleted, fresh.Status)
	assert.Equal(t, int64(2), fresh.Version)

	err = u.Users().SoftDelete(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRollbackTransaction_DiscardsChanges(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	existing := seedUsers(t, s, "keep@x.io")[0]

	u := newUoW(t, s)
	require.NoError(t, u.BeginTransaction(ctx))
	added := mustUser(t, "new@x.io")
	_, err := u.Users().Insert(ctx, added)
	require.NoError(t, err)
	loaded, err := u.Users().GetByID(ctx, existing.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.Rename("Renamed"))
	require.NoError(t, u.Users().Update(ctx, loaded))
	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)

	require.NoError(t, u.RollbackTransaction(ctx))
	assert.False(t, u.InTransaction())

	fresh := newUoW(t, s).Users()
	_, err = fresh.GetByID(ctx, added.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	kept, err := fresh.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.DisplayName, kept.DisplayName)
	assert.Equal(t, int64(1), kept.Version)
}

func TestCommitTransaction_MakesAllChangesVisible(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := newUoW(t, s)
	require.NoError(t, u.BeginTransaction(ctx))
	a, b := mustUser(t, "a@x.io"), mustUser(t, "b@x.io")
	_, err := u.Users().Insert(ctx, a)
	require.NoError(t, err)
	_, err = u.Users().Insert(ctx, b)
	require.NoError(t, err)

	// nothing is visible before commit
	count, err := newUoW(t, s).Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, u.CommitTransaction(ctx))

	all, err := newUoW(t, s).Users().GetAll(ctx, repository.In("id", []string{a.ID, b.ID}))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSaveChanges_FailedFlushInTransactionIsUndone(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seeded := seedUsers(t, s, "first@x.io", "taken@x.io")

	u := newUoW(t, s)
	require.NoError(t, u.BeginTransaction(ctx))
	first, err := u.Users().GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	require.NoError(t, first.Rename("Renamed"))
	require.NoError(t, u.Users().Update(ctx, first))
	dup := mustUser(t, "taken@x.io")
	_, err = u.Users().Insert(ctx, dup)
	require.NoError(t, err)

	_, err = u.SaveChanges(ctx)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.True(t, u.InTransaction())

	require.NoError(t, u.Users().Delete(ctx, dup.ID))
	require.NoError(t, u.CommitTransaction(ctx))
	assert.Equal(t, int64(2), first.Version)

	stored, err := newUoW(t, s).Users().GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.DisplayName)
	assert.Equal(t, int64(2), stored.Version)
}

func TestCommitTransaction_WithoutTransaction(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := newUoW(t, s)

	usr := mustUser(t, "pending@x.io")
	_, err := u.Users().Insert(ctx, usr)
	require.NoError(t, err)

	err = u.CommitTransaction(ctx)
	assert.ErrorIs(t, err, repository.ErrInvalidState)
	assert.ErrorIs(t, u.RollbackTransaction(ctx), repository.ErrInvalidState)

	// the unit of work is still usable and the staged insert survives
	n, err := u.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = newUoW(t, s).Users().GetByID(ctx, usr.ID)
	assert.NoError(t, err)
}

func TestBeginTransaction_Twice(t *testing.T) {
	ctx := context.Background()
	u := newUoW(t, newStore(t))
	require.NoError(t, u.BeginTransaction(ctx))
	assert.ErrorIs(t, u.BeginTransaction(ctx), repository.ErrInvalidState)
	require.NoError(t, u.RollbackTransaction(ctx))
}

func TestClose_RollsBackAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	u := persistence.NewUnitOfWork(s.DB(), nil)

	require.NoError(t, u.BeginTransaction(ctx))
	usr := mustUser(t, "closed@x.io")
	_, err := u.Users().Insert(ctx, usr)
	require.NoError(t, err)
	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)

	require.NoError(t, u.Close())
	require.NoError(t, u.Close())
	assert.False(t, u.InTransaction())
	assert.ErrorIs(t, u.BeginTransaction(ctx), repository.ErrInvalidState)

	_, err = newUoW(t, s).Users().GetByID(ctx, usr.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSemesterClassScenario(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := newUoW(t, s)
	require.NoError(t, u.BeginTransaction(ctx))
	sem := mustSemester(t, "FA24")
	_, err := u.Semesters().Insert(ctx, sem)
	require.NoError(t, err)
	class, err := entity.NewClass(sem.ID, "CS101", "Intro to Programming", "")
	require.NoError(t, err)
	_, err = u.Classes().Insert(ctx, class)
	require.NoError(t, err)
	require.NoError(t, u.CommitTransaction(ctx))

	classes, err := newUoW(t, s).Classes().GetAll(ctx, repository.Eq("code", "CS101"))
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, sem.ID, classes[0].SemesterID)
	assert.Nil(t, classes[0].LecturerID)

	stored, err := newUoW(t, s).Semesters().GetByID(ctx, sem.ID)
	require.NoError(t, err)
	assert.True(t, stored.StartDate.Equal(sem.StartDate))
	assert.True(t, stored.EndDate.Equal(sem.EndDate))
	assert.Equal(t, entity.TermFall, stored.Term)
}

func TestConcurrentUpdate_Conflict(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	usr := seedUsers(t, s, "race@x.io")[0]

	first, second := newUoW(t, s), newUoW(t, s)
	a, err := first.Users().GetByID(ctx, usr.ID)
	require.NoError(t, err)
	b, err := second.Users().GetByID(ctx, usr.ID)
	require.NoError(t, err)

	require.NoError(t, a.Rename("First"))
	require.NoError(t, first.Users().Update(ctx, a))
	_, err = first.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.Version)

	require.NoError(t, b.Rename("Second"))
	require.NoError(t, second.Users().Update(ctx, b))
	_, err = second.SaveChanges(ctx)
	assert.ErrorIs(t, err, repository.ErrConcurrencyConflict)
	// the failed write stays staged
	assert.Equal(t, int64(1), b.Version)

	stored, err := newUoW(t, s).Users().GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", stored.DisplayName)
	assert.Equal(t, int64(2), stored.Version)
}

func TestUpdate_DetachedMissingRow(t *testing.T) {
	ctx := context.Background()
	u := newUoW(t, newStore(t))
	ghost := mustUser(t, "ghost@x.io")
	require.NoError(t, u.Users().Update(ctx, ghost))
	_, err := u.SaveChanges(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIdentityMap(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seeded := seedUsers(t, s, "one@x.io", "two@x.io")

	u := newUoW(t, s)
	first, err := u.Users().GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	again, err := u.Users().GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Same(t, first, again)

	require.NoError(t, first.Rename("Changed in memory"))
	all, err := u.Users().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Same(t, first, all[0])

	require.NoError(t, u.Users().Delete(ctx, seeded[1].ID))
	_, err = u.Users().GetByID(ctx, seeded[1].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	all, err = u.Users().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.ErrorIs(t, u.Users().Delete(ctx, seeded[1].ID), repository.ErrNotFound)

	_, err = u.Users().Insert(ctx, first)
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)

	// staged inserts are visible by id but not in query results
	staged := mustUser(t, "three@x.io")
	_, err = u.Users().Insert(ctx, staged)
	require.NoError(t, err)
	got, err := u.Users().GetByID(ctx, staged.ID)
	require.NoError(t, err)
	assert.Same(t, staged, got)
	all, err = u.Users().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seeded := seedUsers(t, s, "del@x.io")

	u := newUoW(t, s)
	staged := mustUser(t, "staged@x.io")
	_, err := u.Users().Insert(ctx, staged)
	require.NoError(t, err)
	require.NoError(t, u.Users().Delete(ctx, staged.ID))
	_, err = u.Users().GetByID(ctx, staged.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, u.Users().Delete(ctx, "missing"), repository.ErrNotFound)

	require.NoError(t, u.Users().Delete(ctx, seeded[0].ID))
	n, err := u.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := newUoW(t, s).Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteWhere_And_DeleteRange(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seeded := seedUsers(t, s, "a@x.io", "b@x.io", "c@x.io", "d@x.io")

	u := newUoW(t, s)
	_, err := u.Users().DeleteWhere(ctx, nil)
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)

	n, err := u.Users().DeleteWhere(ctx, repository.Or(repository.Eq("email", "a@x.io"), repository.Like("email", "b%")))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = u.Users().DeleteRange(ctx, []*entity.User{seeded[2]})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	written, err := u.Users().Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	left, err := newUoW(t, s).Users().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, seeded[3].ID, left[0].ID)
}

func TestPredicates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUsers(t, s, "a@x.io", "b@x.io", "c@x.io")

	u := newUoW(t, s)
	first, err := u.Users().GetAll(ctx, repository.Eq("email", "a@x.io"))
	require.NoError(t, err)
	require.Len(t, first, 1)
	first[0].SetCohort("")
	require.NoError(t, u.Users().Update(ctx, first[0]))
	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)

	repo := newUoW(t, s).Users()
	cases := []struct {
		name  string
		where repository.Predicate
		want  int64
	}{
		{"in", repository.In("email", []string{"a@x.io", "c@x.io"}), 2},
		{"empty in", repository.In("email", []string{}), 0},
		{"not", repository.Not(repository.Eq("email", "a@x.io")), 2},
		{"is null", repository.IsNull("cohort"), 1},
		{"not null", repository.NotNull("cohort"), 2},
		{"eq nil", repository.Eq("cohort", nil), 1},
		{"and", repository.And(repository.Active(), repository.Eq("role", entity.RoleStudent)), 3},
		{"empty and", repository.Conjunction{}, 3},
		{"empty or", repository.Disjunction{}, 0},
		{"gt version", repository.Gt("version", 1), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := repo.Count(ctx, tc.where)
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}

	found, err := repo.Any(ctx, repository.Eq("email", "b@x.io"))
	require.NoError(t, err)
	assert.True(t, found)

	for _, bad := range []repository.Predicate{
		repository.Eq("password", "x"),
		repository.In("email", "a@x.io"),
		repository.Where("email", repository.Operator("~"), "x"),
		repository.Gt("version", nil),
		repository.Not(nil),
	} {
		_, err := repo.GetAll(ctx, bad)
		assert.ErrorIs(t, err, repository.ErrInvalidArgument, "%#v", bad)
	}
	_, err = repo.Find(ctx, repository.Query{OrderBy: []repository.Order{repository.Asc("nope")}})
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)
}

func TestDriverErrors(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedUsers(t, s, "dup@x.io")

	u := newUoW(t, s)
	_, err := u.Users().Insert(ctx, mustUser(t, "dup@x.io"))
	require.NoError(t, err)
	_, err = u.SaveChanges(ctx)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	orphan, err := entity.NewClass("no-such-semester", "CS404", "", "")
	require.NoError(t, err)
	u2 := newUoW(t, s)
	_, err = u2.Classes().Insert(ctx, orphan)
	require.NoError(t, err)
	_, err = u2.SaveChanges(ctx)
	assert.ErrorIs(t, err, repository.ErrInvalidState)
}

func TestHardDelete_RestrictedByDependents(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := newUoW(t, s)
	sem := mustSemester(t, "SP25")
	_, err := u.Semesters().Insert(ctx, sem)
	require.NoError(t, err)
	class, err := entity.NewClass(sem.ID, "MA201", "", "")
	require.NoError(t, err)
	_, err = u.Classes().Insert(ctx, class)
	require.NoError(t, err)
	_, err = u.SaveChanges(ctx)
	require.NoError(t, err)

	del := newUoW(t, s)
	require.NoError(t, del.Semesters().Delete(ctx, sem.ID))
	_, err = del.SaveChanges(ctx)
	assert.ErrorIs(t, err, repository.ErrInvalidState)

	_, err = newUoW(t, s).Semesters().GetByID(ctx, sem.ID)
	assert.NoError(t, err)
}

func TestRepositoryFor_Memoized(t *testing.T) {
	u := newUoW(t, newStore(t))
	a := persistence.RepositoryFor[*entity.Topic](u)
	b := u.Topics()
	assert.Same(t, a, b)
	assert.NotSame(t, persistence.RepositoryFor[*entity.Topic](newUoW(t, newStore(t))), a)
}

func TestWithTransaction(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	usr := mustUser(t, "ok@x.io")
	err := repository.WithTransaction(ctx, s.New(), func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)

	uow := s.New()
	defer uow.Close()
	err = repository.WithTransaction(ctx, uow, func(ctx context.Context) error {
		_, err := uow.Users().Insert(ctx, usr)
		return err
	})
	require.NoError(t, err)

	failing := mustUser(t, "fail@x.io")
	uow2 := s.New()
	defer uow2.Close()
	err = repository.WithTransaction(ctx, uow2, func(ctx context.Context) error {
		if _, err := uow2.Users().Insert(ctx, failing); err != nil {
			return err
		}
		if _, err := uow2.SaveChanges(ctx); err != nil {
			return err
		}
		return repository.ErrInvalidState
	})
	assert.ErrorIs(t, err, repository.ErrInvalidState)
	assert.False(t, uow2.InTransaction())

	uow3 := s.New()
	defer uow3.Close()
	assert.Panics(t, func() {
		_ = repository.WithTransaction(ctx, uow3, func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.False(t, uow3.InTransaction())

	check := newUoW(t, s).Users()
	_, err = check.GetByID(ctx, usr.ID)
	assert.NoError(t, err)
	_, err = check.GetByID(ctx, failing.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
