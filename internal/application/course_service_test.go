package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-campus/internal/application"
	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
	"github.com/oksasatya/go-ddd-campus/internal/infrastructure/persistence"
)

type campus struct {
	store       *persistence.Store
	users       *application.UserService
	semesters   *application.SemesterService
	classes     *application.ClassService
	enrollments *application.EnrollmentService
	topics      *application.TopicService
	jobs        *fakePublisher
}

func newCampus(t *testing.T) *campus {
	t.Helper()
	store := newStore(t)
	jobs := &fakePublisher{}
	return &campus{
		store:       store,
		users:       application.NewUserService(store, nil, nil, nil, nil),
		semesters:   application.NewSemesterService(store, nil),
		classes:     application.NewClassService(store, nil),
		enrollments: application.NewEnrollmentService(store, jobs, nil),
		topics:      application.NewTopicService(store, nil),
		jobs:        jobs,
	}
}

func (c *campus) semester(t *testing.T, code string) *application.SemesterDTO {
	t.Helper()
	start := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	s, err := c.semesters.Create(context.Background(), application.CreateSemesterInput{
		Code: code, Term: entity.TermFall, Year: 2024, StartDate: start, EndDate: start.AddDate(0, 4, 0),
	})
	require.NoError(t, err)
	return s
}

func (c *campus) user(t *testing.T, email, role string) *application.UserDTO {
	t.Helper()
	u, err := c.users.Create(context.Background(), application.CreateUserInput{Email: email, DisplayName: email, Role: role})
	require.NoError(t, err)
	return u
}

func (c *campus) class(t *testing.T, semesterID, code string) *application.ClassDTO {
	t.Helper()
	cl, err := c.classes.Create(context.Background(), application.CreateClassInput{SemesterID: semesterID, Code: code, Name: "Intro"})
	require.NoError(t, err)
	return cl
}

func TestSemesterService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := newCampus(t)
	sem := c.semester(t, "fa24")
	assert.Equal(t, "FA24", sem.Code)

	start := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := c.semesters.Create(ctx, application.CreateSemesterInput{Code: "FA24", Term: entity.TermFall, Year: 2024, StartDate: start, EndDate: start.AddDate(0, 1, 0)})
	assert.ErrorIs(t, err, application.ErrSemesterCodeTaken)
	_, err = c.semesters.Create(ctx, application.CreateSemesterInput{Code: "XX", Term: "winter", Year: 2024, StartDate: start, EndDate: start.AddDate(0, 1, 0)})
	assert.ErrorIs(t, err, repo.ErrInvalidArgument)
	_, err = c.semesters.Create(ctx, application.CreateSemesterInput{Code: "YY", Term: entity.TermSpring, Year: 2024, StartDate: start, EndDate: start})
	assert.ErrorIs(t, err, repo.ErrInvalidArgument)

	end := start.AddDate(0, 5, 0)
	updated, err := c.semesters.Update(ctx, sem.ID, application.UpdateSemesterInput{EndDate: &end})
	require.NoError(t, err)
	assert.True(t, end.Equal(updated.EndDate))
	before := start.AddDate(-1, 0, 0)
	_, err = c.semesters.Update(ctx, sem.ID, application.UpdateSemesterInput{EndDate: &before})
	assert.ErrorIs(t, err, repo.ErrInvalidArgument)

	page, err := c.semesters.List(ctx, application.SemesterFilter{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)

	require.NoError(t, c.semesters.Delete(ctx, sem.ID))
	got, err := c.semesters.Get(ctx, sem.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SemesterStatusDisabled, got.Status)

	_, err = c.semesters.Get(ctx, "missing")
	assert.ErrorIs(t, err, application.ErrSemesterNotFound)
}

func TestSemesterService_PurgeRefusedWithClasses(t *testing.T) {
	ctx := context.Background()
	c := newCampus(t)
	sem := c.semester(t, "FA24")
	c.class(t, sem.ID, "CS101")

	assert.ErrorIs(t, c.semesters.Purge(ctx, sem.ID), application.ErrSemesterHasClasses)

	empty := c.semester(t, "SP25")
	require.NoError(t, c.semesters.Purge(ctx, empty.ID))
	_, err := c.semesters.Get(ctx, empty.ID)
	assert.ErrorIs(t, err, application.ErrSemesterNotFound)
	assert.ErrorIs(t, c.semesters.Purge(ctx, empty.ID), application.ErrSemesterNotFound)
}

func TestClassService_Create(t *testing.T) {
	ctx := context.Background()
	c := newCampus(t)
	sem := c.semester(t, "FA24")
	lecturer := c.user(t, "turing@x.io", entity.RoleLecturer)
	student := c.user(t, "kid@x.io", entity.RoleStudent)

	cl, err := c.classes.Create(ctx, application.CreateClassInput{SemesterID: sem.ID, Code: "cs101", Name: "Intro", LecturerID: lecturer.ID})
	require.NoError(t, err)
	assert.Equal(t, "CS101", cl.Code)
	require.NotNil(t, cl.LecturerID)
	assert.Equal(t, lecturer.ID, *cl.LecturerID)

	_, err = c.classes.Create(ctx, application.CreateClassInput{SemesterID: sem.ID, Code: "CS101"})
	assert.ErrorIs(t, err, application.ErrClassCodeTaken)
	_, err = c.classes.Create(ctx, application.CreateClassInput{SemesterID: sem.ID, Code: "CS102", LecturerID: student.ID})
	assert.ErrorIs(t, err, application.ErrLecturerNotValid)
	_, err = c.classes.Create(ctx, application.CreateClassInput{SemesterID: "missing", Code: "CS103"})
	assert.ErrorIs(t, err, application.ErrSemesterNotFound)

	require.NoError(t, c.semesters.Delete(ctx, sem.ID))
	_, err = c.classes.Create(ctx, application.CreateClassInput{SemesterID: sem.ID, Code: "CS104"})
	assert.ErrorIs(t, err, application.ErrSemesterDisabled)

	page, err := c.classes.List(ctx, application.ClassFilter{SemesterID: sem.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)

	page, err = c.classes.List(ctx, application.ClassFilter{SemesterID: "missing"})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
	assert.Empty(t, page.Items)
}

func TestClassService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	c := newCampus(t)
	sem := c.semester(t, "FA24")
	cl := c.class(t, sem.ID, "CS101")
	lecturer := c.user(t, "l@x.io", entity.RoleLecturer)

	name := "Programming I"
	updated, err := c.classes.Update(ctx, cl.ID, application.UpdateClassInput{Name: &name, LecturerID: &lecturer.ID})
	require.NoError(t, err)
	assert.Equal(t, "Programming I", *updated.Name)
	assert.Equal(t, lecturer.ID, *updated.LecturerID)
	assert.Equal(t, int64(2), updated.Version)

	none := ""
	updated, err = c.classes.Update(ctx, cl.ID, application.UpdateClassInput{LecturerID: &none})
	require.NoError(t, err)
	assert.Nil(t, updated.LecturerID)

	require.NoError(t, c.classes.Delete(ctx, cl.ID))
	got, err := c.classes.Get(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ClassStatusDisabled, got.Status)
	assert.ErrorIs(t, c.classes.Delete(ctx, "missing"), application.ErrClassNotFound)
}

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()
	c := newCampus(t)
	sem := c.semester(t, "FA24")
	cl := c.class(t, sem.ID, "CS101")
	alice := c.user(t, "alice@x.io", "")
	bob := c.user(t, "bob@x.io", "")

	e, err := c.enrollments.Enroll(ctx, cl.ID, application.EnrollInput{UserID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.EnrollmentRoleStudent, e.Role)
	assert.Equal(t, entity.StatusActive, e.Status)
	require.Len(t, c.jobs.jobs, 1)
	assert.Equal(t, "alice@x.io", c.jobs.jobs[0].To)

	_, err = c.enrollments.Enroll(ctx, cl.ID, application.EnrollInput{UserID: alice.ID})
	assert.ErrorIs(t, err, application.ErrAlreadyEnrolled)
	_, err = c.enrollments.Enroll(ctx, cl.ID, application.EnrollInput{UserID: "missing"})
	assert.ErrorIs(t, err, application.ErrUserNotFound)
	_, err = c.enrollments.Enroll(ctx, "missing", application.EnrollInput{UserID: bob.ID})
	assert.ErrorIs(t, err, application.ErrClassNotFound)

	require.NoError(t, c.users.Delete(ctx, bob.ID))
	_, err = c.enrollments.Enroll(ctx, cl.ID, application.EnrollInput{UserID: bob.ID})
	assert.ErrorIs(t, err, application.ErrUserInactive)
}

func TestEnrollmentService_BulkEnrollIsAtomic(t *testing.T) {
	ctx := context.Background()
	c := newCampus(t)
	sem := c.semester(t, "FA24")
	cl := c.class(t, sem.ID, "CS101")
	a := c.user(t, "a@x.io", "")
	b := c.user(t, "b@x.io", "")

	_, err := c.enrollments.BulkEnroll(ctx, cl.ID, []application.EnrollInput{{UserID: a.ID}, {UserID: "missing"}})
	assert.ErrorIs(t, err, application.ErrUserNotFound)
	page, err := c.enrollments.ListByClass(ctx, cl.ID, application.EnrollmentFilter{})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
	assert.Empty(t, c.jobs.jobs)

	_, err = c.enrollments.BulkEnroll(ctx, cl.ID, []application.EnrollInput{{UserID: a.ID}, {UserID: a.ID}})
	assert.ErrorIs(t, err, application.ErrAlreadyEnrolled)

	_, err = c.enrollments.BulkEnroll(ctx, cl.ID, nil)
	assert.ErrorIs(t, err, repo.ErrInvalidArgument)

	out, err := c.enrollments.BulkEnroll(ctx, cl.ID, []application.EnrollInput{
		{UserID: a.ID},
		{UserID: b.ID, Role: entity.EnrollmentRoleTeachingAssistant},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, entity.EnrollmentRoleTeachingAssistant, out[1].Role)
	assert.Len(t, c.jobs.jobs, 2)

	byUser, err := c.enrollments.ListByUser(ctx, b.ID, application.EnrollmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byUser.TotalCount)
}

func TestEnrollmentService_DropAndReenroll(t *testing.T) {
	ctx := context.Background()
	c := newCampus(t)
	sem := c.semester(t, "FA24")
	cl := c.class(t, sem.ID, "CS101")
	u := c.user(t, "u@x.io", "")

	e, err := c.enrollments.Enroll(ctx, cl.ID, application.EnrollInput{UserID: u.ID})
	require.NoError(t, err)

	changed, err := c.enrollments.ChangeRole(ctx, e.ID, entity.EnrollmentRoleTeachingAssistant)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed.Version)
	_, err = c.enrollments.ChangeRole(ctx, e.ID, "dean")
	assert.ErrorIs(t, err, repo.ErrInvalidArgument)

	require.NoError(t, c.enrollments.Drop(ctx, e.ID))
	assert.ErrorIs(t, c.enrollments.Drop(ctx, e.ID), application.ErrEnrollmentNotActive)
	_, err = c.enrollments.ChangeRole(ctx, e.ID, entity.EnrollmentRoleStudent)
	assert.ErrorIs(t, err, application.ErrEnrollmentNotActive)

	again, err := c.enrollments.Enroll(ctx, cl.ID, application.EnrollInput{UserID: u.ID})
	require.NoError(t, err)
	assert.NotEqual(t, e.ID, again.ID)

	active, err := c.enrollments.ListByClass(ctx, cl.ID, application.EnrollmentFilter{Status: entity.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), active.TotalCount)
	dropped, err := c.enrollments.ListByClass(ctx, cl.ID, application.EnrollmentFilter{Status: entity.EnrollmentStatusDropped})
	require.NoError(t, err)
	assert.Equal(t, int64(1), dropped.TotalCount)
}

func TestTopicService(t *testing.T) {
	ctx := context.Background()
	c := newCampus(t)
	sem := c.semester(t, "FA24")
	cl := c.class(t, sem.ID, "CS101")

	first, err := c.topics.Create(ctx, cl.ID, application.CreateTopicInput{
		Title:       "Variables",
		Description: `<p>Names and values</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, "<p>Names and values</p>", first.Description)

	second, err := c.topics.Create(ctx, cl.ID, application.CreateTopicInput{Title: "Loops"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)

	_, err = c.topics.Create(ctx, cl.ID, application.CreateTopicInput{Title: " "})
	assert.ErrorIs(t, err, repo.ErrInvalidArgument)
	_, err = c.topics.Create(ctx, "missing", application.CreateTopicInput{Title: "x"})
	assert.ErrorIs(t, err, application.ErrClassNotFound)

	pos := 5
	_, err = c.topics.Update(ctx, first.ID, application.UpdateTopicInput{Position: &pos})
	require.NoError(t, err)
	page, err := c.topics.ListByClass(ctx, cl.ID, application.Paging{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Loops", page.Items[0].Title)
	assert.Equal(t, "Variables", page.Items[1].Title)

	neg := -1
	_, err = c.topics.Update(ctx, first.ID, application.UpdateTopicInput{Position: &neg})
	assert.ErrorIs(t, err, repo.ErrInvalidArgument)

	require.NoError(t, c.topics.Delete(ctx, second.ID))
	_, err = c.topics.Get(ctx, second.ID)
	assert.ErrorIs(t, err, application.ErrTopicNotFound)

	// appended after the highest position, not at the row count
	third, err := c.topics.Create(ctx, cl.ID, application.CreateTopicInput{Title: "Functions"})
	require.NoError(t, err)
	assert.Equal(t, 6, third.Position)

	_, err = c.topics.ListByClass(ctx, "not-a-uuid", application.Paging{})
	assert.ErrorIs(t, err, application.ErrClassNotFound)
	_, err = c.topics.Clear(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, application.ErrClassNotFound)

	n, err := c.topics.Clear(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	page, err = c.topics.ListByClass(ctx, cl.ID, application.Paging{})
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}
