package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

type SemesterService struct {
	UoW    repo.UnitOfWorkFactory
	Logger *logrus.Logger
}

func NewSemesterService(uow repo.UnitOfWorkFactory, logger *logrus.Logger) *SemesterService {
	return &SemesterService{UoW: uow, Logger: logger}
}

type CreateSemesterInput struct {
	Code      string
	Term      string
	Year      int
	StartDate time.Time
	EndDate   time.Time
}

type UpdateSemesterInput struct {
	Status    *string
	StartDate *time.Time
	EndDate   *time.Time
}

type SemesterFilter struct {
	Status string
	Year   int
	Paging
}

func (s *SemesterService) Create(ctx context.Context, in CreateSemesterInput) (*SemesterDTO, error) {
	sem, err := entity.NewSemester(in.Code, in.Term, in.Year, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	uow := s.UoW.New()
	defer uow.Close()

	taken, err := uow.Semesters().Exists(ctx, repo.Eq("code", sem.Code))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSemesterCodeTaken
	}
	if _, err := uow.Semesters().Insert(ctx, sem); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSemesterCodeTaken
		}
		return nil, err
	}
	dto := toSemesterDTO(sem)
	return &dto, nil
}

func (s *SemesterService) Get(ctx context.Context, id string) (*SemesterDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()
	sem, err := uow.Semesters().GetByIDNoTracking(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrSemesterNotFound)
	}
	dto := toSemesterDTO(sem)
	return &dto, nil
}

func (s *SemesterService) List(ctx context.Context, f SemesterFilter) (*repo.PaginatedResult[SemesterDTO], error) {
	var where []repo.Predicate
	if f.Status != "" {
		where = append(where, repo.Eq("status", f.Status))
	}
	if f.Year != 0 {
		where = append(where, repo.Eq("year", f.Year))
	}
	page, size := f.normalize()

	uow := s.UoW.New()
	defer uow.Close()
	res, err := uow.Semesters().GetPage(ctx, repo.NewQuery(where...).Sorted(repo.Desc("start_date"), repo.Asc("code")), page, size)
	if err != nil {
		return nil, err
	}
	return repo.MapPage(res, toSemesterDTO), nil
}

func (s *SemesterService) Update(ctx context.Context, id string, in UpdateSemesterInput) (*SemesterDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()
	sem, err := uow.Semesters().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrSemesterNotFound)
	}
	if in.StartDate != nil || in.EndDate != nil {
		start, end := sem.StartDate, sem.EndDate
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if in.EndDate != nil {
			end = *in.EndDate
		}
		if err := sem.Reschedule(start, end); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		if err := sem.ChangeStatus(*in.Status); err != nil {
			return nil, err
		}
	}
	if err := uow.Semesters().Update(ctx, sem); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	dto := toSemesterDTO(sem)
	return &dto, nil
}

// Delete disables the semester; classes keep referencing it.
func (s *SemesterService) Delete(ctx context.Context, id string) error {
	uow := s.UoW.New()
	defer uow.Close()
	if err := uow.Semesters().SoftDelete(ctx, id); err != nil {
		return orNotFound(err, ErrSemesterNotFound)
	}
	_, err := uow.SaveChanges(ctx)
	return err
}

// Purge removes the semester row. It is refused while any class, active or
// not, still references the semester.
func (s *SemesterService) Purge(ctx context.Context, id string) error {
	uow := s.UoW.New()
	defer uow.Close()
	err := repo.WithTransaction(ctx, uow, func(ctx context.Context) error {
		if _, err := uow.Semesters().GetByID(ctx, id); err != nil {
			return orNotFound(err, ErrSemesterNotFound)
		}
		hasClasses, err := uow.Classes().Any(ctx, repo.Eq("semester_id", id))
		if err != nil {
			return err
		}
		if hasClasses {
			return ErrSemesterHasClasses
		}
		return uow.Semesters().Delete(ctx, id)
	})
	if errors.Is(err, repo.ErrInvalidState) && !errors.Is(err, ErrSemesterHasClasses) {
		// a class was added between the check and the delete
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("semester_id", id).Warn("semester purge blocked by constraint")
		}
		return ErrSemesterHasClasses
	}
	return err
}
