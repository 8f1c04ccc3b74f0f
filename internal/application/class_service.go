package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

type ClassService struct {
	UoW    repo.UnitOfWorkFactory
	Logger *logrus.Logger
}

func NewClassService(uow repo.UnitOfWorkFactory, logger *logrus.Logger) *ClassService {
	return &ClassService{UoW: uow, Logger: logger}
}

type CreateClassInput struct {
	SemesterID string
	Code       string
	Name       string
	LecturerID string
}

type UpdateClassInput struct {
	Name       *string
	LecturerID *string
}

type ClassFilter struct {
	SemesterID string
	Status     string
	Paging
}

// Create checks the semester and lecturer and inserts the class in one transaction.
func (s *ClassService) Create(ctx context.Context, in CreateClassInput) (*ClassDTO, error) {
	class, err := entity.NewClass(in.SemesterID, in.Code, in.Name, in.LecturerID)
	if err != nil {
		return nil, err
	}
	uow := s.UoW.New()
	defer uow.Close()

	err = repo.WithTransaction(ctx, uow, func(ctx context.Context) error {
		sem, err := uow.Semesters().GetByID(ctx, class.SemesterID)
		if err != nil {
			return orNotFound(err, ErrSemesterNotFound)
		}
		if sem.Status == entity.SemesterStatusDisabled {
			return ErrSemesterDisabled
		}
		taken, err := uow.Classes().Exists(ctx, repo.And(
			repo.Eq("semester_id", class.SemesterID),
			repo.Eq("code", class.Code),
		))
		if err != nil {
			return err
		}
		if taken {
			return ErrClassCodeTaken
		}
		if class.LecturerID != nil {
			if err := checkLecturer(ctx, uow, *class.LecturerID); err != nil {
				return err
			}
		}
		_, err = uow.Classes().Insert(ctx, class)
		return err
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) && !errors.Is(err, ErrClassCodeTaken) {
			return nil, ErrClassCodeTaken
		}
		return nil, err
	}
	dto := toClassDTO(class)
	return &dto, nil
}

func (s *ClassService) Get(ctx context.Context, id string) (*ClassDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()
	class, err := uow.Classes().GetByIDNoTracking(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrClassNotFound)
	}
	dto := toClassDTO(class)
	return &dto, nil
}

func (s *ClassService) List(ctx context.Context, f ClassFilter) (*repo.PaginatedResult[ClassDTO], error) {
	var where []repo.Predicate
	page, size := f.normalize()
	if f.SemesterID != "" {
		if !repo.ValidID(f.SemesterID) {
			return repo.NewPaginatedResult([]ClassDTO{}, page, size, 0), nil
		}
		where = append(where, repo.Eq("semester_id", f.SemesterID))
	}
	if f.Status != "" {
		where = append(where, repo.Eq("status", f.Status))
	}

	uow := s.UoW.New()
	defer uow.Close()
	res, err := uow.Classes().GetPage(ctx, repo.NewQuery(where...).Sorted(repo.Asc("code"), repo.Asc("id")), page, size)
	if err != nil {
		return nil, err
	}
	return repo.MapPage(res, toClassDTO), nil
}

func (s *ClassService) Update(ctx context.Context, id string, in UpdateClassInput) (*ClassDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()
	class, err := uow.Classes().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrClassNotFound)
	}
	if in.Name != nil {
		class.Rename(*in.Name)
	}
	if in.LecturerID != nil {
		lecturer := strings.TrimSpace(*in.LecturerID)
		if lecturer != "" {
			if err := checkLecturer(ctx, uow, lecturer); err != nil {
				return nil, err
			}
		}
		class.AssignLecturer(lecturer)
	}
	if err := uow.Classes().Update(ctx, class); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	dto := toClassDTO(class)
	return &dto, nil
}

func (s *ClassService) Delete(ctx context.Context, id string) error {
	uow := s.UoW.New()
	defer uow.Close()
	if err := uow.Classes().SoftDelete(ctx, id); err != nil {
		return orNotFound(err, ErrClassNotFound)
	}
	_, err := uow.SaveChanges(ctx)
	return err
}

func checkLecturer(ctx context.Context, uow repo.UnitOfWork, id string) error {
	u, err := uow.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrLecturerNotValid
		}
		return err
	}
	if !u.IsActive() || (u.Role != entity.RoleLecturer && u.Role != entity.RoleAdmin) {
		return ErrLecturerNotValid
	}
	return nil
}
