package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
	"github.com/oksasatya/go-ddd-campus/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-campus/pkg/mailer/templates"
)

type EnrollmentService struct {
	UoW    repo.UnitOfWorkFactory
	Jobs   JobPublisher
	Logger *logrus.Logger
}

func NewEnrollmentService(uow repo.UnitOfWorkFactory, jobs JobPublisher, logger *logrus.Logger) *EnrollmentService {
	return &EnrollmentService{UoW: uow, Jobs: jobs, Logger: logger}
}

type EnrollInput struct {
	UserID string
	Role   string
}

type EnrollmentFilter struct {
	Status string
	Paging
}

type enrolled struct {
	enrollment *entity.ClassEnrollment
	user       *entity.User
}

func (s *EnrollmentService) Enroll(ctx context.Context, classID string, in EnrollInput) (*EnrollmentDTO, error) {
	out, err := s.BulkEnroll(ctx, classID, []EnrollInput{in})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// BulkEnroll enrolls every user or none of them.
func (s *EnrollmentService) BulkEnroll(ctx context.Context, classID string, in []EnrollInput) ([]EnrollmentDTO, error) {
	if len(in) == 0 {
		return nil, invalidf("at least one enrollment is required")
	}
	uow := s.UoW.New()
	defer uow.Close()

	var (
		class *entity.Class
		done  []enrolled
	)
	err := repo.WithTransaction(ctx, uow, func(ctx context.Context) error {
		var err error
		class, err = uow.Classes().GetByID(ctx, classID)
		if err != nil {
			return orNotFound(err, ErrClassNotFound)
		}
		if !class.IsActive() {
			return ErrClassInactive
		}
		seen := make(map[string]struct{}, len(in))
		for _, item := range in {
			userID := strings.TrimSpace(item.UserID)
			if _, dup := seen[userID]; dup {
				return ErrAlreadyEnrolled
			}
			seen[userID] = struct{}{}
			e, err := enrollOne(ctx, uow, class, EnrollInput{UserID: userID, Role: item.Role})
			if err != nil {
				return err
			}
			done = append(done, e)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) && !errors.Is(err, ErrAlreadyEnrolled) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	out := make([]EnrollmentDTO, 0, len(done))
	for _, e := range done {
		s.notify(ctx, class, e)
		out = append(out, toEnrollmentDTO(e.enrollment))
	}
	return out, nil
}

func enrollOne(ctx context.Context, uow repo.UnitOfWork, class *entity.Class, in EnrollInput) (enrolled, error) {
	e, err := entity.NewClassEnrollment(class.ID, in.UserID, in.Role)
	if err != nil {
		return enrolled{}, err
	}
	u, err := uow.Users().GetByID(ctx, e.UserID)
	if err != nil {
		return enrolled{}, orNotFound(err, ErrUserNotFound)
	}
	if !u.IsActive() {
		return enrolled{}, ErrUserInactive
	}
	taken, err := uow.Enrollments().Exists(ctx, repo.And(
		repo.Eq("class_id", class.ID),
		repo.Eq("user_id", u.ID),
		repo.Active(),
	))
	if err != nil {
		return enrolled{}, err
	}
	if taken {
		return enrolled{}, ErrAlreadyEnrolled
	}
	if _, err := uow.Enrollments().Insert(ctx, e); err != nil {
		return enrolled{}, err
	}
	return enrolled{enrollment: e, user: u}, nil
}

func (s *EnrollmentService) ListByClass(ctx context.Context, classID string, f EnrollmentFilter) (*repo.PaginatedResult[EnrollmentDTO], error) {
	uow := s.UoW.New()
	defer uow.Close()
	if ok, err := exists(ctx, uow.Classes(), classID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrClassNotFound
	}
	return s.list(ctx, uow, repo.Eq("class_id", classID), f)
}

func (s *EnrollmentService) ListByUser(ctx context.Context, userID string, f EnrollmentFilter) (*repo.PaginatedResult[EnrollmentDTO], error) {
	uow := s.UoW.New()
	defer uow.Close()
	if ok, err := exists(ctx, uow.Users(), userID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrUserNotFound
	}
	return s.list(ctx, uow, repo.Eq("user_id", userID), f)
}

func (s *EnrollmentService) list(ctx context.Context, uow repo.UnitOfWork, scope repo.Predicate, f EnrollmentFilter) (*repo.PaginatedResult[EnrollmentDTO], error) {
	where := scope
	if f.Status != "" {
		where = repo.And(scope, repo.Eq("status", f.Status))
	}
	page, size := f.normalize()
	res, err := uow.Enrollments().GetPage(ctx, repo.NewQuery(where), page, size)
	if err != nil {
		return nil, err
	}
	return repo.MapPage(res, toEnrollmentDTO), nil
}

func (s *EnrollmentService) ChangeRole(ctx context.Context, id, role string) (*EnrollmentDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()
	e, err := uow.Enrollments().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrEnrollmentNotFound)
	}
	if !e.IsActive() {
		return nil, ErrEnrollmentNotActive
	}
	if err := e.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := uow.Enrollments().Update(ctx, e); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	dto := toEnrollmentDTO(e)
	return &dto, nil
}

// Drop soft-deletes an active enrollment; the user may enroll again later.
func (s *EnrollmentService) Drop(ctx context.Context, id string) error {
	uow := s.UoW.New()
	defer uow.Close()
	e, err := uow.Enrollments().GetByID(ctx, id)
	if err != nil {
		return orNotFound(err, ErrEnrollmentNotFound)
	}
	if !e.IsActive() {
		return ErrEnrollmentNotActive
	}
	if err := uow.Enrollments().SoftDelete(ctx, id); err != nil {
		return err
	}
	_, err = uow.SaveChanges(ctx)
	return err
}

func (s *EnrollmentService) notify(ctx context.Context, class *entity.Class, e enrolled) {
	publishJob(ctx, s.Jobs, s.Logger, mailer.EmailJob{
		To:       e.user.Email,
		Template: mailtpl.EnrollmentCreated,
		Data:     mailtpl.NewEnrollmentData(e.user.DisplayName, e.user.Email, e.enrollment.Role, class.Code, deref(class.Name)),
	})
}
