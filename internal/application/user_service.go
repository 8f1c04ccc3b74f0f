package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
	"github.com/oksasatya/go-ddd-campus/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-campus/pkg/mailer/templates"
)

type UserService struct {
	UoW     repo.UnitOfWorkFactory
	Index   UserIndexer
	Avatars AvatarStore
	Jobs    JobPublisher
	Logger  *logrus.Logger
}

func NewUserService(uow repo.UnitOfWorkFactory, index UserIndexer, avatars AvatarStore, jobs JobPublisher, logger *logrus.Logger) *UserService {
	return &UserService{UoW: uow, Index: index, Avatars: avatars, Jobs: jobs, Logger: logger}
}

type CreateUserInput struct {
	Email       string
	DisplayName string
	Role        string
	Cohort      string
}

// UpdateUserInput leaves a field untouched when it is nil.
type UpdateUserInput struct {
	DisplayName *string
	Role        *string
	Status      *string
	Cohort      *string
}

type UserFilter struct {
	Role   string
	Status string
	Cohort string
	Paging
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserDTO, error) {
	u, err := entity.NewUser(in.Email, in.DisplayName, in.Role, in.Cohort)
	if err != nil {
		return nil, err
	}
	uow := s.UoW.New()
	defer uow.Close()

	taken, err := uow.Users().Exists(ctx, repo.Eq("email", u.Email))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	if _, err := uow.Users().Insert(ctx, u); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.index(ctx, u)
	s.publish(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(u.DisplayName, u.Email, u.Role),
	})
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*UserDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()
	u, err := uow.Users().GetByIDNoTracking(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *UserService) List(ctx context.Context, f UserFilter) (*repo.PaginatedResult[UserDTO], error) {
	var where []repo.Predicate
	if f.Role != "" {
		where = append(where, repo.Eq("role", f.Role))
	}
	if f.Status != "" {
		where = append(where, repo.Eq("status", f.Status))
	}
	if f.Cohort != "" {
		where = append(where, repo.Eq("cohort", f.Cohort))
	}
	page, size := f.normalize()

	uow := s.UoW.New()
	defer uow.Close()
	res, err := uow.Users().GetPage(ctx, repo.NewQuery(where...).Sorted(repo.Asc("display_name"), repo.Asc("id")), page, size)
	if err != nil {
		return nil, err
	}
	return repo.MapPage(res, toUserDTO), nil
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*UserDTO, error) {
	return s.mutate(ctx, id, func(u *entity.User) error {
		if in.DisplayName != nil {
			if err := u.Rename(*in.DisplayName); err != nil {
				return err
			}
		}
		if in.Role != nil {
			if err := u.ChangeRole(*in.Role); err != nil {
				return err
			}
		}
		if in.Status != nil {
			if err := u.ChangeStatus(*in.Status); err != nil {
				return err
			}
		}
		if in.Cohort != nil {
			u.SetCohort(*in.Cohort)
		}
		return nil
	})
}

func (s *UserService) Disable(ctx context.Context, id string) (*UserDTO, error) {
	return s.mutate(ctx, id, func(u *entity.User) error {
		if u.Status == entity.UserStatusDeleted {
			return ErrUserInactive
		}
		return u.ChangeStatus(entity.UserStatusDisabled)
	})
}

// Delete marks the user deleted; the row is kept.
func (s *UserService) Delete(ctx context.Context, id string) error {
	uow := s.UoW.New()
	defer uow.Close()
	if err := uow.Users().SoftDelete(ctx, id); err != nil {
		return orNotFound(err, ErrUserNotFound)
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return err
	}
	if u, err := uow.Users().GetByID(ctx, id); err == nil {
		s.index(ctx, u)
	}
	return nil
}

func (s *UserService) UploadAvatar(ctx context.Context, id string, r io.Reader, filename, contentType string) (*UserDTO, error) {
	if s.Avatars == nil {
		return nil, ErrStorageNotConfigured
	}
	uow := s.UoW.New()
	defer uow.Close()
	u, err := uow.Users().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", u.ID, uuid.NewString()+ext))
	url, err := s.Avatars.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, err
	}
	u.SetAvatar(url)
	if err := uow.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	s.index(ctx, u)
	dto := toUserDTO(u)
	return &dto, nil
}

// Search queries the user index. Without an index it returns no hits.
func (s *UserService) Search(ctx context.Context, query string, size int) ([]UserDocument, error) {
	if s.Index == nil {
		return []UserDocument{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.SearchUsers(ctx, query, size)
}

func (s *UserService) mutate(ctx context.Context, id string, fn func(*entity.User) error) (*UserDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()
	u, err := uow.Users().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrUserNotFound)
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	if err := uow.Users().Update(ctx, u); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	s.index(ctx, u)
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *UserService) index(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Index.IndexUser(c, toUserDocument(u)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

func (s *UserService) publish(ctx context.Context, job mailer.EmailJob) {
	publishJob(ctx, s.Jobs, s.Logger, job)
}

// publishJob sends an email job without failing the caller.
func publishJob(ctx context.Context, jobs JobPublisher, logger *logrus.Logger, job mailer.EmailJob) {
	if jobs == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := jobs.PublishJSON(c, job); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{"template": job.Template, "to": job.To}).Warn("publish email job failed")
	}
}
