package application

import (
	"context"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

type TopicService struct {
	UoW    repo.UnitOfWorkFactory
	Policy *bluemonday.Policy
	Logger *logrus.Logger
}

func NewTopicService(uow repo.UnitOfWorkFactory, logger *logrus.Logger) *TopicService {
	return &TopicService{UoW: uow, Policy: bluemonday.UGCPolicy(), Logger: logger}
}

type CreateTopicInput struct {
	Title       string
	Description string
}

type UpdateTopicInput struct {
	Title       *string
	Description *string
	Position    *int
}

func (s *TopicService) Create(ctx context.Context, classID string, in CreateTopicInput) (*TopicDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()

	var topic *entity.Topic
	err := repo.WithTransaction(ctx, uow, func(ctx context.Context) error {
		class, err := uow.Classes().GetByID(ctx, classID)
		if err != nil {
			return orNotFound(err, ErrClassNotFound)
		}
		if !class.IsActive() {
			return ErrClassInactive
		}
		last, err := uow.Topics().Find(ctx, repo.Query{
			Where:   repo.Eq("class_id", class.ID),
			OrderBy: []repo.Order{repo.Desc("position")},
			Limit:   1,
		})
		if err != nil {
			return err
		}
		next := 0
		if len(last) > 0 {
			next = last[0].Position + 1
		}
		topic, err = entity.NewTopic(class.ID, in.Title, s.sanitize(in.Description), next)
		if err != nil {
			return err
		}
		_, err = uow.Topics().Insert(ctx, topic)
		return err
	})
	if err != nil {
		return nil, err
	}
	dto := toTopicDTO(topic)
	return &dto, nil
}

func (s *TopicService) Get(ctx context.Context, id string) (*TopicDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()
	t, err := uow.Topics().GetByIDNoTracking(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrTopicNotFound)
	}
	dto := toTopicDTO(t)
	return &dto, nil
}

// ListByClass returns the topics of a class in position order.
func (s *TopicService) ListByClass(ctx context.Context, classID string, p Paging) (*repo.PaginatedResult[TopicDTO], error) {
	uow := s.UoW.New()
	defer uow.Close()
	if ok, err := exists(ctx, uow.Classes(), classID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrClassNotFound
	}
	page, size := p.normalize()
	q := repo.NewQuery(repo.Eq("class_id", classID)).Sorted(repo.Asc("position"), repo.Asc("created_at"))
	res, err := uow.Topics().GetPage(ctx, q, page, size)
	if err != nil {
		return nil, err
	}
	return repo.MapPage(res, toTopicDTO), nil
}

func (s *TopicService) Update(ctx context.Context, id string, in UpdateTopicInput) (*TopicDTO, error) {
	uow := s.UoW.New()
	defer uow.Close()
	t, err := uow.Topics().GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, ErrTopicNotFound)
	}
	if in.Title != nil {
		if err := t.Retitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		t.Description = s.sanitize(*in.Description)
	}
	if in.Position != nil {
		if *in.Position < 0 {
			return nil, invalidf("position must not be negative")
		}
		t.Position = *in.Position
	}
	if err := uow.Topics().Update(ctx, t); err != nil {
		return nil, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}
	dto := toTopicDTO(t)
	return &dto, nil
}

// Delete removes the topic row.
func (s *TopicService) Delete(ctx context.Context, id string) error {
	uow := s.UoW.New()
	defer uow.Close()
	if err := uow.Topics().Delete(ctx, id); err != nil {
		return orNotFound(err, ErrTopicNotFound)
	}
	_, err := uow.SaveChanges(ctx)
	return err
}

// Clear removes every topic of a class and reports how many were deleted.
func (s *TopicService) Clear(ctx context.Context, classID string) (int, error) {
	uow := s.UoW.New()
	defer uow.Close()
	if ok, err := exists(ctx, uow.Classes(), classID); err != nil {
		return 0, err
	} else if !ok {
		return 0, ErrClassNotFound
	}
	n, err := uow.Topics().DeleteWhere(ctx, repo.Eq("class_id", classID))
	if err != nil {
		return 0, err
	}
	if _, err := uow.SaveChanges(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *TopicService) sanitize(html string) string {
	if s.Policy == nil {
		return html
	}
	return s.Policy.Sanitize(html)
}
