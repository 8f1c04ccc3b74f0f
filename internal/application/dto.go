package application

import (
	"time"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
)

type UserDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	Cohort      *string   `json:"cohort"`
	AvatarURL   *string   `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

func toUserDTO(u *entity.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		Cohort:      u.Cohort,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Version:     u.Version,
	}
}

func toUserDocument(u *entity.User) UserDocument {
	return UserDocument{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		Cohort:      deref(u.Cohort),
		AvatarURL:   deref(u.AvatarURL),
		UpdatedAt:   u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type SemesterDTO struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Term      string    `json:"term"`
	Year      int       `json:"year"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

func toSemesterDTO(s *entity.Semester) SemesterDTO {
	return SemesterDTO{
		ID:        s.ID,
		Code:      s.Code,
		Term:      s.Term,
		Year:      s.Year,
		Status:    s.Status,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
	}
}

type ClassDTO struct {
	ID         string    `json:"id"`
	SemesterID string    `json:"semester_id"`
	Code       string    `json:"code"`
	Name       *string   `json:"name"`
	LecturerID *string   `json:"lecturer_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int64     `json:"version"`
}

func toClassDTO(c *entity.Class) ClassDTO {
	return ClassDTO{
		ID:         c.ID,
		SemesterID: c.SemesterID,
		Code:       c.Code,
		Name:       c.Name,
		LecturerID: c.LecturerID,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Version:    c.Version,
	}
}

type EnrollmentDTO struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

func toEnrollmentDTO(e *entity.ClassEnrollment) EnrollmentDTO {
	return EnrollmentDTO{
		ID:        e.ID,
		ClassID:   e.ClassID,
		UserID:    e.UserID,
		Role:      e.Role,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Version:   e.Version,
	}
}

type TopicDTO struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"class_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

func toTopicDTO(t *entity.Topic) TopicDTO {
	return TopicDTO{
		ID:          t.ID,
		ClassID:     t.ClassID,
		Title:       t.Title,
		Description: t.Description,
		Position:    t.Position,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
}

func mapAll[T, U any](items []T, fn func(T) U) []U {
	out := make([]U, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Paging holds the page request of a list call. Zero values pick the defaults.
type Paging struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func (p Paging) normalize() (int, int) {
	page, size := p.Page, p.PageSize
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
