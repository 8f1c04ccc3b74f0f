package application

import (
	"context"
	"errors"
	"fmt"

	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

// Domain errors. Each wraps a repository kind so callers can match either
// the specific error or its kind with errors.Is.
var (
	ErrUserNotFound     = fmt.Errorf("user not found: %w", repo.ErrNotFound)
	ErrEmailTaken       = fmt.Errorf("email already registered: %w", repo.ErrDuplicate)
	ErrUserInactive     = fmt.Errorf("user is not active: %w", repo.ErrInvalidState)
	ErrLecturerNotValid = fmt.Errorf("lecturer must be an active lecturer or admin: %w", repo.ErrInvalidArgument)

	ErrSemesterNotFound   = fmt.Errorf("semester not found: %w", repo.ErrNotFound)
	ErrSemesterCodeTaken  = fmt.Errorf("semester code already exists: %w", repo.ErrDuplicate)
	ErrSemesterDisabled   = fmt.Errorf("semester is disabled: %w", repo.ErrInvalidState)
	ErrSemesterHasClasses = fmt.Errorf("semester still has classes: %w", repo.ErrInvalidState)

	ErrClassNotFound  = fmt.Errorf("class not found: %w", repo.ErrNotFound)
	ErrClassCodeTaken = fmt.Errorf("class code already exists in semester: %w", repo.ErrDuplicate)
	ErrClassInactive  = fmt.Errorf("class is not active: %w", repo.ErrInvalidState)

	ErrEnrollmentNotFound  = fmt.Errorf("enrollment not found: %w", repo.ErrNotFound)
	ErrAlreadyEnrolled     = fmt.Errorf("user already enrolled in class: %w", repo.ErrDuplicate)
	ErrEnrollmentNotActive = fmt.Errorf("enrollment is not active: %w", repo.ErrInvalidState)

	ErrTopicNotFound = fmt.Errorf("topic not found: %w", repo.ErrNotFound)

	ErrStorageNotConfigured = fmt.Errorf("avatar storage not configured: %w", repo.ErrInvalidState)
	ErrChatbotUnavailable   = fmt.Errorf("chatbot not configured: %w", repo.ErrInvalidState)
)

// orNotFound replaces a repository not-found error with the domain one.
func orNotFound(err, domain error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return domain
	}
	return err
}

// exists reports whether a row with id is present. Malformed ids are absent
// on every dialect instead of failing the uuid cast on Postgres.
func exists[T repo.Entity](ctx context.Context, r repo.Repository[T], id string) (bool, error) {
	if !repo.ValidID(id) {
		return false, nil
	}
	return r.Any(ctx, repo.Eq("id", id))
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", repo.ErrInvalidArgument, fmt.Sprintf(format, args...))
}
