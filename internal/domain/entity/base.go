package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalid is returned by constructors and mutators when a required field
// is missing or a value is out of range.
var ErrInvalid = errors.New("invalid argument")

// StatusActive is the lifecycle value every entity starts in unless its
// constructor says otherwise.
const StatusActive = "active"

// Now returns the current time truncated to the precision the database keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Base carries the identity, lifecycle and concurrency columns shared by all tables.
type Base struct {
	ID        string    `db:"id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	Version   int64     `db:"version"`
}

func newBase(status string) Base {
	now := Now()
	return Base{
		ID:        uuid.NewString(),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

func (b *Base) GetID() string      { return b.ID }
func (b *Base) GetStatus() string  { return b.Status }
func (b *Base) SetStatus(s string) { b.Status = s }
func (b *Base) GetVersion() int64  { return b.Version }
func (b *Base) SetVersion(v int64) { b.Version = v }
func (b *Base) Touch(at time.Time) { b.UpdatedAt = at }
func (b *Base) IsActive() bool     { return b.Status == StatusActive }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
