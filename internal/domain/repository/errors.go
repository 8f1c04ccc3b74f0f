package repository

import (
	"errors"

	"github.com/oksasatya/go-ddd-campus/internal/domain/entity"
)

// Error kinds returned by repositories and units of work. Implementations
// wrap them with fmt.Errorf("%w") so callers match with errors.Is.
var (
	ErrNotFound            = errors.New("entity not found")
	ErrDuplicate           = errors.New("duplicate entity")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrInvalidState        = errors.New("invalid state")
	ErrInternal            = errors.New("internal persistence error")

	// ErrInvalidArgument is shared with the entity constructors so a failed
	// NewUser and a bad predicate match the same kind.
	ErrInvalidArgument = entity.ErrInvalid
)
