package entity

import (
	"net/mail"
	"strings"
)

const (
	RoleAdmin    = "admin"
	RoleLecturer = "lecturer"
	RoleStudent  = "student"
)

const (
	UserStatusActive   = StatusActive
	UserStatusDisabled = "disabled"
	UserStatusDeleted  = "deleted"
)

// User is the aggregate root of the identity service.
// Email is unique across every user row, deleted ones included.
type User struct {
	Base
	Email       string  `db:"email"`
	DisplayName string  `db:"display_name"`
	Role        string  `db:"role"`
	Cohort      *string `db:"cohort"`
	AvatarURL   *string `db:"avatar_url"`
}

// NewUser builds an active user. The email is normalized to lower case.
func NewUser(email, displayName, role, cohort string) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, invalid("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("email %q is malformed", email)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, invalid("display name is required")
	}
	if role == "" {
		role = RoleStudent
	}
	if !ValidUserRole(role) {
		return nil, invalid("unknown role %q", role)
	}
	return &User{
		Base:        newBase(UserStatusActive),
		Email:       email,
		DisplayName: displayName,
		Role:        role,
		Cohort:      optional(strings.TrimSpace(cohort)),
	}, nil
}

func (*User) TableName() string     { return "users" }
func (*User) DeletedStatus() string { return UserStatusDeleted }

func (u *User) Rename(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return invalid("display name is required")
	}
	u.DisplayName = displayName
	return nil
}

func (u *User) ChangeRole(role string) error {
	if !ValidUserRole(role) {
		return invalid("unknown role %q", role)
	}
	u.Role = role
	return nil
}

func (u *User) ChangeStatus(status string) error {
	if !ValidUserStatus(status) {
		return invalid("unknown user status %q", status)
	}
	u.Status = status
	return nil
}

// SetCohort clears the cohort when given an empty string.
func (u *User) SetCohort(cohort string) {
	u.Cohort = optional(strings.TrimSpace(cohort))
}

func (u *User) SetAvatar(url string) {
	u.AvatarURL = optional(url)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidUserRole(role string) bool {
	switch role {
	case RoleAdmin, RoleLecturer, RoleStudent:
		return true
	}
	return false
}

func ValidUserStatus(status string) bool {
	switch status {
	case UserStatusActive, UserStatusDisabled, UserStatusDeleted:
		return true
	}
	return false
}
