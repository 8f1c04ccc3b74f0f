package entity

import "strings"

const (
	EnrollmentRoleStudent           = "student"
	EnrollmentRoleLecturer          = "lecturer"
	EnrollmentRoleTeachingAssistant = "teaching_assistant"
)

const (
	EnrollmentStatusActive  = StatusActive
	EnrollmentStatusDropped = "dropped"
)

// ClassEnrollment links a user to a class with a role. A (class, user) pair
// has at most one active enrollment.
type ClassEnrollment struct {
	Base
	ClassID string `db:"class_id"`
	UserID  string `db:"user_id"`
	Role    string `db:"role"`
}

func NewClassEnrollment(classID, userID, role string) (*ClassEnrollment, error) {
	if strings.TrimSpace(classID) == "" {
		return nil, invalid("class id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, invalid("user id is required")
	}
	if role == "" {
		role = EnrollmentRoleStudent
	}
	if !ValidEnrollmentRole(role) {
		return nil, invalid("unknown enrollment role %q", role)
	}
	return &ClassEnrollment{
		Base:    newBase(EnrollmentStatusActive),
		ClassID: classID,
		UserID:  userID,
		Role:    role,
	}, nil
}

func (*ClassEnrollment) TableName() string     { return "class_enrollments" }
func (*ClassEnrollment) DeletedStatus() string { return EnrollmentStatusDropped }

func (e *ClassEnrollment) ChangeRole(role string) error {
	if !ValidEnrollmentRole(role) {
		return invalid("unknown enrollment role %q", role)
	}
	e.Role = role
	return nil
}

func ValidEnrollmentRole(role string) bool {
	switch role {
	case EnrollmentRoleStudent, EnrollmentRoleLecturer, EnrollmentRoleTeachingAssistant:
		return true
	}
	return false
}
