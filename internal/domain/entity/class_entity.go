package entity

import "strings"

const ClassStatusDisabled = "disabled"

// Class is a course offering inside a semester. Code is unique per semester.
type Class struct {
	Base
	SemesterID string  `db:"semester_id"`
	Code       string  `db:"code"`
	Name       *string `db:"name"`
	LecturerID *string `db:"lecturer_id"`
}

func NewClass(semesterID, code, name, lecturerID string) (*Class, error) {
	if strings.TrimSpace(semesterID) == "" {
		return nil, invalid("semester id is required")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, invalid("class code is required")
	}
	return &Class{
		Base:       newBase(StatusActive),
		SemesterID: semesterID,
		Code:       code,
		Name:       optional(strings.TrimSpace(name)),
		LecturerID: optional(strings.TrimSpace(lecturerID)),
	}, nil
}

func (*Class) TableName() string     { return "classes" }
func (*Class) DeletedStatus() string { return ClassStatusDisabled }

func (c *Class) Rename(name string) {
	c.Name = optional(strings.TrimSpace(name))
}

// AssignLecturer sets the lecturer; an empty id unassigns.
func (c *Class) AssignLecturer(lecturerID string) {
	c.LecturerID = optional(strings.TrimSpace(lecturerID))
}
