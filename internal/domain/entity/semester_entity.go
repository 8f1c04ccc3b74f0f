package entity

import (
	"strings"
	"time"
)

const (
	TermSpring = "spring"
	TermSummer = "summer"
	TermFall   = "fall"
)

const (
	SemesterStatusActive   = StatusActive
	SemesterStatusDisabled = "disabled"
	SemesterStatusPending  = "pending"
)

// Semester groups classes in time. Code is unique (e.g. "FA24") and StartDate
// is always strictly before EndDate.
type Semester struct {
	Base
	Code      string    `db:"code"`
	Term      string    `db:"term"`
	Year      int       `db:"year"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
}

func NewSemester(code, term string, year int, start, end time.Time) (*Semester, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, invalid("semester code is required")
	}
	if !ValidTerm(term) {
		return nil, invalid("unknown term %q", term)
	}
	if year < 2000 || year > 2100 {
		return nil, invalid("year %d is out of range", year)
	}
	s := &Semester{
		Base: newBase(SemesterStatusActive),
		Code: code,
		Term: term,
		Year: year,
	}
	if err := s.Reschedule(start, end); err != nil {
		return nil, err
	}
	return s, nil
}

func (*Semester) TableName() string     { return "semesters" }
func (*Semester) DeletedStatus() string { return SemesterStatusDisabled }

// Reschedule replaces both dates; start must precede end.
func (s *Semester) Reschedule(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return invalid("start and end dates are required")
	}
	if !start.Before(end) {
		return invalid("start date must be before end date")
	}
	s.StartDate = start.UTC()
	s.EndDate = end.UTC()
	return nil
}

func (s *Semester) ChangeStatus(status string) error {
	if !ValidSemesterStatus(status) {
		return invalid("unknown semester status %q", status)
	}
	s.Status = status
	return nil
}

func ValidTerm(term string) bool {
	switch term {
	case TermSpring, TermSummer, TermFall:
		return true
	}
	return false
}

func ValidSemesterStatus(status string) bool {
	switch status {
	case SemesterStatusActive, SemesterStatusDisabled, SemesterStatusPending:
		return true
	}
	return false
}
