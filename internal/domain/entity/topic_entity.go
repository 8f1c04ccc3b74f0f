package entity

import "strings"

const TopicStatusDisabled = "disabled"

// Topic is an ordered unit of content inside a class.
type Topic struct {
	Base
	ClassID     string `db:"class_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Position    int    `db:"position"`
}

func NewTopic(classID, title, description string, position int) (*Topic, error) {
	if strings.TrimSpace(classID) == "" {
		return nil, invalid("class id is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("topic title is required")
	}
	if position < 0 {
		return nil, invalid("position must not be negative")
	}
	return &Topic{
		Base:        newBase(StatusActive),
		ClassID:     classID,
		Title:       title,
		Description: description,
		Position:    position,
	}, nil
}

func (*Topic) TableName() string     { return "topics" }
func (*Topic) DeletedStatus() string { return TopicStatusDisabled }

func (t *Topic) Retitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("topic title is required")
	}
	t.Title = title
	return nil
}
