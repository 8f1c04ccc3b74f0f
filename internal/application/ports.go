package application

import (
	"context"
	"io"
)

// UserDocument is the search projection of a user.
type UserDocument struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Status      string `json:"status"`
	Cohort      string `json:"cohort,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	UpdatedAt   string `json:"updated_at"`
}

type UserIndexer interface {
	IndexUser(ctx context.Context, doc UserDocument) error
	SearchUsers(ctx context.Context, query string, size int) ([]UserDocument, error)
}

// AvatarStore uploads an object and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}
