package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-ddd-campus/internal/domain/repository"
)

const chatbotPreamble = "You are a helpful teaching assistant for a university campus. Answer concisely."

type ChatbotService struct {
	UoW       repo.UnitOfWorkFactory
	Completer Completer
	Logger    *logrus.Logger
}

func NewChatbotService(uow repo.UnitOfWorkFactory, completer Completer, logger *logrus.Logger) *ChatbotService {
	return &ChatbotService{UoW: uow, Completer: completer, Logger: logger}
}

type AskInput struct {
	Message string
	ClassID string
	History []ChatMessage
}

type ChatAnswer struct {
	Answer  string   `json:"answer"`
	ClassID string   `json:"class_id,omitempty"`
	Topics  []string `json:"topics,omitempty"`
}

// Ask forwards the message to the completer. When a class is given, its
// active topics are listed in the system prompt.
func (s *ChatbotService) Ask(ctx context.Context, in AskInput) (*ChatAnswer, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, invalidf("message is required")
	}
	if s.Completer == nil {
		return nil, ErrChatbotUnavailable
	}

	system := chatbotPreamble
	var titles []string
	if in.ClassID != "" {
		var err error
		system, titles, err = s.classContext(ctx, in.ClassID)
		if err != nil {
			return nil, err
		}
	}

	messages := make([]ChatMessage, 0, len(in.History)+2)
	messages = append(messages, ChatMessage{Role: ChatRoleSystem, Content: system})
	for _, h := range in.History {
		if h.Role == ChatRoleUser || h.Role == ChatRoleAssistant {
			messages = append(messages, h)
		}
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: msg})

	answer, err := s.Completer.Complete(ctx, messages)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("class_id", in.ClassID).Error("chat completion failed")
		}
		return nil, err
	}
	return &ChatAnswer{Answer: answer, ClassID: in.ClassID, Topics: titles}, nil
}

func (s *ChatbotService) classContext(ctx context.Context, classID string) (string, []string, error) {
	uow := s.UoW.New()
	defer uow.Close()
	class, err := uow.Classes().GetByIDNoTracking(ctx, classID)
	if err != nil {
		return "", nil, orNotFound(err, ErrClassNotFound)
	}
	topics, err := uow.Topics().Find(ctx, repo.NewQuery(repo.Eq("class_id", class.ID), repo.Active()).
		Sorted(repo.Asc("position")))
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	sb.WriteString(chatbotPreamble)
	fmt.Fprintf(&sb, "\nThe student is asking about class %s", class.Code)
	if class.Name != nil {
		fmt.Fprintf(&sb, " (%s)", *class.Name)
	}
	sb.WriteString(".")
	titles := make([]string, len(topics))
	if len(topics) > 0 {
		sb.WriteString("\nCourse topics in order:")
		for i, t := range topics {
			titles[i] = t.Title
			fmt.Fprintf(&sb, "\n%d. %s", i+1, t.Title)
		}
	}
	return sb.String(), titles, nil
}
