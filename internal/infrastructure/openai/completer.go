package openai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/oksasatya/go-ddd-campus/internal/application"
)

const DefaultModel = "gpt-4o-mini"

var ErrEmptyCompletion = errors.New("openai: completion returned no choices")

// Completer answers chat prompts through the OpenAI chat completions API or
// any server speaking the same protocol.
type Completer struct {
	client openai.Client
	Model  string
}

var _ application.Completer = (*Completer)(nil)

// NewCompleter builds a client for apiKey. baseURL may be empty.
func NewCompleter(apiKey, baseURL, model string, opts ...option.RequestOption) *Completer {
	all := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: openai.NewClient(all...), Model: model}
}

func (c *Completer) Complete(ctx context.Context, messages []application.ChatMessage) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.Model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, m := range messages {
		switch m.Role {
		case application.ChatRoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case application.ChatRoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
