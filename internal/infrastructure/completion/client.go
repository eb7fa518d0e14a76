package completion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/shopchat/backend/config"
	"github.com/shopchat/backend/internal/domain"
)

// Client produces chat completions through an eino chat model
type Client struct {
	model       model.BaseChatModel
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// NewClient wraps any eino chat model
func NewClient(m model.BaseChatModel, cfg config.CompletionConfig) *Client {
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 500
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		model:       m,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}
}

// NewArkClient builds a client on the Ark provider. Retries are disabled
// so a failed call falls through to the next answer strategy at once.
func NewArkClient(ctx context.Context, cfg config.CompletionConfig) (*Client, error) {
	noRetry := 0
	cm, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		RetryTimes: &noRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("init ark chat model: %w", err)
	}
	return NewClient(cm, cfg), nil
}

// Complete sends the preamble as the system message followed by the history
func (c *Client) Complete(ctx context.Context, preamble string, history []domain.ConversationTurn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.model.Generate(ctx, toMessages(preamble, history),
		model.WithMaxTokens(c.maxTokens),
		model.WithTemperature(c.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", domain.ErrCompletionEmpty
	}
	return strings.TrimSpace(msg.Content), nil
}

func toMessages(preamble string, history []domain.ConversationTurn) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(preamble))

	for _, turn := range history {
		switch turn.Role {
		case domain.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		case domain.RoleSystem:
			messages = append(messages, schema.SystemMessage(turn.Content))
		default:
			messages = append(messages, schema.UserMessage(turn.Content))
		}
	}
	return messages
}
