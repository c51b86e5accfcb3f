package assess

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicCaller struct {
	messages AnthropicMessager
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// NewAnthropicCaller builds the production LLM caller. The API key comes from
// the startup configuration; an empty key is a configuration error.
func NewAnthropicCaller(apiKey string) (*AnthropicCaller, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("LLM API key not configured")
	}
	return &AnthropicCaller{messages: newAnthropicClient(apiKey)}, nil
}

func (a *AnthropicCaller) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.ModelClaudeSonnet4_20250514,
		MaxTokens:   4096,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(Temperature),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}
