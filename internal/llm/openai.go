package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Message is a minimal chat message used by the care-plan service.
// Role must be one of: "system", "user", or "assistant".
type Message struct {
	Role    string
	Content string
}

// Client defines the model calls required by the care-plan service.
// Complete returns the assistant's plain-text reply; CompleteJSON additionally
// instructs the provider to return a single JSON object, which generation
// calls rely on.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	CompleteJSON(ctx context.Context, messages []Message) (string, error)
}

// OpenAIClient calls the OpenAI chat completion API. The model name and
// sampling temperature are fixed at construction; a low temperature is used
// so repeated runs over the same patient text stay reproducible.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIClient constructs an OpenAI-backed LLM client.
func NewOpenAIClient(apiKey, model string, temperature float32) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
	}
}

// Complete sends the message sequence to the chat completion API and returns
// the assistant's response text.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	return c.create(ctx, messages, nil)
}

// CompleteJSON is Complete with the json_object response format, used for
// generation calls where the reply must be a single machine-parseable object.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, messages []Message) (string, error) {
	return c.create(ctx, messages, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	})
}

func (c *OpenAIClient) create(ctx context.Context, messages []Message, format *openai.ChatCompletionResponseFormat) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}

	// Convert to OpenAI message type
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			// coerce anything unknown to user
			role = openai.ChatMessageRoleUser
		}
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:          c.model,
		Messages:       oaMsgs,
		Temperature:    c.temperature,
		ResponseFormat: format,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
