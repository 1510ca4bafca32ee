// Package openai adapts the OpenAI chat completion API to testgen.Provider.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/mind-engage/mindengage-testgen/internal/testgen"
)

// DefaultModels is the candidate list used when AI_PROVIDER=openai and no override is set.
var DefaultModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"}

type Client struct {
	api *openai.Client
}

func New(apiKey string) (*Client, error) {
	return NewWithBaseURL(apiKey, "")
}

// NewWithBaseURL points the client at a compatible endpoint; "" keeps the default.
func NewWithBaseURL(apiKey, baseURL string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg)}, nil
}

func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &testgen.ProviderError{Category: categorize(err), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func categorize(err error) testgen.Category {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code == "invalid_api_key" {
			return testgen.CategoryAuth
		}
		if c := byStatus(apiErr.HTTPStatusCode); c != "" {
			return c
		}
		return testgen.ClassifyMessage(apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if c := byStatus(reqErr.HTTPStatusCode); c != "" {
			return c
		}
	}
	return testgen.Classify(err)
}

func byStatus(code int) testgen.Category {
	switch code {
	case http.StatusUnauthorized:
		return testgen.CategoryAuth
	case http.StatusNotFound:
		return testgen.CategoryNotFound
	}
	return ""
}
