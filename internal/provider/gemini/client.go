// Package gemini adapts the Google Generative AI client to testgen.Provider.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mind-engage/mindengage-testgen/internal/testgen"
)

// Client is created once at startup and shared by all requests.
type Client struct {
	client *genai.Client
}

func New(ctx context.Context, apiKey string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() error { return c.client.Close() }

// Complete concatenates the text parts of the first candidate. A response without
// candidates yields "" and no error.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &testgen.ProviderError{Category: categorize(err), Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

func categorize(err error) testgen.Category {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return testgen.CategoryNotFound
		case http.StatusUnauthorized:
			return testgen.CategoryAuth
		}
		return testgen.ClassifyMessage(gerr.Error())
	}
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.NotFound:
			return testgen.CategoryNotFound
		case codes.Unauthenticated:
			return testgen.CategoryAuth
		case codes.Unavailable, codes.DeadlineExceeded:
			return testgen.CategoryNetwork
		}
		return testgen.ClassifyMessage(st.Message())
	}
	return testgen.Classify(err)
}
