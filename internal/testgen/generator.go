package testgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

// Provider is a text-completion backend. Implementations should wrap failures they can
// classify in *ProviderError; anything else is classified from the error text.
type Provider interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// DefaultModels is the candidate list tried in order, newest first.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-pro-latest",
	"gemini-flash-latest",
	"gemini-1.5-pro",
	"gemini-1.5-flash",
	"gemini-pro",
}

type Category string

const (
	CategoryNetwork       Category = "network"
	CategoryNotFound      Category = "not_found"
	CategoryAuth          Category = "auth"
	CategoryEmptyResponse Category = "empty_response"
	CategoryExtract       Category = "extract"
	CategoryParse         Category = "parse"
	CategoryNotArray      Category = "not_array"
	CategoryOther         Category = "other"
)

// ProviderError carries a provider-side classification of a failed call.
type ProviderError struct {
	Category Category
	Err      error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// Failure is the outcome of one unsuccessful model attempt.
type Failure struct {
	Model    string
	Category Category
	Err      error
}

// Recoverable reports whether the next model should be tried. A bad credential is shared by
// every model, so it is the only stopping condition.
func (f *Failure) Recoverable() bool { return f.Category != CategoryAuth }

func (f *Failure) Error() string {
	if f.Category == CategoryAuth {
		return fmt.Sprintf("invalid API key: the provider rejected the configured credential (%v). Generate a new key, update the configuration and restart the server", f.Err)
	}
	return fmt.Sprintf("model %q: %v", f.Model, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// ExhaustedError is returned when every candidate model failed recoverably.
type ExhaustedError struct {
	Failures []*Failure
}

func (e *ExhaustedError) Last() *Failure {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[len(e.Failures)-1]
}

func (e *ExhaustedError) Error() string {
	last := e.Last()
	if last == nil {
		return "no candidate models configured"
	}
	if last.Category == CategoryNetwork {
		return fmt.Sprintf("network connection failed: unable to reach the AI provider. Check internet connectivity, firewall or proxy settings, VPN and DNS resolution. Last error: %v", last.Err)
	}
	return fmt.Sprintf("all models failed. Last error: %v", last.Err)
}

func (e *ExhaustedError) Unwrap() error {
	if last := e.Last(); last != nil {
		return last
	}
	return nil
}

type GenerateOptions struct {
	Count         int
	Difficulty    string
	Topic         string
	Description   string
	QuestionTypes []string
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Count <= 0 {
		o.Count = 10
	}
	if strings.TrimSpace(o.Difficulty) == "" {
		o.Difficulty = "medium"
	}
	if strings.TrimSpace(o.Topic) == "" {
		o.Topic = "General"
	}
	return o
}

// Generator asks the provider for questions, walking the candidate models until one returns
// a JSON array.
type Generator struct {
	provider Provider
	models   []string
	log      *zap.Logger
}

func NewGenerator(p Provider, models []string, log *zap.Logger) *Generator {
	if len(models) == 0 {
		models = DefaultModels
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{provider: p, models: append([]string(nil), models...), log: log}
}

func (g *Generator) Models() []string { return append([]string(nil), g.models...) }

type attempt struct {
	questions []RawQuestion
	failure   *Failure
}

// Generate returns the first array of raw questions any model produces. Models are tried
// sequentially; later models are never called once one succeeds.
func (g *Generator) Generate(ctx context.Context, notes string, opts GenerateOptions) ([]RawQuestion, error) {
	prompt := BuildPrompt(notes, opts.withDefaults())

	var failures []*Failure
	for _, model := range g.models {
		res := g.try(ctx, model, prompt)
		if res.failure == nil {
			g.log.Info("questions generated",
				zap.String("model", model),
				zap.Int("count", len(res.questions)))
			return res.questions, nil
		}
		f := res.failure
		failures = append(failures, f)
		if !f.Recoverable() {
			g.log.Error("provider rejected credential",
				zap.String("model", model),
				zap.Error(f.Err))
			return nil, f
		}
		g.log.Warn("model attempt failed, trying next model",
			zap.String("model", model),
			zap.String("category", string(f.Category)),
			zap.Error(f.Err))
	}
	return nil, &ExhaustedError{Failures: failures}
}

func (g *Generator) try(ctx context.Context, model, prompt string) attempt {
	fail := func(c Category, err error) attempt {
		return attempt{failure: &Failure{Model: model, Category: c, Err: err}}
	}

	text, err := g.provider.Complete(ctx, model, prompt)
	if err != nil {
		return fail(Classify(err), err)
	}
	if strings.TrimSpace(text) == "" {
		return fail(CategoryEmptyResponse, errors.New("provider returned an empty response"))
	}
	jsonText, ok := ExtractJSON(text)
	if !ok || jsonText == "" {
		return fail(CategoryExtract, errors.New("could not extract JSON from provider response"))
	}

	var probe any
	if err := json.Unmarshal([]byte(jsonText), &probe); err != nil {
		g.log.Debug("unparseable provider output", zap.String("model", model), zap.String("text", head(jsonText, 300)))
		return fail(CategoryParse, fmt.Errorf("provider returned invalid JSON: %w", err))
	}
	if _, isArray := probe.([]any); !isArray {
		return fail(CategoryNotArray, errors.New("provider response is not a JSON array"))
	}
	return attempt{questions: decodeItems(jsonText)}
}

// decodeItems decodes an array already known to be valid JSON. Elements that are not objects
// become empty questions, which normalization rejects for the whole batch.
func decodeItems(jsonText string) []RawQuestion {
	var items []json.RawMessage
	_ = json.Unmarshal([]byte(jsonText), &items)
	out := make([]RawQuestion, len(items))
	for i, item := range items {
		if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
			continue
		}
		_ = json.Unmarshal(item, &out[i])
	}
	return out
}

// Classify maps a provider call error to a category. Typed *ProviderError wins; otherwise
// network errors are recognized structurally, then by message.
func Classify(err error) Category {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Category != "" {
		return pe.Category
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryNetwork
	}
	return ClassifyMessage(err.Error())
}

var networkMarkers = []string{
	"fetch failed", "econnrefused", "enotfound", "etimedout", "network",
	"connection refused", "no such host", "i/o timeout", "dial tcp", "connection reset",
}

// ClassifyMessage applies the text heuristics used when an error carries no type information.
func ClassifyMessage(msg string) Category {
	m := strings.ToLower(msg)
	for _, marker := range networkMarkers {
		if strings.Contains(m, marker) {
			return CategoryNetwork
		}
	}
	if strings.Contains(m, "api key") || strings.Contains(m, "api_key_invalid") {
		return CategoryAuth
	}
	if strings.Contains(m, "404") || strings.Contains(m, "not found") {
		return CategoryNotFound
	}
	return CategoryOther
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
