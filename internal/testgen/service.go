package testgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrNoQuestionTypes = errors.New("please select at least one question type")
	ErrMissingInput    = errors.New("title and notes are required")
)

// QuestionSource produces raw provider questions. *Generator satisfies it.
type QuestionSource interface {
	Generate(ctx context.Context, notes string, opts GenerateOptions) ([]RawQuestion, error)
}

type AssembleOptions struct {
	GenerateOptions
	Settings  *Settings // nil means DefaultSettings
	CreatedBy string
}

type Assembled struct {
	Test      Test       `json:"test"`
	Questions []Question `json:"questions"`
}

type Service struct {
	source QuestionSource
	store  Store
	log    *zap.Logger
}

func NewService(source QuestionSource, store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{source: source, store: store, log: log}
}

// Assemble generates, normalizes and stores a batch of questions, then creates a test that
// references them in generation order. A normalization failure on any item aborts before
// anything is written. Questions and test are written separately; if CreateTest fails the
// inserted questions stay behind without an owning test.
func (s *Service) Assemble(ctx context.Context, title, notes string, opts AssembleOptions) (Assembled, error) {
	if !hasType(opts.QuestionTypes) {
		return Assembled{}, ErrNoQuestionTypes
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(notes) == "" {
		return Assembled{}, ErrMissingInput
	}
	raws, err := s.source.Generate(ctx, notes, opts.GenerateOptions)
	if err != nil {
		return Assembled{}, err
	}
	normalized, err := NormalizeAll(raws, opts.GenerateOptions)
	if err != nil {
		return Assembled{}, err
	}
	stored, err := s.store.InsertQuestions(ctx, normalized)
	if err != nil {
		return Assembled{}, err
	}

	ids := make([]string, len(stored))
	for i, q := range stored {
		ids[i] = q.ID
	}
	settings := DefaultSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	t, err := s.store.CreateTest(ctx, Test{
		Title:       title,
		Description: opts.Description,
		CreatedBy:   opts.CreatedBy,
		Questions:   ids,
		Settings:    settings,
	})
	if err != nil {
		s.log.Error("test creation failed after questions were stored",
			zap.Int("orphaned_questions", len(ids)), zap.Error(err))
		return Assembled{}, err
	}
	s.log.Info("test assembled", zap.String("test_id", t.ID), zap.Int("questions", len(ids)))
	return Assembled{Test: t, Questions: stored}, nil
}

func hasType(types []string) bool {
	for _, t := range types {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

// AddQuestion stores a manually written question and, when testID names an existing test,
// appends it to that test. An unknown testID is ignored.
func (s *Service) AddQuestion(ctx context.Context, q Question, testID string) (Question, error) {
	if strings.TrimSpace(q.Text) == "" {
		return Question{}, ErrEmptyQuestionText
	}
	q.ID = ""
	q.Type = KindFromLabel(string(q.Type))
	created, err := s.store.CreateQuestion(ctx, q)
	if err != nil {
		return Question{}, err
	}
	if testID != "" {
		err := s.store.AppendQuestion(ctx, testID, created.ID)
		if err != nil && !errors.Is(err, ErrTestNotFound) {
			return Question{}, fmt.Errorf("attach to test: %w", err)
		}
	}
	return created, nil
}

// TestWithQuestions is a stored test with its questions in display form.
type TestWithQuestions struct {
	Test
	Questions []DisplayQuestion `json:"questions"`
}

func (s *Service) GetTest(ctx context.Context, id string) (TestWithQuestions, error) {
	t, err := s.store.GetTest(ctx, id)
	if err != nil {
		return TestWithQuestions{}, err
	}
	qs, err := s.store.GetQuestions(ctx, t.Questions)
	if err != nil {
		return TestWithQuestions{}, err
	}
	return TestWithQuestions{Test: t, Questions: ToDisplay(qs)}, nil
}

func (s *Service) ListTests(ctx context.Context) ([]TestSummary, error) {
	return s.store.ListTests(ctx, 50)
}

func (s *Service) DeleteTest(ctx context.Context, id string) (Test, error) {
	return s.store.DeleteTest(ctx, id)
}
