package testgen

import (
	"context"
	"errors"
)

var (
	ErrTestNotFound     = errors.New("test not found")
	ErrQuestionNotFound = errors.New("question not found")
)

// Store persists questions and tests. Writes are independent operations; callers get no
// transaction spanning InsertQuestions and CreateTest.
type Store interface {
	// InsertQuestions stores a batch and returns it with ids assigned, in input order.
	InsertQuestions(ctx context.Context, qs []Question) ([]Question, error)
	CreateQuestion(ctx context.Context, q Question) (Question, error)
	// GetQuestions returns the questions for ids in the order given; unknown ids are skipped.
	GetQuestions(ctx context.Context, ids []string) ([]Question, error)

	CreateTest(ctx context.Context, t Test) (Test, error)
	GetTest(ctx context.Context, id string) (Test, error)
	ListTests(ctx context.Context, limit int) ([]TestSummary, error)
	AppendQuestion(ctx context.Context, testID, questionID string) error
	DeleteTest(ctx context.Context, id string) (Test, error)
}
