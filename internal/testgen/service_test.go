package testgen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-testgen/internal/testgen"
)

type fixedSource struct {
	questions []testgen.RawQuestion
	err       error
	calls     int
	opts      testgen.GenerateOptions
}

func (s *fixedSource) Generate(_ context.Context, _ string, opts testgen.GenerateOptions) ([]testgen.RawQuestion, error) {
	s.calls++
	s.opts = opts
	return s.questions, s.err
}

func mcqTypes() testgen.AssembleOptions {
	return testgen.AssembleOptions{GenerateOptions: testgen.GenerateOptions{QuestionTypes: []string{"MCQ"}}}
}

func TestAssembleStoresQuestionsInOrder(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)
	store := testgen.NewSQLStore(dbh)
	src := &fixedSource{questions: []testgen.RawQuestion{
		{Question: "Q1", Type: "MCQ", Options: raw(`["a","b"]`), Answer: "a"},
		{Question: "Q2", Type: "True/False", Answer: "False"},
		{Question: "Q3", Type: "Short Answer"},
	}}
	svc := testgen.NewService(src, store, nil)

	opts := mcqTypes()
	opts.Count = 3
	opts.Description = "unit 4"
	opts.CreatedBy = "u1"
	res, err := svc.Assemble(ctx, "Quiz", "notes", opts)
	require.NoError(t, err)

	require.Len(t, res.Questions, 3)
	require.Len(t, res.Test.Questions, 3)
	for i, q := range res.Questions {
		assert.Equal(t, q.ID, res.Test.Questions[i])
	}
	assert.Equal(t, "Quiz", res.Test.Title)
	assert.Equal(t, "unit 4", res.Test.Description)
	assert.Equal(t, "u1", res.Test.CreatedBy)
	assert.Equal(t, testgen.DefaultSettings(), res.Test.Settings)
	assert.Equal(t, 3, src.opts.Count)

	full, err := svc.GetTest(ctx, res.Test.ID)
	require.NoError(t, err)
	assert.Equal(t, []testgen.DisplayQuestion{
		{Question: "Q1", Type: "MCQ", Options: []string{"a", "b"}},
		{Question: "Q2", Type: "True/False", Options: []string{"True", "False"}},
		{Question: "Q3", Type: "Short Answer", Options: []string{}},
	}, full.Questions)
}

func TestAssembleNormalizationFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)
	svc := testgen.NewService(&fixedSource{questions: []testgen.RawQuestion{
		{Question: "fine"},
		{Type: "MCQ"},
	}}, testgen.NewSQLStore(dbh), nil)

	_, err := svc.Assemble(ctx, "Quiz", "notes", mcqTypes())
	require.ErrorIs(t, err, testgen.ErrEmptyQuestionText)

	var questions, tests int
	require.NoError(t, dbh.QueryRow(`SELECT COUNT(1) FROM questions`).Scan(&questions))
	require.NoError(t, dbh.QueryRow(`SELECT COUNT(1) FROM tests`).Scan(&tests))
	assert.Zero(t, questions)
	assert.Zero(t, tests)
}

func TestAssembleValidatesBeforeGenerating(t *testing.T) {
	src := &fixedSource{}
	svc := testgen.NewService(src, testgen.NewSQLStore(openTestDB(t)), nil)

	_, err := svc.Assemble(context.Background(), "Quiz", "notes", testgen.AssembleOptions{})
	assert.ErrorIs(t, err, testgen.ErrNoQuestionTypes)
	_, err = svc.Assemble(context.Background(), "Quiz", "notes", testgen.AssembleOptions{
		GenerateOptions: testgen.GenerateOptions{QuestionTypes: []string{" "}},
	})
	assert.ErrorIs(t, err, testgen.ErrNoQuestionTypes)
	_, err = svc.Assemble(context.Background(), "", "notes", mcqTypes())
	assert.ErrorIs(t, err, testgen.ErrMissingInput)
	assert.Zero(t, src.calls)
}

func TestAssemblePropagatesGeneratorError(t *testing.T) {
	boom := &testgen.ExhaustedError{}
	svc := testgen.NewService(&fixedSource{err: boom}, testgen.NewSQLStore(openTestDB(t)), nil)

	_, err := svc.Assemble(context.Background(), "Quiz", "notes", mcqTypes())
	var ex *testgen.ExhaustedError
	assert.True(t, errors.As(err, &ex))
}

func TestAddQuestion(t *testing.T) {
	ctx := context.Background()
	store := testgen.NewSQLStore(openTestDB(t))
	svc := testgen.NewService(&fixedSource{}, store, nil)

	tst, err := store.CreateTest(ctx, testgen.Test{Title: "T", Settings: testgen.DefaultSettings()})
	require.NoError(t, err)

	q, err := svc.AddQuestion(ctx, testgen.Question{ID: "ignored", Text: "Define osmosis", Type: "Short Answer"}, tst.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", q.ID)
	assert.Equal(t, testgen.KindShort, q.Type)

	got, err := store.GetTest(ctx, tst.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{q.ID}, got.Questions)

	_, err = svc.AddQuestion(ctx, testgen.Question{Text: "orphan"}, "no-such-test")
	require.NoError(t, err)

	_, err = svc.AddQuestion(ctx, testgen.Question{Text: "  "}, "")
	assert.ErrorIs(t, err, testgen.ErrEmptyQuestionText)
}
