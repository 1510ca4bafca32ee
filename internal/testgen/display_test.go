package testgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mind-engage/mindengage-testgen/internal/testgen"
)

func TestToDisplay(t *testing.T) {
	got := testgen.ToDisplay([]testgen.Question{
		{Text: "Q1", Type: testgen.KindMCQ, Options: []testgen.Option{{Text: "a", IsCorrect: true}, {Text: "b"}}},
		{Text: "Q2", Type: testgen.KindTrueFalse},
		{Text: "Q3", Type: testgen.KindShort},
		{Text: "Q4", Type: "weird"},
	})
	assert.Equal(t, []testgen.DisplayQuestion{
		{Question: "Q1", Type: "MCQ", Options: []string{"a", "b"}},
		{Question: "Q2", Type: "True/False", Options: []string{"True", "False"}},
		{Question: "Q3", Type: "Short Answer", Options: []string{}},
		{Question: "Q4", Type: "MCQ", Options: []string{}},
	}, got)
}
