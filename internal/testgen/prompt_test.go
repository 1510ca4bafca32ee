package testgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mind-engage/mindengage-testgen/internal/testgen"
)

func TestBuildPromptVarietyWhenNoTypes(t *testing.T) {
	p := testgen.BuildPrompt("n", testgen.GenerateOptions{Count: 7, Topic: "T", Difficulty: "easy"})
	assert.Contains(t, p, "You MUST generate a VARIETY of question types")
	assert.Contains(t, p, "evenly across the 7 questions")
	assert.NotContains(t, p, "MUST ONLY")
}

func TestBuildPromptOnlySelectedTypes(t *testing.T) {
	p := testgen.BuildPrompt("n", testgen.GenerateOptions{Count: 2, QuestionTypes: []string{"True/False", "FillBlank"}})
	assert.Contains(t, p, "- True/False questions\n- Fill in the Blank questions (FillBlank)")
	assert.Contains(t, p, "Do NOT generate any other question types.")
	assert.NotContains(t, p, "VARIETY")
}
