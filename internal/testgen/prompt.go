package testgen

import (
	"fmt"
	"strings"
)

const allTypesInstruction = `CRITICAL: You MUST generate a VARIETY of question types. Include a good mix of:
- Multiple Choice Questions (MCQ)
- Short Answer questions (requiring brief responses)
- Long Answer/Essay questions (requiring detailed explanations)
- True/False questions
- Fill in the Blank questions (FillBlank)

Do NOT generate only MCQs. Distribute the question types evenly across the %d questions.`

const promptTemplate = `
Generate exactly %d exam questions based on the following information.

Topic: %s
Difficulty: %s

Source Notes:
%s

Extra Instructions:
%s

IMPORTANT: Return ONLY valid JSON array, no markdown, no code blocks, no explanations. Start with [ and end with ].

%s

JSON Format:
[
  {
    "question": "The question text here",
    "type": "MCQ",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "answer": "Correct answer text"
  }
]

IMPORTANT FORMAT RULES:
- Use "question" field (not "text") for the question text
- For question types, use exactly: "MCQ", "Short Answer", "Long Answer", "True/False", or "FillBlank"
- For MCQ questions: provide options as an array of strings: ["Option 1", "Option 2", "Option 3", "Option 4"]
- For True/False questions: provide options: ["True", "False"]
- For Short Answer, Long Answer, and FillBlank: set options to null or []
- For FillBlank questions: use underscores or [blank] in the question text to indicate where the answer goes
- For Long Answer questions: make them require detailed explanations or essays
- The "answer" field should contain the correct answer text (this will help match it to options)
`

// BuildPrompt renders the generation prompt. opts must already carry defaults.
func BuildPrompt(notes string, opts GenerateOptions) string {
	return fmt.Sprintf(promptTemplate,
		opts.Count, opts.Topic, opts.Difficulty, notes, opts.Description,
		typesInstruction(opts.Count, opts.QuestionTypes))
}

func typesInstruction(count int, selected []string) string {
	descs := make([]string, 0, len(selected))
	for _, t := range selected {
		if d := PromptDescription(t); d != "" {
			descs = append(descs, "- "+d)
		}
	}
	if len(descs) == 0 {
		return fmt.Sprintf(allTypesInstruction, count)
	}
	var b strings.Builder
	b.WriteString("CRITICAL: You MUST ONLY generate the following question types (selected by user):\n")
	b.WriteString(strings.Join(descs, "\n"))
	fmt.Fprintf(&b, "\n\nDistribute these question types evenly across the %d questions. Do NOT generate any other question types.", count)
	return b.String()
}
