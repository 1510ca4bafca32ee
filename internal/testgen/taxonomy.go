package testgen

import "strings"

// provider label (normalized) -> storage kind
var labelKinds = map[string]Kind{
	"mcq":               KindMCQ,
	"multiple choice":   KindMCQ,
	"multiplechoice":    KindMCQ,
	"multiple-choice":   KindMCQ,
	"short answer":      KindShort,
	"shortanswer":       KindShort,
	"short-answer":      KindShort,
	"short":             KindShort,
	"long answer":       KindLong,
	"longanswer":        KindLong,
	"long-answer":       KindLong,
	"long":              KindLong,
	"essay":             KindLong,
	"true/false":        KindTrueFalse,
	"truefalse":         KindTrueFalse,
	"true false":        KindTrueFalse,
	"true-false":        KindTrueFalse,
	"true / false":      KindTrueFalse,
	"fillblank":         KindFillUp,
	"fill blank":        KindFillUp,
	"fill-blank":        KindFillUp,
	"fillup":            KindFillUp,
	"fill-up":           KindFillUp,
	"fill up":           KindFillUp,
	"fill in the blank": KindFillUp,
	"fill-in-the-blank": KindFillUp,
}

// storage kind (normalized) -> display label
var displayLabels = map[string]string{
	"mcq":       "MCQ",
	"short":     "Short Answer",
	"long":      "Long Answer",
	"essay":     "Long Answer",
	"truefalse": "True/False",
	"fillup":    "Fill in the Blank",
	"fillblank": "Fill in the Blank",
}

// KindFromLabel maps a loosely formatted type label to a storage kind.
// Unrecognized labels become KindMCQ.
func KindFromLabel(label string) Kind {
	if k, ok := labelKinds[normalizeLabel(label)]; ok {
		return k
	}
	return KindMCQ
}

// DisplayLabel maps a storage kind to the label shown to callers.
// Unrecognized kinds become "MCQ".
func DisplayLabel(kind string) string {
	if l, ok := displayLabels[normalizeLabel(kind)]; ok {
		return l
	}
	return "MCQ"
}

var promptDescriptions = map[string]string{
	"MCQ":          "Multiple Choice Questions (MCQ)",
	"Short Answer": "Short Answer questions (requiring brief responses)",
	"Long Answer":  "Long Answer/Essay questions (requiring detailed explanations)",
	"True/False":   "True/False questions",
	"FillBlank":    "Fill in the Blank questions (FillBlank)",
}

// PromptDescription returns the prompt wording for a caller-selected type.
// Unknown selections are passed through as typed.
func PromptDescription(selected string) string {
	s := strings.TrimSpace(selected)
	if s == "Essay" {
		s = "Long Answer"
	}
	if d, ok := promptDescriptions[s]; ok {
		return d
	}
	return s
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
