package testgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrEmptyQuestionText = errors.New("question must have either 'text' or 'question' field")

// NormalizeOptions turns a raw options payload into canonical options and marks the ones
// matching answer. Matching is case-insensitive and accepts substring containment in either
// direction, so more than one option may end up correct.
func NormalizeOptions(kind Kind, rawOptions json.RawMessage, answer any) []Option {
	items := decodeOptionList(rawOptions)

	var options []Option
	if kind == KindTrueFalse && len(items) == 0 {
		options = []Option{{Text: "True"}, {Text: "False"}}
	} else {
		options = make([]Option, 0, len(items))
		for _, it := range items {
			options = append(options, toOption(it))
		}
	}

	ans, ok := answerString(answer)
	if !ok || len(options) == 0 {
		return options
	}
	want := strings.ToLower(strings.TrimSpace(ans))
	for i := range options {
		if options[i].Text == "" {
			continue
		}
		got := strings.ToLower(strings.TrimSpace(options[i].Text))
		if got == want || strings.Contains(got, want) || strings.Contains(want, got) {
			options[i].IsCorrect = true
		}
	}
	return options
}

// Normalize builds a canonical question from one provider item. Difficulty and topic fall
// back to the generation options.
func Normalize(raw RawQuestion, opts GenerateOptions) (Question, error) {
	text := raw.Text
	if strings.TrimSpace(text) == "" {
		text = raw.Question
	}
	if strings.TrimSpace(text) == "" {
		return Question{}, ErrEmptyQuestionText
	}

	kind := KindFromLabel(raw.Type)
	q := Question{
		Text:       text,
		Type:       kind,
		Options:    NormalizeOptions(kind, raw.Options, raw.Answer),
		Difficulty: firstNonEmpty(raw.Difficulty, opts.Difficulty, "medium"),
		Topic:      firstNonEmpty(raw.Topic, opts.Topic),
	}

	md := map[string]any{
		"originalType": firstNonEmpty(raw.Type, string(kind)),
		"answer":       nil,
	}
	if _, ok := answerString(raw.Answer); ok {
		md["answer"] = raw.Answer
	}
	for k, v := range raw.Metadata {
		md[k] = v
	}
	q.Metadata = md
	return q, nil
}

// NormalizeAll normalizes a whole batch; one bad item fails the batch.
func NormalizeAll(raws []RawQuestion, opts GenerateOptions) ([]Question, error) {
	out := make([]Question, 0, len(raws))
	for i, r := range raws {
		q, err := Normalize(r, opts)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out = append(out, q)
	}
	return out, nil
}

func decodeOptionList(raw json.RawMessage) []any {
	if len(raw) == 0 {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func toOption(v any) Option {
	switch x := v.(type) {
	case string:
		return Option{Text: x}
	case map[string]any:
		if t, ok := x["text"]; ok {
			if s := stringify(t); s != "" {
				correct, _ := x["isCorrect"].(bool)
				return Option{Text: s, IsCorrect: correct}
			}
		}
	}
	return Option{Text: stringify(v)}
}

// answerString reports whether the provider supplied a usable answer.
func answerString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s := stringify(v)
	if strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
