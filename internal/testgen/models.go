package testgen

import "encoding/json"

// Kind is the canonical storage kind of a question.
type Kind string

const (
	KindMCQ       Kind = "mcq"
	KindShort     Kind = "short"
	KindLong      Kind = "long"
	KindTrueFalse Kind = "truefalse"
	KindFillUp    Kind = "fillup"
)

// Kinds lists every canonical kind in display order.
var Kinds = []Kind{KindMCQ, KindShort, KindLong, KindTrueFalse, KindFillUp}

type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// RawQuestion is one element of the array a provider returns. Nothing in it is trusted.
type RawQuestion struct {
	Question   string          `json:"question,omitempty"`
	Text       string          `json:"text,omitempty"`
	Type       string          `json:"type,omitempty"`
	Options    json.RawMessage `json:"options,omitempty"` // []string | []{text,isCorrect} | null
	Answer     any             `json:"answer,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
	Topic      string          `json:"topic,omitempty"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
}

// UnmarshalJSON tolerates non-string scalars in the text fields.
func (r *RawQuestion) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*r = RawQuestion{}
	r.Question = scalarString(m["question"])
	r.Text = scalarString(m["text"])
	r.Type = scalarString(m["type"])
	r.Difficulty = scalarString(m["difficulty"])
	r.Topic = scalarString(m["topic"])
	if raw, ok := m["options"]; ok {
		r.Options = raw
	}
	if raw, ok := m["answer"]; ok {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			r.Answer = v
		}
	}
	if raw, ok := m["metadata"]; ok {
		var md map[string]any
		if err := json.Unmarshal(raw, &md); err == nil {
			r.Metadata = md
		}
	}
	return nil
}

// Question is the normalized, persisted form.
type Question struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Type       Kind           `json:"type"`
	Options    []Option       `json:"options"`
	Difficulty string         `json:"difficulty"`
	Topic      string         `json:"topic"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  int64          `json:"createdAt,omitempty"`
}

type Settings struct {
	TimeLimitMin     int  `json:"timeLimitMin"`
	ShuffleQuestions bool `json:"shuffleQuestions"`
}

// DefaultSettings matches what a test gets when the caller sends nothing.
func DefaultSettings() Settings {
	return Settings{TimeLimitMin: 0, ShuffleQuestions: true}
}

type Test struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CreatedBy   string   `json:"createdBy,omitempty"`
	Questions   []string `json:"questions"` // question ids, generation order
	Settings    Settings `json:"settings"`
	CreatedAt   int64    `json:"createdAt,omitempty"`
}

// TestSummary is a list row; creator fields come from the users table.
type TestSummary struct {
	Test
	CreatorName  string `json:"creatorName,omitempty"`
	CreatorEmail string `json:"creatorEmail,omitempty"`
}

// DisplayQuestion is the caller-facing shape. Never persisted.
type DisplayQuestion struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options"`
}

func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return ""
	}
	return stringify(v)
}
