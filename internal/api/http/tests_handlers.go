package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-testgen/internal/activity"
	authmw "github.com/mind-engage/mindengage-testgen/internal/auth/middleware"
	"github.com/mind-engage/mindengage-testgen/internal/testgen"
)

const msgNoQuestionTypes = "Please select at least one question type."

type generateReq struct {
	Title            string   `json:"title" validate:"required"`
	Notes            string   `json:"notes" validate:"required"`
	Count            int      `json:"count" validate:"gte=0,lte=100"`
	Difficulty       string   `json:"difficulty"`
	Topic            string   `json:"topic"`
	Description      string   `json:"description"`
	QuestionTypes    []string `json:"questionTypes"`
	TimeLimitMin     int      `json:"timeLimitMin" validate:"gte=0"`
	ShuffleQuestions *bool    `json:"shuffleQuestions"`
}

// GenerateTestHandler runs the whole generation pipeline for one request. The question type
// selection is checked before anything else so the provider is never called without it.
func GenerateTestHandler(svc *testgen.Service, logs ActivityLog, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateReq
		if !readJSON(w, r, &req) {
			return
		}
		if len(req.QuestionTypes) == 0 {
			writeError(w, http.StatusBadRequest, msgNoQuestionTypes)
			return
		}
		if !check(w, &req) {
			return
		}

		settings := testgen.DefaultSettings()
		settings.TimeLimitMin = req.TimeLimitMin
		if req.ShuffleQuestions != nil {
			settings.ShuffleQuestions = *req.ShuffleQuestions
		}
		userID := authmw.SubjectFromContext(r.Context())

		res, err := svc.Assemble(r.Context(), req.Title, req.Notes, testgen.AssembleOptions{
			GenerateOptions: testgen.GenerateOptions{
				Count:         req.Count,
				Difficulty:    req.Difficulty,
				Topic:         req.Topic,
				Description:   req.Description,
				QuestionTypes: req.QuestionTypes,
			},
			Settings:  &settings,
			CreatedBy: userID,
		})
		if err != nil {
			status, msg := generateFailure(err)
			if status >= http.StatusInternalServerError {
				log.Error("test generation failed", zap.String("user_id", userID), zap.Error(err))
			}
			writeError(w, status, msg)
			return
		}

		record(r, logs, log, activity.ActionCreateTest, map[string]any{
			"testId":    res.Test.ID,
			"title":     res.Test.Title,
			"questions": len(res.Questions),
		})
		writeJSON(w, http.StatusCreated, map[string]any{
			"test":      res.Test,
			"questions": testgen.ToDisplay(res.Questions),
		})
	}
}

func generateFailure(err error) (int, string) {
	var (
		exhausted *testgen.ExhaustedError
		failure   *testgen.Failure
	)
	switch {
	case errors.Is(err, testgen.ErrNoQuestionTypes):
		return http.StatusBadRequest, msgNoQuestionTypes
	case errors.Is(err, testgen.ErrMissingInput):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &exhausted), errors.As(err, &failure):
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, testgen.ErrEmptyQuestionText):
		return http.StatusBadGateway, "the AI provider returned an unusable question: " + err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

type questionReq struct {
	Text       string           `json:"text"`
	Question   string           `json:"question"`
	Type       string           `json:"type"`
	Options    []testgen.Option `json:"options"`
	Difficulty string           `json:"difficulty"`
	Topic      string           `json:"topic"`
	Metadata   map[string]any   `json:"metadata"`
}

// AddQuestionHandler stores a hand-written question, attaching it to ?testId= when that test exists.
func AddQuestionHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionReq
		if !decode(w, r, &req) {
			return
		}
		text := req.Text
		if strings.TrimSpace(text) == "" {
			text = req.Question
		}
		q, err := svc.AddQuestion(r.Context(), testgen.Question{
			Text:       strings.TrimSpace(text),
			Type:       testgen.Kind(req.Type),
			Options:    req.Options,
			Difficulty: req.Difficulty,
			Topic:      req.Topic,
			Metadata:   req.Metadata,
		}, strings.TrimSpace(r.URL.Query().Get("testId")))
		if errors.Is(err, testgen.ErrEmptyQuestionText) {
			writeError(w, http.StatusBadRequest, "question text is required")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func GetTestHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.GetTest(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, testgen.ErrTestNotFound) {
			writeError(w, http.StatusNotFound, "Test not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

func ListTestsHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListTests(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
