package intent

import (
	"context"
	"errors"
	"testing"

	"ai-tutor-be/pkg/llm"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.response, s.err
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

func classify(t *testing.T, response string, err error, message string) *Intent {
	t.Helper()
	c := NewClassifier(&stubLLM{response: response, err: err}, noopLogger{})
	return c.Classify(context.Background(), message, nil)
}

func TestClassifyChat(t *testing.T) {
	intent := classify(t, `{"intent": "chat", "use_documents": true, "confidence": 0.9}`, nil, "what is osmosis?")

	if intent.Kind != KindChat {
		t.Fatalf("expected chat, got %s", intent.Kind)
	}
	if !intent.UseDocuments {
		t.Error("expected use_documents to carry through")
	}
}

func TestClassifyGenerateDefaults(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantN    int
		wantType string
		wantDiff string
		wantSubj string
	}{
		{
			name:     "all defaults",
			response: `{"intent": "generate_exercise"}`,
			wantN:    3, wantType: "multiple_choice", wantDiff: "medium", wantSubj: "general",
		},
		{
			name:     "clamp high question count",
			response: `{"intent": "generate_exercise", "num_questions": 50}`,
			wantN:    10, wantType: "multiple_choice", wantDiff: "medium", wantSubj: "general",
		},
		{
			name:     "clamp negative question count",
			response: `{"intent": "generate_exercise", "num_questions": -2}`,
			wantN:    1, wantType: "multiple_choice", wantDiff: "medium", wantSubj: "general",
		},
		{
			name:     "unknown type and difficulty normalized",
			response: `{"intent": "generate_exercise", "exercise_type": "open_ended", "difficulty": "brutal", "subject": "math", "num_questions": 5}`,
			wantN:    5, wantType: "multiple_choice", wantDiff: "medium", wantSubj: "math",
		},
		{
			name:     "valid values kept",
			response: `{"intent": "generate_exercise", "exercise_type": "short_answer", "difficulty": "hard", "subject": "biology", "topic": "cells", "num_questions": 7}`,
			wantN:    7, wantType: "short_answer", wantDiff: "hard", wantSubj: "biology",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := classify(t, tt.response, nil, "quiz me")
			if intent.Kind != KindGenerateExercise {
				t.Fatalf("expected generate_exercise, got %s", intent.Kind)
			}
			p := intent.Generate
			if p.QuestionCount != tt.wantN {
				t.Errorf("question count: want %d, got %d", tt.wantN, p.QuestionCount)
			}
			if p.Type != tt.wantType {
				t.Errorf("type: want %s, got %s", tt.wantType, p.Type)
			}
			if p.Difficulty != tt.wantDiff {
				t.Errorf("difficulty: want %s, got %s", tt.wantDiff, p.Difficulty)
			}
			if p.Subject != tt.wantSubj {
				t.Errorf("subject: want %s, got %s", tt.wantSubj, p.Subject)
			}
		})
	}
}

func TestClassifyKeepsEveryExerciseType(t *testing.T) {
	types := []string{
		"multiple_choice",
		"fill_in_blank",
		"short_answer",
		"code_challenge",
		"true_false",
		"essay",
		"math",
	}

	for _, exerciseType := range types {
		t.Run(exerciseType, func(t *testing.T) {
			response := `{"intent": "generate_exercise", "exercise_type": "` + exerciseType + `"}`
			intent := classify(t, response, nil, "quiz me")

			if intent.Generate.Type != exerciseType {
				t.Errorf("type %q was coerced to %q", exerciseType, intent.Generate.Type)
			}
		})
	}
}

func TestClassifyGenerateTopicDefaultsToMessage(t *testing.T) {
	intent := classify(t, `{"intent": "generate_exercise"}`, nil, "quiz me on the French Revolution")

	if intent.Generate.Topic != "quiz me on the French Revolution" {
		t.Errorf("expected topic to default to the user message, got %q", intent.Generate.Topic)
	}
}

func TestClassifyEvaluateWithoutAnswersBecomesChat(t *testing.T) {
	intent := classify(t, `{"intent": "evaluate_answers", "answers": {}}`, nil, "I want to answer the quiz")

	if intent.Kind != KindChat {
		t.Fatalf("expected demotion to chat, got %s", intent.Kind)
	}
	if intent.Evaluate != nil {
		t.Error("expected no evaluate params on chat demotion")
	}
}

func TestClassifyEvaluateWithAnswers(t *testing.T) {
	intent := classify(t, `{"intent": "evaluate_answers", "exercise_id": "ex-1", "answers": {"1": "B", "2": "A"}}`, nil, "1: B, 2: A")

	if intent.Kind != KindEvaluateAnswers {
		t.Fatalf("expected evaluate_answers, got %s", intent.Kind)
	}
	if intent.Evaluate.ExerciseID != "ex-1" {
		t.Errorf("exercise id: got %q", intent.Evaluate.ExerciseID)
	}
	if len(intent.Evaluate.Answers) != 2 {
		t.Errorf("expected 2 answers, got %d", len(intent.Evaluate.Answers))
	}
}

func TestClassifyHintWithoutIDFlagged(t *testing.T) {
	intent := classify(t, `{"intent": "get_hint", "question_number": 2}`, nil, "hint for question 2")

	if intent.Kind != KindGetHint {
		t.Fatalf("expected get_hint, got %s", intent.Kind)
	}
	if !intent.MissingExerciseID {
		t.Error("expected missing exercise id to be flagged")
	}
	if intent.Ref.QuestionNumber != 2 {
		t.Errorf("question number: got %d", intent.Ref.QuestionNumber)
	}
}

func TestClassifySolutionWithID(t *testing.T) {
	intent := classify(t, `{"intent": "get_solution", "exercise_id": "ex-9", "question_number": 0}`, nil, "show all solutions for ex-9")

	if intent.Kind != KindGetSolution {
		t.Fatalf("expected get_solution, got %s", intent.Kind)
	}
	if intent.MissingExerciseID {
		t.Error("exercise id was present, flag should be clear")
	}
	if intent.Ref.ExerciseID != "ex-9" {
		t.Errorf("exercise id: got %q", intent.Ref.ExerciseID)
	}
}

func TestClassifyUnknownIntentFallsBackToChat(t *testing.T) {
	intent := classify(t, `{"intent": "dance_party"}`, nil, "hello")

	if intent.Kind != KindChat {
		t.Fatalf("expected chat fallback, got %s", intent.Kind)
	}
}

func TestClassifyUnparseableFallsBackToChat(t *testing.T) {
	for _, response := range []string{"", "I think the user wants a quiz", "{broken json"} {
		intent := classify(t, response, nil, "hello")
		if intent.Kind != KindChat {
			t.Errorf("response %q: expected chat fallback, got %s", response, intent.Kind)
		}
	}
}

func TestClassifyProviderErrorFallsBackToChat(t *testing.T) {
	intent := classify(t, "", errors.New("connection refused"), "hello")

	if intent.Kind != KindChat {
		t.Fatalf("expected chat fallback, got %s", intent.Kind)
	}
}

func TestClassifyJSONEmbeddedInProse(t *testing.T) {
	response := "Sure! Here is the classification:\n```json\n{\"intent\": \"get_solution\", \"exercise_id\": \"ex-2\"}\n```"
	intent := classify(t, response, nil, "reveal it")

	if intent.Kind != KindGetSolution {
		t.Fatalf("expected get_solution, got %s", intent.Kind)
	}
}
