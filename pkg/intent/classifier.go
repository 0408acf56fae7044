package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/pkg/llm"
)

// Kind is the closed set of dialogue intents. Anything the model invents
// outside this set collapses to KindChat.
type Kind string

const (
	KindChat             Kind = "chat"
	KindGenerateExercise Kind = "generate_exercise"
	KindEvaluateAnswers  Kind = "evaluate_answers"
	KindGetHint          Kind = "get_hint"
	KindGetSolution      Kind = "get_solution"
)

// Exercise parameter defaults and bounds.
const (
	DefaultSubject       = "general"
	DefaultType          = "multiple_choice"
	DefaultDifficulty    = "medium"
	DefaultQuestionCount = 3
	MinQuestionCount     = 1
	MaxQuestionCount     = 10
)

var allowedTypes = map[string]bool{
	"multiple_choice": true,
	"fill_in_blank":   true,
	"short_answer":    true,
	"code_challenge":  true,
	"true_false":      true,
	"essay":           true,
	"math":            true,
}

var allowedDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

type GenerateParams struct {
	Subject       string
	Topic         string
	Type          string
	Difficulty    string
	QuestionCount int
}

type EvaluateParams struct {
	ExerciseID string
	Answers    map[string]string
}

// ExerciseRef points at a specific exercise (and optionally one question)
// for hint and solution requests.
type ExerciseRef struct {
	ExerciseID     string
	QuestionNumber int // 0 means "the whole exercise"
}

type Intent struct {
	Kind Kind

	// UseDocuments hints that the chat answer should be grounded in
	// ingested study material.
	UseDocuments bool

	// MissingExerciseID marks a hint/solution request that named no
	// exercise; the caller decides what to fall back to.
	MissingExerciseID bool

	Generate *GenerateParams
	Evaluate *EvaluateParams
	Ref      *ExerciseRef

	Confidence float32
	Reasoning  string
}

// Classifier performs pure LLM-based intent classification. No RAG, no
// database access; a failed or unparseable call degrades to chat.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewClassifier(llmProvider llm.LLMProvider, log logger.ILogger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Classify analyzes the user message against recent history and returns a
// normalized intent. It never returns an error: every failure path lands
// on the chat fallback.
func (c *Classifier) Classify(ctx context.Context, message string, history []llm.Message) *Intent {
	prompt := c.buildPrompt(message, history)

	// Temperature 0 for deterministic output
	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Warn("intent", "classification call failed, falling back to chat", map[string]interface{}{
			"error": err.Error(),
		})
		return c.fallback(message)
	}

	intent, err := c.parse(response, message)
	if err != nil {
		c.logger.Warn("intent", "classification parse failed, falling back to chat", map[string]interface{}{
			"error": err.Error(),
		})
		return c.fallback(message)
	}

	c.logger.Info("intent", "classified", map[string]interface{}{
		"kind":       string(intent.Kind),
		"confidence": intent.Confidence,
	})

	return intent
}

func (c *Classifier) buildPrompt(message string, history []llm.Message) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an intent analyzer for a tutoring assistant. Your ONLY job is to classify what the student wants to DO.\n")
	prompt.WriteString("You do NOT answer questions. You only classify intent.\n")
	prompt.WriteString("</system>\n\n")

	if len(history) > 0 {
		prompt.WriteString("<recent_history>\n")
		start := len(history) - 6
		if start < 0 {
			start = 0
		}
		for _, msg := range history[start:] {
			prompt.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
		}
		prompt.WriteString("</recent_history>\n\n")
	}

	prompt.WriteString("<user_message>\n")
	prompt.WriteString(message)
	prompt.WriteString("\n</user_message>\n\n")

	prompt.WriteString("<intent_definitions>\n")
	prompt.WriteString("Choose ONE intent that best matches what the student wants:\n\n")

	prompt.WriteString("chat: General conversation, explanation requests, study questions\n")
	prompt.WriteString("  - Default when nothing else clearly applies\n")
	prompt.WriteString("  - Set use_documents=true if the answer should come from the student's uploaded material\n\n")

	prompt.WriteString("generate_exercise: Student asks for practice questions, a quiz, or an exercise\n")
	prompt.WriteString("  - e.g. 'give me 5 questions about photosynthesis', 'quiz me on fractions'\n")
	prompt.WriteString("  - Extract: subject, topic, exercise_type (multiple_choice|fill_in_blank|short_answer|code_challenge|true_false|essay|math), difficulty (easy|medium|hard), num_questions\n\n")

	prompt.WriteString("evaluate_answers: Student submits answers to a previously generated exercise\n")
	prompt.WriteString("  - e.g. '1: B, 2: A, 3: C', 'my answer to question 2 is mitochondria'\n")
	prompt.WriteString("  - Extract: answers as a map of question number to answer text, exercise_id if mentioned\n")
	prompt.WriteString("  - If NO concrete answers are present, this is NOT evaluate_answers; use chat\n\n")

	prompt.WriteString("get_hint: Student wants a hint for a question without the answer being revealed\n")
	prompt.WriteString("  - e.g. 'hint for question 3 of exercise abc', 'I'm stuck on question 1'\n")
	prompt.WriteString("  - Extract: exercise_id if mentioned, question_number\n\n")

	prompt.WriteString("get_solution: Student explicitly wants the solution revealed\n")
	prompt.WriteString("  - e.g. 'show me the answer to question 2', 'give me the solutions'\n")
	prompt.WriteString("  - Extract: exercise_id if mentioned, question_number (0 for all questions)\n")
	prompt.WriteString("</intent_definitions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"intent\": \"chat|generate_exercise|evaluate_answers|get_hint|get_solution\",\n")
	prompt.WriteString("  \"use_documents\": false,\n")
	prompt.WriteString("  \"subject\": \"\",\n")
	prompt.WriteString("  \"topic\": \"\",\n")
	prompt.WriteString("  \"exercise_type\": \"\",\n")
	prompt.WriteString("  \"difficulty\": \"\",\n")
	prompt.WriteString("  \"num_questions\": 0,\n")
	prompt.WriteString("  \"exercise_id\": \"\",\n")
	prompt.WriteString("  \"question_number\": 0,\n")
	prompt.WriteString("  \"answers\": {},\n")
	prompt.WriteString("  \"confidence\": 0.95,\n")
	prompt.WriteString("  \"reasoning\": \"Brief explanation\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

// wireIntent is the raw JSON shape the model is asked to produce.
type wireIntent struct {
	Intent         string            `json:"intent"`
	UseDocuments   bool              `json:"use_documents"`
	Subject        string            `json:"subject"`
	Topic          string            `json:"topic"`
	ExerciseType   string            `json:"exercise_type"`
	Difficulty     string            `json:"difficulty"`
	NumQuestions   int               `json:"num_questions"`
	ExerciseID     string            `json:"exercise_id"`
	QuestionNumber int               `json:"question_number"`
	Answers        map[string]string `json:"answers"`
	Confidence     float32           `json:"confidence"`
	Reasoning      string            `json:"reasoning"`
}

func (c *Classifier) parse(response, message string) (*Intent, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var wire wireIntent
	if err := json.Unmarshal([]byte(jsonContent), &wire); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	return c.normalize(&wire, message), nil
}

// normalize applies the fallback policy: defaults for generation, demotion
// to chat for under-specified requests, clamps for out-of-range values.
func (c *Classifier) normalize(wire *wireIntent, message string) *Intent {
	intent := &Intent{
		UseDocuments: wire.UseDocuments,
		Confidence:   wire.Confidence,
		Reasoning:    wire.Reasoning,
	}

	switch Kind(strings.ToLower(strings.TrimSpace(wire.Intent))) {
	case KindGenerateExercise:
		intent.Kind = KindGenerateExercise
		intent.Generate = normalizeGenerate(wire, message)

	case KindEvaluateAnswers:
		if len(wire.Answers) == 0 {
			// Talking about answering is not submitting answers.
			intent.Kind = KindChat
			return intent
		}
		intent.Kind = KindEvaluateAnswers
		intent.Evaluate = &EvaluateParams{
			ExerciseID: strings.TrimSpace(wire.ExerciseID),
			Answers:    wire.Answers,
		}

	case KindGetHint:
		intent.Kind = KindGetHint
		intent.Ref = &ExerciseRef{
			ExerciseID:     strings.TrimSpace(wire.ExerciseID),
			QuestionNumber: wire.QuestionNumber,
		}
		if intent.Ref.ExerciseID == "" {
			intent.MissingExerciseID = true
		}

	case KindGetSolution:
		intent.Kind = KindGetSolution
		intent.Ref = &ExerciseRef{
			ExerciseID:     strings.TrimSpace(wire.ExerciseID),
			QuestionNumber: wire.QuestionNumber,
		}
		if intent.Ref.ExerciseID == "" {
			intent.MissingExerciseID = true
		}

	default:
		intent.Kind = KindChat
	}

	return intent
}

func normalizeGenerate(wire *wireIntent, message string) *GenerateParams {
	p := &GenerateParams{
		Subject:       strings.TrimSpace(wire.Subject),
		Topic:         strings.TrimSpace(wire.Topic),
		Type:          strings.ToLower(strings.TrimSpace(wire.ExerciseType)),
		Difficulty:    strings.ToLower(strings.TrimSpace(wire.Difficulty)),
		QuestionCount: wire.NumQuestions,
	}

	if p.Subject == "" {
		p.Subject = DefaultSubject
	}
	if p.Topic == "" {
		p.Topic = message
	}
	if !allowedTypes[p.Type] {
		p.Type = DefaultType
	}
	if !allowedDifficulties[p.Difficulty] {
		p.Difficulty = DefaultDifficulty
	}
	if p.QuestionCount == 0 {
		p.QuestionCount = DefaultQuestionCount
	}
	if p.QuestionCount < MinQuestionCount {
		p.QuestionCount = MinQuestionCount
	}
	if p.QuestionCount > MaxQuestionCount {
		p.QuestionCount = MaxQuestionCount
	}

	return p
}

func (c *Classifier) fallback(message string) *Intent {
	return &Intent{
		Kind:       KindChat,
		Confidence: 0.5,
		Reasoning:  "Fallback: could not classify, defaulting to chat",
	}
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
