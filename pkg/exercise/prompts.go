package exercise

import (
	"fmt"
	"strings"

	"ai-tutor-be/internal/entity"
)

func buildGenerationPrompt(subject, topic, exerciseType, difficulty string, n int) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are an exercise author for a tutoring assistant. You produce well-posed practice exercises with full solutions.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<request>\n")
	prompt.WriteString(fmt.Sprintf("subject: %s\n", subject))
	prompt.WriteString(fmt.Sprintf("topic: %s\n", topic))
	prompt.WriteString(fmt.Sprintf("type: %s\n", exerciseType))
	prompt.WriteString(fmt.Sprintf("difficulty: %s\n", difficulty))
	prompt.WriteString(fmt.Sprintf("question_count: %d\n", n))
	prompt.WriteString("</request>\n\n")

	prompt.WriteString("<rules>\n")
	prompt.WriteString(fmt.Sprintf("1. Produce EXACTLY %d questions, numbered 1 to %d.\n", n, n))
	prompt.WriteString("2. Every question must have a matching solution with the same number.\n")
	prompt.WriteString("3. For multiple_choice, give 4 choices and the answer must be one of them.\n")
	prompt.WriteString("4. For true_false, the answer must be \"true\" or \"false\".\n")
	prompt.WriteString("5. For fill_in_blank, mark the gap in the prompt with ____.\n")
	prompt.WriteString("6. Only multiple_choice questions carry choices; every other type leaves choices empty.\n")
	prompt.WriteString("7. Solutions carry a short explanation of why the answer is right.\n")
	prompt.WriteString("</rules>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"instructions\": \"One short paragraph telling the student what to do\",\n")
	prompt.WriteString("  \"questions\": [{\"number\": 1, \"prompt\": \"...\", \"choices\": [\"A) ...\", \"B) ...\"]}],\n")
	prompt.WriteString("  \"solutions\": [{\"number\": 1, \"answer\": \"...\", \"explanation\": \"...\"}]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func buildHintPrompt(ex *entity.Exercise, question entity.ExerciseQuestion, solution entity.ExerciseSolution) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a tutor giving a hint. You know the solution but you must NEVER state it, quote it, or make it trivially guessable.\n")
	prompt.WriteString("Nudge the student toward the right approach in 1-3 sentences.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<question>\n")
	prompt.WriteString(question.Prompt)
	if len(question.Choices) > 0 {
		prompt.WriteString("\nChoices: ")
		prompt.WriteString(strings.Join(question.Choices, ", "))
	}
	prompt.WriteString("\n</question>\n\n")

	prompt.WriteString("<solution_for_your_eyes_only>\n")
	prompt.WriteString(solution.Answer)
	if solution.Explanation != "" {
		prompt.WriteString("\n")
		prompt.WriteString(solution.Explanation)
	}
	prompt.WriteString("\n</solution_for_your_eyes_only>\n\n")

	prompt.WriteString(fmt.Sprintf("<context>\nsubject: %s, topic: %s, difficulty: %s\n</context>\n\n", ex.Subject, ex.Topic, ex.Difficulty))

	prompt.WriteString("Write the hint now. Do not mention that you were shown the solution.")

	return prompt.String()
}

func buildEvaluationPrompt(ex *entity.Exercise, answers map[string]string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a strict but encouraging grader. Compare the student's answers against the reference solutions.\n")
	prompt.WriteString("Grade on substance: accept equivalent phrasings, reject wrong answers regardless of confidence.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<exercise>\n")
	for _, q := range ex.Questions {
		prompt.WriteString(fmt.Sprintf("Question %d: %s\n", q.Number, q.Prompt))
		if len(q.Choices) > 0 {
			prompt.WriteString(fmt.Sprintf("Choices: %s\n", strings.Join(q.Choices, ", ")))
		}
	}
	prompt.WriteString("</exercise>\n\n")

	prompt.WriteString("<reference_solutions>\n")
	for _, s := range ex.Solutions {
		prompt.WriteString(fmt.Sprintf("Question %d: %s", s.Number, s.Answer))
		if s.Explanation != "" {
			prompt.WriteString(fmt.Sprintf(" (%s)", s.Explanation))
		}
		prompt.WriteString("\n")
	}
	prompt.WriteString("</reference_solutions>\n\n")

	prompt.WriteString("<student_answers>\n")
	for _, q := range ex.Questions {
		answer, ok := answers[fmt.Sprintf("%d", q.Number)]
		if !ok || strings.TrimSpace(answer) == "" {
			answer = "(no answer)"
		}
		prompt.WriteString(fmt.Sprintf("Question %d: %s\n", q.Number, answer))
	}
	prompt.WriteString("</student_answers>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"is_correct\": true,\n")
	prompt.WriteString("  \"score\": 1.0,\n")
	prompt.WriteString("  \"feedback\": \"Overall feedback for the student\",\n")
	prompt.WriteString("  \"explanation\": \"What to review next\",\n")
	prompt.WriteString("  \"question_feedback\": [{\"number\": 1, \"is_correct\": true, \"feedback\": \"...\"}]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("question_feedback must cover every question exactly once.\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}
