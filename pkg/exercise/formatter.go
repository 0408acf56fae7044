package exercise

import (
	"fmt"
	"strings"

	"ai-tutor-be/internal/entity"
)

// FormatExercise renders a redacted exercise as the Markdown block shown
// to the student. The exercise id is embedded so follow-up requests
// (answers, hints, solutions) can name it.
func FormatExercise(ex *entity.Exercise) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### Practice: %s (%s, %s)\n\n", ex.Topic, ex.Subject, ex.Difficulty))
	if ex.Instructions != "" {
		sb.WriteString(ex.Instructions)
		sb.WriteString("\n\n")
	}

	for _, q := range ex.Questions {
		sb.WriteString(fmt.Sprintf("**%d.** %s\n", q.Number, q.Prompt))
		for _, choice := range q.Choices {
			sb.WriteString(fmt.Sprintf("   - %s\n", choice))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("_Exercise ID: `%s`. Mention it when you submit answers or ask for a hint._", ex.Id))

	return sb.String()
}

// FormatSolution renders one solution or, with number 0, all of them.
func FormatSolution(ex *entity.Exercise, number int) string {
	var sb strings.Builder

	if number > 0 {
		sol, _ := ex.SolutionFor(number)
		sb.WriteString(fmt.Sprintf("### Solution to question %d\n\n", number))
		writeSolution(&sb, sol)
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("### Solutions for exercise `%s`\n\n", ex.Id))
	for _, sol := range ex.Solutions {
		sb.WriteString(fmt.Sprintf("**%d.** ", sol.Number))
		writeSolution(&sb, sol)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeSolution(sb *strings.Builder, sol entity.ExerciseSolution) {
	sb.WriteString(sol.Answer)
	if sol.Explanation != "" {
		sb.WriteString("\n")
		sb.WriteString(sol.Explanation)
	}
	sb.WriteString("\n")
}

// FormatEvaluation renders the grading result for the student.
func FormatEvaluation(eval *entity.Evaluation) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### Results: %.0f%%\n\n", eval.Score*100))
	if eval.Feedback != "" {
		sb.WriteString(eval.Feedback)
		sb.WriteString("\n\n")
	}

	for _, qf := range eval.QuestionFeedback {
		mark := "✗"
		if qf.IsCorrect {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("**%d.** %s %s\n", qf.Number, mark, qf.Feedback))
	}

	if eval.Explanation != "" {
		sb.WriteString("\n")
		sb.WriteString(eval.Explanation)
	}

	return sb.String()
}
