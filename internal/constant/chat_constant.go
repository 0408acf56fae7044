package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

// Message metadata keys. Metadata carries provenance only; solutions are
// never written into conversation storage.
const (
	MetadataKeyType           = "type"
	MetadataKeyExerciseId     = "exercise_id"
	MetadataKeyEvaluationId   = "evaluation_id"
	MetadataKeyQuestionNumber = "question_number"
	MetadataKeyErrorKind      = "error_kind"

	MetadataTypeExercise   = "exercise"
	MetadataTypeEvaluation = "evaluation"
	MetadataTypeHint       = "hint"
	MetadataTypeSolution   = "solution"
	MetadataTypeError      = "error"
)

const DefaultSystemPrompt = `You are a helpful and concise tutoring assistant. Answer in Markdown with clear headings and lists where they help readability.`

// RAGSystemPromptPrefix precedes retrieved document chunks. The completion
// must stay inside the supplied context and say so when it is not enough.
const RAGSystemPromptPrefix = `You are an expert teaching assistant answering strictly from the supplied context.

Rules:
1. Base your answer ONLY on the context below.
2. If the context is insufficient, say so explicitly instead of guessing.
3. Quote or reference the relevant parts of the context.
4. Organize the answer clearly, in Markdown.
5. Do not bring in outside knowledge or assumptions.

Context:

`

const DefaultSessionTitle = "Unnamed session"
