package store

// Chunk is one retrieved document fragment together with its similarity
// score, as handed from the retriever to the context assembler.
type Chunk struct {
	ID         string                 `json:"id"`
	DocumentID string                 `json:"document_id"`
	Content    string                 `json:"content"`
	Score      float32                `json:"score"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// Message is one cached transcript entry, trimmed to what prompt replay
// needs.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the in-memory conversational state kept between turns. It is
// a cache only; the durable transcript lives in Postgres.
type Session struct {
	ID        string `json:"id"`
	PersonaID string `json:"persona_id"`

	// History is the cached tail of the transcript, filled from the
	// store on first touch and kept in step with recorded turns.
	History       []Message `json:"history"`
	HistoryLoaded bool      `json:"history_loaded"`

	// The exercise currently "in play" for this session. Evaluate/hint
	// requests without an explicit id fall back to it before hitting the
	// database.
	ActiveExerciseID string `json:"active_exercise_id"`

	LastIntent string `json:"last_intent"`
	LastQuery  string `json:"last_query"`
}
