package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	PersonaKey string `json:"persona_key,omitempty"`
}

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	PersonaId *uuid.UUID `json:"persona_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID              `json:"id"`
	Seq       int                    `json:"seq"`
	Role      string                 `json:"role"`
	Chat      string                 `json:"chat"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SendChatRequest struct {
	// ChatSessionId is optional: a zero value creates a fresh session.
	ChatSessionId uuid.UUID `json:"chat_session_id"`
	Chat          string    `json:"chat" validate:"required"`
	// PersonaKey binds a fresh session to a persona, or overrides the
	// session's persona for this one turn. Unknown keys fail the request.
	PersonaKey string `json:"persona_key,omitempty"`
	// ForceRag demands retrieval grounding even when the classifier
	// would answer without it. A persona still takes precedence.
	ForceRag bool `json:"force_rag,omitempty"`
}

type SendChatResponseChat struct {
	Id        uuid.UUID              `json:"id"`
	Seq       int                    `json:"seq"`
	Chat      string                 `json:"chat"`
	Role      string                 `json:"role"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type SendChatResponse struct {
	ChatSessionId    uuid.UUID             `json:"chat_session_id"`
	ChatSessionTitle string                `json:"title"`
	Intent           string                `json:"intent"`
	Sent             *SendChatResponseChat `json:"sent"`
	Reply            *SendChatResponseChat `json:"reply"`
	// ErrorKind is set when the reply is a friendly rendering of an
	// internal failure, so clients can react without parsing prose.
	ErrorKind string `json:"error_kind,omitempty"`
}

type DeleteSessionRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
}

type DeleteSessionResponse struct {
	// Deleted is false when the session did not exist to begin with.
	Deleted bool `json:"deleted"`
}
