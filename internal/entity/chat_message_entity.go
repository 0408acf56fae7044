package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	// Seq is the per-session insertion index: user turn N is 2N-1,
	// assistant turn N is 2N. History ordering sorts on it, never on
	// timestamps.
	Seq       int
	Role      string
	Content   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
