package events

import "github.com/google/uuid"

// IndexDocument asks the background consumer to chunk and embed one
// document. It travels as the JSON payload of a watermill message.
type IndexDocument struct {
	DocumentId uuid.UUID `json:"document_id"`
}
