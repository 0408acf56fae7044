package dto

import "github.com/google/uuid"

type PersonaResponse struct {
	Id          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	DisplayName string    `json:"display_name"`
	Subject     string    `json:"subject,omitempty"`
}
