package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

func (n NewContactMessage) Build(id uuid.UUID, createdAt time.Time) *ContactMessage {
	return &ContactMessage{
		ID:        id,
		Name:      n.Name,
		Email:     n.Email,
		Phone:     n.Phone,
		Subject:   n.Subject,
		Message:   n.Message,
		CreatedAt: createdAt,
	}
}
