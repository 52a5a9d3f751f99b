package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewsletterSubscription is unique per email, compared case-insensitively.
type NewsletterSubscription struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewNewsletterSubscription struct {
	Email string
}

// EmailKey is the case-insensitive identity of a subscription.
func (n NewNewsletterSubscription) EmailKey() string {
	return strings.ToLower(n.Email)
}

func (n NewNewsletterSubscription) Build(id uuid.UUID, createdAt time.Time) *NewsletterSubscription {
	return &NewsletterSubscription{ID: id, Email: n.Email, CreatedAt: createdAt}
}
