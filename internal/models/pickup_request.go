package models

import (
	"time"

	"github.com/google/uuid"
)

// PickupRequest is a scheduled scrap collection request from the pickup wizard.
type PickupRequest struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             *string   `json:"phone"`
	Address           string    `json:"address"`
	ScrapTypes        []string  `json:"scrapTypes"`
	EstimatedQuantity *string   `json:"estimatedQuantity"`
	AdditionalNotes   *string   `json:"additionalNotes"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewPickupRequest is the validated input for creating a PickupRequest.
type NewPickupRequest struct {
	Name              string
	Email             string
	Phone             *string
	Address           string
	ScrapTypes        []string
	EstimatedQuantity *string
	AdditionalNotes   *string
}

// Build constructs the full entity; the store supplies identity and timestamp.
func (n NewPickupRequest) Build(id uuid.UUID, createdAt time.Time) *PickupRequest {
	scrap := make([]string, len(n.ScrapTypes))
	copy(scrap, n.ScrapTypes)
	return &PickupRequest{
		ID:                id,
		Name:              n.Name,
		Email:             n.Email,
		Phone:             n.Phone,
		Address:           n.Address,
		ScrapTypes:        scrap,
		EstimatedQuantity: n.EstimatedQuantity,
		AdditionalNotes:   n.AdditionalNotes,
		CreatedAt:         createdAt,
	}
}
