package models

import (
	"time"

	"github.com/google/uuid"
)

// CareerApplication is a job application. The resume fields are set only when
// a file was uploaded to object storage.
type CareerApplication struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Position          string    `json:"position"`
	CoverLetter       *string   `json:"coverLetter"`
	CVFileName        *string   `json:"cvFileName"`
	ResumeStoragePath *string   `json:"resumeStoragePath"`
	ResumeURL         *string   `json:"resumeUrl"`
	CreatedAt         time.Time `json:"createdAt"`
}

type NewCareerApplication struct {
	Name              string
	Email             string
	Phone             string
	Position          string
	CoverLetter       *string
	CVFileName        *string
	ResumeStoragePath *string
	ResumeURL         *string
}

func (n NewCareerApplication) Build(id uuid.UUID, createdAt time.Time) *CareerApplication {
	return &CareerApplication{
		ID:                id,
		Name:              n.Name,
		Email:             n.Email,
		Phone:             n.Phone,
		Position:          n.Position,
		CoverLetter:       n.CoverLetter,
		CVFileName:        n.CVFileName,
		ResumeStoragePath: n.ResumeStoragePath,
		ResumeURL:         n.ResumeURL,
		CreatedAt:         createdAt,
	}
}
