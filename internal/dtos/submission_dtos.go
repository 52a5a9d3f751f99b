package dtos

import (
	"strings"

	"github.com/kabadi/intake-service/internal/models"
	"github.com/kabadi/intake-service/internal/utils"
)

// Submission is implemented by every public form payload.
type Submission interface {
	Normalize()
	Honeypot() string
}

// ------------------------------------------------------------------
// Pickup request
// ------------------------------------------------------------------

type PickupRequestInput struct {
	Name              string   `json:"name" validate:"required,min=2,max=100"`
	Email             string   `json:"email" validate:"required,email,max=200"`
	Phone             string   `json:"phone" validate:"omitempty,phone"`
	Address           string   `json:"address" validate:"required,min=10,max=500"`
	ScrapTypes        []string `json:"scrapTypes" validate:"required,min=1,max=20,dive,required"`
	EstimatedQuantity string   `json:"estimatedQuantity" validate:"omitempty,max=50"`
	AdditionalNotes   string   `json:"additionalNotes" validate:"omitempty,max=1000"`
	BotField          string   `json:"botField"`
}

func (p *PickupRequestInput) Normalize() {
	trimAll(&p.Name, &p.Email, &p.Phone, &p.Address, &p.EstimatedQuantity, &p.AdditionalNotes)
	for i := range p.ScrapTypes {
		p.ScrapTypes[i] = strings.TrimSpace(p.ScrapTypes[i])
	}
}

func (p *PickupRequestInput) Honeypot() string { return p.BotField }

func (p *PickupRequestInput) ToModel() models.NewPickupRequest {
	return models.NewPickupRequest{
		Name:              p.Name,
		Email:             p.Email,
		Phone:             utils.NilIfBlank(p.Phone),
		Address:           p.Address,
		ScrapTypes:        p.ScrapTypes,
		EstimatedQuantity: utils.NilIfBlank(p.EstimatedQuantity),
		AdditionalNotes:   utils.NilIfBlank(p.AdditionalNotes),
	}
}

// ------------------------------------------------------------------
// Contact message
// ------------------------------------------------------------------

type ContactMessageInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Phone    string `json:"phone" validate:"required,phone"`
	Subject  string `json:"subject" validate:"required,min=2,max=150"`
	Message  string `json:"message" validate:"required,min=1,max=2000"`
	BotField string `json:"botField"`
}

func (c *ContactMessageInput) Normalize() {
	trimAll(&c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message)
}

func (c *ContactMessageInput) Honeypot() string { return c.BotField }

func (c *ContactMessageInput) ToModel() models.NewContactMessage {
	return models.NewContactMessage{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Subject: c.Subject,
		Message: c.Message,
	}
}

// ------------------------------------------------------------------
// Career application (multipart; field names match the form fields)
// ------------------------------------------------------------------

type CareerApplicationInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email,max=200"`
	Phone       string `json:"phone" validate:"required,phone"`
	Position    string `json:"position" validate:"required,min=2,max=100"`
	CoverLetter string `json:"coverLetter" validate:"omitempty,max=5000"`
	CVFileName  string `json:"cvFileName" validate:"omitempty,max=255"`
	BotField    string `json:"botField"`

	// Resume is set by the controller when a file part was accepted.
	Resume *ResumeFile `json:"-"`
}

// ResumeFile is an accepted upload held in memory until it is stored.
type ResumeFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (c *CareerApplicationInput) Normalize() {
	trimAll(&c.Name, &c.Email, &c.Phone, &c.Position, &c.CoverLetter, &c.CVFileName)
}

func (c *CareerApplicationInput) Honeypot() string { return c.BotField }

// ToModel maps the form; resume storage fields are filled in by the service.
func (c *CareerApplicationInput) ToModel() models.NewCareerApplication {
	return models.NewCareerApplication{
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Position:    c.Position,
		CoverLetter: utils.NilIfBlank(c.CoverLetter),
		CVFileName:  utils.NilIfBlank(c.CVFileName),
	}
}

// ------------------------------------------------------------------
// Newsletter
// ------------------------------------------------------------------

type NewsletterSubscriptionInput struct {
	Email    string `json:"email" validate:"required,email,max=200"`
	BotField string `json:"botField"`
}

func (n *NewsletterSubscriptionInput) Normalize() { trimAll(&n.Email) }

func (n *NewsletterSubscriptionInput) Honeypot() string { return n.BotField }

func (n *NewsletterSubscriptionInput) ToModel() models.NewNewsletterSubscription {
	return models.NewNewsletterSubscription{Email: n.Email}
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
