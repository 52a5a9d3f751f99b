// Package wizard is the four-step pickup request flow a client walks a
// customer through before posting to the pickup endpoint.
//
//	SelectTypes ──► Details ──► Address ──► Review ──► submit
//	     ◄────────────┴────────────┴──────────┘  (back is always allowed)
//
// Forward moves are gated by the client rules in formrules. Field values
// live on the wizard, so moving between steps never loses input.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/kabadi/intake-service/internal/formrules"
	"github.com/kabadi/intake-service/internal/utils"
)

type Step int

const (
	StepSelectTypes Step = iota + 1
	StepDetails
	StepAddress
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepSelectTypes:
		return "Select Scrap Types"
	case StepDetails:
		return "Your Details"
	case StepAddress:
		return "Pickup Address"
	case StepReview:
		return "Review & Submit"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

const (
	NoticeSubmitted = "Request submitted! We'll contact you within 24 hours to schedule your pickup."
	NoticeFailed    = "Submission failed. Please try again later or contact us directly."
)

var (
	ErrUnknownCategory = errors.New("unknown scrap category")
	ErrNotOnReview     = errors.New("submit is only available on the review step")
	ErrSubmitInFlight  = errors.New("a submission is already in progress")
)

// Fields are the free-text inputs collected across steps 2 and 3.
type Fields struct {
	Name              string
	Email             string
	Phone             string
	EstimatedQuantity string
	Address           string
	AdditionalNotes   string
	BotField          string
}

// PickupPayload is the JSON body posted to the pickup endpoint. Blank
// optional fields are sent as null.
type PickupPayload struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             *string  `json:"phone"`
	Address           string   `json:"address"`
	ScrapTypes        []string `json:"scrapTypes"`
	EstimatedQuantity *string  `json:"estimatedQuantity"`
	AdditionalNotes   *string  `json:"additionalNotes"`
	BotField          string   `json:"botField"`
}

// Submitter delivers a finished payload.
type Submitter interface {
	SubmitPickup(ctx context.Context, p PickupPayload) error
}

// Summary is what the review step shows before final submit.
type Summary struct {
	ScrapTypes string
	Fields     Fields
}

type Wizard struct {
	mu         sync.Mutex
	submitter  Submitter
	step       Step
	selected   []string
	fields     Fields
	submitting bool
	notice     string
}

func New(s Submitter) *Wizard {
	return &Wizard{submitter: s, step: StepSelectTypes}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Toggle adds the category when absent and removes it when present.
func (w *Wizard) Toggle(id string) error {
	if _, ok := lookupCategory(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if i := slices.Index(w.selected, id); i >= 0 {
		w.selected = slices.Delete(w.selected, i, i+1)
		return nil
	}
	w.selected = append(w.selected, id)
	return nil
}

// Selected returns the selected category ids in selection order.
func (w *Wizard) Selected() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.selected)
}

// Update edits the field values in place.
func (w *Wizard) Update(edit func(f *Fields)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	edit(&w.fields)
}

func (w *Wizard) Fields() Fields {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fields
}

// Notice is the last user-facing message set by Submit.
func (w *Wizard) Notice() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.notice
}

// CanAdvance reports whether Next would move forward from the current step.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canAdvanceLocked()
}

func (w *Wizard) canAdvanceLocked() bool {
	switch w.step {
	case StepSelectTypes:
		return len(w.selected) > 0
	case StepDetails:
		return formrules.Name(w.fields.Name) &&
			formrules.Email(w.fields.Email) &&
			formrules.Phone(w.fields.Phone)
	case StepAddress:
		return formrules.Address(w.fields.Address)
	}
	return false
}

// Next moves one step forward when the current step's gate passes and
// reports whether it moved.
func (w *Wizard) Next() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canAdvanceLocked() {
		return false
	}
	w.step++
	return true
}

// Back moves one step back without validation.
func (w *Wizard) Back() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepSelectTypes {
		return false
	}
	w.step--
	return true
}

func (w *Wizard) Review() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Summary{ScrapTypes: strings.Join(w.selectedNamesLocked(), ", "), Fields: w.fields}
}

// selectedNamesLocked lists selected display names in catalog order.
func (w *Wizard) selectedNamesLocked() []string {
	names := make([]string, 0, len(w.selected))
	for _, c := range Catalog {
		if slices.Contains(w.selected, c.ID) {
			names = append(names, c.Name)
		}
	}
	return names
}

func (w *Wizard) payloadLocked() PickupPayload {
	f := w.fields
	return PickupPayload{
		Name:              f.Name,
		Email:             f.Email,
		Phone:             utils.NilIfBlank(f.Phone),
		Address:           f.Address,
		ScrapTypes:        w.selectedNamesLocked(),
		EstimatedQuantity: utils.NilIfBlank(f.EstimatedQuantity),
		AdditionalNotes:   utils.NilIfBlank(f.AdditionalNotes),
		BotField:          f.BotField,
	}
}

// Submit posts the wizard's contents. Success resets the wizard to the first
// step with empty fields; failure keeps everything and sets NoticeFailed.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepReview {
		w.mu.Unlock()
		return ErrNotOnReview
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	w.submitting = true
	payload := w.payloadLocked()
	w.mu.Unlock()

	err := w.submitter.SubmitPickup(ctx, payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		w.notice = NoticeFailed
		return err
	}
	w.step = StepSelectTypes
	w.selected = nil
	w.fields = Fields{}
	w.notice = NoticeSubmitted
	return nil
}
