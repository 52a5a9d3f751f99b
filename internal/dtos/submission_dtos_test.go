package dtos

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPickup() *PickupRequestInput {
	return &PickupRequestInput{
		Name:       "Asha Rao",
		Email:      "asha@example.com",
		Phone:      "+91 98765 43210",
		Address:    "12 MG Road, Bengaluru 560001",
		ScrapTypes: []string{"Plastic", "Metal"},
	}
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	out := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestPickupRequestInput_Valid(t *testing.T) {
	p := validPickup()
	p.Normalize()
	assert.NoError(t, Validate(p))
}

func TestPickupRequestInput_Boundaries(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*PickupRequestInput)
		invalid string
	}{
		{"address nine chars", func(p *PickupRequestInput) { p.Address = "123456789" }, "address"},
		{"name one char", func(p *PickupRequestInput) { p.Name = "A" }, "name"},
		{"name padded to one char", func(p *PickupRequestInput) { p.Name = "   A   " }, "name"},
		{"no scrap types", func(p *PickupRequestInput) { p.ScrapTypes = []string{} }, "scrapTypes"},
		{"blank scrap type", func(p *PickupRequestInput) { p.ScrapTypes = []string{"Metal", "  "} }, "scrapTypes[1]"},
		{"too many scrap types", func(p *PickupRequestInput) { p.ScrapTypes = repeat("Metal", 21) }, "scrapTypes"},
		{"bad email", func(p *PickupRequestInput) { p.Email = "not-an-email" }, "email"},
		{"bad phone", func(p *PickupRequestInput) { p.Phone = "call me" }, "phone"},
		{"quantity too long", func(p *PickupRequestInput) { p.EstimatedQuantity = strings.Repeat("9", 51) }, "estimatedQuantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPickup()
			tc.mutate(p)
			p.Normalize()
			assert.Equal(t, []string{tc.invalid}, fieldsOf(t, Validate(p)))
		})
	}
}

func TestPickupRequestInput_AcceptsLowerBounds(t *testing.T) {
	p := validPickup()
	p.Address = "1234567890"
	p.Name = "Al"
	p.ScrapTypes = []string{"Metal", "Metal"}
	p.Phone = ""
	p.Normalize()
	require.NoError(t, Validate(p))

	m := p.ToModel()
	assert.Nil(t, m.Phone, "blank optional becomes null")
	assert.Nil(t, m.EstimatedQuantity)
	assert.Equal(t, []string{"Metal", "Metal"}, m.ScrapTypes)
}

func TestPickupRequestInput_NormalizeTrims(t *testing.T) {
	p := validPickup()
	p.Name = "  Asha Rao "
	p.ScrapTypes = []string{" Plastic ", "Metal"}
	p.AdditionalNotes = "  Leave at gate. "
	p.Normalize()
	assert.Equal(t, "Asha Rao", p.Name)
	assert.Equal(t, []string{"Plastic", "Metal"}, p.ScrapTypes)
	assert.Equal(t, "Leave at gate.", *p.ToModel().AdditionalNotes)
}

func TestContactMessageInput_MessageBoundary(t *testing.T) {
	c := &ContactMessageInput{
		Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210", Subject: "Bulk pickup", Message: "",
	}
	c.Normalize()
	err := Validate(c)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, FieldError{Field: "message", Rule: "required", Message: "is required"}, ve.Fields[0])

	c.Message = "x"
	assert.NoError(t, Validate(c))
}

func TestContactMessageInput_PhoneRequired(t *testing.T) {
	c := &ContactMessageInput{Name: "Ravi", Email: "ravi@example.com", Subject: "Hi", Message: "Hello"}
	assert.Equal(t, []string{"phone"}, fieldsOf(t, Validate(c)))
}

func TestCareerApplicationInput(t *testing.T) {
	c := &CareerApplicationInput{
		Name: "Meera", Email: "meera@example.com", Phone: "+91 90000 00000", Position: "driver",
		CVFileName: strings.Repeat("a", 256),
	}
	assert.Equal(t, []string{"cvFileName"}, fieldsOf(t, Validate(c)))

	c.CVFileName = "cv.pdf"
	require.NoError(t, Validate(c))
	m := c.ToModel()
	assert.Equal(t, "cv.pdf", *m.CVFileName)
	assert.Nil(t, m.CoverLetter)
	assert.Nil(t, m.ResumeStoragePath)
}

func TestNewsletterSubscriptionInput(t *testing.T) {
	n := &NewsletterSubscriptionInput{Email: "  Priya@Example.com ", BotField: "gotcha"}
	n.Normalize()
	require.NoError(t, Validate(n))
	assert.Equal(t, "Priya@Example.com", n.ToModel().Email)
	assert.Equal(t, "gotcha", n.Honeypot())

	n.Email = ""
	assert.Equal(t, []string{"email"}, fieldsOf(t, Validate(n)))
}

func TestValidationError_Message(t *testing.T) {
	err := NewFieldError("resume", "mime", "unsupported file type")
	assert.Equal(t, "invalid fields: resume", err.Error())
}
