package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	err      error
	payloads []PickupPayload
	// When set, SubmitPickup signals entered and waits on release.
	entered chan struct{}
	release chan struct{}
}

func (f *fakeSubmitter) SubmitPickup(_ context.Context, p PickupPayload) error {
	if f.entered != nil {
		close(f.entered)
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return f.err
}

func fillValid(w *Wizard) {
	w.Update(func(f *Fields) {
		f.Name = "Asha Rao"
		f.Email = "asha@example.com"
		f.Phone = "+91 98765 43210"
		f.Address = "12 MG Road, Bengaluru"
	})
}

func walkToReview(t *testing.T, w *Wizard) {
	t.Helper()
	require.NoError(t, w.Toggle("paper"))
	require.NoError(t, w.Toggle("plastic"))
	fillValid(w)
	for range 3 {
		require.True(t, w.Next())
	}
	require.Equal(t, StepReview, w.Step())
}

func TestNextIsGatedPerStep(t *testing.T) {
	w := New(&fakeSubmitter{})

	assert.False(t, w.Next(), "no categories selected")
	assert.Equal(t, StepSelectTypes, w.Step())

	require.NoError(t, w.Toggle("metal"))
	require.True(t, w.Next())
	assert.Equal(t, StepDetails, w.Step())

	w.Update(func(f *Fields) {
		f.Name = "A"
		f.Email = "asha@example.com"
		f.Phone = "+91 98765 43210"
	})
	assert.False(t, w.Next(), "one-letter name")

	w.Update(func(f *Fields) { f.Name = "Asha"; f.Phone = "12345" })
	assert.False(t, w.Next(), "short phone")

	w.Update(func(f *Fields) { f.Phone = "+91 98765 43210" })
	require.True(t, w.Next())
	assert.Equal(t, StepAddress, w.Step())

	w.Update(func(f *Fields) { f.Address = "12 MG Rd" })
	assert.False(t, w.Next(), "address under 10 characters")

	w.Update(func(f *Fields) { f.Address = "12 MG Road" })
	require.True(t, w.Next())
	assert.Equal(t, StepReview, w.Step())

	assert.False(t, w.Next(), "review is the last step")
	assert.Equal(t, StepReview, w.Step())
}

func TestBackPreservesFields(t *testing.T) {
	w := New(&fakeSubmitter{})
	walkToReview(t, w)

	assert.True(t, w.Back())
	assert.True(t, w.Back())
	assert.True(t, w.Back())
	assert.False(t, w.Back())
	assert.Equal(t, StepSelectTypes, w.Step())

	assert.Equal(t, "Asha Rao", w.Fields().Name)
	assert.Equal(t, "12 MG Road, Bengaluru", w.Fields().Address)
	assert.Equal(t, []string{"paper", "plastic"}, w.Selected())
}

func TestToggle(t *testing.T) {
	w := New(&fakeSubmitter{})

	require.NoError(t, w.Toggle("glass"))
	require.NoError(t, w.Toggle("metal"))
	require.NoError(t, w.Toggle("glass"))
	assert.Equal(t, []string{"metal"}, w.Selected())

	err := w.Toggle("wood")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, []string{"metal"}, w.Selected())
}

func TestReviewUsesCatalogOrder(t *testing.T) {
	w := New(&fakeSubmitter{})
	require.NoError(t, w.Toggle("glass"))
	require.NoError(t, w.Toggle("plastic"))
	require.NoError(t, w.Toggle("electronics"))
	w.Update(func(f *Fields) { f.AdditionalNotes = "  gate code 42 " })

	review := w.Review()
	assert.Equal(t, "Plastic, Electronics, Glass", review.ScrapTypes)
	assert.Equal(t, "  gate code 42 ", review.Fields.AdditionalNotes)
}

func TestSubmitOnlyFromReview(t *testing.T) {
	sub := &fakeSubmitter{}
	w := New(sub)
	require.NoError(t, w.Toggle("paper"))

	assert.ErrorIs(t, w.Submit(context.Background()), ErrNotOnReview)
	assert.Empty(t, sub.payloads)
}

func TestSubmitSuccessResets(t *testing.T) {
	sub := &fakeSubmitter{}
	w := New(sub)
	walkToReview(t, w)

	require.NoError(t, w.Submit(context.Background()))

	require.Len(t, sub.payloads, 1)
	p := sub.payloads[0]
	assert.Equal(t, []string{"Plastic", "Paper"}, p.ScrapTypes)
	assert.Equal(t, "Asha Rao", p.Name)
	require.NotNil(t, p.Phone)
	assert.Equal(t, "+91 98765 43210", *p.Phone)
	assert.Nil(t, p.EstimatedQuantity)
	assert.Nil(t, p.AdditionalNotes)

	assert.Equal(t, StepSelectTypes, w.Step())
	assert.Equal(t, Fields{}, w.Fields())
	assert.Empty(t, w.Selected())
	assert.Equal(t, NoticeSubmitted, w.Notice())
}

func TestSubmitFailureKeepsState(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("status 500")}
	w := New(sub)
	walkToReview(t, w)

	err := w.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, StepReview, w.Step())
	assert.Equal(t, "Asha Rao", w.Fields().Name)
	assert.Equal(t, []string{"paper", "plastic"}, w.Selected())
	assert.Equal(t, NoticeFailed, w.Notice())

	// A retry goes through once the backend recovers.
	sub.err = nil
	require.NoError(t, w.Submit(context.Background()))
	assert.Len(t, sub.payloads, 2)
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	sub := &fakeSubmitter{entered: make(chan struct{}), release: make(chan struct{})}
	w := New(sub)
	walkToReview(t, w)

	done := make(chan error, 1)
	go func() { done <- w.Submit(context.Background()) }()

	<-sub.entered
	assert.ErrorIs(t, w.Submit(context.Background()), ErrSubmitInFlight)

	close(sub.release)
	require.NoError(t, <-done)
	assert.Len(t, sub.payloads, 1)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "Review & Submit", StepReview.String())
	assert.Equal(t, "Step(9)", Step(9).String())
}
