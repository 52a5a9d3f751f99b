package repositories

import (
	"context"

	"github.com/kabadi/intake-service/internal/metrics"
	"github.com/kabadi/intake-service/internal/models"
	"github.com/kabadi/intake-service/internal/utils"
)

var _ Store = (*HybridStore)(nil)

// HybridStore prefers the durable backend and, on its first failure, switches
// to the memory backend for the rest of the process. It never reconnects.
type HybridStore struct {
	durable Store
	memory  *MemoryStore
	state   *BackendState
}

// NewHybridStore wires the two backends. durable may be nil when no database
// was configured; state then should have been created inactive.
func NewHybridStore(durable Store, memory *MemoryStore, state *BackendState) *HybridStore {
	if durable == nil {
		state.MarkDegraded()
	}
	metrics.SetDurableActive(state.IsDurableActive())
	return &HybridStore{durable: durable, memory: memory, state: state}
}

// State exposes the shared backend state, e.g. for readiness reporting.
func (h *HybridStore) State() *BackendState { return h.state }

// withFallback runs the operation on the durable backend while it is active and on the
// memory backend otherwise. A durable error only degrades the store when the
// caller's context is still live; a cancelled or expired request is returned
// as is and leaves the durable backend in place.
func withFallback[T any](ctx context.Context, h *HybridStore, op string, run func(Store) (T, error)) (T, error) {
	if h.state.IsDurableActive() {
		v, err := run(h.durable)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			utils.Logger.WithError(err).WithField("op", op).Debug("[storage] DB operation abandoned by caller")
			return v, err
		}
		if h.state.MarkDegraded() {
			utils.Logger.WithError(err).WithField("op", op).
				Warn("[storage] DB operation failed; falling back to memory for the rest of the process")
			metrics.RecordStorageFallback(op)
			metrics.SetDurableActive(false)
		}
	}
	return run(h.memory)
}

func (h *HybridStore) CreatePickupRequest(ctx context.Context, in models.NewPickupRequest) (*models.PickupRequest, error) {
	return withFallback(ctx, h, "create_pickup_request", func(s Store) (*models.PickupRequest, error) { return s.CreatePickupRequest(ctx, in) })
}

func (h *HybridStore) ListPickupRequests(ctx context.Context) ([]*models.PickupRequest, error) {
	return withFallback(ctx, h, "list_pickup_requests", func(s Store) ([]*models.PickupRequest, error) { return s.ListPickupRequests(ctx) })
}

func (h *HybridStore) CreateContactMessage(ctx context.Context, in models.NewContactMessage) (*models.ContactMessage, error) {
	return withFallback(ctx, h, "create_contact_message", func(s Store) (*models.ContactMessage, error) { return s.CreateContactMessage(ctx, in) })
}

func (h *HybridStore) ListContactMessages(ctx context.Context) ([]*models.ContactMessage, error) {
	return withFallback(ctx, h, "list_contact_messages", func(s Store) ([]*models.ContactMessage, error) { return s.ListContactMessages(ctx) })
}

func (h *HybridStore) CreateCareerApplication(ctx context.Context, in models.NewCareerApplication) (*models.CareerApplication, error) {
	return withFallback(ctx, h, "create_career_application", func(s Store) (*models.CareerApplication, error) { return s.CreateCareerApplication(ctx, in) })
}

func (h *HybridStore) ListCareerApplications(ctx context.Context) ([]*models.CareerApplication, error) {
	return withFallback(ctx, h, "list_career_applications", func(s Store) ([]*models.CareerApplication, error) { return s.ListCareerApplications(ctx) })
}

func (h *HybridStore) CreateNewsletterSubscription(ctx context.Context, in models.NewNewsletterSubscription) (*models.NewsletterSubscription, error) {
	return withFallback(ctx, h, "create_newsletter_subscription", func(s Store) (*models.NewsletterSubscription, error) { return s.CreateNewsletterSubscription(ctx, in) })
}

func (h *HybridStore) ListNewsletterSubscriptions(ctx context.Context) ([]*models.NewsletterSubscription, error) {
	return withFallback(ctx, h, "list_newsletter_subscriptions", func(s Store) ([]*models.NewsletterSubscription, error) { return s.ListNewsletterSubscriptions(ctx) })
}
