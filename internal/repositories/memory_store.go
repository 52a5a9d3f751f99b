package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kabadi/intake-service/internal/models"
)

// memTable keeps entities by id and remembers insertion order for listing.
type memTable[T any] struct {
	byID  map[uuid.UUID]T
	order []uuid.UUID
}

func newMemTable[T any]() *memTable[T] {
	return &memTable[T]{byID: make(map[uuid.UUID]T)}
}

func (t *memTable[T]) put(id uuid.UUID, v T) {
	t.byID[id] = v
	t.order = append(t.order, id)
}

func (t *memTable[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// MemoryStore is the process-local fallback backend. Data is lost on restart.
type MemoryStore struct {
	mu  sync.RWMutex
	now func() time.Time

	pickups      *memTable[*models.PickupRequest]
	contacts     *memTable[*models.ContactMessage]
	applications *memTable[*models.CareerApplication]
	newsletter   *memTable[*models.NewsletterSubscription]
	newsByEmail  map[string]*models.NewsletterSubscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:          func() time.Time { return time.Now().UTC() },
		pickups:      newMemTable[*models.PickupRequest](),
		contacts:     newMemTable[*models.ContactMessage](),
		applications: newMemTable[*models.CareerApplication](),
		newsletter:   newMemTable[*models.NewsletterSubscription](),
		newsByEmail:  make(map[string]*models.NewsletterSubscription),
	}
}

/* ---------- Pickup requests ---------- */

func (m *MemoryStore) CreatePickupRequest(_ context.Context, in models.NewPickupRequest) (*models.PickupRequest, error) {
	p := in.Build(uuid.New(), m.now())
	m.mu.Lock()
	m.pickups.put(p.ID, p)
	m.mu.Unlock()
	return p, nil
}

func (m *MemoryStore) ListPickupRequests(_ context.Context) ([]*models.PickupRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pickups.list(), nil
}

/* ---------- Contact messages ---------- */

func (m *MemoryStore) CreateContactMessage(_ context.Context, in models.NewContactMessage) (*models.ContactMessage, error) {
	c := in.Build(uuid.New(), m.now())
	m.mu.Lock()
	m.contacts.put(c.ID, c)
	m.mu.Unlock()
	return c, nil
}

func (m *MemoryStore) ListContactMessages(_ context.Context) ([]*models.ContactMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contacts.list(), nil
}

/* ---------- Career applications ---------- */

func (m *MemoryStore) CreateCareerApplication(_ context.Context, in models.NewCareerApplication) (*models.CareerApplication, error) {
	a := in.Build(uuid.New(), m.now())
	m.mu.Lock()
	m.applications.put(a.ID, a)
	m.mu.Unlock()
	return a, nil
}

func (m *MemoryStore) ListCareerApplications(_ context.Context) ([]*models.CareerApplication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.applications.list(), nil
}

/* ---------- Newsletter ---------- */

func (m *MemoryStore) CreateNewsletterSubscription(_ context.Context, in models.NewNewsletterSubscription) (*models.NewsletterSubscription, error) {
	key := in.EmailKey()
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.newsByEmail[key]; ok {
		return existing, nil
	}
	sub := in.Build(uuid.New(), m.now())
	m.newsletter.put(sub.ID, sub)
	m.newsByEmail[key] = sub
	return sub, nil
}

func (m *MemoryStore) ListNewsletterSubscriptions(_ context.Context) ([]*models.NewsletterSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.newsletter.list(), nil
}
