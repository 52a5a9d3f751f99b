package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/kabadi/intake-service/internal/models"
)

var (
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MemoryStore)(nil)
)

// zeroTime is a placeholder until the database returns created_at.
var zeroTime time.Time

// PostgresStore is the durable backend. Lists are newest first.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore { return &PostgresStore{db: db} }

/* ---------- Pickup requests ---------- */

func (s *PostgresStore) CreatePickupRequest(ctx context.Context, in models.NewPickupRequest) (*models.PickupRequest, error) {
	p := in.Build(uuid.New(), zeroTime)
	err := s.db.QueryRow(ctx, `
		INSERT INTO pickup_requests (
			id, name, email, phone, address, scrap_types, estimated_quantity, additional_notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at
	`, p.ID, p.Name, p.Email, p.Phone, p.Address, p.ScrapTypes, p.EstimatedQuantity, p.AdditionalNotes,
	).Scan(&p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert pickup request: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListPickupRequests(ctx context.Context) ([]*models.PickupRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, email, phone, address, scrap_types, estimated_quantity, additional_notes, created_at
		FROM pickup_requests
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list pickup requests: %w", err)
	}
	return collect(rows, scanPickupRequest)
}

func scanPickupRequest(row pgx.Row) (*models.PickupRequest, error) {
	var p models.PickupRequest
	if err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Address, &p.ScrapTypes,
		&p.EstimatedQuantity, &p.AdditionalNotes, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

/* ---------- Contact messages ---------- */

func (s *PostgresStore) CreateContactMessage(ctx context.Context, in models.NewContactMessage) (*models.ContactMessage, error) {
	c := in.Build(uuid.New(), zeroTime)
	err := s.db.QueryRow(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, subject, message)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, c.ID, c.Name, c.Email, c.Phone, c.Subject, c.Message).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert contact message: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListContactMessages(ctx context.Context) ([]*models.ContactMessage, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, email, phone, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return collect(rows, scanContactMessage)
}

func scanContactMessage(row pgx.Row) (*models.ContactMessage, error) {
	var c models.ContactMessage
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

/* ---------- Career applications ---------- */

func (s *PostgresStore) CreateCareerApplication(ctx context.Context, in models.NewCareerApplication) (*models.CareerApplication, error) {
	a := in.Build(uuid.New(), zeroTime)
	err := s.db.QueryRow(ctx, `
		INSERT INTO career_applications (
			id, name, email, phone, position, cover_letter, cv_file_name, resume_storage_path, resume_url
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at
	`, a.ID, a.Name, a.Email, a.Phone, a.Position, a.CoverLetter, a.CVFileName, a.ResumeStoragePath, a.ResumeURL,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert career application: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListCareerApplications(ctx context.Context) ([]*models.CareerApplication, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, email, phone, position, cover_letter, cv_file_name,
		       resume_storage_path, resume_url, created_at
		FROM career_applications
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list career applications: %w", err)
	}
	return collect(rows, scanCareerApplication)
}

func scanCareerApplication(row pgx.Row) (*models.CareerApplication, error) {
	var a models.CareerApplication
	if err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.Position, &a.CoverLetter, &a.CVFileName,
		&a.ResumeStoragePath, &a.ResumeURL, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

/* ---------- Newsletter ---------- */

// CreateNewsletterSubscription looks the email up first and only inserts when
// it is new. A concurrent insert of the same email is caught by the unique
// index on lower(email) and resolved by reading the winner's row.
func (s *PostgresStore) CreateNewsletterSubscription(ctx context.Context, in models.NewNewsletterSubscription) (*models.NewsletterSubscription, error) {
	existing, err := s.findSubscriptionByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	sub := in.Build(uuid.New(), zeroTime)
	err = s.db.QueryRow(ctx, `
		INSERT INTO newsletter_subscriptions (id, email)
		VALUES ($1,$2)
		ON CONFLICT DO NOTHING
		RETURNING created_at
	`, sub.ID, sub.Email).Scan(&sub.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		winner, err := s.findSubscriptionByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			return nil, fmt.Errorf("newsletter subscription for %q vanished after conflict", in.Email)
		}
		return winner, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insert newsletter subscription: %w", err)
	}
	return sub, nil
}

func (s *PostgresStore) ListNewsletterSubscriptions(ctx context.Context) ([]*models.NewsletterSubscription, error) {
	rows, err := s.db.Query(ctx, baseSelectSubscription()+" ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list newsletter subscriptions: %w", err)
	}
	return collect(rows, scanSubscription)
}

func (s *PostgresStore) findSubscriptionByEmail(ctx context.Context, email string) (*models.NewsletterSubscription, error) {
	row := s.db.QueryRow(ctx, baseSelectSubscription()+" WHERE lower(email) = lower($1)", email)
	sub, err := scanSubscription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup newsletter subscription: %w", err)
	}
	return sub, nil
}

func baseSelectSubscription() string {
	return `
		SELECT id, email, created_at
		FROM newsletter_subscriptions`
}

func scanSubscription(row pgx.Row) (*models.NewsletterSubscription, error) {
	var n models.NewsletterSubscription
	if err := row.Scan(&n.ID, &n.Email, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

/* ---------- internals ---------- */

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
