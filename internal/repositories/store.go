package repositories

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/kabadi/intake-service/internal/models"
)

// Store is the storage abstraction shared by every submission kind. Records
// are create-once; there is no update or delete.
type Store interface {
	CreatePickupRequest(ctx context.Context, in models.NewPickupRequest) (*models.PickupRequest, error)
	ListPickupRequests(ctx context.Context) ([]*models.PickupRequest, error)

	CreateContactMessage(ctx context.Context, in models.NewContactMessage) (*models.ContactMessage, error)
	ListContactMessages(ctx context.Context) ([]*models.ContactMessage, error)

	CreateCareerApplication(ctx context.Context, in models.NewCareerApplication) (*models.CareerApplication, error)
	ListCareerApplications(ctx context.Context) ([]*models.CareerApplication, error)

	// CreateNewsletterSubscription returns the existing record when the email
	// (case-insensitive) is already subscribed.
	CreateNewsletterSubscription(ctx context.Context, in models.NewNewsletterSubscription) (*models.NewsletterSubscription, error)
	ListNewsletterSubscriptions(ctx context.Context) ([]*models.NewsletterSubscription, error)
}

// DB is the subset of *pgxpool.Pool the Postgres store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
