package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabadi/intake-service/internal/models"
	"github.com/kabadi/intake-service/internal/utils"
)

// fakeRow scans scripted values into the destinations, or returns err.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		if i >= len(r.values) {
			break
		}
		switch p := d.(type) {
		case *time.Time:
			*p = r.values[i].(time.Time)
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *string:
			*p = r.values[i].(string)
		}
	}
	return nil
}

type queryCall struct {
	sql  string
	args []any
}

// fakeDB answers QueryRow calls from a queue of rows and records every call.
type fakeDB struct {
	rows  []fakeRow
	calls []queryCall
}

func (f *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return nil, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not scripted")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.calls = append(f.calls, queryCall{sql: sql, args: args})
	if len(f.rows) == 0 {
		return fakeRow{err: errors.New("unexpected query")}
	}
	r := f.rows[0]
	f.rows = f.rows[1:]
	return r
}

func TestPostgresStore_CreatePickupRequest(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	db := &fakeDB{rows: []fakeRow{{values: []any{created}}}}
	s := NewPostgresStore(db)

	p, err := s.CreatePickupRequest(context.Background(), models.NewPickupRequest{
		Name:       "Asha Rao",
		Email:      "asha@example.com",
		Phone:      utils.Ptr("+91 98765 43210"),
		Address:    "12 MG Road, Bengaluru 560001",
		ScrapTypes: []string{"Plastic", "Metal"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, created, p.CreatedAt)
	assert.Nil(t, p.EstimatedQuantity)

	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, "INSERT INTO pickup_requests")
	assert.Equal(t, p.ID, db.calls[0].args[0])
	assert.Equal(t, []string{"Plastic", "Metal"}, db.calls[0].args[5])
}

func TestPostgresStore_CreateContactMessageWrapsError(t *testing.T) {
	boom := errors.New("broken pipe")
	db := &fakeDB{rows: []fakeRow{{err: boom}}}

	_, err := NewPostgresStore(db).CreateContactMessage(context.Background(), models.NewContactMessage{
		Name: "Ravi", Email: "ravi@example.com", Phone: "9876543210", Subject: "Bulk", Message: "Hello",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "insert contact message")
}

func TestPostgresStore_NewsletterReturnsExisting(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	db := &fakeDB{rows: []fakeRow{{values: []any{id, "Priya@Example.com", created}}}}

	sub, err := NewPostgresStore(db).CreateNewsletterSubscription(context.Background(),
		models.NewNewsletterSubscription{Email: "priya@example.com"})
	require.NoError(t, err)
	assert.Equal(t, id, sub.ID)
	assert.Equal(t, "Priya@Example.com", sub.Email)
	require.Len(t, db.calls, 1, "no insert when the email already exists")
	assert.Contains(t, db.calls[0].sql, "lower(email) = lower($1)")
}

func TestPostgresStore_NewsletterInsertsNew(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	db := &fakeDB{rows: []fakeRow{
		{err: pgx.ErrNoRows},
		{values: []any{created}},
	}}

	sub, err := NewPostgresStore(db).CreateNewsletterSubscription(context.Background(),
		models.NewNewsletterSubscription{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", sub.Email)
	assert.Equal(t, created, sub.CreatedAt)
	require.Len(t, db.calls, 2)
	assert.Contains(t, db.calls[1].sql, "ON CONFLICT DO NOTHING")
}

func TestPostgresStore_NewsletterConflictReadsWinner(t *testing.T) {
	winner := uuid.New()
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	db := &fakeDB{rows: []fakeRow{
		{err: pgx.ErrNoRows},
		{err: pgx.ErrNoRows}, // insert lost the race
		{values: []any{winner, "race@example.com", created}},
	}}

	sub, err := NewPostgresStore(db).CreateNewsletterSubscription(context.Background(),
		models.NewNewsletterSubscription{Email: "RACE@example.com"})
	require.NoError(t, err)
	assert.Equal(t, winner, sub.ID)
	assert.Len(t, db.calls, 3)
}

func TestPostgresStore_ListErrorWrapped(t *testing.T) {
	_, err := NewPostgresStore(&fakeDB{}).ListPickupRequests(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list pickup requests")
}

func TestPgxMigrateURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "postgres://u:p@h:5432/db", want: "pgx://u:p@h:5432/db"},
		{in: "postgresql://u:p@h/db?sslmode=require", want: "pgx://u:p@h/db?sslmode=require"},
		{in: "pgx://h/db", want: "pgx://h/db"},
	}
	for _, tc := range cases {
		got, err := pgxMigrateURL(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	_, err := pgxMigrateURL("mysql://h/db")
	assert.Error(t, err)
}
