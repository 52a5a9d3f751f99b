package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/kabadi/intake-service/internal/config"
	"github.com/kabadi/intake-service/internal/repositories"
	"github.com/kabadi/intake-service/internal/services"
	"github.com/kabadi/intake-service/internal/utils"
)

const (
	maxRetries     = 3
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond

	notifyWorkers   = 4
	notifyQueueSize = 256
)

var (
	errNoDatabase      = errors.New("no database configured")
	errStorageDegraded = errors.New("storage degraded to memory")
)

// App struct holds references to config, the DB pool & services.
type App struct {
	Config      *config.Config
	DB          *pgxpool.Pool
	Store       *repositories.HybridStore
	Submissions *services.SubmissionService
	Dispatcher  *services.Dispatcher
}

// NewApp wires storage, object storage and notifications. Nothing here is
// fatal: a missing or unreachable database starts the store degraded, and
// missing mail or bucket settings turn those features into logged skips.
func NewApp(ctx context.Context, cfg *config.Config) *App {
	utils.Logger.Info("Initializing intake-service App")

	a := &App{Config: cfg}

	var durable repositories.Store
	if cfg.DBUrl == "" {
		utils.Logger.Warn("[storage] DATABASE_URL not set; using in-memory storage")
	} else if pool, err := connectWithRetry(cfg.DBUrl); err != nil {
		utils.Logger.WithError(err).Warn("[storage] Database unavailable at startup; using in-memory storage")
	} else if err := repositories.Migrate(cfg.DBUrl); err != nil {
		utils.Logger.WithError(err).Warn("[storage] Schema migration failed; using in-memory storage")
		pool.Close()
	} else {
		a.DB = pool
		durable = repositories.NewPostgresStore(pool)
	}
	a.Store = repositories.NewHybridStore(durable, repositories.NewMemoryStore(), repositories.NewBackendState(durable != nil))

	a.Submissions = services.NewSubmissionService(a.Store, newResumeStore(ctx, cfg))

	notifier := services.NewEmailNotifier(newMailer(cfg), cfg.BrandName, cfg.NotifyFrom, cfg.NotifyTo)
	if !notifier.Configured() {
		utils.Logger.Warn("[mailer] Mail transport, NOTIFY_FROM or NOTIFY_TO not configured; notifications will be skipped")
	}
	a.Dispatcher = services.NewDispatcher(notifier, services.DispatcherOptions{
		Workers:   notifyWorkers,
		QueueSize: notifyQueueSize,
		Timeout:   cfg.NotifyTimeout,
	})

	return a
}

// Ping checks the database for readiness probes. A store that has fallen
// back to memory is reported as not ready even if the database recovered.
func (a *App) Ping(ctx context.Context) error {
	if a.DB == nil {
		return errNoDatabase
	}
	if !a.Store.State().IsDurableActive() {
		return errStorageDegraded
	}
	return a.DB.Ping(ctx)
}

// Close drains pending notifications, then releases the pool.
func (a *App) Close() {
	if a.Dispatcher != nil {
		a.Dispatcher.Close()
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("intake-service DB connection closed.")
	}
}

// newMailer prefers SendGrid when its key is set, then a complete SMTP setup.
func newMailer(cfg *config.Config) services.Mailer {
	if cfg.SendgridAPIKey != "" {
		utils.Logger.Info("[mailer] Using SendGrid transport")
		return services.NewSendGridMailer(cfg.SendgridAPIKey, cfg.LDFlag_SendgridSandboxMode)
	}
	smtpCfg := services.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
	}
	if smtpCfg.Configured() {
		utils.Logger.Info("[mailer] Using SMTP transport")
		return services.NewSMTPMailer(smtpCfg)
	}
	return nil
}

func newResumeStore(ctx context.Context, cfg *config.Config) services.ResumeStore {
	s3Cfg := services.S3Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	}
	if !s3Cfg.Configured() {
		utils.Logger.Warn("[storage] Object storage not configured; resumes will not be stored")
		return nil
	}
	store, err := services.NewS3ResumeStore(ctx, s3Cfg)
	if err != nil {
		utils.Logger.WithError(err).Warn("[storage] Object storage setup failed; resumes will not be stored")
		return nil
	}
	return store
}

func connectWithRetry(databaseURL string) (*pgxpool.Pool, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, databaseURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("intake-service connected to DB on attempt %d", i)
			return dbPool, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)
		if i < maxRetries {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
