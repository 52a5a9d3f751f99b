package services

import (
	"context"
	"path/filepath"

	"github.com/kabadi/intake-service/internal/dtos"
	"github.com/kabadi/intake-service/internal/metrics"
	"github.com/kabadi/intake-service/internal/models"
	"github.com/kabadi/intake-service/internal/repositories"
	"github.com/kabadi/intake-service/internal/utils"
)

// SubmissionService persists form submissions. It is the only place that
// talks to the store and to object storage.
type SubmissionService struct {
	store   repositories.Store
	resumes ResumeStore
}

// NewSubmissionService wires the store; resumes may be nil when object
// storage is not configured.
func NewSubmissionService(store repositories.Store, resumes ResumeStore) *SubmissionService {
	return &SubmissionService{store: store, resumes: resumes}
}

func (s *SubmissionService) CreatePickupRequest(ctx context.Context, in *dtos.PickupRequestInput) (*models.PickupRequest, error) {
	return s.store.CreatePickupRequest(ctx, in.ToModel())
}

func (s *SubmissionService) CreateContactMessage(ctx context.Context, in *dtos.ContactMessageInput) (*models.ContactMessage, error) {
	return s.store.CreateContactMessage(ctx, in.ToModel())
}

func (s *SubmissionService) CreateNewsletterSubscription(ctx context.Context, in *dtos.NewsletterSubscriptionInput) (*models.NewsletterSubscription, error) {
	return s.store.CreateNewsletterSubscription(ctx, in.ToModel())
}

// CreateCareerApplication stores the resume first when one was attached. An
// upload problem never fails the application; it is saved without resume
// metadata instead.
func (s *SubmissionService) CreateCareerApplication(ctx context.Context, in *dtos.CareerApplicationInput) (*models.CareerApplication, error) {
	app := in.ToModel()

	if in.Resume != nil {
		if app.CVFileName == nil {
			app.CVFileName = utils.Ptr(filepath.Base(in.Resume.FileName))
		}
		s.attachResume(ctx, &app, in.Resume)
	}

	return s.store.CreateCareerApplication(ctx, app)
}

func (s *SubmissionService) attachResume(ctx context.Context, app *models.NewCareerApplication, f *dtos.ResumeFile) {
	if s.resumes == nil {
		utils.Logger.WithField("file", f.FileName).Warn("[storage] Object storage not configured; resume not stored")
		metrics.RecordResumeUpload("skipped_not_configured")
		return
	}
	stored, err := s.resumes.Upload(ctx, f)
	if err != nil {
		utils.Logger.WithError(err).WithField("file", f.FileName).Warn("[storage] Resume upload failed; saving application without it")
		return
	}
	app.ResumeStoragePath = &stored.StoragePath
	app.ResumeURL = stored.URL
}

func (s *SubmissionService) ListPickupRequests(ctx context.Context) ([]*models.PickupRequest, error) {
	return s.store.ListPickupRequests(ctx)
}

func (s *SubmissionService) ListContactMessages(ctx context.Context) ([]*models.ContactMessage, error) {
	return s.store.ListContactMessages(ctx)
}

func (s *SubmissionService) ListCareerApplications(ctx context.Context) ([]*models.CareerApplication, error) {
	return s.store.ListCareerApplications(ctx)
}

func (s *SubmissionService) ListNewsletterSubscriptions(ctx context.Context) ([]*models.NewsletterSubscription, error) {
	return s.store.ListNewsletterSubscriptions(ctx)
}
