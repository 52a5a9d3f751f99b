package controllers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kabadi/intake-service/internal/dtos"
	"github.com/kabadi/intake-service/internal/models"
	"github.com/kabadi/intake-service/internal/services"
	"github.com/kabadi/intake-service/internal/utils"
)

const (
	resumeField = "resume"
	// Room for the text fields and multipart framing on top of the file.
	multipartOverheadBytes = 512 << 10
)

type SubmissionController struct {
	svc        *services.SubmissionService
	dispatcher NotificationDispatcher
	appName    string
}

func NewSubmissionController(svc *services.SubmissionService, d NotificationDispatcher, appName string) *SubmissionController {
	return &SubmissionController{svc: svc, dispatcher: d, appName: appName}
}

// -----------------------------------------------------------------------------
// POST /api/pickup-requests
// -----------------------------------------------------------------------------
func (c *SubmissionController) CreatePickupRequest(w http.ResponseWriter, r *http.Request) {
	handleSubmission(w, r, c.dispatcher, submission[*dtos.PickupRequestInput, *models.PickupRequest]{
		kind:       models.KindPickupRequest,
		failureMsg: "Failed to create pickup request",
		decode:     decodeJSON[dtos.PickupRequestInput],
		persist:    c.svc.CreatePickupRequest,
		notify: func(p *models.PickupRequest) services.Notification {
			return services.NewPickupNotification(c.appName, p)
		},
	})
}

// -----------------------------------------------------------------------------
// POST /api/contact-messages
// -----------------------------------------------------------------------------
func (c *SubmissionController) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	handleSubmission(w, r, c.dispatcher, submission[*dtos.ContactMessageInput, *models.ContactMessage]{
		kind:       models.KindContactMessage,
		failureMsg: "Failed to send message",
		decode:     decodeJSON[dtos.ContactMessageInput],
		persist:    c.svc.CreateContactMessage,
		notify: func(m *models.ContactMessage) services.Notification {
			return services.NewContactNotification(c.appName, m)
		},
	})
}

// -----------------------------------------------------------------------------
// POST /api/career-applications (multipart)
// -----------------------------------------------------------------------------
func (c *SubmissionController) CreateCareerApplication(w http.ResponseWriter, r *http.Request) {
	handleSubmission(w, r, c.dispatcher, submission[*dtos.CareerApplicationInput, *models.CareerApplication]{
		kind:       models.KindCareerApplication,
		failureMsg: "Failed to submit application",
		decode:     decodeCareerForm,
		persist:    c.svc.CreateCareerApplication,
		notify: func(a *models.CareerApplication) services.Notification {
			return services.NewCareerNotification(c.appName, a)
		},
	})
}

// -----------------------------------------------------------------------------
// POST /api/newsletter-subscriptions
// -----------------------------------------------------------------------------
func (c *SubmissionController) CreateNewsletterSubscription(w http.ResponseWriter, r *http.Request) {
	handleSubmission(w, r, c.dispatcher, submission[*dtos.NewsletterSubscriptionInput, *models.NewsletterSubscription]{
		kind:       models.KindNewsletter,
		failureMsg: "Failed to subscribe",
		decode:     decodeJSON[dtos.NewsletterSubscriptionInput],
		persist:    c.svc.CreateNewsletterSubscription,
		notify: func(n *models.NewsletterSubscription) services.Notification {
			return services.NewNewsletterNotification(c.appName, n)
		},
	})
}

// -----------------------------------------------------------------------------
// GET listings
// -----------------------------------------------------------------------------
func (c *SubmissionController) ListPickupRequests(w http.ResponseWriter, r *http.Request) {
	handleList(w, r, "Failed to fetch pickup requests", c.svc.ListPickupRequests)
}

func (c *SubmissionController) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	handleList(w, r, "Failed to fetch messages", c.svc.ListContactMessages)
}

func (c *SubmissionController) ListCareerApplications(w http.ResponseWriter, r *http.Request) {
	handleList(w, r, "Failed to fetch applications", c.svc.ListCareerApplications)
}

func (c *SubmissionController) ListNewsletterSubscriptions(w http.ResponseWriter, r *http.Request) {
	handleList(w, r, "Failed to fetch subscriptions", c.svc.ListNewsletterSubscriptions)
}

// -----------------------------------------------------------------------------
// POST /api/test-notifications (non-production)
// -----------------------------------------------------------------------------

// TestNotifications seeds one record of each kind and queues their
// notifications so a mail setup can be checked end to end.
func (c *SubmissionController) TestNotifications(w http.ResponseWriter, r *http.Request) {
	notes, err := c.seedSamples(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal,
			"Failed to enqueue test notifications", nil, err)
		return
	}
	for _, n := range notes {
		if err := c.dispatcher.Dispatch(n); err != nil {
			utils.Logger.WithError(err).WithField("kind", n.Kind).Warn("[mailer] Failed to trigger test notification")
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.TestNotificationsResponse{
		OK:      true,
		Message: "Test notifications enqueued (check mail inbox and server logs).",
	})
}

func (c *SubmissionController) seedSamples(ctx context.Context) ([]services.Notification, error) {
	contact, err := c.svc.CreateContactMessage(ctx, &dtos.ContactMessageInput{
		Name: "Test User", Email: "test@example.com", Phone: "+1 555 0100",
		Subject: "Test Contact", Message: "This is a test contact message from the test endpoint.",
	})
	if err != nil {
		return nil, err
	}
	pickup, err := c.svc.CreatePickupRequest(ctx, &dtos.PickupRequestInput{
		Name: "Pickup Tester", Email: "pickup@test.com", Phone: "+1 555 0101",
		Address: "123 Green Street, Eco City", ScrapTypes: []string{"Paper", "Plastic"},
		EstimatedQuantity: "25 kg", AdditionalNotes: "Leave at gate.",
	})
	if err != nil {
		return nil, err
	}
	career, err := c.svc.CreateCareerApplication(ctx, &dtos.CareerApplicationInput{
		Name: "Applicant Test", Email: "applicant@test.com", Phone: "+1 555 0102",
		Position: "Recycling Specialist", CoverLetter: "I care deeply about sustainability and process.",
		CVFileName: "resume.pdf",
	})
	if err != nil {
		return nil, err
	}
	sub, err := c.svc.CreateNewsletterSubscription(ctx, &dtos.NewsletterSubscriptionInput{Email: "subscriber@test.com"})
	if err != nil {
		return nil, err
	}
	return []services.Notification{
		services.NewContactNotification(c.appName, contact),
		services.NewPickupNotification(c.appName, pickup),
		services.NewCareerNotification(c.appName, career),
		services.NewNewsletterNotification(c.appName, sub),
	}, nil
}

// -----------------------------------------------------------------------------
// multipart decoding
// -----------------------------------------------------------------------------

func decodeCareerForm(w http.ResponseWriter, r *http.Request) (*dtos.CareerApplicationInput, error) {
	limit := int64(services.MaxResumeBytes + multipartOverheadBytes)
	if r.ContentLength > limit {
		return nil, resumeTooLarge()
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, resumeTooLarge()
		}
		return nil, errors.Join(errInvalidPayload, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	in := &dtos.CareerApplicationInput{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		Position:    r.FormValue("position"),
		CoverLetter: r.FormValue("coverLetter"),
		CVFileName:  r.FormValue("cvFileName"),
		BotField:    r.FormValue("botField"),
	}

	file, header, err := r.FormFile(resumeField)
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return nil, errors.Join(errInvalidPayload, err)
	}
	defer file.Close()

	resume, err := readResume(file, header)
	if err != nil {
		return nil, err
	}
	in.Resume = resume
	return in, nil
}

func resumeTooLarge() error {
	return dtos.NewFieldError(resumeField, "max_size", "file must be 5MB or smaller")
}

func readResume(file multipart.File, header *multipart.FileHeader) (*dtos.ResumeFile, error) {
	contentType := header.Header.Get("Content-Type")
	switch err := services.CheckResume(contentType, header.Size); {
	case errors.Is(err, utils.ErrUnsupportedFileType):
		return nil, dtos.NewFieldError(resumeField, "mime_type", "file must be a PDF, DOC, or DOCX document")
	case errors.Is(err, utils.ErrFileTooLarge):
		return nil, resumeTooLarge()
	case err != nil:
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(file, services.MaxResumeBytes+1))
	if err != nil {
		return nil, errors.Join(errInvalidPayload, err)
	}
	if len(data) > services.MaxResumeBytes {
		return nil, resumeTooLarge()
	}
	return &dtos.ResumeFile{FileName: header.Filename, ContentType: contentType, Data: data}, nil
}
