package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/kabadi/intake-service/internal/metrics"
	"github.com/kabadi/intake-service/internal/models"
	"github.com/kabadi/intake-service/internal/utils"
)

// Outcome is the result of a delivery attempt that did not error.
type Outcome string

const (
	OutcomeSent                 Outcome = "sent"
	OutcomeSkippedNotConfigured Outcome = "skipped_not_configured"

	outcomeFailed  = "failed"
	outcomeDropped = "dropped"
)

// Notification is a rendered staff alert for one submission.
type Notification struct {
	Kind    models.Kind
	Subject string
	Text    string
	HTML    string
}

// Notifier delivers a Notification to the staff inbox.
type Notifier interface {
	Notify(ctx context.Context, n Notification) (Outcome, error)
}

// ------------------------------------------------------------------
// Email notifier
// ------------------------------------------------------------------

type EmailNotifier struct {
	mailer   Mailer
	fromName string
	from     string
	to       []string
}

// NewEmailNotifier returns a notifier over mailer. A nil mailer, or missing
// sender/recipients, makes every Notify a skip.
func NewEmailNotifier(mailer Mailer, fromName, from string, to []string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, fromName: fromName, from: from, to: to}
}

func (e *EmailNotifier) Configured() bool {
	return e.mailer != nil && e.from != "" && len(e.to) > 0
}

func (e *EmailNotifier) Notify(ctx context.Context, n Notification) (Outcome, error) {
	if !e.Configured() {
		utils.Logger.WithField("kind", n.Kind).Warn("[mailer] Mail transport not configured; skipping email send")
		return OutcomeSkippedNotConfigured, nil
	}
	err := e.mailer.Send(ctx, Email{
		FromName: e.fromName,
		From:     e.from,
		To:       e.to,
		Subject:  n.Subject,
		Text:     n.Text,
		HTML:     n.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("%s delivery: %w", e.mailer.Name(), err)
	}
	return OutcomeSent, nil
}

// ------------------------------------------------------------------
// Notification builders
// ------------------------------------------------------------------

type field struct {
	label string
	value string
}

type notificationBody struct {
	title  string
	fields []field
	block  *field
}

func (b notificationBody) render(at time.Time) (text, htmlBody string) {
	var t, li, blk strings.Builder
	t.WriteString(b.title + "\n\n")
	for _, f := range b.fields {
		fmt.Fprintf(&t, "%s: %s\n", f.label, f.value)
		fmt.Fprintf(&li, notificationHTMLField, html.EscapeString(f.label), html.EscapeString(f.value))
	}
	if b.block != nil {
		fmt.Fprintf(&t, "\n%s:\n%s\n", b.block.label, b.block.value)
		fmt.Fprintf(&blk, notificationHTMLBlock, html.EscapeString(b.block.label), html.EscapeString(b.block.value))
	}
	stamp := at.UTC().Format(time.RFC1123Z)
	htmlBody = fmt.Sprintf(notificationHTMLLayout, html.EscapeString(b.title), li.String(), blk.String(), stamp)
	return t.String(), htmlBody
}

func orDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func build(kind models.Kind, subject string, body notificationBody, at time.Time) Notification {
	text, htmlBody := body.render(at)
	return Notification{Kind: kind, Subject: subject, Text: text, HTML: htmlBody}
}

func NewPickupNotification(appName string, p *models.PickupRequest) Notification {
	return build(models.KindPickupRequest,
		fmt.Sprintf("[%s] New pickup request from %s", appName, p.Name),
		notificationBody{
			title: "New Pickup Request",
			fields: []field{
				{"Name", p.Name},
				{"Email", p.Email},
				{"Phone", orDash(p.Phone)},
				{"Address", p.Address},
				{"Scrap types", strings.Join(p.ScrapTypes, ", ")},
				{"Estimated quantity", orDash(p.EstimatedQuantity)},
			},
			block: &field{"Additional notes", orDash(p.AdditionalNotes)},
		}, p.CreatedAt)
}

func NewContactNotification(appName string, c *models.ContactMessage) Notification {
	return build(models.KindContactMessage,
		fmt.Sprintf("[%s] New contact message: %s", appName, c.Subject),
		notificationBody{
			title: "New Contact Message",
			fields: []field{
				{"Name", c.Name},
				{"Email", c.Email},
				{"Phone", c.Phone},
				{"Subject", c.Subject},
			},
			block: &field{"Message", c.Message},
		}, c.CreatedAt)
}

func NewCareerNotification(appName string, a *models.CareerApplication) Notification {
	return build(models.KindCareerApplication,
		fmt.Sprintf("[%s] New career application: %s - %s", appName, a.Position, a.Name),
		notificationBody{
			title: "New Career Application",
			fields: []field{
				{"Name", a.Name},
				{"Email", a.Email},
				{"Phone", a.Phone},
				{"Position", a.Position},
				{"CV file", orDash(a.CVFileName)},
				{"Resume URL", orDash(a.ResumeURL)},
				{"Resume path", orDash(a.ResumeStoragePath)},
			},
			block: &field{"Cover letter", orDash(a.CoverLetter)},
		}, a.CreatedAt)
}

func NewNewsletterNotification(appName string, n *models.NewsletterSubscription) Notification {
	return build(models.KindNewsletter,
		fmt.Sprintf("[%s] New newsletter subscription: %s", appName, n.Email),
		notificationBody{
			title:  "New Newsletter Subscription",
			fields: []field{{"Email", n.Email}},
		}, n.CreatedAt)
}

// ------------------------------------------------------------------
// Dispatcher
// ------------------------------------------------------------------

var (
	ErrDispatcherClosed = errors.New("notification dispatcher closed")
	ErrQueueFull        = errors.New("notification queue full")
)

type DispatcherOptions struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Dispatcher delivers notifications in the background on a fixed pool of
// workers. Dispatch never blocks the caller; when the queue is full the
// notification is dropped.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	queue    chan Notification

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(n Notifier, opts DispatcherOptions) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	d := &Dispatcher{
		notifier: n,
		timeout:  opts.Timeout,
		queue:    make(chan Notification, opts.QueueSize),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Dispatch enqueues n and returns immediately.
func (d *Dispatcher) Dispatch(n Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- n:
		return nil
	default:
		utils.Logger.WithField("kind", n.Kind).Warn("[mailer] Notification queue full; dropping notification")
		metrics.RecordNotification(string(n.Kind), outcomeDropped)
		return ErrQueueFull
	}
}

// Close stops accepting notifications and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n Notification) {
	defer func() {
		if r := recover(); r != nil {
			utils.Logger.WithField("kind", n.Kind).Errorf("[mailer] Notifier panicked: %v", r)
			metrics.RecordNotification(string(n.Kind), outcomeFailed)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	outcome, err := d.notifier.Notify(ctx, n)
	if err != nil {
		utils.Logger.WithError(err).WithField("kind", n.Kind).Warn("[mailer] Failed to send notification")
		metrics.RecordNotification(string(n.Kind), outcomeFailed)
		return
	}
	metrics.RecordNotification(string(n.Kind), string(outcome))
}
