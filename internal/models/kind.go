package models

// Kind names a submission type in logs, metrics and notifications.
type Kind string

const (
	KindPickupRequest     Kind = "pickup_request"
	KindContactMessage    Kind = "contact_message"
	KindCareerApplication Kind = "career_application"
	KindNewsletter        Kind = "newsletter_subscription"
)
