package routes

const (
	// Probes
	Live   = "/api/live"
	Ready  = "/api/ready"
	Health = "/api/health"

	Metrics = "/metrics"

	// Submission endpoints
	APIPrefix               = "/api"
	PickupRequests          = "/api/pickup-requests"
	ContactMessages         = "/api/contact-messages"
	CareerApplications      = "/api/career-applications"
	NewsletterSubscriptions = "/api/newsletter-subscriptions"

	// Non-production only
	TestNotifications = "/api/test-notifications"
)
