package dtos

type HealthResponse struct {
	OK bool `json:"ok"`
}

// TestNotificationsResponse answers the non-production sample-notification trigger.
type TestNotificationsResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
