package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordersAndHandler(t *testing.T) {
	before := testutil.ToFloat64(SubmissionsTotal.WithLabelValues("contact_message", "created"))
	RecordSubmission("contact_message", "created")
	assert.Equal(t, before+1, testutil.ToFloat64(SubmissionsTotal.WithLabelValues("contact_message", "created")))

	SetDurableActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(StorageDurableActive))
	SetDurableActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(StorageDurableActive))

	ObserveHTTPRequest("POST", "/api/contact-messages", "201", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "http_request_duration_seconds_bucket"))
	assert.True(t, strings.Contains(body, "intake_submissions_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
