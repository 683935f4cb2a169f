package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/courses", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/courses", "GET", 200, 20*time.Millisecond)
	m.RecordError("/courses/:id", "PATCH", "FORBIDDEN")
	m.RecordPolicyDenial("courses", "update", "FORBIDDEN")
	m.RecordCourseView()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/courses", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/courses/:id", "PATCH", "FORBIDDEN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.policyDenials.WithLabelValues("courses", "update", "FORBIDDEN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.courseViews))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordPolicyDenial("users", "list", "X")
		m.RecordCourseView()
	})
}
