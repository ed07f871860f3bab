package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAreExposed(t *testing.T) {
	before := testutil.ToFloat64(BulletinRenders.WithLabelValues("simple", "ok"))
	BulletinRenders.WithLabelValues("simple", "ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(BulletinRenders.WithLabelValues("simple", "ok")))

	MarksRecorded.WithLabelValues("single").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "academy_bulletin_renders_total")
	assert.Contains(t, rec.Body.String(), "academy_marks_recorded_total")
}
