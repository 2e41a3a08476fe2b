package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dashbored/internal/core"
)

func TestObserver(t *testing.T) {
	m := New(nil)

	m.ObserveLoad("uploads", core.OutcomeOK)
	m.ObserveLoad("uploads", core.OutcomeOK)
	m.ObserveLoad("example", core.OutcomeError)
	m.ObserveUpload(core.OutcomeBusy)
	m.ObserveRender(core.ModeChart, core.ResultValidation)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.loads.WithLabelValues("uploads", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("example", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("busy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("chart", "validation")))
}

func TestObserveHTTP(t *testing.T) {
	m := New(nil)

	m.ObserveHTTP("GET", "/api/view", 200, 15*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/view", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))

	done := m.TrackInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestHandler(t *testing.T) {
	limiter := core.NewUploadLimiter(3, time.Second)
	m := New(limiter.Status)
	m.ObserveUpload(core.OutcomeOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `dashbored_uploads_total{outcome="ok"} 1`)
	assert.Contains(t, out, "dashbored_upload_slots_max 3")
	assert.True(t, strings.Contains(out, "go_goroutines"), "go collector registered")
}
