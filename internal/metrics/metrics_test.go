package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Created("ngos")
	m.Created("ngos")
	m.Deleted("admin_projects")
	m.ValidationFailed("ngos", "invalid_email")
	m.SetActiveSessions(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsCreated.WithLabelValues("ngos")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordsDeleted.WithLabelValues("admin_projects")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues("ngos", "invalid_email")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.activeSessions))
}

func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/items/1", "/items/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	n, err := testutil.GatherAndCount(reg, "ngo_portal_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	err = testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP ngo_portal_sessions_active Workspaces currently held in memory
# TYPE ngo_portal_sessions_active gauge
ngo_portal_sessions_active 0
`), "ngo_portal_sessions_active")
	assert.NoError(t, err)
}
