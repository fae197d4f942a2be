//go:build unit
// +build unit

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/invoices/:id", func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	for _, path := range []string{"/invoices/1", "/invoices/2", "/missing"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/invoices/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_Cron(t *testing.T) {
	m := New()

	m.TaskRun("cleanup_logs", "success")
	m.TaskRun("cleanup_logs", "success")
	m.TaskRun("apply_credits", "error")
	m.LockContention()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.taskRuns.WithLabelValues("cleanup_logs", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.taskRuns.WithLabelValues("apply_credits", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lockContention))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.LockContention()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "billing_cron_lock_contention_total 1")
}
