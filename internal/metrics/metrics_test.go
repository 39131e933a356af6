package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.IncTenantCreated()
	m.IncTenantCreated()
	m.IncAccessDenied("get")
	m.IncReconciled("activated")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TenantsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessDenied.WithLabelValues("get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reconciled.WithLabelValues("activated")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.IncTenantCreated()
	m.IncTenantDeleted()
	m.IncAccessDenied("delete")
	m.IncReconciled("reaped")
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncTenantCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "authserver_tenants_created_total 1"))
}
