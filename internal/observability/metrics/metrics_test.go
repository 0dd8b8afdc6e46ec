package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	if c := NewCollector(reg); c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

func TestRecordLogin_CountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(ResultSuccess)
	c.RecordLogin(ResultSuccess)
	c.RecordLogin(ResultError)

	if got := testutil.ToFloat64(c.logins.WithLabelValues(ResultSuccess)); got != 2 {
		t.Errorf("success logins = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.logins.WithLabelValues(ResultError)); got != 1 {
		t.Errorf("failed logins = %v, want 1", got)
	}
}

func TestRecordGuardDecision_LabelsAdminFlag(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordGuardDecision("redirect_login", true)
	c.RecordGuardDecision("allow", false)

	if got := testutil.ToFloat64(c.guard.WithLabelValues("redirect_login", "true")); got != 1 {
		t.Errorf("redirect_login/true = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.guard.WithLabelValues("allow", "false")); got != 1 {
		t.Errorf("allow/false = %v, want 1", got)
	}
}

func TestRecordBackendRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBackendRequest("projects.list", http.StatusOK, 120*time.Millisecond)
	c.RecordBackendRequest("projects.list", 0, time.Second)
	c.RecordBackendUnauthorized("projects.list")

	if got := testutil.ToFloat64(c.backendStatus.WithLabelValues("projects.list", "200")); got != 1 {
		t.Errorf("status 200 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.backendStatus.WithLabelValues("projects.list", "0")); got != 1 {
		t.Errorf("status 0 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.backend401.WithLabelValues("projects.list")); got != 1 {
		t.Errorf("unauthorized = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.backendLatency); n != 1 {
		t.Errorf("latency series = %d, want 1", n)
	}
}

func TestSessionsAndHydrates(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHydrate(HydrateCleared)
	c.SetActiveSessions(3)

	if got := testutil.ToFloat64(c.hydrates.WithLabelValues(HydrateCleared)); got != 1 {
		t.Errorf("cleared hydrates = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.sessions); got != 3 {
		t.Errorf("active sessions = %v, want 3", got)
	}
}

func TestOrNop(t *testing.T) {
	if _, ok := OrNop(nil).(Nop); !ok {
		t.Error("OrNop(nil) should return Nop")
	}
	c := NewCollector(prometheus.NewRegistry())
	if OrNop(c) != Recorder(c) {
		t.Error("OrNop should return the given recorder")
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin(ResultSuccess)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "folio_login_attempts_total") {
		t.Error("response does not contain folio_login_attempts_total")
	}
}
