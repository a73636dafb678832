package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	h := c.Instrument("/api/status", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("/api/status", "200")); got != 1 {
		t.Fatalf("satwatch_http_requests_total = %v, want 1", got)
	}
}

func TestInstrumentRecordsErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	h := c.Instrument("/api/survey", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/survey", nil))

	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("/api/survey", "500")); got != 1 {
		t.Fatalf("satwatch_http_requests_total error label = %v, want 1", got)
	}
}

func TestNewCollectorIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewCollector(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	// Second registration against the same registry must reuse, not fail.
	if _, err := NewCollector(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
}

func TestHandlerExposesGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.SurveyVisible.Set(16)
	c.PassesUpcoming.Set(42)
	c.SetPlannerState("SURVEYING", []string{"IDLE", "SURVEYING", "WAITING_FOR_PASS"})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		"satwatch_survey_visible_targets 16",
		"satwatch_passes_upcoming 42",
		`satwatch_planner_state{state="SURVEYING"} 1`,
		`satwatch_planner_state{state="IDLE"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
