package app

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/elaichix/satellite-security/internal/config"
	"github.com/elaichix/satellite-security/internal/observability"
	"github.com/elaichix/satellite-security/internal/station"
	"github.com/elaichix/satellite-security/internal/ws"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	cfg.Data.Root = t.TempDir()

	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	a := &App{
		log:       log.New(io.Discard, "", 0),
		cfg:       cfg,
		startedAt: time.Now(),
		st: station.GroundStation{
			Name:         "Dhaka",
			LatitudeDeg:  23.8103,
			LongitudeDeg: 90.4125,
			ElevationM:   9,
		},
		wsHub:   ws.NewHub(),
		metrics: metrics,
		logs:    newLogRing(64),
	}
	a.state.Store("IDLE")
	return a
}

func TestHealthzPlain(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok\n" {
		t.Errorf("body = %q, want %q", body, "ok\n")
	}
}

func TestHealthzDetailedFlagsMissingTLECache(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	// Fresh data dir has no element-set cache yet, so the detailed report
	// must be unhealthy even though the data dir check passes.
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}

	var report struct {
		Healthy bool                      `json:"healthy"`
		Checks  map[string]map[string]any `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Healthy {
		t.Error("healthy = true, want false")
	}
	if ok, _ := report.Checks["data_dir"]["ok"].(bool); !ok {
		t.Error("data_dir check failed, want ok")
	}
	if ok, _ := report.Checks["tle_cache"]["ok"].(bool); ok {
		t.Error("tle_cache check passed, want failure")
	}
}

func TestStatusEndpoint(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	defer resp.Body.Close()

	var status struct {
		Name    string `json:"name"`
		State   string `json:"state"`
		Station struct {
			Name string  `json:"name"`
			Lat  float64 `json:"lat"`
		} `json:"station"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Name != "satwatch" {
		t.Errorf("name = %q, want satwatch", status.Name)
	}
	if status.State != "IDLE" {
		t.Errorf("state = %q, want IDLE", status.State)
	}
	if status.Station.Name != "Dhaka" {
		t.Errorf("station = %q, want Dhaka", status.Station.Name)
	}
}

func TestTargetsEndpoint(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/targets")
	if err != nil {
		t.Fatalf("GET /api/targets: %v", err)
	}
	defer resp.Body.Close()

	var targets struct {
		GEO []struct {
			Name      string  `json:"name"`
			Longitude float64 `json:"longitude"`
		} `json:"geo"`
		LEO []struct {
			Name    string `json:"name"`
			NoradID int    `json:"norad_id"`
		} `json:"leo"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&targets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(targets.GEO) == 0 {
		t.Error("geo catalog empty")
	}
	if len(targets.LEO) == 0 {
		t.Error("leo catalog empty")
	}
	for _, l := range targets.LEO {
		if l.NoradID <= 0 {
			t.Errorf("%s: norad_id = %d, want positive", l.Name, l.NoradID)
		}
	}
}

func TestSurveyEndpointCSV(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/survey?format=csv")
	if err != nil {
		t.Fatalf("GET /api/survey: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if !strings.HasPrefix(lines[0], "name,operator,longitude_deg") {
		t.Errorf("unexpected CSV header: %q", lines[0])
	}
	if len(lines) < 2 {
		t.Error("expected at least one visible GEO target from Dhaka")
	}
}

func TestSurveyEndpointTierFilter(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/survey?tier=high&sort=score")
	if err != nil {
		t.Fatalf("GET /api/survey: %v", err)
	}
	defer resp.Body.Close()

	var result struct {
		Targets []struct {
			Tier  string  `json:"tier"`
			Score float64 `json:"score"`
		} `json:"targets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for i, row := range result.Targets {
		if row.Tier != "HIGH" {
			t.Errorf("row %d: tier = %q, want HIGH", i, row.Tier)
		}
		if i > 0 && row.Score > result.Targets[i-1].Score {
			t.Errorf("row %d: scores not descending", i)
		}
	}
}

func TestControlEndpointsRejectGET(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	for _, path := range []string{"/api/pause", "/api/resume", "/api/skip", "/api/tle-refresh", "/api/survey-now", "/api/reload"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("GET %s: status = %d, want 405", path, resp.StatusCode)
		}
	}
}

func TestReloadUnknownProfile(t *testing.T) {
	t.Setenv("SATWATCH_CONFIG_DIR", t.TempDir())

	a := newTestApp(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/reload", "application/json",
		strings.NewReader(`{"profile":"nope"}`))
	if err != nil {
		t.Fatalf("POST /api/reload: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestVersionEndpoint(t *testing.T) {
	a := newTestApp(t)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/version")
	if err != nil {
		t.Fatalf("GET /api/version: %v", err)
	}
	defer resp.Body.Close()

	var v struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Version == "" {
		t.Error("version empty")
	}
}
