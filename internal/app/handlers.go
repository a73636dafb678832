package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/elaichix/satellite-security/internal/catalog"
	"github.com/elaichix/satellite-security/internal/config"
	"github.com/elaichix/satellite-security/internal/export"
	"github.com/elaichix/satellite-security/internal/planner"
	"github.com/elaichix/satellite-security/internal/predict"
	"github.com/elaichix/satellite-security/internal/rank"
	"github.com/elaichix/satellite-security/internal/survey"
)

// routes assembles the HTTP mux. Every API handler is wrapped with the
// metrics middleware under its path label.
func (a *App) routes() http.Handler {
	mux := http.NewServeMux()

	handle := func(path string, h http.HandlerFunc) {
		mux.Handle(path, a.metrics.Instrument(path, h))
	}

	handle("/healthz", a.handleHealthz)
	handle("/api/status", a.handleStatus)
	handle("/api/version", a.handleVersion)
	handle("/api/targets", a.handleTargets)
	handle("/api/survey", a.handleSurvey)
	handle("/api/survey-now", a.handleSurveyNow)
	handle("/api/passes", a.handlePasses)
	handle("/api/next-pass", a.handleNextPass)
	handle("/api/tle-info", a.handleTLEInfo)
	handle("/api/tle-refresh", a.handleTLERefresh)
	handle("/api/pause", a.handlePause)
	handle("/api/resume", a.handleResume)
	handle("/api/skip", a.handleSkip)
	handle("/api/reload", a.handleReload)
	handle("/api/config", a.handleConfig)
	handle("/api/config/profiles", a.handleConfigProfiles)
	handle("/api/system", a.handleSystem)
	handle("/api/logs", a.handleLogs)
	mux.Handle("/metrics", a.metrics.Handler())
	mux.Handle("/ws", a.wsHub.Handler())

	return mux
}

// ---------------------------------------------------------------------------
// Core handlers
// ---------------------------------------------------------------------------

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	// If the client asks for JSON, return component-level health checks.
	if r.Header.Get("Accept") == "application/json" {
		a.handleHealthDetailed(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	resp := map[string]any{
		"name":           "satwatch",
		"state":          a.state.Load().(string),
		"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
		"data_root":      cfg.Data.Root,
		"station": map[string]any{
			"name":   a.st.Name,
			"lat":    a.st.LatitudeDeg,
			"lon":    a.st.LongitudeDeg,
			"alt_m":  a.st.ElevationM,
			"source": stationSource(cfg),
		},
		"ws_clients": a.wsHub.ClientCount(),
	}

	if slot, ok := a.currentPass.Load().(passSlot); ok && slot.info != nil {
		resp["current_pass"] = slot.info
	}

	a.surveyMu.RLock()
	if !a.lastSurveyAt.IsZero() {
		resp["last_survey"] = map[string]any{
			"at":      a.lastSurveyAt.Format(time.RFC3339),
			"visible": len(a.lastSurvey),
		}
	}
	a.surveyMu.RUnlock()

	a.passesMu.RLock()
	if !a.lastPasses.Start.IsZero() {
		resp["last_batch"] = map[string]any{
			"start":      a.lastPasses.Start.Format(time.RFC3339),
			"passes":     len(a.lastPasses.Passes),
			"skipped":    len(a.lastPasses.Skipped),
			"incomplete": a.lastPasses.Incomplete,
		}
	}
	a.passesMu.RUnlock()

	if du := diskUsage(cfg.Data.Root); du != nil {
		resp["disk"] = du
	}
	if a.planner != nil {
		resp["paused"] = a.planner.IsPaused()
	}

	writeJSON(w, resp)
}

func (a *App) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"version":    Version,
		"go_version": GoVersion,
		"built_at":   BuiltAt,
	})
}

func (a *App) handleTargets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"geo": catalog.GEOTargets,
		"leo": catalog.LEOTargets,
	})
}

func (a *App) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, a.getConfig())
}

func (a *App) handleConfigProfiles(w http.ResponseWriter, _ *http.Request) {
	profiles, err := config.ListProfiles(config.DefaultConfigDir())
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if profiles == nil {
		profiles = []config.ProfileInfo{}
	}
	writeJSON(w, map[string]any{
		"config_dir": config.DefaultConfigDir(),
		"profiles":   profiles,
	})
}

func (a *App) handleSystem(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	resp := map[string]any{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"data_root":  cfg.Data.Root,
		"config_dir": config.DefaultConfigDir(),
	}
	if du := diskUsage(cfg.Data.Root); du != nil {
		resp["disk"] = du
	}
	writeJSON(w, resp)
}

// handleLogs serves the ring of recent log events captured from the
// broadcast stream. Supports ?level= and ?limit=.
func (a *App) handleLogs(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}
	writeJSON(w, map[string]any{
		"logs": a.logs.snapshot(level, limit),
	})
}

// ---------------------------------------------------------------------------
// Survey
// ---------------------------------------------------------------------------

// handleSurvey recomputes the GEO arc survey on demand. The geometry is
// closed-form, so a fresh run per request is cheap. Supports ?sort=score,
// ?tier=HIGH, and ?format=csv.
func (a *App) handleSurvey(w http.ResponseWriter, r *http.Request) {
	cfg := a.getConfig()

	rows, err := survey.Run(a.st, catalog.GEOTargets, surveyOptions(cfg))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if tier := r.URL.Query().Get("tier"); tier != "" {
		want := rank.Tier(strings.ToUpper(tier))
		var filtered []survey.Row
		for _, row := range rows {
			if row.Tier == want {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	if r.URL.Query().Get("sort") == "score" {
		rows = survey.BestFirst(rows)
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="survey.csv"`)
		_ = export.SurveyCSV(w, rows)
		return
	}

	writeJSON(w, map[string]any{
		"station": a.st.String(),
		"arc": map[string]any{
			"min_deg": cfg.Arc.MinDeg,
			"max_deg": cfg.Arc.MaxDeg,
		},
		"min_elevation": cfg.Station.MinElevation,
		"visible":       len(rows),
		"targets":       rows,
	})
}

func (a *App) handleSurveyNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := a.sendPlannerCommand("survey_now", nil)
	writeCommandResult(w, result)
}

// ---------------------------------------------------------------------------
// Passes
// ---------------------------------------------------------------------------

// handlePasses computes upcoming LEO passes. Supports ?target=, ?count=,
// ?quality= and ?format=csv.
func (a *App) handlePasses(w http.ResponseWriter, r *http.Request) {
	res, err := a.computePasses(r)
	if err != nil {
		jsonError(w, err.Error(), errStatus(err))
		return
	}

	passes := res.Passes

	if q := r.URL.Query().Get("quality"); q != "" {
		want := predict.Quality(q)
		var filtered []predict.PassRecord
		for _, p := range passes {
			if p.Quality == want {
				filtered = append(filtered, p)
			}
		}
		passes = filtered
	}

	if countStr := r.URL.Query().Get("count"); countStr != "" {
		if n, err := strconv.Atoi(countStr); err == nil && n > 0 && n < len(passes) {
			passes = passes[:n]
		}
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="passes.csv"`)
		_ = export.PassCSV(w, passes)
		return
	}

	writeJSON(w, map[string]any{
		"window": map[string]any{
			"start": res.Start.Format(time.RFC3339),
			"end":   res.End.Format(time.RFC3339),
		},
		"passes":     passes,
		"skipped":    res.Skipped,
		"warnings":   res.Warnings,
		"incomplete": res.Incomplete,
		"station": map[string]any{
			"lat":   a.st.LatitudeDeg,
			"lon":   a.st.LongitudeDeg,
			"alt_m": a.st.ElevationM,
		},
	})
}

func (a *App) handleNextPass(w http.ResponseWriter, r *http.Request) {
	res, err := a.computePasses(r)
	if err != nil {
		jsonError(w, err.Error(), errStatus(err))
		return
	}

	now := time.Now().UTC()
	var next *predict.PassRecord
	for i := range res.Passes {
		if res.Passes[i].AOS.After(now) {
			next = &res.Passes[i]
			break
		}
	}

	resp := map[string]any{"pass": nil}
	if next != nil {
		resp["pass"] = next
		resp["countdown_s"] = int(time.Until(next.AOS).Seconds())
	}
	writeJSON(w, resp)
}

// computePasses runs a prediction batch scoped to the request context,
// honoring an optional ?target= filter.
func (a *App) computePasses(r *http.Request) (predict.Result, error) {
	cfg := a.getConfig()
	if target := r.URL.Query().Get("target"); target != "" {
		cfg.Predict.Target = target
	}
	predictor := predict.NewPredictor(a.wsHub, cfg, a.st, a.log)
	return predictor.ComputePasses(r.Context())
}

// ---------------------------------------------------------------------------
// TLE store
// ---------------------------------------------------------------------------

func (a *App) handleTLEInfo(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()
	store := predict.NewTLEStore(cfg.Predict.TLEURL, cfg.Data.Root, cfg.Predict.TLERefreshHours)
	writeJSON(w, store.CacheInfo())
}

func (a *App) handleTLERefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := a.sendPlannerCommand("tle_refresh", nil)
	writeCommandResult(w, result)
}

// ---------------------------------------------------------------------------
// Planner controls + reload
// ---------------------------------------------------------------------------

func (a *App) handlePause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := a.sendPlannerCommand("pause", nil)
	writeCommandResult(w, result)
}

func (a *App) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := a.sendPlannerCommand("resume", nil)
	writeCommandResult(w, result)
}

func (a *App) handleSkip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	result := a.sendPlannerCommand("skip", nil)
	writeCommandResult(w, result)
}

func (a *App) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Accept optional profile name in body: {"profile": "rooftop"}
	var body struct {
		Profile string `json:"profile"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	loadPath := a.configPath
	if body.Profile != "" {
		candidate := filepath.Join(config.DefaultConfigDir(), body.Profile+".toml")
		if _, err := os.Stat(candidate); err != nil {
			jsonError(w, fmt.Sprintf("profile %q not found at %s", body.Profile, candidate), http.StatusNotFound)
			return
		}
		loadPath = candidate
	}

	if loadPath == "" {
		jsonError(w, "no config file path set", http.StatusInternalServerError)
		return
	}

	newCfg, err := config.Load(loadPath)
	if err != nil {
		jsonError(w, "config reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	a.cfgMu.Lock()
	a.cfg = newCfg
	a.configPath = loadPath
	a.cfgMu.Unlock()

	a.emit("satwatchd", map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("config reloaded from %s", loadPath),
	})

	writeJSON(w, map[string]any{
		"ok":      true,
		"message": "configuration reloaded from " + loadPath,
	})
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (a *App) handleHealthDetailed(w http.ResponseWriter, _ *http.Request) {
	cfg := a.getConfig()

	checks := map[string]any{}
	allOK := true

	// Data directory writable.
	tmpPath := filepath.Join(cfg.Data.Root, ".healthcheck")
	if err := os.WriteFile(tmpPath, []byte("ok"), 0o644); err != nil {
		checks["data_dir"] = map[string]any{"ok": false, "error": err.Error()}
		allOK = false
	} else {
		os.Remove(tmpPath)
		checks["data_dir"] = map[string]any{"ok": true, "path": cfg.Data.Root}
	}

	// Element-set cache freshness.
	store := predict.NewTLEStore(cfg.Predict.TLEURL, cfg.Data.Root, cfg.Predict.TLERefreshHours)
	tle := store.CacheInfo()
	if !tle.Exists {
		checks["tle_cache"] = map[string]any{"ok": false, "error": "cache file not found"}
		allOK = false
	} else {
		if !tle.Fresh {
			allOK = false
		}
		checks["tle_cache"] = map[string]any{
			"ok":    tle.Fresh,
			"age_s": tle.AgeSeconds,
			"fresh": tle.Fresh,
		}
	}

	// Station geometry sanity.
	if err := a.st.Validate(); err != nil {
		checks["station"] = map[string]any{"ok": false, "error": err.Error()}
		allOK = false
	} else {
		checks["station"] = map[string]any{"ok": true}
	}

	// Config file readable.
	if a.configPath != "" {
		if _, err := os.Stat(a.configPath); err != nil {
			checks["config_file"] = map[string]any{"ok": false, "error": err.Error()}
			allOK = false
		} else {
			checks["config_file"] = map[string]any{"ok": true, "path": a.configPath}
		}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"healthy": allOK,
		"checks":  checks,
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// sendPlannerCommand sends a command to the planner and waits for the reply.
func (a *App) sendPlannerCommand(cmdType string, payload json.RawMessage) planner.CommandResult {
	reply := make(chan planner.CommandResult, 1)
	a.planner.Commands <- planner.Command{
		Type:    cmdType,
		Payload: payload,
		Reply:   reply,
	}
	return <-reply
}

func surveyOptions(cfg config.Config) survey.Options {
	return survey.Options{
		ArcMinDeg:       cfg.Arc.MinDeg,
		ArcMaxDeg:       cfg.Arc.MaxDeg,
		MinElevationDeg: cfg.Station.MinElevation,
		Ranking: rank.Options{
			Band:             cfg.Ranking.Band,
			HomeRegions:      cfg.Ranking.HomeRegions,
			SecondaryRegions: cfg.Ranking.SecondaryRegions,
			HighThreshold:    cfg.Ranking.HighThreshold,
			MediumThreshold:  cfg.Ranking.MediumThreshold,
		},
	}
}

func stationSource(cfg config.Config) string {
	if cfg.Station.UseGPSD {
		return "gpsd"
	}
	return "config"
}

// errStatus maps prediction errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, predict.ErrTargetNotFound):
		return http.StatusNotFound
	case errors.Is(err, predict.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":    false,
		"error": msg,
	})
}

// writeCommandResult writes a planner.CommandResult as JSON.
func writeCommandResult(w http.ResponseWriter, result planner.CommandResult) {
	w.Header().Set("Content-Type", "application/json")
	if !result.OK {
		w.WriteHeader(http.StatusInternalServerError)
	}
	_ = json.NewEncoder(w).Encode(result)
}
