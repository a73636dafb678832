// Package planner orchestrates the survey-predict-wait loop that drives the
// satwatch daemon. It periodically surveys the GEO arc, computes upcoming
// LEO passes, waits for each AOS, tracks the pass window, and cycles back
// to idle.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/elaichix/satellite-security/internal/catalog"
	"github.com/elaichix/satellite-security/internal/config"
	"github.com/elaichix/satellite-security/internal/export"
	"github.com/elaichix/satellite-security/internal/observability"
	"github.com/elaichix/satellite-security/internal/predict"
	"github.com/elaichix/satellite-security/internal/rank"
	"github.com/elaichix/satellite-security/internal/station"
	"github.com/elaichix/satellite-security/internal/survey"
	"github.com/elaichix/satellite-security/internal/telemetry"
	"github.com/elaichix/satellite-security/internal/ws"
)

// States the planner moves through. The active state is visible on
// /api/status and as a Prometheus gauge.
const (
	StateIdle       = "IDLE"
	StateSurveying  = "SURVEYING"
	StatePredicting = "PREDICTING"
	StateWaiting    = "WAITING_FOR_PASS"
	StateInPass     = "IN_PASS"
)

// AllStates lists every planner state, for gauge labeling.
var AllStates = []string{StateIdle, StateSurveying, StatePredicting, StateWaiting, StateInPass}

// PassInfo describes the pass the planner is currently waiting for or
// tracking.
type PassInfo struct {
	Target  string  `json:"target"`
	NoradID int     `json:"norad_id"`
	FreqHz  int     `json:"freq_hz"`
	AOS     string  `json:"aos"`
	LOS     string  `json:"los"`
	MaxElev float64 `json:"max_elev"`
	Quality string  `json:"quality"`
	Stage   string  `json:"stage"`
}

// Command represents an external command sent to the planner via its
// Commands channel. The Reply channel receives exactly one result.
type Command struct {
	Type    string
	Payload json.RawMessage
	Reply   chan<- CommandResult
}

// CommandResult is the response sent back through a Command's Reply channel.
type CommandResult struct {
	OK                bool   `json:"ok"`
	Message           string `json:"message,omitempty"`
	Error             string `json:"error,omitempty"`
	SatellitesUpdated int    `json:"satellites_updated,omitempty"`
}

// Runner owns the main planning loop, coordinating the GEO survey and the
// LEO pass predictor.
type Runner struct {
	Hub *ws.Hub
	Cfg config.Config
	Log *log.Logger

	// Commands receives external commands from HTTP handlers.
	// The planner checks this channel during wait periods.
	Commands chan Command

	st        station.GroundStation
	predictor *predict.Predictor
	metrics   *observability.Collector

	paused atomic.Bool

	// Callbacks into the app layer.
	passCallback   func(*PassInfo)
	surveyCallback func([]survey.Row)
	passesCallback func(predict.Result)
}

// New creates a planner with its own predictor for the given station.
func New(hub *ws.Hub, cfg config.Config, st station.GroundStation, metrics *observability.Collector, logger *log.Logger) *Runner {
	return &Runner{
		Hub:       hub,
		Cfg:       cfg,
		Log:       logger,
		Commands:  make(chan Command, 4),
		st:        st,
		predictor: predict.NewPredictor(hub, cfg, st, logger),
		metrics:   metrics,
	}
}

// SetPassCallback registers a function called when the tracked pass changes.
func (r *Runner) SetPassCallback(fn func(*PassInfo)) {
	r.passCallback = fn
}

// SetSurveyCallback registers a function called after each completed survey.
func (r *Runner) SetSurveyCallback(fn func([]survey.Row)) {
	r.surveyCallback = fn
}

// SetPassesCallback registers a function called after each prediction batch.
func (r *Runner) SetPassesCallback(fn func(predict.Result)) {
	r.passesCallback = fn
}

// IsPaused reports whether the planner is paused.
func (r *Runner) IsPaused() bool {
	return r.paused.Load()
}

// Run is the main planning loop.
//
// Lifecycle:
//  1. Survey the GEO arc (SURVEYING), export the CSV report
//  2. Compute upcoming LEO passes (PREDICTING)
//  3. Pick the next pass, transition to WAITING_FOR_PASS
//  4. Sleep until AOS, track the window (IN_PASS) until LOS
//  5. Loop; a full resurvey happens every resurvey_minutes
func (r *Runner) Run(ctx context.Context, setState func(string)) {
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "planner started",
	})

	for {
		if ctx.Err() != nil {
			return
		}

		if r.paused.Load() {
			r.setState(setState, StateIdle)
			r.notifyPass(nil)
			r.broadcast(map[string]any{
				"type":    "log",
				"level":   "info",
				"message": "planner paused, waiting for resume",
			})
			// Sleep for a very long time; a resume command will interrupt.
			if r.sleepOrCommand(ctx, 24*365*time.Hour, setState) == sleepCancelled {
				return
			}
			continue
		}

		r.runSurvey(setState)

		r.setState(setState, StatePredicting)
		res, err := r.predictor.ComputePasses(ctx)
		if err != nil {
			r.broadcast(map[string]any{
				"type":    "log",
				"level":   "error",
				"message": "prediction failed: " + err.Error(),
			})
			if r.metrics != nil {
				r.metrics.PassBatchesTotal.WithLabelValues("failed").Inc()
			}
			r.setState(setState, StateIdle)
			if r.sleepOrCommand(ctx, 5*time.Minute, setState) == sleepCancelled {
				return
			}
			continue
		}
		r.recordBatch(res)
		if r.passesCallback != nil {
			r.passesCallback(res)
		}

		passPath := filepath.Join(r.Cfg.Data.Root, "passes.csv")
		if err := export.WritePassFile(passPath, res.Passes); err != nil {
			r.broadcast(map[string]any{
				"type":    "log",
				"level":   "warn",
				"message": "pass schedule export failed: " + err.Error(),
			})
		}

		resurveyAt := time.Now().Add(time.Duration(r.Cfg.Planner.ResurveyMinutes) * time.Minute)

		// Drop any passes whose AOS is already in the past.
		now := time.Now().UTC()
		var upcoming []predict.PassRecord
		for _, p := range res.Passes {
			if p.AOS.After(now) {
				upcoming = append(upcoming, p)
			}
		}

		if len(upcoming) == 0 {
			r.broadcast(map[string]any{
				"type":    "log",
				"level":   "info",
				"message": "no upcoming passes, will resurvey later",
			})
			r.setState(setState, StateIdle)
			if r.sleepOrCommand(ctx, time.Until(resurveyAt), setState) == sleepCancelled {
				return
			}
			continue
		}

		for _, pass := range upcoming {
			if ctx.Err() != nil {
				return
			}
			if r.paused.Load() {
				break
			}
			// Resurvey window elapsed: go round the loop again.
			if time.Now().After(resurveyAt) {
				break
			}
			// A long pass may push us beyond the next AOS; skip it.
			if time.Now().UTC().After(pass.AOS) {
				continue
			}

			r.setState(setState, StateWaiting)
			r.notifyPass(passInfo(pass, "waiting"))

			r.broadcast(map[string]any{
				"type":     "pass_scheduled",
				"target":   pass.Target,
				"norad_id": pass.NoradID,
				"freq_hz":  pass.FreqHz,
				"aos":      pass.AOS.Format(time.RFC3339),
				"los":      pass.LOS.Format(time.RFC3339),
				"max_elev": pass.MaxElevationDeg,
				"quality":  string(pass.Quality),
			})

			if !r.waitForAOS(ctx, pass, setState) {
				if ctx.Err() != nil {
					return
				}
				// A command interrupted the wait; recompute the schedule.
				break
			}

			if !r.trackPass(ctx, pass, setState) {
				return
			}

			r.notifyPass(nil)
			r.setState(setState, StateIdle)
		}
	}
}

// runSurvey surveys the GEO arc, exports the CSV report, and broadcasts a
// summary. Survey failure is logged but never stops the loop.
func (r *Runner) runSurvey(setState func(string)) {
	r.setState(setState, StateSurveying)

	rows, err := survey.Run(r.st, catalog.GEOTargets, r.surveyOptions())
	if err != nil {
		r.broadcast(map[string]any{
			"type":    "log",
			"level":   "error",
			"message": "survey failed: " + err.Error(),
		})
		return
	}

	if r.metrics != nil {
		r.metrics.SurveysTotal.Inc()
		r.metrics.SurveyVisible.Set(float64(len(rows)))
	}
	if r.surveyCallback != nil {
		r.surveyCallback(rows)
	}

	path := filepath.Join(r.Cfg.Data.Root, "survey.csv")
	if err := export.WriteSurveyFile(path, rows); err != nil {
		r.Log.Printf("planner: survey export failed: %v", err)
	}

	msg := map[string]any{
		"type":    "survey_complete",
		"visible": len(rows),
	}
	if best := survey.BestFirst(rows); len(best) > 0 {
		msg["best"] = best[0].Name
		msg["best_tier"] = string(best[0].Tier)
	}
	r.broadcast(msg)
}

func (r *Runner) surveyOptions() survey.Options {
	return survey.Options{
		ArcMinDeg:       r.Cfg.Arc.MinDeg,
		ArcMaxDeg:       r.Cfg.Arc.MaxDeg,
		MinElevationDeg: r.Cfg.Station.MinElevation,
		Ranking: rank.Options{
			Band:             r.Cfg.Ranking.Band,
			HomeRegions:      r.Cfg.Ranking.HomeRegions,
			SecondaryRegions: r.Cfg.Ranking.SecondaryRegions,
			HighThreshold:    r.Cfg.Ranking.HighThreshold,
			MediumThreshold:  r.Cfg.Ranking.MediumThreshold,
		},
	}
}

// trackPass announces the pass window and holds IN_PASS until LOS. Returns
// false only when the context was cancelled.
func (r *Runner) trackPass(ctx context.Context, pass predict.PassRecord, setState func(string)) bool {
	r.setState(setState, StateInPass)
	r.notifyPass(passInfo(pass, "in_pass"))

	r.broadcast(map[string]any{
		"type":     "pass_window",
		"phase":    "open",
		"target":   pass.Target,
		"max_elev": pass.MaxElevationDeg,
		"los":      pass.LOS.Format(time.RFC3339),
	})

	for {
		remaining := time.Until(pass.LOS)
		if remaining <= 0 {
			break
		}
		step := 30 * time.Second
		if remaining < step {
			step = remaining
		}
		if r.sleepOrCommand(ctx, step, setState) == sleepCancelled {
			return false
		}
	}

	r.broadcast(map[string]any{
		"type":   "pass_window",
		"phase":  "closed",
		"target": pass.Target,
	})
	return true
}

func (r *Runner) recordBatch(res predict.Result) {
	if r.metrics == nil {
		return
	}
	outcome := "complete"
	if res.Incomplete {
		outcome = "incomplete"
	}
	r.metrics.PassBatchesTotal.WithLabelValues(outcome).Inc()
	r.metrics.PassesUpcoming.Set(float64(len(res.Passes)))
	for _, w := range res.Warnings {
		r.metrics.PassWarnings.WithLabelValues(string(w.Kind)).Inc()
	}
	r.metrics.TLECacheAge.Set(float64(r.predictor.TLECacheInfo().AgeSeconds))
}

func passInfo(pass predict.PassRecord, stage string) *PassInfo {
	return &PassInfo{
		Target:  pass.Target,
		NoradID: pass.NoradID,
		FreqHz:  pass.FreqHz,
		AOS:     pass.AOS.Format(time.RFC3339),
		LOS:     pass.LOS.Format(time.RFC3339),
		MaxElev: pass.MaxElevationDeg,
		Quality: string(pass.Quality),
		Stage:   stage,
	}
}

// notifyPass calls the pass callback if set.
func (r *Runner) notifyPass(info *PassInfo) {
	if r.passCallback != nil {
		r.passCallback(info)
	}
}

func (r *Runner) setState(setState func(string), state string) {
	setState(state)
	if r.metrics != nil {
		r.metrics.SetPlannerState(state, AllStates)
	}
}

// sleepResult indicates what ended a sleep period.
type sleepResult int

const (
	sleepCompleted   sleepResult = iota // timer expired normally
	sleepCancelled                      // context was cancelled
	sleepInterrupted                    // a command was received and handled
)

// sleepOrCommand blocks for duration d, until ctx is cancelled, or until a
// command arrives on r.Commands. Commands are handled inline. Returns what
// ended the sleep.
func (r *Runner) sleepOrCommand(ctx context.Context, d time.Duration, setState func(string)) sleepResult {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return sleepCancelled
	case <-t.C:
		return sleepCompleted
	case cmd := <-r.Commands:
		r.handleCommand(cmd, setState)
		return sleepInterrupted
	}
}

// waitForAOS sleeps until AOS, broadcasting countdown progress every 30s.
// Returns true if AOS was reached, false if interrupted (by context cancel
// or a command).
func (r *Runner) waitForAOS(ctx context.Context, pass predict.PassRecord, setState func(string)) bool {
	for {
		remaining := time.Until(pass.AOS)
		if remaining <= 0 {
			return true
		}

		r.broadcast(map[string]any{
			"type":        "countdown",
			"target":      pass.Target,
			"aos":         pass.AOS.Format(time.RFC3339),
			"remaining_s": int(remaining.Seconds()),
		})

		sleepDur := 30 * time.Second
		if remaining < sleepDur {
			sleepDur = remaining
		}
		result := r.sleepOrCommand(ctx, sleepDur, setState)
		if result == sleepCancelled || result == sleepInterrupted {
			return false
		}
	}
}

// handleCommand dispatches an incoming command to the appropriate handler.
func (r *Runner) handleCommand(cmd Command, setState func(string)) {
	switch cmd.Type {
	case "survey_now":
		r.handleSurveyNowCommand(cmd, setState)
	case "tle_refresh":
		r.handleTLERefreshCommand(cmd)
	case "pause":
		r.handlePauseCommand(cmd)
	case "resume":
		r.handleResumeCommand(cmd)
	case "skip":
		r.handleSkipCommand(cmd)
	default:
		cmd.Reply <- CommandResult{OK: false, Error: "unknown command: " + cmd.Type}
	}
}

// handleSurveyNowCommand runs an immediate GEO survey outside the normal
// resurvey cadence.
func (r *Runner) handleSurveyNowCommand(cmd Command, setState func(string)) {
	r.runSurvey(setState)
	r.setState(setState, StateIdle)
	cmd.Reply <- CommandResult{OK: true, Message: "survey complete, schedule recomputing"}
}

// handleTLERefreshCommand forces an immediate element-set refresh.
func (r *Runner) handleTLERefreshCommand(cmd Command) {
	n, err := r.predictor.ForceRefreshTLEs()
	if err != nil {
		cmd.Reply <- CommandResult{OK: false, Error: "TLE refresh failed: " + err.Error()}
		return
	}

	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("TLE data refreshed, %d satellites updated", n),
	})

	cmd.Reply <- CommandResult{
		OK:                true,
		Message:           fmt.Sprintf("TLE data refreshed, %d satellites updated", n),
		SatellitesUpdated: n,
	}
}

func (r *Runner) handlePauseCommand(cmd Command) {
	if r.paused.Load() {
		cmd.Reply <- CommandResult{OK: true, Message: "planner already paused"}
		return
	}
	r.paused.Store(true)
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "planner paused by user",
	})
	cmd.Reply <- CommandResult{OK: true, Message: "planner paused"}
}

func (r *Runner) handleResumeCommand(cmd Command) {
	if !r.paused.Load() {
		cmd.Reply <- CommandResult{OK: true, Message: "planner already running"}
		return
	}
	r.paused.Store(false)
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "planner resumed by user",
	})
	cmd.Reply <- CommandResult{OK: true, Message: "planner resumed"}
}

func (r *Runner) handleSkipCommand(cmd Command) {
	r.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": "skipping current pass by user request",
	})
	r.notifyPass(nil)
	cmd.Reply <- CommandResult{OK: true, Message: "pass skipped, recomputing schedule"}
}

func (r *Runner) broadcast(v map[string]any) {
	v["ts"] = telemetry.NowTS()
	v["component"] = "planner"
	r.Hub.BroadcastJSON(v)
}
