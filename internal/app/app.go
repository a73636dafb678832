// Package app wires together the HTTP API, WebSocket hub, Prometheus
// metrics, and the planner loop. It owns the daemon's lifecycle and is the
// single source of truth for the current operating state.
package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/elaichix/satellite-security/internal/config"
	"github.com/elaichix/satellite-security/internal/observability"
	"github.com/elaichix/satellite-security/internal/planner"
	"github.com/elaichix/satellite-security/internal/predict"
	"github.com/elaichix/satellite-security/internal/station"
	"github.com/elaichix/satellite-security/internal/survey"
	"github.com/elaichix/satellite-security/internal/telemetry"
	"github.com/elaichix/satellite-security/internal/ws"
)

// Options holds everything the App needs from the caller.
type Options struct {
	Logger     *log.Logger
	Cfg        config.Config
	ConfigPath string
	Bind       string
}

// App is the top-level daemon process. It manages the HTTP server, the
// WebSocket event hub, the metrics collector, and the planner.
type App struct {
	log        *log.Logger
	bind       string
	server     *http.Server
	configPath string

	cfgMu sync.RWMutex
	cfg   config.Config

	startedAt time.Time
	state     atomic.Value // current state string (BOOTING, IDLE, etc.)

	st      station.GroundStation
	wsHub   *ws.Hub
	metrics *observability.Collector
	planner *planner.Runner

	currentPass atomic.Value // *planner.PassInfo, possibly nil inside

	logs *logRing

	surveyMu     sync.RWMutex
	lastSurvey   []survey.Row
	lastSurveyAt time.Time

	passesMu   sync.RWMutex
	lastPasses predict.Result
}

// New creates an App in the BOOTING state. Call Run to start serving.
func New(opts Options) *App {
	a := &App{
		log:        opts.Logger,
		cfg:        opts.Cfg,
		configPath: opts.ConfigPath,
		bind:       opts.Bind,
		startedAt:  time.Now(),
		wsHub:      ws.NewHub(),
		logs:       newLogRing(256),
	}
	a.wsHub.SetTap(a.logs.capture)
	a.state.Store("BOOTING")
	return a
}

// Run resolves the station, starts the HTTP server, WebSocket hub,
// heartbeat ticker, and planner loop. It blocks until the context is
// cancelled or the server returns an error.
func (a *App) Run(ctx context.Context) error {
	cfg := a.getConfig()

	bind := a.bind
	if bind == "" && cfg.Server.Bind != "" {
		bind = cfg.Server.Bind
	}
	if bind == "" {
		bind = "0.0.0.0:8080"
	}

	a.st = a.resolveStation(cfg)
	a.log.Printf("station: %s (%s)", a.st.Name, a.st.String())

	metrics, err := observability.NewCollector(nil)
	if err != nil {
		return err
	}
	a.metrics = metrics

	a.planner = planner.New(a.wsHub, cfg, a.st, metrics, a.log)
	a.planner.SetPassCallback(func(info *planner.PassInfo) {
		a.currentPass.Store(passSlot{info})
	})
	a.planner.SetSurveyCallback(func(rows []survey.Row) {
		a.surveyMu.Lock()
		a.lastSurvey = rows
		a.lastSurveyAt = time.Now().UTC()
		a.surveyMu.Unlock()
	})
	a.planner.SetPassesCallback(func(res predict.Result) {
		a.passesMu.Lock()
		a.lastPasses = res
		a.passesMu.Unlock()
	})

	a.server = &http.Server{
		Addr:              bind,
		Handler:           a.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}

	a.log.Printf("listening on http://%s", bind)

	go a.wsHub.Run(ctx)
	a.transition("IDLE")
	go a.heartbeatLoop(ctx)
	go a.planner.Run(ctx, a.transition)

	go func() {
		<-ctx.Done()
		a.log.Printf("shutdown requested")
		_ = a.server.Shutdown(context.Background())
	}()

	return a.server.Serve(ln)
}

// passSlot wraps the pass pointer so atomic.Value accepts a nil pass.
type passSlot struct{ info *planner.PassInfo }

// resolveStation determines the ground station position. If use_gpsd is
// true it tries gpsd first and falls back to the TOML values.
func (a *App) resolveStation(cfg config.Config) station.GroundStation {
	if cfg.Station.UseGPSD {
		st, err := station.FromGPSD(cfg.Station.Name, cfg.Station.GPSDHost, 10*time.Second)
		if err != nil {
			a.log.Printf("gpsd failed (%v), falling back to config", err)
		} else {
			return st
		}
	}
	return station.GroundStation{
		Name:         cfg.Station.Name,
		LatitudeDeg:  cfg.Station.Latitude,
		LongitudeDeg: cfg.Station.Longitude,
		ElevationM:   cfg.Station.ElevationM,
	}
}

func (a *App) getConfig() config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

// transition atomically updates the daemon state and broadcasts the change
// to all connected WebSocket clients.
func (a *App) transition(newState string) {
	old := a.state.Load().(string)
	if old == newState {
		return
	}
	a.state.Store(newState)

	a.emit("satwatchd", map[string]any{
		"type": "state",
		"from": old,
		"to":   newState,
	})
}

// heartbeatLoop sends a periodic heartbeat event so clients can detect
// connectivity and track uptime without polling.
func (a *App) heartbeatLoop(ctx context.Context) {
	t := time.NewTicker(10 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if a.metrics != nil {
				a.metrics.WSClients.Set(float64(a.wsHub.ClientCount()))
			}
			a.emit("satwatchd", map[string]any{
				"type":           "heartbeat",
				"uptime_seconds": int64(time.Since(a.startedAt).Seconds()),
				"state":          a.state.Load().(string),
			})
		}
	}
}

// emit stamps a payload with a timestamp and component name, then pushes it
// to every connected WebSocket client.
func (a *App) emit(component string, payload map[string]any) {
	payload["ts"] = telemetry.NowTS()
	payload["component"] = component
	a.wsHub.BroadcastJSON(payload)
}
