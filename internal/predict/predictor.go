package predict

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/elaichix/satellite-security/internal/catalog"
	"github.com/elaichix/satellite-security/internal/config"
	"github.com/elaichix/satellite-security/internal/station"
	"github.com/elaichix/satellite-security/internal/telemetry"
	"github.com/elaichix/satellite-security/internal/ws"
)

// ErrTargetNotFound means the configured target filter matched nothing in
// the LEO catalog.
var ErrTargetNotFound = errors.New("target not found")

// Skip records a target dropped from a batch, with the reason. Skips never
// abort the batch; the remaining targets are still computed.
type Skip struct {
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// Result is the outcome of one pass-prediction batch.
type Result struct {
	Start      time.Time    `json:"start"`
	End        time.Time    `json:"end"`
	Passes     []PassRecord `json:"passes"`
	Skipped    []Skip       `json:"skipped,omitempty"`
	Warnings   []Warning    `json:"warnings,omitempty"`
	Incomplete bool         `json:"incomplete"`
}

// Predictor fetches current element sets and runs SGP4 propagation over the
// lookahead window to find upcoming LEO passes above the station's minimum
// elevation. Targets are scanned in parallel, bounded by the CPU count.
type Predictor struct {
	hub      *ws.Hub
	cfg      config.Config
	st       station.GroundStation
	log      *log.Logger
	tleStore *TLEStore
}

// NewPredictor creates a predictor for the given station, backed by a TLE
// store rooted in the configured data directory.
func NewPredictor(hub *ws.Hub, cfg config.Config, st station.GroundStation, logger *log.Logger) *Predictor {
	return &Predictor{
		hub: hub,
		cfg: cfg,
		st:  st,
		log: logger,
		tleStore: NewTLEStore(
			cfg.Predict.TLEURL,
			cfg.Data.Root,
			cfg.Predict.TLERefreshHours,
		),
	}
}

// ComputePasses fetches element sets and scans every tracked LEO target
// across the lookahead window. Targets without element sets or with failing
// propagation are skipped, not fatal. If ctx expires mid-batch the partial
// result is returned with Incomplete set. Passes are sorted by AOS
// ascending.
func (p *Predictor) ComputePasses(ctx context.Context) (Result, error) {
	now := time.Now().UTC()
	res := Result{
		Start: now,
		End:   now.Add(time.Duration(p.cfg.Predict.LookaheadHours) * time.Hour),
	}

	targets := catalog.LEOTargets
	if p.cfg.Predict.Target != "" {
		t := catalog.LEOByName(p.cfg.Predict.Target)
		if t == nil {
			return res, fmt.Errorf("%w: %q", ErrTargetNotFound, p.cfg.Predict.Target)
		}
		targets = []catalog.LEOTarget{*t}
	}

	tles, err := p.tleStore.Fetch()
	if err != nil {
		// Without element sets the batch cannot start at all.
		res.Incomplete = true
		return res, fmt.Errorf("fetch element sets: %w", err)
	}

	type targetResult struct {
		passes   []PassRecord
		warnings []Warning
		skip     *Skip
		partial  bool
	}

	results := make([]targetResult, len(targets))

	// Bound the fan-out so a big catalog doesn't oversubscribe the host.
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(i int, target catalog.LEOTarget) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			el, ok := tles[target.NoradID]
			if !ok {
				results[i].skip = &Skip{Target: target.Name, Reason: fmt.Sprintf("no element set for NORAD %d", target.NoradID)}
				return
			}

			prop, err := NewSGP4Propagator(el, p.st)
			if err != nil {
				results[i].skip = &Skip{Target: target.Name, Reason: err.Error()}
				return
			}

			passes, warnings, scanErr := p.scanTarget(ctx, prop, target, res.Start, res.End)
			results[i].passes = passes
			results[i].warnings = warnings
			switch {
			case errors.Is(scanErr, context.Canceled), errors.Is(scanErr, context.DeadlineExceeded):
				// Keep whatever the scan produced before the deadline.
				results[i].partial = true
			case scanErr != nil:
				results[i].skip = &Skip{Target: target.Name, Reason: scanErr.Error()}
			}
		}(i, target)
	}
	wg.Wait()

	for _, tr := range results {
		res.Passes = append(res.Passes, tr.passes...)
		res.Warnings = append(res.Warnings, tr.warnings...)
		if tr.skip != nil {
			res.Skipped = append(res.Skipped, *tr.skip)
			p.log.Printf("predict: skipping %s: %s", tr.skip.Target, tr.skip.Reason)
		}
		if tr.partial {
			res.Incomplete = true
		}
	}

	sort.Slice(res.Passes, func(i, j int) bool {
		return res.Passes[i].AOS.Before(res.Passes[j].AOS)
	})

	p.broadcast(map[string]any{
		"type":    "log",
		"level":   "info",
		"message": fmt.Sprintf("found %d passes in next %dh (%d skipped)", len(res.Passes), p.cfg.Predict.LookaheadHours, len(res.Skipped)),
	})

	return res, nil
}

// scanTarget samples one target's geometry across the window and folds the
// samples through the detector and aggregator. Returns ctx.Err() if the
// window scan was cut short, or the propagation error if the model broke
// down mid-window; passes completed before the failure are kept either way.
func (p *Predictor) scanTarget(ctx context.Context, prop Propagator, target catalog.LEOTarget, start, end time.Time) ([]PassRecord, []Warning, error) {
	det := NewDetector(p.cfg.Station.MinElevation)
	agg := NewAggregator(target.Name, target.NoradID, target.FreqHz, QualityThresholds{
		HighDeg:   p.cfg.Predict.QualityHighDeg,
		MediumDeg: p.cfg.Predict.QualityMedDeg,
	})

	step := time.Duration(p.cfg.Predict.StepSeconds) * time.Second

	var passes []PassRecord
	for t := start; !t.After(end); t = t.Add(step) {
		if err := ctx.Err(); err != nil {
			return passes, agg.Warnings(), err
		}

		s, err := prop.Observe(t)
		if err != nil {
			return passes, agg.Warnings(), err
		}

		for _, ev := range det.Feed(t, s) {
			if rec, ok := agg.Feed(ev); ok {
				passes = append(passes, rec)
			}
		}
	}

	return passes, agg.Warnings(), nil
}

// ForceRefreshTLEs fetches element sets from the network regardless of
// cache age and returns the number of satellites updated.
func (p *Predictor) ForceRefreshTLEs() (int, error) {
	tles, err := p.tleStore.ForceRefresh()
	if err != nil {
		return 0, err
	}
	return len(tles), nil
}

// TLECacheInfo reports the state of the element-set cache.
func (p *Predictor) TLECacheInfo() CacheInfo {
	return p.tleStore.CacheInfo()
}

func (p *Predictor) broadcast(v map[string]any) {
	if p.hub == nil {
		return
	}
	v["ts"] = telemetry.NowTS()
	v["component"] = "predict"
	p.hub.BroadcastJSON(v)
}
