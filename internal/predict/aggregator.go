package predict

import (
	"fmt"
	"time"
)

// Quality grades a pass by its peak elevation. Higher passes give longer,
// cleaner reception windows.
type Quality string

const (
	QualityHigh   Quality = "High"
	QualityMedium Quality = "Medium"
	QualityLow    Quality = "Low"
)

// QualityThresholds are the peak-elevation boundaries between quality
// tiers, in degrees. A peak strictly above High is High, strictly above
// Medium is Medium, and anything else visible is Low.
type QualityThresholds struct {
	HighDeg   float64
	MediumDeg float64
}

// DefaultQualityThresholds returns the standard 60/30 degree tiering.
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{HighDeg: 60, MediumDeg: 30}
}

func (q QualityThresholds) grade(peakDeg float64) Quality {
	switch {
	case peakDeg > q.HighDeg:
		return QualityHigh
	case peakDeg > q.MediumDeg:
		return QualityMedium
	default:
		return QualityLow
	}
}

// PassRecord is one completed visibility pass of a LEO target.
type PassRecord struct {
	Target          string    `json:"target"`
	NoradID         int       `json:"norad_id"`
	FreqHz          int       `json:"freq_hz,omitempty"`
	AOS             time.Time `json:"aos"`
	LOS             time.Time `json:"los"`
	CulminationTime time.Time `json:"culmination_time"`
	MaxElevationDeg float64   `json:"max_elevation_deg"`
	MaxAzimuthDeg   float64   `json:"max_azimuth_deg"`
	DurationMin     float64   `json:"duration_min"`
	Quality         Quality   `json:"quality"`
}

// WarningKind classifies an aggregation anomaly.
type WarningKind string

const (
	// WarnOrphanedEvent marks a Culmination or Set with no open pass, or a
	// Rise that interrupts one.
	WarnOrphanedEvent WarningKind = "orphaned_event"
	// WarnDegeneratePass marks a pass whose duration is not positive.
	WarnDegeneratePass WarningKind = "degenerate_pass"
)

// Warning is a non-fatal anomaly observed while folding events. Warnings
// are surfaced to the caller instead of aborting the batch.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Target string      `json:"target"`
	Detail string      `json:"detail"`
}

// Aggregator folds a single target's visibility events into pass records.
// A record is emitted on each well-formed Rise..Set sequence; when a pass
// contains several culminations the highest one is kept.
type Aggregator struct {
	target     string
	noradID    int
	freqHz     int
	thresholds QualityThresholds

	open     bool
	rise     VisibilityEvent
	peak     VisibilityEvent
	warnings []Warning
}

// NewAggregator returns an aggregator for one target.
func NewAggregator(target string, noradID, freqHz int, thresholds QualityThresholds) *Aggregator {
	return &Aggregator{target: target, noradID: noradID, freqHz: freqHz, thresholds: thresholds}
}

// Feed consumes one event. It returns a completed pass record and true when
// the event closed a pass; malformed sequences are recorded as warnings and
// produce no record.
func (a *Aggregator) Feed(ev VisibilityEvent) (PassRecord, bool) {
	switch ev.Kind {
	case Rise:
		if a.open {
			a.warn(WarnOrphanedEvent, fmt.Sprintf("rise at %s with a pass already open", ev.Time.UTC().Format(time.RFC3339)))
		}
		a.open = true
		a.rise = ev
		a.peak = ev

	case Culmination:
		if !a.open {
			a.warn(WarnOrphanedEvent, fmt.Sprintf("culmination at %s with no open pass", ev.Time.UTC().Format(time.RFC3339)))
			return PassRecord{}, false
		}
		if ev.ElevationDeg > a.peak.ElevationDeg {
			a.peak = ev
		}

	case Set:
		if !a.open {
			a.warn(WarnOrphanedEvent, fmt.Sprintf("set at %s with no open pass", ev.Time.UTC().Format(time.RFC3339)))
			return PassRecord{}, false
		}
		a.open = false
		if ev.ElevationDeg > a.peak.ElevationDeg {
			a.peak = ev
		}
		duration := ev.Time.Sub(a.rise.Time)
		if duration <= 0 {
			a.warn(WarnDegeneratePass, fmt.Sprintf("pass at %s has duration %s", a.rise.Time.UTC().Format(time.RFC3339), duration))
			return PassRecord{}, false
		}
		return PassRecord{
			Target:          a.target,
			NoradID:         a.noradID,
			FreqHz:          a.freqHz,
			AOS:             a.rise.Time,
			LOS:             ev.Time,
			CulminationTime: a.peak.Time,
			MaxElevationDeg: a.peak.ElevationDeg,
			MaxAzimuthDeg:   a.peak.AzimuthDeg,
			DurationMin:     duration.Minutes(),
			Quality:         a.thresholds.grade(a.peak.ElevationDeg),
		}, true
	}
	return PassRecord{}, false
}

// Warnings returns the anomalies observed so far.
func (a *Aggregator) Warnings() []Warning {
	return a.warnings
}

func (a *Aggregator) warn(kind WarningKind, detail string) {
	a.warnings = append(a.warnings, Warning{Kind: kind, Target: a.target, Detail: detail})
}
