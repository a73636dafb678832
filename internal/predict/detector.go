// Package predict computes LEO visibility windows for a ground station. The
// orbit propagation service (SGP4 over cached element sets) supplies
// topocentric samples; the detector folds them into rise/culmination/set
// events; the aggregator folds events into completed pass records.
package predict

import (
	"time"

	"github.com/elaichix/satellite-security/internal/geo"
)

// EventKind identifies a visibility event within a pass.
type EventKind int

const (
	// Rise is an upward crossing of the minimum-elevation threshold.
	Rise EventKind = iota
	// Culmination is a local elevation maximum between a Rise and its Set.
	Culmination
	// Set is a downward crossing of the minimum-elevation threshold.
	Set
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case Rise:
		return "rise"
	case Culmination:
		return "culmination"
	case Set:
		return "set"
	default:
		return "unknown"
	}
}

// VisibilityEvent is a single threshold crossing or culmination for one
// target. Events are produced in chronological order and consumed
// immediately; they are not retained.
type VisibilityEvent struct {
	Time         time.Time
	Kind         EventKind
	ElevationDeg float64
	AzimuthDeg   float64
}

// Detector is the per-target visibility state machine. It consumes a
// time-ordered sequence of elevation samples and emits Rise, Culmination,
// and Set events at the configured minimum elevation. The threshold is
// inclusive: a sample exactly at the minimum counts as visible.
//
// Every emitted event carries an elevation at or above the threshold; the
// Set event is stamped with the last visible sample, not the first sample
// below the horizon. A pass still in progress when the sample stream ends
// produces no Set and is therefore never reported.
type Detector struct {
	minElevationDeg float64

	visible bool
	rising  bool // elevation increasing since the previous sample

	// Last visible sample, used to stamp Culmination and Set events.
	lastTime time.Time
	lastEl   float64
	lastAz   float64
}

// NewDetector returns a detector in the Idle state.
func NewDetector(minElevationDeg float64) *Detector {
	return &Detector{minElevationDeg: minElevationDeg}
}

// Feed advances the state machine with one sample and returns the events it
// triggered, in order. Samples must be fed in chronological order.
func (d *Detector) Feed(t time.Time, s geo.Sample) []VisibilityEvent {
	above := s.ElevationDeg >= d.minElevationDeg

	var events []VisibilityEvent

	switch {
	case above && !d.visible:
		// Upward crossing.
		d.visible = true
		d.rising = true
		events = append(events, VisibilityEvent{Time: t, Kind: Rise, ElevationDeg: s.ElevationDeg, AzimuthDeg: s.AzimuthDeg})
		d.lastTime, d.lastEl, d.lastAz = t, s.ElevationDeg, s.AzimuthDeg

	case above && d.visible:
		if s.ElevationDeg < d.lastEl && d.rising {
			// The previous sample was a local maximum.
			events = append(events, VisibilityEvent{Time: d.lastTime, Kind: Culmination, ElevationDeg: d.lastEl, AzimuthDeg: d.lastAz})
			d.rising = false
		} else if s.ElevationDeg > d.lastEl {
			d.rising = true
		}
		d.lastTime, d.lastEl, d.lastAz = t, s.ElevationDeg, s.AzimuthDeg

	case !above && d.visible:
		// Downward crossing. If the pass was still climbing, its final
		// visible sample is the peak.
		if d.rising {
			events = append(events, VisibilityEvent{Time: d.lastTime, Kind: Culmination, ElevationDeg: d.lastEl, AzimuthDeg: d.lastAz})
		}
		events = append(events, VisibilityEvent{Time: d.lastTime, Kind: Set, ElevationDeg: d.lastEl, AzimuthDeg: d.lastAz})
		d.visible = false
		d.rising = false
	}

	return events
}

// Reset returns the detector to the Idle state, discarding any in-progress
// pass.
func (d *Detector) Reset() {
	d.visible = false
	d.rising = false
}
