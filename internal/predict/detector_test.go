package predict

import (
	"testing"
	"time"

	"github.com/elaichix/satellite-security/internal/geo"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// feedProfile pushes a series of elevation samples, one minute apart, and
// collects every emitted event.
func feedProfile(d *Detector, elevations []float64) []VisibilityEvent {
	var events []VisibilityEvent
	for i, el := range elevations {
		s := geo.Sample{ElevationDeg: el, AzimuthDeg: float64(10 * i), RangeKm: 1000}
		events = append(events, d.Feed(t0.Add(time.Duration(i)*time.Minute), s)...)
	}
	return events
}

func TestDetectorSimplePass(t *testing.T) {
	d := NewDetector(5)
	events := feedProfile(d, []float64{-5, 2, 10, 25, 40, 30, 12, 3, -4})

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}

	rise, culm, set := events[0], events[1], events[2]

	if rise.Kind != Rise || rise.ElevationDeg != 10 {
		t.Errorf("rise = %+v, want Rise at 10 deg", rise)
	}
	if !rise.Time.Equal(t0.Add(2 * time.Minute)) {
		t.Errorf("rise time = %v, want %v", rise.Time, t0.Add(2*time.Minute))
	}

	if culm.Kind != Culmination || culm.ElevationDeg != 40 {
		t.Errorf("culmination = %+v, want Culmination at 40 deg", culm)
	}
	if !culm.Time.Equal(t0.Add(4 * time.Minute)) {
		t.Errorf("culmination time = %v, want %v", culm.Time, t0.Add(4*time.Minute))
	}

	// Set is stamped with the last visible sample, not the first one below
	// the threshold.
	if set.Kind != Set || set.ElevationDeg != 12 {
		t.Errorf("set = %+v, want Set at 12 deg", set)
	}
	if !set.Time.Equal(t0.Add(6 * time.Minute)) {
		t.Errorf("set time = %v, want %v", set.Time, t0.Add(6*time.Minute))
	}
}

func TestDetectorThresholdInclusive(t *testing.T) {
	d := NewDetector(5)
	events := feedProfile(d, []float64{4.9, 5.0, 4.9})

	if len(events) != 3 {
		t.Fatalf("expected rise+culmination+set, got %d events: %+v", len(events), events)
	}
	if events[0].Kind != Rise || events[0].ElevationDeg != 5.0 {
		t.Errorf("sample exactly at the threshold must trigger Rise, got %+v", events[0])
	}
}

func TestDetectorDoublePeak(t *testing.T) {
	d := NewDetector(5)
	events := feedProfile(d, []float64{6, 20, 10, 25, 8, -1})

	kinds := make([]EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	want := []EventKind{Rise, Culmination, Culmination, Set}
	if len(kinds) != len(want) {
		t.Fatalf("event kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event kinds = %v, want %v", kinds, want)
		}
	}

	if events[1].ElevationDeg != 20 || events[2].ElevationDeg != 25 {
		t.Errorf("culmination elevations = %.0f, %.0f, want 20, 25", events[1].ElevationDeg, events[2].ElevationDeg)
	}
}

func TestDetectorStillRisingAtSet(t *testing.T) {
	// Elevation climbing right until it drops below threshold: the final
	// visible sample is both the peak and the set point.
	d := NewDetector(5)
	events := feedProfile(d, []float64{6, 20, -1})

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}
	if events[1].Kind != Culmination || events[1].ElevationDeg != 20 {
		t.Errorf("expected culmination at 20 deg, got %+v", events[1])
	}
	if events[2].Kind != Set || events[2].ElevationDeg != 20 {
		t.Errorf("expected set at 20 deg, got %+v", events[2])
	}
	if !events[1].Time.Equal(events[2].Time) {
		t.Errorf("culmination and set should share the last visible sample time")
	}
}

func TestDetectorPassInProgressAtWindowEnd(t *testing.T) {
	// A pass still above threshold when samples stop never emits Set, so
	// no complete pass can be reported from it.
	d := NewDetector(5)
	events := feedProfile(d, []float64{-2, 8, 15, 22})

	for _, ev := range events {
		if ev.Kind == Set {
			t.Fatalf("unexpected Set for in-progress pass: %+v", ev)
		}
	}
}

func TestDetectorNeverVisible(t *testing.T) {
	d := NewDetector(5)
	events := feedProfile(d, []float64{-10, -3, 1, 4.9, 2, -8})

	if len(events) != 0 {
		t.Fatalf("expected no events below threshold, got %+v", events)
	}
}

func TestDetectorReset(t *testing.T) {
	d := NewDetector(5)
	feedProfile(d, []float64{10, 20})
	d.Reset()

	// After a reset the next visible sample starts a fresh pass.
	events := feedProfile(d, []float64{30})
	if len(events) != 1 || events[0].Kind != Rise {
		t.Fatalf("expected a fresh Rise after reset, got %+v", events)
	}
}

func TestDetectorEventOrdering(t *testing.T) {
	d := NewDetector(0)
	events := feedProfile(d, []float64{-1, 5, 30, 60, 45, 20, -3, -5, 2, 10, 4, -2})

	var last time.Time
	for i, ev := range events {
		if i > 0 && ev.Time.Before(last) {
			t.Fatalf("event %d out of order: %v before %v", i, ev.Time, last)
		}
		last = ev.Time
	}
}
