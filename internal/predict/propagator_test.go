package predict

import (
	"testing"
	"time"

	"github.com/elaichix/satellite-security/internal/station"
)

// Real ISS element set (epoch Feb 2025, fine for geometry testing).
var issElement = Element{
	Name:    "ISS (ZARYA)",
	NoradID: 25544,
	Line1:   "1 25544U 98067A   25045.18032407  .00016717  00000+0  30099-3 0  9993",
	Line2:   "2 25544  51.6412 193.5765 0003457 126.2851 233.8519 15.49874301495058",
}

var testStation = station.GroundStation{
	Name:         "Dhaka Ground Station",
	LatitudeDeg:  23.8103,
	LongitudeDeg: 90.4125,
	ElevationM:   9,
}

func TestSGP4PropagatorObserve(t *testing.T) {
	prop, err := NewSGP4Propagator(issElement, testStation)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	start := time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 24; i++ {
		s, err := prop.Observe(start.Add(time.Duration(i) * time.Hour))
		if err != nil {
			t.Fatalf("observe +%dh: %v", i, err)
		}
		if s.ElevationDeg < -90 || s.ElevationDeg > 90 {
			t.Errorf("+%dh: elevation %.2f out of range", i, s.ElevationDeg)
		}
		if s.AzimuthDeg < 0 || s.AzimuthDeg >= 360 {
			t.Errorf("+%dh: azimuth %.2f out of range", i, s.AzimuthDeg)
		}
		// ISS slant range from the ground is bounded by its orbit.
		if s.RangeKm < 300 || s.RangeKm > 15000 {
			t.Errorf("+%dh: range %.1f km implausible for LEO", i, s.RangeKm)
		}
	}
}

func TestSGP4PropagatorDeterministic(t *testing.T) {
	prop, err := NewSGP4Propagator(issElement, testStation)
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	at := time.Date(2025, 2, 14, 18, 30, 0, 0, time.UTC)
	a, err := prop.Observe(at)
	if err != nil {
		t.Fatal(err)
	}
	b, err := prop.Observe(at)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("same instant gave different samples: %+v vs %+v", a, b)
	}
}

func TestNewSGP4PropagatorRejectsMalformedLines(t *testing.T) {
	cases := []struct {
		name  string
		line1 string
		line2 string
	}{
		{"short line1", "1 25544U", issElement.Line2},
		{"short line2", issElement.Line1, "2 25544"},
		{"swapped prefixes", issElement.Line2, issElement.Line1},
		{"empty", "", ""},
	}
	for _, c := range cases {
		el := Element{Name: "BAD", NoradID: 1, Line1: c.line1, Line2: c.line2}
		if _, err := NewSGP4Propagator(el, testStation); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}
