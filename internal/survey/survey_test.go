package survey

import (
	"reflect"
	"testing"

	"github.com/elaichix/satellite-security/internal/catalog"
	"github.com/elaichix/satellite-security/internal/rank"
	"github.com/elaichix/satellite-security/internal/station"
)

var dhaka = station.GroundStation{
	Name:         "Dhaka Ground Station",
	LatitudeDeg:  23.8103,
	LongitudeDeg: 90.4125,
	ElevationM:   9,
}

func defaultOpts() Options {
	return Options{
		ArcMinDeg:       40,
		ArcMaxDeg:       160,
		MinElevationDeg: 5,
		Ranking:         rank.DefaultOptions(),
	}
}

func TestRunArcFilter(t *testing.T) {
	targets := []catalog.GEOTarget{
		{Name: "Express AM6", Longitude: 53.0, Bands: []string{"C", "Ku"}},
		{Name: "Eastern Bird", Longitude: 170.0, Bands: []string{"Ku"}},
	}

	rows, err := Run(dhaka, targets, defaultOpts())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (only the 53°E entry inside [40, 160])", len(rows))
	}
	if rows[0].Name != "Express AM6" {
		t.Errorf("row = %s, want Express AM6", rows[0].Name)
	}
}

func TestRunSortedByLongitude(t *testing.T) {
	rows, err := Run(dhaka, catalog.GEOTargets, defaultOpts())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("expected visible targets in the default arc")
	}

	for i := 1; i < len(rows); i++ {
		if rows[i].Longitude < rows[i-1].Longitude {
			t.Errorf("rows out of order at %d: %.1f°E after %.1f°E", i, rows[i].Longitude, rows[i-1].Longitude)
		}
	}
	for _, r := range rows {
		if r.ElevationDeg < 5 {
			t.Errorf("%s retained below minimum elevation: %.2f°", r.Name, r.ElevationDeg)
		}
	}
}

func TestRunRejectsInvertedArc(t *testing.T) {
	opts := defaultOpts()
	opts.ArcMinDeg, opts.ArcMaxDeg = 160, 40
	if _, err := Run(dhaka, catalog.GEOTargets, opts); err == nil {
		t.Error("inverted arc accepted, want error")
	}
}

func TestRunRejectsBadStation(t *testing.T) {
	bad := dhaka
	bad.LatitudeDeg = 120
	if _, err := Run(bad, catalog.GEOTargets, defaultOpts()); err == nil {
		t.Error("non-physical latitude accepted, want error")
	}
}

func TestBestFirst(t *testing.T) {
	rows, err := Run(dhaka, catalog.GEOTargets, defaultOpts())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	best := BestFirst(rows)
	if len(best) != len(rows) {
		t.Fatalf("BestFirst changed row count: %d vs %d", len(best), len(rows))
	}
	for i := 1; i < len(best); i++ {
		if best[i].Score > best[i-1].Score {
			t.Errorf("best-first out of order at %d: %.2f after %.2f", i, best[i].Score, best[i-1].Score)
		}
	}

	// The original slice stays longitude-ordered.
	for i := 1; i < len(rows); i++ {
		if rows[i].Longitude < rows[i-1].Longitude {
			t.Error("BestFirst mutated its input ordering")
			break
		}
	}
}

func TestRunIdempotent(t *testing.T) {
	first, err := Run(dhaka, catalog.GEOTargets, defaultOpts())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := Run(dhaka, catalog.GEOTargets, defaultOpts())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("surveying the same snapshot twice produced different output")
	}
}
