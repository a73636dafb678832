package predict

import (
	"math"
	"testing"
	"time"
)

func newTestAggregator() *Aggregator {
	return NewAggregator("NOAA 19", 33591, 137100000, DefaultQualityThresholds())
}

func TestAggregatorRoundTrip(t *testing.T) {
	a := newTestAggregator()

	rise := VisibilityEvent{Time: t0, Kind: Rise, ElevationDeg: 5.2, AzimuthDeg: 192}
	culm := VisibilityEvent{Time: t0.Add(6 * time.Minute), Kind: Culmination, ElevationDeg: 45, AzimuthDeg: 270}
	set := VisibilityEvent{Time: t0.Add(12 * time.Minute), Kind: Set, ElevationDeg: 5.1, AzimuthDeg: 350}

	if _, ok := a.Feed(rise); ok {
		t.Fatal("rise must not close a pass")
	}
	if _, ok := a.Feed(culm); ok {
		t.Fatal("culmination must not close a pass")
	}
	rec, ok := a.Feed(set)
	if !ok {
		t.Fatal("set should close the pass")
	}

	if rec.Target != "NOAA 19" || rec.NoradID != 33591 {
		t.Errorf("record identity = %s/%d, want NOAA 19/33591", rec.Target, rec.NoradID)
	}
	if !rec.AOS.Equal(t0) || !rec.LOS.Equal(set.Time) {
		t.Errorf("AOS/LOS = %v/%v, want %v/%v", rec.AOS, rec.LOS, t0, set.Time)
	}
	if !rec.CulminationTime.Equal(culm.Time) {
		t.Errorf("culmination time = %v, want %v", rec.CulminationTime, culm.Time)
	}
	if rec.MaxElevationDeg != 45 || rec.MaxAzimuthDeg != 270 {
		t.Errorf("peak = %.1f deg at az %.1f, want 45 at 270", rec.MaxElevationDeg, rec.MaxAzimuthDeg)
	}
	if math.Abs(rec.DurationMin-12) > 1e-9 {
		t.Errorf("duration = %.4f min, want 12", rec.DurationMin)
	}
	if rec.Quality != QualityMedium {
		t.Errorf("quality = %s, want Medium", rec.Quality)
	}
	if len(a.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %+v", a.Warnings())
	}
}

func TestAggregatorKeepsHighestCulmination(t *testing.T) {
	a := newTestAggregator()

	a.Feed(VisibilityEvent{Time: t0, Kind: Rise, ElevationDeg: 6})
	a.Feed(VisibilityEvent{Time: t0.Add(2 * time.Minute), Kind: Culmination, ElevationDeg: 20, AzimuthDeg: 100})
	a.Feed(VisibilityEvent{Time: t0.Add(5 * time.Minute), Kind: Culmination, ElevationDeg: 65, AzimuthDeg: 180})
	a.Feed(VisibilityEvent{Time: t0.Add(7 * time.Minute), Kind: Culmination, ElevationDeg: 31, AzimuthDeg: 220})
	rec, ok := a.Feed(VisibilityEvent{Time: t0.Add(9 * time.Minute), Kind: Set, ElevationDeg: 5})
	if !ok {
		t.Fatal("expected a pass record")
	}

	if rec.MaxElevationDeg != 65 || rec.MaxAzimuthDeg != 180 {
		t.Errorf("peak = %.1f deg at az %.1f, want 65 at 180", rec.MaxElevationDeg, rec.MaxAzimuthDeg)
	}
	if !rec.CulminationTime.Equal(t0.Add(5 * time.Minute)) {
		t.Errorf("culmination time = %v, want the highest peak's time", rec.CulminationTime)
	}
	if rec.Quality != QualityHigh {
		t.Errorf("quality = %s, want High for 65 deg", rec.Quality)
	}
}

func TestAggregatorNoCulminationFallsBackToCrossings(t *testing.T) {
	a := newTestAggregator()

	a.Feed(VisibilityEvent{Time: t0, Kind: Rise, ElevationDeg: 7, AzimuthDeg: 15})
	rec, ok := a.Feed(VisibilityEvent{Time: t0.Add(3 * time.Minute), Kind: Set, ElevationDeg: 9, AzimuthDeg: 80})
	if !ok {
		t.Fatal("expected a pass record")
	}
	if rec.MaxElevationDeg != 9 {
		t.Errorf("peak = %.1f, want the higher of the two crossings", rec.MaxElevationDeg)
	}
	if rec.Quality != QualityLow {
		t.Errorf("quality = %s, want Low", rec.Quality)
	}
}

func TestAggregatorOrphanedSet(t *testing.T) {
	a := newTestAggregator()

	rec, ok := a.Feed(VisibilityEvent{Time: t0, Kind: Set, ElevationDeg: 8})
	if ok {
		t.Fatalf("orphaned set must not produce a record, got %+v", rec)
	}

	warnings := a.Warnings()
	if len(warnings) != 1 || warnings[0].Kind != WarnOrphanedEvent {
		t.Fatalf("expected one orphaned_event warning, got %+v", warnings)
	}
	if warnings[0].Target != "NOAA 19" {
		t.Errorf("warning target = %s, want NOAA 19", warnings[0].Target)
	}
}

func TestAggregatorOrphanedCulmination(t *testing.T) {
	a := newTestAggregator()

	if _, ok := a.Feed(VisibilityEvent{Time: t0, Kind: Culmination, ElevationDeg: 50}); ok {
		t.Fatal("orphaned culmination must not produce a record")
	}
	if len(a.Warnings()) != 1 || a.Warnings()[0].Kind != WarnOrphanedEvent {
		t.Fatalf("expected one orphaned_event warning, got %+v", a.Warnings())
	}
}

func TestAggregatorDegeneratePass(t *testing.T) {
	a := newTestAggregator()

	a.Feed(VisibilityEvent{Time: t0, Kind: Rise, ElevationDeg: 5})
	rec, ok := a.Feed(VisibilityEvent{Time: t0, Kind: Set, ElevationDeg: 5})
	if ok {
		t.Fatalf("zero-duration pass must be discarded, got %+v", rec)
	}
	if len(a.Warnings()) != 1 || a.Warnings()[0].Kind != WarnDegeneratePass {
		t.Fatalf("expected one degenerate_pass warning, got %+v", a.Warnings())
	}

	// The aggregator recovers: the next well-formed pass still closes.
	a.Feed(VisibilityEvent{Time: t0.Add(time.Hour), Kind: Rise, ElevationDeg: 10})
	if _, ok := a.Feed(VisibilityEvent{Time: t0.Add(time.Hour + 5*time.Minute), Kind: Set, ElevationDeg: 6}); !ok {
		t.Fatal("aggregator should recover after a degenerate pass")
	}
}

func TestQualityGrading(t *testing.T) {
	q := DefaultQualityThresholds()

	cases := []struct {
		peak float64
		want Quality
	}{
		{90, QualityHigh},
		{60.01, QualityHigh},
		{60, QualityMedium}, // boundary belongs to the lower tier
		{30.01, QualityMedium},
		{30, QualityLow},
		{5, QualityLow},
	}
	for _, c := range cases {
		if got := q.grade(c.peak); got != c.want {
			t.Errorf("grade(%.2f) = %s, want %s", c.peak, got, c.want)
		}
	}
}
