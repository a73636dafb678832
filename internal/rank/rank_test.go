package rank

import (
	"math"
	"reflect"
	"testing"

	"github.com/elaichix/satellite-security/internal/catalog"
)

func TestScoreTargetBangabandhu(t *testing.T) {
	target := catalog.GEOTarget{
		Name:      "Bangabandhu-1",
		Longitude: 119.1,
		Bands:     []string{"C", "Ku"},
		Coverage:  []string{"Bangladesh", "South Asia"},
	}

	// 47.52° elevation: elevation term capped contribution is 4.752,
	// +3 Ku band, +2 home coverage = 9.752 -> HIGH.
	s := ScoreTarget(target, 47.52, DefaultOptions())
	if math.Abs(s.Value-9.752) > 1e-9 {
		t.Errorf("score = %.3f, want 9.752", s.Value)
	}
	if s.Tier != TierHigh {
		t.Errorf("tier = %s, want HIGH", s.Tier)
	}
}

func TestScoreElevationCapped(t *testing.T) {
	target := catalog.GEOTarget{Name: "X", Bands: []string{"C"}}

	// 80° elevation would contribute 8 uncapped; the cap is 5.
	s := ScoreTarget(target, 80, DefaultOptions())
	if s.Value != 5 {
		t.Errorf("score = %.3f, want 5 (elevation term capped)", s.Value)
	}
	if s.Tier != TierMedium {
		t.Errorf("tier = %s, want MEDIUM", s.Tier)
	}
}

func TestScoreSecondaryRegion(t *testing.T) {
	target := catalog.GEOTarget{
		Name:     "GSAT-30",
		Bands:    []string{"C", "Ku"},
		Coverage: []string{"India", "South Asia"},
	}

	// Home and secondary bonuses stack: 2 + 1.
	s := ScoreTarget(target, 60, DefaultOptions())
	want := 5.0 + 3 + 2 + 1
	if math.Abs(s.Value-want) > 1e-9 {
		t.Errorf("score = %.3f, want %.3f", s.Value, want)
	}
}

func TestTierThresholds(t *testing.T) {
	opts := DefaultOptions()
	cases := []struct {
		value float64
		want  Tier
	}{
		{7.0, TierHigh},
		{6.99, TierMedium},
		{4.0, TierMedium},
		{3.99, TierLow},
		{0, TierLow},
	}
	for _, c := range cases {
		if got := opts.tier(c.value); got != c.want {
			t.Errorf("tier(%.2f) = %s, want %s", c.value, got, c.want)
		}
	}
}

func TestSortByScoreTieBreaksByLongitude(t *testing.T) {
	scores := []Score{
		{Target: "B", Longitude: 95.0, Value: 8},
		{Target: "A", Longitude: 55.0, Value: 8},
		{Target: "C", Longitude: 83.0, Value: 10},
	}
	SortByScore(scores)

	got := []string{scores[0].Target, scores[1].Target, scores[2].Target}
	want := []string{"C", "A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestRankingIdempotent(t *testing.T) {
	opts := DefaultOptions()

	run := func() []Score {
		var scores []Score
		for _, target := range catalog.GEOTargets {
			scores = append(scores, ScoreTarget(target, 40, opts))
		}
		SortByLongitude(scores)
		return scores
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Error("ranking the same catalog snapshot twice produced different output")
	}
}
