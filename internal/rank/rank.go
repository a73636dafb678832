// Package rank scores GEO targets for reception priority. The score is a
// pure function of catalog attributes and a computed elevation, so ranking
// the same snapshot twice always yields identical output.
package rank

import (
	"sort"

	"github.com/elaichix/satellite-security/internal/catalog"
)

// Tier buckets a priority score for at-a-glance triage.
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// Options holds the scoring configuration. Band is the frequency band under
// study; HomeRegions and SecondaryRegions are coverage tags worth +2 and +1
// respectively.
type Options struct {
	Band             string
	HomeRegions      []string
	SecondaryRegions []string

	HighThreshold   float64
	MediumThreshold float64
}

// DefaultOptions matches the Dhaka campaign: Ku-band is the research target,
// Bangladesh and South Asia are home coverage, India serves a large secondary
// population.
func DefaultOptions() Options {
	return Options{
		Band:             "Ku",
		HomeRegions:      []string{"Bangladesh", "South Asia"},
		SecondaryRegions: []string{"India"},
		HighThreshold:    7,
		MediumThreshold:  4,
	}
}

// Score is the ranking result for one target.
type Score struct {
	Target    string  `json:"target"`
	Longitude float64 `json:"longitude"`
	Value     float64 `json:"score"`
	Tier      Tier    `json:"tier"`
}

// ScoreTarget computes the priority score for a target observed at the given
// elevation. Each term is capped: elevation contributes at most 5 points,
// the band bonus is 3, home coverage 2, secondary coverage 1.
func ScoreTarget(t catalog.GEOTarget, elevationDeg float64, opts Options) Score {
	value := elevationDeg / 10.0
	if value > 5 {
		value = 5
	}
	if t.HasBand(opts.Band) {
		value += 3
	}
	if coversAny(t, opts.HomeRegions) {
		value += 2
	}
	if coversAny(t, opts.SecondaryRegions) {
		value += 1
	}

	return Score{
		Target:    t.Name,
		Longitude: t.Longitude,
		Value:     value,
		Tier:      opts.tier(value),
	}
}

func (o Options) tier(value float64) Tier {
	switch {
	case value >= o.HighThreshold:
		return TierHigh
	case value >= o.MediumThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

func coversAny(t catalog.GEOTarget, regions []string) bool {
	for _, r := range regions {
		if t.Covers(r) {
			return true
		}
	}
	return false
}

// SortByLongitude orders scores west to east for arc-survey presentation.
// Ties break by name so the ordering is reproducible.
func SortByLongitude(scores []Score) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Longitude != scores[j].Longitude {
			return scores[i].Longitude < scores[j].Longitude
		}
		return scores[i].Target < scores[j].Target
	})
}

// SortByScore orders scores best-first. Ties break by longitude ascending.
func SortByScore(scores []Score) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Value != scores[j].Value {
			return scores[i].Value > scores[j].Value
		}
		if scores[i].Longitude != scores[j].Longitude {
			return scores[i].Longitude < scores[j].Longitude
		}
		return scores[i].Target < scores[j].Target
	})
}
