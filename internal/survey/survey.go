// Package survey evaluates the GEO catalog against a ground station: which
// targets sit inside the configured orbital arc, their look angles, and their
// reception priority. GEO visibility is a static geometric fact, so a survey
// is a single pure computation over in-memory data with no external calls.
package survey

import (
	"errors"
	"sort"

	"github.com/elaichix/satellite-security/internal/catalog"
	"github.com/elaichix/satellite-security/internal/geo"
	"github.com/elaichix/satellite-security/internal/rank"
	"github.com/elaichix/satellite-security/internal/station"
)

// Row is one visible GEO target with its computed geometry and priority.
type Row struct {
	Name         string    `json:"name"`
	Operator     string    `json:"operator"`
	Longitude    float64   `json:"longitude"`
	Bands        []string  `json:"bands"`
	Coverage     []string  `json:"coverage"`
	ElevationDeg float64   `json:"elevation_deg"`
	AzimuthDeg   float64   `json:"azimuth_deg"`
	RangeKm      float64   `json:"range_km"`
	Score        float64   `json:"score"`
	Tier         rank.Tier `json:"tier"`
}

// Options bounds the survey: the orbital arc under study (degrees East,
// inclusive), the minimum usable elevation, and the ranking configuration.
type Options struct {
	ArcMinDeg       float64
	ArcMaxDeg       float64
	MinElevationDeg float64
	Ranking         rank.Options
}

// Run surveys the catalog from the given station. Targets outside the arc or
// below the elevation threshold are omitted, not reported as invisible rows.
// Output is sorted by orbital longitude ascending (ties by name).
func Run(st station.GroundStation, targets []catalog.GEOTarget, opts Options) ([]Row, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	if opts.ArcMinDeg > opts.ArcMaxDeg {
		return nil, errors.New("survey: arc min exceeds arc max")
	}

	rows := make([]Row, 0, len(targets))
	for _, target := range targets {
		if target.Longitude < opts.ArcMinDeg || target.Longitude > opts.ArcMaxDeg {
			continue
		}

		sample, err := geo.LookAngles(st, target.Longitude, opts.MinElevationDeg)
		if errors.Is(err, geo.ErrNotVisible) {
			continue
		}
		if err != nil {
			return nil, err
		}

		score := rank.ScoreTarget(target, sample.ElevationDeg, opts.Ranking)
		rows = append(rows, Row{
			Name:         target.Name,
			Operator:     target.Operator,
			Longitude:    target.Longitude,
			Bands:        target.Bands,
			Coverage:     target.Coverage,
			ElevationDeg: sample.ElevationDeg,
			AzimuthDeg:   sample.AzimuthDeg,
			RangeKm:      sample.RangeKm,
			Score:        score.Value,
			Tier:         score.Tier,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Longitude != rows[j].Longitude {
			return rows[i].Longitude < rows[j].Longitude
		}
		return rows[i].Name < rows[j].Name
	})

	return rows, nil
}

// BestFirst returns a copy of rows ordered by descending score, ties by
// longitude ascending, for "best targets first" presentation.
func BestFirst(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Longitude != out[j].Longitude {
			return out[i].Longitude < out[j].Longitude
		}
		return out[i].Name < out[j].Name
	})
	return out
}
