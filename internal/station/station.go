// Package station models the fixed ground observer. A GroundStation is
// created once from configuration (or a gpsd fix) and treated as immutable
// for the lifetime of a run.
package station

import (
	"fmt"
	"math"
)

// GroundStation is the observer position used by all geometry and pass
// computations.
type GroundStation struct {
	Name         string
	LatitudeDeg  float64 // degrees North
	LongitudeDeg float64 // degrees East
	ElevationM   float64 // meters above sea level
}

// Validate rejects non-physical observer coordinates before any computation
// begins.
func (g GroundStation) Validate() error {
	if math.IsNaN(g.LatitudeDeg) || g.LatitudeDeg < -90 || g.LatitudeDeg > 90 {
		return fmt.Errorf("station latitude %.4f out of range [-90, 90]", g.LatitudeDeg)
	}
	if math.IsNaN(g.LongitudeDeg) || g.LongitudeDeg < -180 || g.LongitudeDeg > 360 {
		return fmt.Errorf("station longitude %.4f out of range [-180, 360]", g.LongitudeDeg)
	}
	return nil
}

// String renders the station as "23.8103°N, 90.4125°E".
func (g GroundStation) String() string {
	return fmt.Sprintf("%.4f°N, %.4f°E", g.LatitudeDeg, g.LongitudeDeg)
}
