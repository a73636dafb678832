package predict

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/elaichix/satellite-security/internal/geo"
	"github.com/elaichix/satellite-security/internal/station"
)

// Propagator is the orbit propagation service boundary: it yields the
// station-relative geometry of one satellite at an instant. The detector
// and aggregator depend only on this interface, so tests can drive them
// with synthetic geometry.
type Propagator interface {
	Observe(t time.Time) (geo.Sample, error)
}

// sgp4Propagator propagates one LEO satellite with the SGP4 model and
// converts the ECI position to look angles from the ground station.
type sgp4Propagator struct {
	sat     satellite.Satellite
	obs     satellite.LatLong
	obsAltM float64
	noradID int
}

// NewSGP4Propagator builds a propagator for one element set as seen from
// the given station.
//
// The TLE lines are format-checked before initialization because the
// propagation library terminates the process on malformed input.
func NewSGP4Propagator(el Element, st station.GroundStation) (Propagator, error) {
	if err := validateTLELines(el.Line1, el.Line2); err != nil {
		return nil, fmt.Errorf("element set for NORAD %d: %w", el.NoradID, err)
	}

	sat := satellite.TLEToSat(el.Line1, el.Line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed for NORAD %d: code=%d %s", el.NoradID, sat.Error, sat.ErrorStr)
	}

	return &sgp4Propagator{
		sat: sat,
		obs: satellite.LatLong{
			Latitude:  st.LatitudeDeg * math.Pi / 180,
			Longitude: st.LongitudeDeg * math.Pi / 180,
		},
		obsAltM: st.ElevationM,
		noradID: el.NoradID,
	}, nil
}

// validateTLELines performs basic format validation on TLE lines.
func validateTLELines(line1, line2 string) error {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}
	return nil
}

// Observe propagates to time t (interpreted in UTC) and returns the
// station-relative elevation, azimuth, and slant range.
func (p *sgp4Propagator) Observe(t time.Time) (geo.Sample, error) {
	t = t.UTC()
	y, mo, d := t.Date()
	h, mi, sec := t.Clock()

	pos, _ := satellite.Propagate(p.sat, y, int(mo), d, h, mi, sec)

	// The library reports propagation failure through NaN output rather
	// than an error return.
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) ||
		math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) || math.IsInf(pos.Z, 0) {
		return geo.Sample{}, fmt.Errorf("sgp4 propagation failed for NORAD %d at %s: output is NaN/Inf", p.noradID, t.Format(time.RFC3339))
	}
	mag := math.Sqrt(pos.X*pos.X + pos.Y*pos.Y + pos.Z*pos.Z)
	if mag < 6200.0 || mag > 50000.0 {
		return geo.Sample{}, fmt.Errorf("sgp4 propagation failed for NORAD %d at %s: unreasonable position magnitude %.1f km", p.noradID, t.Format(time.RFC3339), mag)
	}

	jday := satellite.JDay(y, int(mo), d, h, mi, sec)
	la := satellite.ECIToLookAngles(pos, p.obs, p.obsAltM/1000.0, jday)

	az := la.Az * 180 / math.Pi
	if az < 0 {
		az += 360
	}

	return geo.Sample{
		ElevationDeg: la.El * 180 / math.Pi,
		AzimuthDeg:   az,
		RangeKm:      la.Rg,
	}, nil
}
