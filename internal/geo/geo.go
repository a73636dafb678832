// Package geo implements the closed-form look-angle geometry for
// geostationary targets: given an observer and a sub-satellite longitude it
// yields elevation, azimuth, and slant range under a spherical-Earth,
// circular-orbit model. Every function here is pure and deterministic.
package geo

import (
	"errors"
	"math"

	"github.com/elaichix/satellite-security/internal/station"
)

// Fixed physical parameters, kilometres.
const (
	EarthRadiusKm = 6371.0
	GeoRadiusKm   = 42164.0 // Earth centre to GEO orbit
)

// horizonRatio is R_earth/R_geo: the central-angle cosine at which a GEO
// target sits exactly on the geometric horizon.
const horizonRatio = EarthRadiusKm / GeoRadiusKm

// ErrNotVisible reports that a target is below the horizon or below the
// requested minimum elevation. It is a normal negative result, not a fault.
var ErrNotVisible = errors.New("target not visible from station")

// Sample is a topocentric observation of a target: elevation and azimuth in
// degrees, slant range in kilometres. Samples are computed on demand and
// never persisted.
type Sample struct {
	ElevationDeg float64
	AzimuthDeg   float64
	RangeKm      float64
}

// LookAngles computes the look angles from a ground station to a GEO target
// at the given sub-satellite longitude. minElevationDeg is inclusive: a
// target exactly at the threshold is visible. Returns ErrNotVisible when the
// target is below the horizon or below the threshold.
func LookAngles(st station.GroundStation, satLonDeg, minElevationDeg float64) (Sample, error) {
	lat := st.LatitudeDeg * math.Pi / 180.0
	deltaLon := (satLonDeg - st.LongitudeDeg) * math.Pi / 180.0

	// Central angle between the sub-satellite point and the station.
	cosGamma := math.Cos(lat) * math.Cos(deltaLon)
	if cosGamma <= horizonRatio {
		return Sample{}, ErrNotVisible
	}

	elevation := math.Atan2(cosGamma-horizonRatio, math.Sqrt(1-cosGamma*cosGamma)) * 180.0 / math.Pi
	if elevation < minElevationDeg {
		return Sample{}, ErrNotVisible
	}

	azimuth := math.Atan2(math.Sin(deltaLon), -math.Cos(deltaLon)*math.Sin(lat)) * 180.0 / math.Pi
	azimuth = math.Mod(azimuth+360.0, 360.0)

	return Sample{
		ElevationDeg: elevation,
		AzimuthDeg:   azimuth,
		RangeKm:      SlantRangeKm(elevation),
	}, nil
}

// SlantRangeKm computes the straight-line distance in kilometres to a GEO
// target observed at the given elevation angle.
func SlantRangeKm(elevationDeg float64) float64 {
	el := elevationDeg * math.Pi / 180.0
	sinEl := math.Sin(el)
	ratio := GeoRadiusKm / EarthRadiusKm
	return EarthRadiusKm * (-sinEl + math.Sqrt(sinEl*sinEl+ratio*ratio-1))
}
