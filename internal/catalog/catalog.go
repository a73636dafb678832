// Package catalog holds the read-only target catalog for the ground station:
// the GEO arc database used for the visibility survey and the LEO birds
// tracked for pass prediction. Catalog data is fixed at compile time; the
// engine components receive it explicitly and never mutate it.
package catalog

import "strings"

// GEOTarget is a geostationary satellite with a fixed orbital slot.
// Visibility from a ground station is a static geometric fact of Longitude.
type GEOTarget struct {
	Name      string   `json:"name"`
	Operator  string   `json:"operator"`
	Longitude float64  `json:"longitude"` // sub-satellite longitude, degrees East
	Bands     []string `json:"bands"`     // transponder bands, e.g. "C", "Ku", "Ka"
	Coverage  []string `json:"coverage"`  // primary service regions
}

// LEOTarget is a low-Earth-orbit satellite tracked for VHF reception.
// Its position comes from an external element set keyed by NORAD ID.
type LEOTarget struct {
	Name    string `json:"name"`
	NoradID int    `json:"norad_id"`
	FreqHz  int    `json:"freq_hz"` // downlink frequency in Hz
	Band    string `json:"band"`
}

// HasBand reports whether the target operates in the given band.
func (t GEOTarget) HasBand(band string) bool {
	for _, b := range t.Bands {
		if strings.EqualFold(b, band) {
			return true
		}
	}
	return false
}

// Covers reports whether the target's coverage includes the given region tag.
func (t GEOTarget) Covers(region string) bool {
	for _, c := range t.Coverage {
		if strings.EqualFold(c, region) {
			return true
		}
	}
	return false
}

// GEOTargets is the South Asian orbital arc database.
// Source: SatBeams, Lyngsat, ITU filings. Ordered west to east.
var GEOTargets = []GEOTarget{
	{Name: "Express AM6", Operator: "RSCC", Longitude: 53.0, Bands: []string{"C", "Ku"}, Coverage: []string{"Russia", "Central Asia", "Middle East"}},
	{Name: "GSAT-31", Operator: "ISRO", Longitude: 55.0, Bands: []string{"C", "Ku"}, Coverage: []string{"India", "South Asia"}},
	{Name: "Yamal 402", Operator: "Gazprom", Longitude: 55.0, Bands: []string{"Ku"}, Coverage: []string{"Russia", "Central Asia", "South Asia"}},
	{Name: "Intelsat 17", Operator: "Intelsat", Longitude: 66.0, Bands: []string{"C", "Ku"}, Coverage: []string{"South Asia", "East Africa"}},
	{Name: "Intelsat 20", Operator: "Intelsat", Longitude: 68.5, Bands: []string{"C", "Ku"}, Coverage: []string{"South Asia", "Middle East"}},
	{Name: "Express AM22", Operator: "RSCC", Longitude: 72.0, Bands: []string{"Ku"}, Coverage: []string{"Russia", "South Asia"}},
	{Name: "Apstar 7", Operator: "APT Satellite", Longitude: 76.5, Bands: []string{"C", "Ku"}, Coverage: []string{"Asia-Pacific"}},
	{Name: "Thaicom 6", Operator: "Thaicom", Longitude: 78.5, Bands: []string{"C", "Ku"}, Coverage: []string{"Southeast Asia", "South Asia"}},
	{Name: "Thaicom 8", Operator: "Thaicom", Longitude: 78.5, Bands: []string{"Ku"}, Coverage: []string{"South Asia", "Southeast Asia"}},
	{Name: "GSAT-30", Operator: "ISRO", Longitude: 83.0, Bands: []string{"C", "Ku"}, Coverage: []string{"India", "South Asia"}},
	{Name: "INSAT-4A", Operator: "ISRO", Longitude: 83.0, Bands: []string{"C", "Ku"}, Coverage: []string{"India"}},
	{Name: "ChinaSat 12", Operator: "China Satcom", Longitude: 87.5, Bands: []string{"C", "Ku"}, Coverage: []string{"Asia-Pacific"}},
	{Name: "MEASAT-3", Operator: "MEASAT", Longitude: 91.5, Bands: []string{"C", "Ku"}, Coverage: []string{"Asia", "Middle East", "Africa"}},
	{Name: "MEASAT-3a", Operator: "MEASAT", Longitude: 91.5, Bands: []string{"C", "Ku"}, Coverage: []string{"Asia", "Middle East"}},
	{Name: "MEASAT-3b", Operator: "MEASAT", Longitude: 91.5, Bands: []string{"Ku", "Ka"}, Coverage: []string{"Malaysia", "South Asia"}},
	{Name: "INSAT-4B", Operator: "ISRO", Longitude: 93.5, Bands: []string{"C", "Ku"}, Coverage: []string{"India"}},
	{Name: "NSS-6/SES-8", Operator: "SES", Longitude: 95.0, Bands: []string{"Ku"}, Coverage: []string{"Asia-Pacific"}},
	{Name: "SES-12", Operator: "SES", Longitude: 95.0, Bands: []string{"Ku", "Ka"}, Coverage: []string{"Asia-Pacific", "Middle East"}},
	{Name: "AsiaSat 5", Operator: "AsiaSat", Longitude: 100.5, Bands: []string{"C", "Ku"}, Coverage: []string{"Asia-Pacific"}},
	{Name: "AsiaSat 7", Operator: "AsiaSat", Longitude: 105.5, Bands: []string{"C", "Ku"}, Coverage: []string{"Asia-Pacific"}},
	{Name: "Telkom 4", Operator: "Telkom", Longitude: 108.0, Bands: []string{"C", "Ku"}, Coverage: []string{"Indonesia", "Southeast Asia"}},
	{Name: "JCSAT-110R", Operator: "SKY Perfect JSAT", Longitude: 110.0, Bands: []string{"Ku"}, Coverage: []string{"Japan", "Asia-Pacific"}},
	{Name: "ABS-2A", Operator: "ABS", Longitude: 116.0, Bands: []string{"Ku", "Ka"}, Coverage: []string{"Asia", "Middle East", "CIS"}},
	{Name: "Bangabandhu-1", Operator: "BSCCL", Longitude: 119.1, Bands: []string{"C", "Ku"}, Coverage: []string{"Bangladesh", "South Asia"}},
	{Name: "AsiaSat 9", Operator: "AsiaSat", Longitude: 122.0, Bands: []string{"C", "Ku", "Ka"}, Coverage: []string{"Asia-Pacific"}},
	{Name: "JCSAT-4B", Operator: "JSAT", Longitude: 124.0, Bands: []string{"Ku"}, Coverage: []string{"Japan", "Asia"}},
	{Name: "ChinaSat 11", Operator: "China Satcom", Longitude: 125.0, Bands: []string{"C", "Ku"}, Coverage: []string{"China", "Asia-Pacific"}},
	{Name: "Superbird C2", Operator: "SKY Perfect JSAT", Longitude: 144.0, Bands: []string{"Ku", "Ka"}, Coverage: []string{"Japan"}},
	{Name: "Optus D3", Operator: "Optus", Longitude: 156.0, Bands: []string{"Ku"}, Coverage: []string{"Australia", "New Zealand"}},
}

// LEOTargets is the list of VHF-band birds tracked for pass prediction.
var LEOTargets = []LEOTarget{
	{Name: "NOAA 15", NoradID: 25338, FreqHz: 137620000, Band: "VHF"},
	{Name: "NOAA 18", NoradID: 28654, FreqHz: 137912500, Band: "VHF"},
	{Name: "NOAA 19", NoradID: 33591, FreqHz: 137100000, Band: "VHF"},
	{Name: "Meteor-M2", NoradID: 40069, FreqHz: 137100000, Band: "VHF"},
	{Name: "Meteor-M2-2", NoradID: 44387, FreqHz: 137900000, Band: "VHF"},
	{Name: "Meteor-M2-3", NoradID: 57166, FreqHz: 137900000, Band: "VHF"},
	{Name: "ISS (SSTV)", NoradID: 25544, FreqHz: 145800000, Band: "VHF"},
}

// GEOByName returns the GEO target with the given name (case-insensitive),
// or nil if not found.
func GEOByName(name string) *GEOTarget {
	for i := range GEOTargets {
		if strings.EqualFold(GEOTargets[i].Name, name) {
			return &GEOTargets[i]
		}
	}
	return nil
}

// LEOByNoradID returns the LEO target with the given NORAD catalog ID,
// or nil if not found.
func LEOByNoradID(id int) *LEOTarget {
	for i := range LEOTargets {
		if LEOTargets[i].NoradID == id {
			return &LEOTargets[i]
		}
	}
	return nil
}

// LEOByName returns the LEO target whose name contains the given string
// (case-insensitive), or nil if none matches.
func LEOByName(name string) *LEOTarget {
	lower := strings.ToLower(name)
	for i := range LEOTargets {
		if strings.Contains(strings.ToLower(LEOTargets[i].Name), lower) {
			return &LEOTargets[i]
		}
	}
	return nil
}
