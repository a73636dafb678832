// Package config handles loading, defaulting, and validation of the ground
// station TOML configuration file. Every section maps to a typed struct so
// the rest of the codebase gets strong typing without manual key lookups.
package config

import (
	"errors"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level configuration, mirroring the TOML sections.
type Config struct {
	Data    DataConfig    `toml:"data"    json:"data"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Server  ServerConfig  `toml:"server"  json:"server"`
	Station StationConfig `toml:"station" json:"station"`
	Arc     ArcConfig     `toml:"arc"     json:"arc"`
	Predict PredictConfig `toml:"predict" json:"predict"`
	Ranking RankingConfig `toml:"ranking" json:"ranking"`
	Planner PlannerConfig `toml:"planner" json:"planner"`
}

type DataConfig struct {
	Root string `toml:"root" json:"root"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
}

type ServerConfig struct {
	Bind string `toml:"bind" json:"bind"`
}

type StationConfig struct {
	Name         string  `toml:"name"          json:"name"`
	Latitude     float64 `toml:"latitude"      json:"latitude"`
	Longitude    float64 `toml:"longitude"     json:"longitude"`
	ElevationM   float64 `toml:"elevation_m"   json:"elevation_m"`
	MinElevation float64 `toml:"min_elevation" json:"min_elevation"`
	UseGPSD      bool    `toml:"use_gpsd"      json:"use_gpsd"`
	GPSDHost     string  `toml:"gpsd_host"     json:"gpsd_host"`
}

// ArcConfig bounds the GEO orbital arc under survey, degrees East inclusive.
type ArcConfig struct {
	MinDeg float64 `toml:"min_deg" json:"min_deg"`
	MaxDeg float64 `toml:"max_deg" json:"max_deg"`
}

type PredictConfig struct {
	TLEURL          string  `toml:"tle_url"            json:"tle_url"`
	TLERefreshHours int     `toml:"tle_refresh_hours"  json:"tle_refresh_hours"`
	LookaheadHours  int     `toml:"lookahead_hours"    json:"lookahead_hours"`
	StepSeconds     int     `toml:"step_seconds"       json:"step_seconds"`
	Target          string  `toml:"target"             json:"target"` // optional single-target filter
	QualityHighDeg  float64 `toml:"quality_high_deg"   json:"quality_high_deg"`
	QualityMedDeg   float64 `toml:"quality_medium_deg" json:"quality_medium_deg"`
}

type RankingConfig struct {
	Band             string   `toml:"band"              json:"band"`
	HomeRegions      []string `toml:"home_regions"      json:"home_regions"`
	SecondaryRegions []string `toml:"secondary_regions" json:"secondary_regions"`
	HighThreshold    float64  `toml:"high_threshold"    json:"high_threshold"`
	MediumThreshold  float64  `toml:"medium_threshold"  json:"medium_threshold"`
}

type PlannerConfig struct {
	ResurveyMinutes int `toml:"resurvey_minutes" json:"resurvey_minutes"`
}

// Default returns a Config populated with sane defaults. Values here are
// used whenever the TOML file omits a field. Station defaults are the Dhaka
// ground station the campaign runs from.
func Default() Config {
	return Config{
		Data: DataConfig{
			Root: "/var/lib/satwatch",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Bind: "0.0.0.0:8080",
		},
		Station: StationConfig{
			Name:         "Dhaka Ground Station",
			Latitude:     23.8103,
			Longitude:    90.4125,
			ElevationM:   9.0,
			MinElevation: 5.0,
			UseGPSD:      false,
			GPSDHost:     "localhost:2947",
		},
		Arc: ArcConfig{
			MinDeg: 40,
			MaxDeg: 160,
		},
		Predict: PredictConfig{
			TLEURL:          "https://celestrak.org/NORAD/elements/gp.php?GROUP=weather&FORMAT=tle",
			TLERefreshHours: 24,
			LookaheadHours:  24,
			StepSeconds:     10,
			QualityHighDeg:  60,
			QualityMedDeg:   30,
		},
		Ranking: RankingConfig{
			Band:             "Ku",
			HomeRegions:      []string{"Bangladesh", "South Asia"},
			SecondaryRegions: []string{"India"},
			HighThreshold:    7,
			MediumThreshold:  4,
		},
		Planner: PlannerConfig{
			ResurveyMinutes: 60,
		},
	}
}

// Load reads the TOML file at path, layers it on top of the defaults, and
// validates the result. An error is returned if the file can't be read,
// parsed, or if any constraint is violated.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Data.Root == "" {
		return errors.New("data.root must not be empty")
	}
	if cfg.Station.Latitude < -90 || cfg.Station.Latitude > 90 {
		return errors.New("station.latitude must be between -90 and 90")
	}
	if cfg.Station.Longitude < -180 || cfg.Station.Longitude > 360 {
		return errors.New("station.longitude must be between -180 and 360")
	}
	if cfg.Station.MinElevation < 0 || cfg.Station.MinElevation > 90 {
		return errors.New("station.min_elevation must be between 0 and 90")
	}
	if cfg.Arc.MinDeg > cfg.Arc.MaxDeg {
		return errors.New("arc.min_deg must not exceed arc.max_deg")
	}
	if cfg.Predict.TLERefreshHours < 1 {
		return errors.New("predict.tle_refresh_hours must be >= 1")
	}
	if cfg.Predict.LookaheadHours < 1 {
		return errors.New("predict.lookahead_hours must be >= 1")
	}
	if cfg.Predict.StepSeconds < 1 {
		return errors.New("predict.step_seconds must be >= 1")
	}
	if cfg.Predict.QualityMedDeg > cfg.Predict.QualityHighDeg {
		return errors.New("predict.quality_medium_deg must not exceed predict.quality_high_deg")
	}
	if cfg.Ranking.MediumThreshold > cfg.Ranking.HighThreshold {
		return errors.New("ranking.medium_threshold must not exceed ranking.high_threshold")
	}
	if cfg.Planner.ResurveyMinutes < 1 {
		return errors.New("planner.resurvey_minutes must be >= 1")
	}
	return nil
}
