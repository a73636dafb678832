package ctl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Config fetches and displays the daemon's running configuration.
func Config(baseURL string, jsonOutput bool) error {
	// Decode into a generic map to preserve all fields for both display modes.
	var raw json.RawMessage
	if err := getJSON(baseURL, "/api/config", &raw); err != nil {
		return err
	}

	if jsonOutput {
		var v any
		_ = json.Unmarshal(raw, &v)
		return printJSON(v)
	}

	// Decode into ordered sections for human-readable output.
	var cfg struct {
		Data struct {
			Root string `json:"root"`
		} `json:"data"`
		Logging struct {
			Level string `json:"level"`
		} `json:"logging"`
		Server struct {
			Bind string `json:"bind"`
		} `json:"server"`
		Station struct {
			Name         string  `json:"name"`
			Latitude     float64 `json:"latitude"`
			Longitude    float64 `json:"longitude"`
			ElevationM   float64 `json:"elevation_m"`
			MinElevation float64 `json:"min_elevation"`
			UseGPSD      bool    `json:"use_gpsd"`
			GPSDHost     string  `json:"gpsd_host"`
		} `json:"station"`
		Arc struct {
			MinDeg float64 `json:"min_deg"`
			MaxDeg float64 `json:"max_deg"`
		} `json:"arc"`
		Predict struct {
			TLEURL          string  `json:"tle_url"`
			TLERefreshHours int     `json:"tle_refresh_hours"`
			LookaheadHours  int     `json:"lookahead_hours"`
			StepSeconds     int     `json:"step_seconds"`
			QualityHighDeg  float64 `json:"quality_high_deg"`
			QualityMedDeg   float64 `json:"quality_medium_deg"`
		} `json:"predict"`
		Ranking struct {
			Band             string   `json:"band"`
			HomeRegions      []string `json:"home_regions"`
			SecondaryRegions []string `json:"secondary_regions"`
			HighThreshold    float64  `json:"high_threshold"`
			MediumThreshold  float64  `json:"medium_threshold"`
		} `json:"ranking"`
		Planner struct {
			ResurveyMinutes int `json:"resurvey_minutes"`
		} `json:"planner"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(header("  DAEMON CONFIGURATION"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 50)))

	section := func(name string) {
		fmt.Printf("\n  %s\n", colorize(bold, "["+name+"]"))
	}
	field := func(key string, val any) {
		fmt.Printf("    %-20s %v\n", colorize(dim, key+":"), val)
	}

	section("data")
	field("root", cfg.Data.Root)

	section("logging")
	field("level", cfg.Logging.Level)

	section("server")
	field("bind", cfg.Server.Bind)

	section("station")
	field("name", cfg.Station.Name)
	field("latitude", cfg.Station.Latitude)
	field("longitude", cfg.Station.Longitude)
	field("elevation_m", cfg.Station.ElevationM)
	field("min_elevation", cfg.Station.MinElevation)
	field("use_gpsd", cfg.Station.UseGPSD)
	field("gpsd_host", cfg.Station.GPSDHost)

	section("arc")
	field("min_deg", cfg.Arc.MinDeg)
	field("max_deg", cfg.Arc.MaxDeg)

	section("predict")
	field("tle_url", cfg.Predict.TLEURL)
	field("tle_refresh_hours", cfg.Predict.TLERefreshHours)
	field("lookahead_hours", cfg.Predict.LookaheadHours)
	field("step_seconds", cfg.Predict.StepSeconds)
	field("quality_high_deg", cfg.Predict.QualityHighDeg)
	field("quality_medium_deg", cfg.Predict.QualityMedDeg)

	section("ranking")
	field("band", cfg.Ranking.Band)
	field("home_regions", strings.Join(cfg.Ranking.HomeRegions, ", "))
	field("secondary_regions", strings.Join(cfg.Ranking.SecondaryRegions, ", "))
	field("high_threshold", cfg.Ranking.HighThreshold)
	field("medium_threshold", cfg.Ranking.MediumThreshold)

	section("planner")
	field("resurvey_minutes", cfg.Planner.ResurveyMinutes)

	fmt.Println()

	return nil
}
