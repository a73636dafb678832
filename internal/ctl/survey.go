package ctl

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// SurveyOptions controls the survey command output.
type SurveyOptions struct {
	SortByScore bool
	Tier        string
	JSON        bool
	CSVPath     string // write raw CSV to this file instead of printing
}

// Survey runs a fresh GEO arc survey on the daemon and renders the visible
// targets sorted by orbital longitude (or score with --sort).
func Survey(baseURL string, opts SurveyOptions) error {
	params := url.Values{}
	if opts.SortByScore {
		params.Set("sort", "score")
	}
	if opts.Tier != "" {
		params.Set("tier", opts.Tier)
	}

	if opts.CSVPath != "" {
		params.Set("format", "csv")
		status, body, err := getRaw(baseURL, "/api/survey?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		if status != 200 {
			return fmt.Errorf("HTTP %d from /api/survey", status)
		}
		if err := os.WriteFile(opts.CSVPath, body, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%s)\n", opts.CSVPath, formatBytes(int64(len(body))))
		return nil
	}

	path := "/api/survey"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Station      string  `json:"station"`
		MinElevation float64 `json:"min_elevation"`
		Visible      int     `json:"visible"`
		Arc          struct {
			MinDeg float64 `json:"min_deg"`
			MaxDeg float64 `json:"max_deg"`
		} `json:"arc"`
		Targets []struct {
			Name         string   `json:"name"`
			Operator     string   `json:"operator"`
			Longitude    float64  `json:"longitude"`
			Bands        []string `json:"bands"`
			ElevationDeg float64  `json:"elevation_deg"`
			AzimuthDeg   float64  `json:"azimuth_deg"`
			RangeKm      float64  `json:"range_km"`
			Score        float64  `json:"score"`
			Tier         string   `json:"tier"`
		} `json:"targets"`
	}
	if err := getJSON(baseURL, path, &resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  GEO ARC SURVEY"))
	fmt.Printf("  %s %s\n", colorize(dim, "Station:"), resp.Station)
	fmt.Printf("  %s %.1f°E to %.1f°E, min elevation %.1f°\n",
		colorize(dim, "Arc:"), resp.Arc.MinDeg, resp.Arc.MaxDeg, resp.MinElevation)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 82)))

	if len(resp.Targets) == 0 {
		fmt.Println(colorize(dim, "  No targets visible in the configured arc."))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-22s %8s %7s %7s %9s %7s  %s\n",
		colorize(dim, "Name"), colorize(dim, "Lon °E"),
		colorize(dim, "Elev"), colorize(dim, "Az"),
		colorize(dim, "Range km"), colorize(dim, "Score"), colorize(dim, "Tier"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 82)))

	for _, t := range resp.Targets {
		fmt.Printf("  %-22s %8.1f %6.1f° %6.1f° %9.0f %7.1f  %s\n",
			colorize(bold, padRight(t.Name, 22)),
			t.Longitude, t.ElevationDeg, t.AzimuthDeg, t.RangeKm, t.Score,
			colorize(tierColor(t.Tier), t.Tier))
	}
	fmt.Printf("\n  %d visible\n\n", resp.Visible)

	return nil
}

// SurveyNow asks the planner to run a survey cycle out of schedule.
func SurveyNow(baseURL string, jsonOutput bool) error {
	return plannerControl(baseURL, "/api/survey-now", "SURVEYED", jsonOutput)
}
