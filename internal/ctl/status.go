package ctl

import (
	"fmt"
	"strings"
	"time"
)

// StatusResponse mirrors the JSON returned by GET /api/status.
type StatusResponse struct {
	Name          string `json:"name"`
	State         string `json:"state"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DataRoot      string `json:"data_root"`
	Paused        bool   `json:"paused"`
	WSClients     int64  `json:"ws_clients"`
	Station       struct {
		Name   string  `json:"name"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
		AltM   float64 `json:"alt_m"`
		Source string  `json:"source"`
	} `json:"station"`
	CurrentPass *struct {
		Target  string  `json:"target"`
		AOS     string  `json:"aos"`
		LOS     string  `json:"los"`
		MaxElev float64 `json:"max_elev"`
		Quality string  `json:"quality"`
		Stage   string  `json:"stage"`
	} `json:"current_pass"`
	LastSurvey *struct {
		At      string `json:"at"`
		Visible int    `json:"visible"`
	} `json:"last_survey"`
	LastBatch *struct {
		Start      string `json:"start"`
		Passes     int    `json:"passes"`
		Skipped    int    `json:"skipped"`
		Incomplete bool   `json:"incomplete"`
	} `json:"last_batch"`
}

// Status fetches the daemon status and prints a formatted summary.
func Status(baseURL string, jsonOutput bool) error {
	var s StatusResponse
	if err := getJSON(baseURL, "/api/status", &s); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(s)
	}

	uptime := formatDuration(time.Duration(s.UptimeSeconds) * time.Second)
	stateStr := colorize(stateColor(s.State), s.State)
	if s.Paused {
		stateStr += colorize(yellow, " (paused)")
	}

	fmt.Println()
	fmt.Println(header("  SATWATCH STATUS"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 44)))
	fmt.Printf("  %-12s %s\n", colorize(dim, "Daemon:"), s.Name)
	fmt.Printf("  %-12s %s\n", colorize(dim, "State:"), stateStr)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Uptime:"), uptime)
	fmt.Printf("  %-12s %s (%.4f, %.4f, %.0fm, %s)\n",
		colorize(dim, "Station:"), s.Station.Name,
		s.Station.Lat, s.Station.Lon, s.Station.AltM, s.Station.Source)
	fmt.Printf("  %-12s %s\n", colorize(dim, "Data:"), s.DataRoot)
	fmt.Printf("  %-12s %d\n", colorize(dim, "WS clients:"), s.WSClients)

	if s.CurrentPass != nil {
		p := s.CurrentPass
		fmt.Printf("  %-12s %s %s (%.1f° %s)\n",
			colorize(dim, "Pass:"),
			colorize(bold, p.Target),
			colorize(dim, p.Stage),
			p.MaxElev,
			colorize(tierColor(p.Quality), p.Quality))
	}
	if s.LastSurvey != nil {
		fmt.Printf("  %-12s %d visible at %s\n",
			colorize(dim, "Survey:"), s.LastSurvey.Visible, formatLocalTime(s.LastSurvey.At))
	}
	if s.LastBatch != nil {
		note := ""
		if s.LastBatch.Incomplete {
			note = " " + colorize(yellow, "(incomplete)")
		}
		fmt.Printf("  %-12s %d passes, %d skipped%s\n",
			colorize(dim, "Batch:"), s.LastBatch.Passes, s.LastBatch.Skipped, note)
	}
	fmt.Printf("  %-12s %s\n", colorize(dim, "Host:"), strings.TrimRight(baseURL, "/"))
	fmt.Println()

	return nil
}
