package ctl

import (
	"fmt"
	"strings"
)

// Targets lists both halves of the daemon's target catalog: the GEO arc
// database and the tracked LEO birds.
func Targets(baseURL string, jsonOutput bool) error {
	var resp struct {
		GEO []struct {
			Name      string   `json:"name"`
			Operator  string   `json:"operator"`
			Longitude float64  `json:"longitude"`
			Bands     []string `json:"bands"`
			Coverage  []string `json:"coverage"`
		} `json:"geo"`
		LEO []struct {
			Name    string `json:"name"`
			NoradID int    `json:"norad_id"`
			FreqHz  int    `json:"freq_hz"`
			Band    string `json:"band"`
		} `json:"leo"`
	}
	if err := getJSON(baseURL, "/api/targets", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  GEO CATALOG"))
	fmt.Printf("  %-22s %-18s %9s  %-10s %s\n",
		colorize(dim, "Name"), colorize(dim, "Operator"),
		colorize(dim, "Lon °E"), colorize(dim, "Bands"), colorize(dim, "Coverage"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 78)))
	for _, t := range resp.GEO {
		fmt.Printf("  %-22s %-18s %9.1f  %-10s %s\n",
			colorize(bold, padRight(t.Name, 22)), t.Operator, t.Longitude,
			strings.Join(t.Bands, ","), strings.Join(t.Coverage, ","))
	}

	fmt.Println()
	fmt.Println(header("  LEO CATALOG"))
	fmt.Printf("  %-16s %9s  %-12s %s\n",
		colorize(dim, "Name"), colorize(dim, "NORAD"),
		colorize(dim, "Frequency"), colorize(dim, "Band"))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 48)))
	for _, t := range resp.LEO {
		fmt.Printf("  %-16s %9d  %-12s %s\n",
			colorize(bold, padRight(t.Name, 16)), t.NoradID,
			fmt.Sprintf("%.3f MHz", float64(t.FreqHz)/1e6), t.Band)
	}
	fmt.Println()

	return nil
}
