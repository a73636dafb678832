package ctl

import (
	"fmt"
	"strings"
	"time"
)

// TLEInfo shows element-set cache status and freshness.
func TLEInfo(baseURL string, jsonOutput bool) error {
	var resp struct {
		Path       string `json:"path"`
		Exists     bool   `json:"exists"`
		SizeBytes  int64  `json:"size_bytes"`
		AgeSeconds int64  `json:"age_seconds"`
		Fresh      bool   `json:"fresh"`
		URL        string `json:"url"`
	}
	if err := getJSON(baseURL, "/api/tle-info", &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  TLE CACHE"))
	fmt.Println("  " + strings.Repeat("─", 50))
	fmt.Printf("  Cache file: %s\n", resp.Path)

	if !resp.Exists {
		fmt.Printf("  Status:     %s\n", colorize(red, "NOT FOUND"))
		fmt.Printf("  Source:     %s\n", resp.URL)
		fmt.Println()
		return nil
	}

	if resp.Fresh {
		fmt.Printf("  Status:     %s\n", colorize(green, "FRESH"))
	} else {
		fmt.Printf("  Status:     %s\n", colorize(yellow, "STALE"))
	}

	fmt.Printf("  Age:        %s\n", formatDuration(time.Duration(resp.AgeSeconds)*time.Second))
	fmt.Printf("  Size:       %s\n", formatBytes(resp.SizeBytes))
	fmt.Printf("  Source:     %s\n", resp.URL)
	fmt.Println()
	return nil
}

// TLERefresh sends an element-set refresh request to the daemon.
func TLERefresh(baseURL string, jsonOutput bool) error {
	var resp struct {
		OK                bool   `json:"ok"`
		Message           string `json:"message"`
		Error             string `json:"error"`
		SatellitesUpdated int    `json:"satellites_updated"`
	}
	if err := postJSON(baseURL, "/api/tle-refresh", nil, &resp); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(resp)
	}

	fmt.Println()
	if resp.OK {
		fmt.Printf("  %s  %s\n", colorize(green, "REFRESHED"), resp.Message)
	} else {
		fmt.Printf("  %s  %s\n", colorize(red, "FAILED"), resp.Error)
	}
	fmt.Println()

	return nil
}
