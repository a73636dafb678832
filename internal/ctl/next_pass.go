package ctl

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// NextPassOptions configures the next-pass command.
type NextPassOptions struct {
	Target string
	JSON   bool
}

// NextPass shows the next upcoming satellite pass.
func NextPass(baseURL string, opts NextPassOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	path := "/api/next-pass"
	if opts.Target != "" {
		path += "?target=" + url.QueryEscape(opts.Target)
	}

	var resp struct {
		Pass *struct {
			Target          string  `json:"target"`
			NoradID         int     `json:"norad_id"`
			FreqHz          int     `json:"freq_hz"`
			AOS             string  `json:"aos"`
			LOS             string  `json:"los"`
			CulminationTime string  `json:"culmination_time"`
			MaxElevationDeg float64 `json:"max_elevation_deg"`
			DurationMin     float64 `json:"duration_min"`
			Quality         string  `json:"quality"`
		} `json:"pass"`
		CountdownS int `json:"countdown_s"`
	}

	// Same slow path as the passes command.
	client := &http.Client{Timeout: 120 * time.Second}
	httpResp, err := client.Get(baseURL + path)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return httpError(httpResp, path)
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return err
	}

	if opts.JSON {
		return printJSON(resp)
	}

	fmt.Println()
	fmt.Println(header("  NEXT PASS"))
	fmt.Println("  " + strings.Repeat("─", 42))

	if resp.Pass == nil {
		fmt.Println("  No upcoming passes found.")
		fmt.Println()
		return nil
	}

	p := resp.Pass
	countdown := time.Duration(resp.CountdownS) * time.Second

	fmt.Printf("  Target:      %s (NORAD %d)\n", p.Target, p.NoradID)
	fmt.Printf("  Frequency:   %.3f MHz\n", float64(p.FreqHz)/1e6)
	fmt.Printf("  AOS:         %s\n", formatLocalTime(p.AOS))
	fmt.Printf("  Culmination: %s\n", formatLocalTime(p.CulminationTime))
	fmt.Printf("  LOS:         %s\n", formatLocalTime(p.LOS))
	fmt.Printf("  Max elev:    %.1f° (%s)\n", p.MaxElevationDeg, colorize(tierColor(p.Quality), p.Quality))
	fmt.Printf("  Duration:    %s\n", formatDuration(time.Duration(p.DurationMin*float64(time.Minute))))

	if countdown > 0 {
		fmt.Printf("  Countdown:   %s\n", formatDuration(countdown))
	} else {
		fmt.Printf("  Status:      %s\n", colorize(green, "NOW"))
	}

	fmt.Println()
	return nil
}
