package ctl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// PassesOptions controls the passes command output.
type PassesOptions struct {
	Count   int
	Target  string
	Quality string
	JSON    bool
	CSVPath string
}

// passesQuery builds the /api/passes query string for the given options.
func passesQuery(opts PassesOptions) url.Values {
	params := url.Values{}
	if opts.Count > 0 {
		params.Set("count", strconv.Itoa(opts.Count))
	}
	if opts.Target != "" {
		params.Set("target", opts.Target)
	}
	if opts.Quality != "" {
		params.Set("quality", opts.Quality)
	}
	return params
}

// Passes lists upcoming satellite passes from the daemon.
func Passes(baseURL string, opts PassesOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")
	params := passesQuery(opts)

	// Pass computation may involve element-set network fetches plus SGP4
	// propagation over the whole lookahead window, so use a longer timeout
	// than the default 5s client.
	passClient := &http.Client{Timeout: 120 * time.Second}

	if opts.CSVPath != "" {
		params.Set("format", "csv")
		httpResp, err := passClient.Get(baseURL + "/api/passes?" + params.Encode())
		if err != nil {
			return err
		}
		defer httpResp.Body.Close()
		if httpResp.StatusCode != http.StatusOK {
			return httpError(httpResp, "/api/passes")
		}
		body, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.CSVPath, body, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%s)\n", opts.CSVPath, formatBytes(int64(len(body))))
		return nil
	}

	path := "/api/passes"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Window struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"window"`
		Passes []struct {
			Target          string  `json:"target"`
			NoradID         int     `json:"norad_id"`
			FreqHz          int     `json:"freq_hz"`
			AOS             string  `json:"aos"`
			LOS             string  `json:"los"`
			CulminationTime string  `json:"culmination_time"`
			MaxElevationDeg float64 `json:"max_elevation_deg"`
			DurationMin     float64 `json:"duration_min"`
			Quality         string  `json:"quality"`
		} `json:"passes"`
		Skipped []struct {
			Target string `json:"target"`
			Reason string `json:"reason"`
		} `json:"skipped"`
		Incomplete bool `json:"incomplete"`
		Station    struct {
			Lat  float64 `json:"lat"`
			Lon  float64 `json:"lon"`
			AltM float64 `json:"alt_m"`
		} `json:"station"`
	}

	httpResp, err := passClient.Get(baseURL + path)
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
	fmt.Println(header("  UPCOMING PASSES"))
	fmt.Printf("  %s %.4f, %.4f, %.0fm\n",
		colorize(dim, "Station:"),
		resp.Station.Lat, resp.Station.Lon, resp.Station.AltM)
	fmt.Printf("  %s %s to %s\n",
		colorize(dim, "Window:"),
		formatLocalTime(resp.Window.Start), formatLocalTime(resp.Window.End))
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 80)))

	if len(resp.Passes) == 0 {
		fmt.Println(colorize(dim, "  No upcoming passes found."))
		fmt.Println()
		return nil
	}

	fmt.Printf("  %-4s %-12s %-22s %-22s %6s %8s  %s\n",
		colorize(dim, "#"),
		colorize(dim, "Target"),
		colorize(dim, "AOS"),
		colorize(dim, "LOS"),
		colorize(dim, "Elev"),
		colorize(dim, "Length"),
		colorize(dim, "Quality"),
	)
	fmt.Println(colorize(dim, "  "+strings.Repeat("─", 80)))

	for i, p := range resp.Passes {
		dur := formatDuration(time.Duration(p.DurationMin * float64(time.Minute)))
		fmt.Printf("  %-4d %-12s %-22s %-22s %5.1f° %8s  %s\n",
			i+1,
			colorize(bold, padRight(p.Target, 12)),
			formatLocalTime(p.AOS),
			formatLocalTime(p.LOS),
			p.MaxElevationDeg,
			dur,
			colorize(tierColor(p.Quality), p.Quality),
		)
	}

	for _, s := range resp.Skipped {
		fmt.Printf("  %s %s: %s\n", colorize(yellow, "skipped"), s.Target, colorize(dim, s.Reason))
	}
	if resp.Incomplete {
		fmt.Println(colorize(yellow, "  batch incomplete: window was cut short"))
	}
	fmt.Println()

	return nil
}
