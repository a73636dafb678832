package ctl

import (
	"encoding/json"
	"fmt"
	"strings"
)

// HealthOptions configures the health command.
type HealthOptions struct {
	Detailed bool
	JSON     bool
}

// Health checks daemon liveness via GET /healthz. With Detailed it asks for
// the component-level JSON report instead of the plain liveness probe.
func Health(baseURL string, opts HealthOptions) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var headers map[string]string
	if opts.Detailed {
		headers = map[string]string{"Accept": "application/json"}
	}

	status, body, err := getRaw(baseURL, "/healthz", headers)
	if err != nil {
		if opts.JSON {
			return printJSON(map[string]any{"healthy": false, "url": baseURL, "error": err.Error()})
		}
		return err
	}

	healthy := status == 200

	if opts.Detailed {
		var report struct {
			Healthy bool                      `json:"healthy"`
			Checks  map[string]map[string]any `json:"checks"`
		}
		if err := json.Unmarshal(body, &report); err != nil {
			return err
		}
		if opts.JSON {
			return printJSON(report)
		}

		fmt.Println()
		if report.Healthy {
			fmt.Printf("  %s  %s\n", colorize(green, "HEALTHY"), colorize(dim, baseURL))
		} else {
			fmt.Printf("  %s  %s\n", colorize(red, "UNHEALTHY"), colorize(dim, baseURL))
		}
		for name, check := range report.Checks {
			ok, _ := check["ok"].(bool)
			label := colorize(green, "ok")
			detail := ""
			if !ok {
				label = colorize(red, "fail")
				if msg, has := check["error"].(string); has {
					detail = "  " + colorize(dim, msg)
				}
			}
			fmt.Printf("    %-14s %s%s\n", name+":", label, detail)
		}
		fmt.Println()
		return nil
	}

	if opts.JSON {
		return printJSON(map[string]any{"healthy": healthy, "url": baseURL})
	}

	fmt.Println()
	if healthy {
		fmt.Printf("  %s  satwatchd is reachable at %s\n", colorize(green, "HEALTHY"), colorize(dim, baseURL))
	} else {
		fmt.Printf("  %s  satwatchd returned HTTP %d at %s\n", colorize(red, "UNHEALTHY"), status, colorize(dim, baseURL))
	}
	fmt.Println()

	return nil
}
