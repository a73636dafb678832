package ctl

import (
	"fmt"
	"strings"
)

// Pause pauses the planner's automatic survey/pass loop on the daemon.
func Pause(baseURL string, jsonOutput bool) error {
	return plannerControl(baseURL, "/api/pause", "PAUSED", jsonOutput)
}

// Resume resumes the planner loop on the daemon.
func Resume(baseURL string, jsonOutput bool) error {
	return plannerControl(baseURL, "/api/resume", "RESUMED", jsonOutput)
}

// Skip abandons the pass currently being waited on or tracked.
func Skip(baseURL string, jsonOutput bool) error {
	return plannerControl(baseURL, "/api/skip", "SKIPPED", jsonOutput)
}

func plannerControl(baseURL, path, label string, jsonOutput bool) error {
	baseURL = strings.TrimRight(baseURL, "/")

	var result struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := postJSON(baseURL, path, nil, &result); err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(result)
	}

	if result.OK {
		fmt.Printf("\n  %s  %s\n\n", colorize(green, label), result.Message)
	} else {
		fmt.Printf("\n  %s  %s\n\n", colorize(red, "ERROR"), result.Error)
	}
	return nil
}
