// Satctl is the command-line client for monitoring and controlling a running
// satwatchd instance. It connects over HTTP and WebSocket to query surveys,
// pass schedules, and live events from the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/elaichix/satellite-security/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Satwatch daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,log)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --count are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		opts := ctl.HealthOptions{JSON: *jsonOut}
		healthFlags := pflag.NewFlagSet("health", pflag.ContinueOnError)
		healthFlags.BoolVar(&opts.Detailed, "detailed", false, "Show component-level health checks")
		_ = healthFlags.Parse(subArgs)
		err = ctl.Health(*host, opts)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "targets":
		err = ctl.Targets(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "profiles":
		err = ctl.Profiles(*host, *jsonOut)

	case "survey":
		opts := ctl.SurveyOptions{JSON: *jsonOut}
		surveyFlags := pflag.NewFlagSet("survey", pflag.ContinueOnError)
		surveyFlags.BoolVar(&opts.SortByScore, "sort", false, "Sort by priority score instead of longitude")
		surveyFlags.StringVar(&opts.Tier, "tier", "", "Filter by priority tier (HIGH, MEDIUM, LOW)")
		surveyFlags.StringVar(&opts.CSVPath, "csv", "", "Write results as CSV to a file")
		_ = surveyFlags.Parse(subArgs)
		err = ctl.Survey(*host, opts)

	case "passes":
		opts := ctl.PassesOptions{JSON: *jsonOut}
		passFlags := pflag.NewFlagSet("passes", pflag.ContinueOnError)
		passFlags.IntVar(&opts.Count, "count", 0, "Limit number of passes shown")
		passFlags.StringVar(&opts.Target, "target", "", "Filter by satellite name")
		passFlags.StringVar(&opts.Quality, "quality", "", "Filter by pass quality (High, Medium, Low)")
		passFlags.StringVar(&opts.CSVPath, "csv", "", "Write results as CSV to a file")
		_ = passFlags.Parse(subArgs)
		err = ctl.Passes(*host, opts)

	case "next-pass":
		opts := ctl.NextPassOptions{JSON: *jsonOut}
		npFlags := pflag.NewFlagSet("next-pass", pflag.ContinueOnError)
		npFlags.StringVar(&opts.Target, "target", "", "Filter by satellite name")
		_ = npFlags.Parse(subArgs)
		err = ctl.NextPass(*host, opts)

	case "tle-info":
		err = ctl.TLEInfo(*host, *jsonOut)

	case "system-info":
		err = ctl.SystemInfo(*host, *jsonOut)

	case "logs":
		opts := ctl.LogsOptions{JSON: *jsonOut}
		logFlags := pflag.NewFlagSet("logs", pflag.ContinueOnError)
		logFlags.StringVar(&opts.Level, "level", "", "Filter by log level (info, warn, error)")
		logFlags.IntVar(&opts.Limit, "limit", 0, "Limit number of log entries shown")
		logFlags.BoolVar(&opts.Tail, "tail", false, "Stream live log events (like watch --filter log)")
		_ = logFlags.Parse(subArgs)
		err = ctl.Logs(*host, opts)

	// ── Control commands ──────────────────────────────────────────
	case "survey-now":
		err = ctl.SurveyNow(*host, *jsonOut)

	case "tle-refresh":
		err = ctl.TLERefresh(*host, *jsonOut)

	case "pause":
		err = ctl.Pause(*host, *jsonOut)

	case "resume":
		err = ctl.Resume(*host, *jsonOut)

	case "skip":
		err = ctl.Skip(*host, *jsonOut)

	case "reload":
		opts := ctl.ReloadOptions{JSON: *jsonOut}
		reloadFlags := pflag.NewFlagSet("reload", pflag.ContinueOnError)
		reloadFlags.StringVar(&opts.Profile, "profile", "", "Switch to a named config profile")
		_ = reloadFlags.Parse(subArgs)
		err = ctl.Reload(*host, opts)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  satctl — satwatch control CLI

  USAGE
    satctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and current activity
    health          Check daemon and component health
    version         Show CLI and daemon version information
    targets         List the GEO and LEO target catalogs
    config          Show the daemon's running configuration
    profiles        List available config profiles
    survey          Survey the visible GEO arc from the station
    passes          List upcoming LEO passes
    next-pass       Show the next upcoming pass
    tle-info        Show element-set cache status and freshness
    system-info     Show runtime and host information
    logs            Show recent daemon log messages

  COMMANDS (control)
    survey-now      Run a survey cycle immediately
    tle-refresh     Force an element-set update from the network
    pause           Pause the planner loop
    resume          Resume the planner loop
    skip            Skip the current/next scheduled pass
    reload          Reload configuration from disk

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    survey:
        --sort              Sort by priority score instead of longitude
        --tier TIER         Filter by priority tier (HIGH, MEDIUM, LOW)
        --csv FILE          Write results as CSV to a file

    passes:
        --count N           Limit number of passes shown
        --target NAME       Filter by satellite name
        --quality QUALITY   Filter by pass quality (High, Medium, Low)
        --csv FILE          Write results as CSV to a file

    next-pass:
        --target NAME       Filter by satellite name

    health:
        --detailed          Show component-level health checks

    logs:
        --level LEVEL       Filter by log level (info, warn, error)
        --limit N           Limit number of log entries shown
        --tail              Stream live log events

    reload:
        --profile NAME      Switch to a named config profile

  EXAMPLES
    satctl status
    satctl --json status
    satctl --host http://192.168.8.1:8080 watch
    satctl survey --sort
    satctl survey --tier HIGH --csv survey.csv
    satctl passes --target "NOAA 19" --count 5
    satctl next-pass
    satctl tle-refresh
    satctl tle-info
    satctl logs --level error --limit 20
    satctl pause
    satctl resume
    satctl skip
    satctl survey-now
    satctl profiles
    satctl reload --profile rooftop
    satctl watch --filter state,log,pass_scheduled

`)
}
