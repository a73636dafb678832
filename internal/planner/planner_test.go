package planner

import (
	"io"
	"log"
	"testing"

	"github.com/elaichix/satellite-security/internal/config"
	"github.com/elaichix/satellite-security/internal/station"
	"github.com/elaichix/satellite-security/internal/survey"
	"github.com/elaichix/satellite-security/internal/ws"
)

func testRunner(tb testing.TB) *Runner {
	cfg := config.Default()
	cfg.Data.Root = tb.TempDir()
	cfg.Predict.TLEURL = "http://127.0.0.1:1/unreachable"
	st := station.GroundStation{
		Name:         cfg.Station.Name,
		LatitudeDeg:  cfg.Station.Latitude,
		LongitudeDeg: cfg.Station.Longitude,
		ElevationM:   cfg.Station.ElevationM,
	}
	return New(ws.NewHub(), cfg, st, nil, log.New(io.Discard, "", 0))
}

func send(r *Runner, cmdType string) CommandResult {
	reply := make(chan CommandResult, 1)
	r.handleCommand(Command{Type: cmdType, Reply: reply}, func(string) {})
	return <-reply
}

func TestPauseResume(t *testing.T) {
	r := testRunner(t)

	if r.IsPaused() {
		t.Fatal("new planner must not start paused")
	}

	res := send(r, "pause")
	if !res.OK || !r.IsPaused() {
		t.Fatalf("pause: %+v, paused=%v", res, r.IsPaused())
	}

	// Pausing twice is idempotent.
	if res := send(r, "pause"); !res.OK {
		t.Fatalf("second pause: %+v", res)
	}

	res = send(r, "resume")
	if !res.OK || r.IsPaused() {
		t.Fatalf("resume: %+v, paused=%v", res, r.IsPaused())
	}

	if res := send(r, "resume"); !res.OK {
		t.Fatalf("second resume: %+v", res)
	}
}

func TestUnknownCommand(t *testing.T) {
	r := testRunner(t)

	res := send(r, "reboot")
	if res.OK || res.Error == "" {
		t.Fatalf("unknown command should fail: %+v", res)
	}
}

func TestSurveyNowCommand(t *testing.T) {
	r := testRunner(t)

	var got []survey.Row
	r.SetSurveyCallback(func(rows []survey.Row) { got = rows })

	res := send(r, "survey_now")
	if !res.OK {
		t.Fatalf("survey_now: %+v", res)
	}
	if len(got) == 0 {
		t.Fatal("survey callback not invoked with visible targets")
	}

	// Dhaka at 5 degrees minimum sees a healthy slice of the 40-160 E arc.
	for _, row := range got {
		if row.ElevationDeg < r.Cfg.Station.MinElevation {
			t.Errorf("%s: elevation %.2f below the survey minimum", row.Name, row.ElevationDeg)
		}
		if row.Longitude < r.Cfg.Arc.MinDeg || row.Longitude > r.Cfg.Arc.MaxDeg {
			t.Errorf("%s: longitude %.1f outside the configured arc", row.Name, row.Longitude)
		}
	}
}

func TestSkipCommandClearsPass(t *testing.T) {
	r := testRunner(t)

	cleared := false
	r.SetPassCallback(func(info *PassInfo) {
		if info == nil {
			cleared = true
		}
	})

	if res := send(r, "skip"); !res.OK {
		t.Fatalf("skip: %+v", res)
	}
	if !cleared {
		t.Fatal("skip must clear the tracked pass")
	}
}
