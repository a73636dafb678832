package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "satwatch.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[station]
latitude = 40.7128
longitude = -74.006
min_elevation = 10.0

[arc]
min_deg = 60.0
max_deg = 120.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Station.Latitude != 40.7128 {
		t.Errorf("latitude = %v, want 40.7128", cfg.Station.Latitude)
	}
	if cfg.Arc.MinDeg != 60 || cfg.Arc.MaxDeg != 120 {
		t.Errorf("arc = [%v, %v], want [60, 120]", cfg.Arc.MinDeg, cfg.Arc.MaxDeg)
	}
	// Omitted fields keep their defaults.
	if cfg.Predict.LookaheadHours != 24 {
		t.Errorf("lookahead = %d, want default 24", cfg.Predict.LookaheadHours)
	}
	if cfg.Ranking.Band != "Ku" {
		t.Errorf("ranking band = %q, want default Ku", cfg.Ranking.Band)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"inverted arc", "[arc]\nmin_deg = 160.0\nmax_deg = 40.0\n"},
		{"latitude out of range", "[station]\nlatitude = 95.0\n"},
		{"min elevation out of range", "[station]\nmin_elevation = 91.0\n"},
		{"zero step", "[predict]\nstep_seconds = 0\n"},
		{"inverted rank thresholds", "[ranking]\nhigh_threshold = 3.0\nmedium_threshold = 4.0\n"},
	}

	for _, c := range cases {
		path := writeConfig(t, c.body)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load accepted invalid config", c.name)
		}
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestListProfiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"dhaka.toml", "palmdale.toml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	profiles, err := ListProfiles(dir)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}

	missing, err := ListProfiles(filepath.Join(dir, "missing"))
	if err != nil || missing != nil {
		t.Errorf("missing dir: got (%v, %v), want (nil, nil)", missing, err)
	}
}
