package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/elaichix/satellite-security/internal/predict"
	"github.com/elaichix/satellite-security/internal/rank"
	"github.com/elaichix/satellite-security/internal/survey"
)

var sampleRows = []survey.Row{
	{
		Name:         "Bangabandhu-1",
		Operator:     "BSCL",
		Longitude:    119.1,
		Bands:        []string{"C", "Ku"},
		Coverage:     []string{"Bangladesh", "South Asia"},
		ElevationDeg: 47.521,
		AzimuthDeg:   126.419,
		RangeKm:      37245.1,
		Score:        9.752,
		Tier:         rank.TierHigh,
	},
	{
		Name:         "Express AM6",
		Operator:     "RSCC",
		Longitude:    53.0,
		Bands:        []string{"C", "Ku", "Ka", "L"},
		Coverage:     []string{"Europe", "Russia", "Asia"},
		ElevationDeg: 39.958,
		AzimuthDeg:   242.175,
		RangeKm:      37788.6,
		Score:        6.996,
		Tier:         rank.TierMedium,
	},
}

func TestSurveyCSV(t *testing.T) {
	var sb strings.Builder
	if err := SurveyCSV(&sb, sampleRows); err != nil {
		t.Fatalf("render: %v", err)
	}

	recs, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(recs))
	}
	if recs[0][0] != "name" || recs[0][9] != "tier" {
		t.Errorf("unexpected header: %v", recs[0])
	}
	if recs[1][0] != "Bangabandhu-1" || recs[1][9] != "HIGH" {
		t.Errorf("unexpected first row: %v", recs[1])
	}
	if recs[1][3] != "C|Ku" {
		t.Errorf("bands column = %q, want C|Ku", recs[1][3])
	}
}

func TestPassCSV(t *testing.T) {
	aos := time.Date(2026, 3, 1, 2, 10, 0, 0, time.UTC)
	passes := []predict.PassRecord{
		{
			Target:          "NOAA 19",
			NoradID:         33591,
			FreqHz:          137100000,
			AOS:             aos,
			LOS:             aos.Add(12 * time.Minute),
			CulminationTime: aos.Add(6 * time.Minute),
			MaxElevationDeg: 71.4,
			MaxAzimuthDeg:   268.2,
			DurationMin:     12,
			Quality:         predict.QualityHigh,
		},
	}

	var sb strings.Builder
	if err := PassCSV(&sb, passes); err != nil {
		t.Fatalf("render: %v", err)
	}

	recs, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(recs))
	}
	row := recs[1]
	if row[0] != "NOAA 19" || row[1] != "33591" {
		t.Errorf("identity columns = %v", row[:2])
	}
	if row[3] != "2026-03-01T02:10:00Z" {
		t.Errorf("aos column = %q", row[3])
	}
	if row[9] != "High" {
		t.Errorf("quality column = %q, want High", row[9])
	}
}

func TestWriteSurveyFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "survey.csv")

	if err := WriteSurveyFile(path, sampleRows); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(b), "name,operator,") {
		t.Errorf("file does not start with the header: %q", string(b[:20]))
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}
