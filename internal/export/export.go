// Package export renders survey results and pass predictions as CSV for
// spreadsheets and downstream analysis. File writes go through a temp file
// and rename so a crash never leaves a half-written report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/elaichix/satellite-security/internal/predict"
	"github.com/elaichix/satellite-security/internal/survey"
)

// SurveyCSV writes the survey rows to w with a header line.
func SurveyCSV(w io.Writer, rows []survey.Row) error {
	cw := csv.NewWriter(w)

	header := []string{"name", "operator", "longitude_deg", "bands", "coverage", "elevation_deg", "azimuth_deg", "range_km", "score", "tier"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		rec := []string{
			r.Name,
			r.Operator,
			strconv.FormatFloat(r.Longitude, 'f', 1, 64),
			strings.Join(r.Bands, "|"),
			strings.Join(r.Coverage, "|"),
			strconv.FormatFloat(r.ElevationDeg, 'f', 3, 64),
			strconv.FormatFloat(r.AzimuthDeg, 'f', 3, 64),
			strconv.FormatFloat(r.RangeKm, 'f', 1, 64),
			strconv.FormatFloat(r.Score, 'f', 3, 64),
			string(r.Tier),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// PassCSV writes the pass records to w with a header line. Timestamps are
// RFC 3339 UTC.
func PassCSV(w io.Writer, passes []predict.PassRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"target", "norad_id", "freq_hz", "aos", "los", "culmination", "max_elevation_deg", "max_azimuth_deg", "duration_min", "quality"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range passes {
		rec := []string{
			p.Target,
			strconv.Itoa(p.NoradID),
			strconv.Itoa(p.FreqHz),
			p.AOS.UTC().Format(time.RFC3339),
			p.LOS.UTC().Format(time.RFC3339),
			p.CulminationTime.UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.MaxElevationDeg, 'f', 2, 64),
			strconv.FormatFloat(p.MaxAzimuthDeg, 'f', 2, 64),
			strconv.FormatFloat(p.DurationMin, 'f', 2, 64),
			string(p.Quality),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSurveyFile writes the survey CSV atomically to path.
func WriteSurveyFile(path string, rows []survey.Row) error {
	return writeAtomic(path, func(w io.Writer) error {
		return SurveyCSV(w, rows)
	})
}

// WritePassFile writes the pass CSV atomically to path.
func WritePassFile(path string, passes []predict.PassRecord) error {
	return writeAtomic(path, func(w io.Writer) error {
		return PassCSV(w, passes)
	})
}

// writeAtomic renders through fn into a temp file in the destination
// directory, then renames it over path.
func writeAtomic(path string, fn func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "export-*.tmp")
	if err != nil {
		return err
	}

	if err := fn(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}
