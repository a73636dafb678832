package predict

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akhenakh/sgp4"

	"github.com/elaichix/satellite-security/internal/catalog"
)

//go:embed leo_tle.txt
var embeddedTLE string

const tleCacheFile = "leo_tle.txt"

// ErrServiceUnavailable means no element-set source could be reached: the
// cache is absent or unreadable, the network fetch failed, and no embedded
// fallback applies. A pass batch cannot start without element sets.
var ErrServiceUnavailable = errors.New("element set service unavailable")

// Element is one satellite's two-line element set. The raw lines are kept
// verbatim for the SGP4 propagator; Name and NoradID come from the parsed
// header.
type Element struct {
	Name    string
	NoradID int
	Line1   string
	Line2   string
}

// CacheInfo describes the on-disk element-set cache.
type CacheInfo struct {
	Path       string `json:"path"`
	Exists     bool   `json:"exists"`
	SizeBytes  int64  `json:"size_bytes"`
	AgeSeconds int64  `json:"age_seconds"`
	Fresh      bool   `json:"fresh"`
	URL        string `json:"url"`
}

// TLEStore fetches and caches two-line element sets for the tracked LEO
// targets. It uses a tiered fallback strategy: fresh disk cache, network
// fetch, stale disk cache, and finally embedded data baked into the binary.
type TLEStore struct {
	url      string
	dataRoot string
	maxAge   time.Duration
}

// NewTLEStore returns a store that fetches element sets from the given URL
// and caches them under dataRoot.
func NewTLEStore(tleURL, dataRoot string, refreshHours int) *TLEStore {
	return &TLEStore{
		url:      tleURL,
		dataRoot: dataRoot,
		maxAge:   time.Duration(refreshHours) * time.Hour,
	}
}

// Fetch returns element sets for the tracked LEO targets, keyed by NORAD
// ID. It tries the disk cache first, then the network, then stale cache,
// and finally falls back to embedded data compiled into the binary.
func (s *TLEStore) Fetch() (map[int]Element, error) {
	raw, err := s.loadOrFetch(s.cachePath())
	if err != nil {
		return nil, err
	}
	return s.parseTracked(raw)
}

// ForceRefresh fetches from the network regardless of cache age, rewrites
// the cache, and returns the parsed element sets.
func (s *TLEStore) ForceRefresh() (map[int]Element, error) {
	body, err := s.fetchFromNetwork()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	// Cache write failure is non-fatal; we already have the data in memory.
	_ = s.writeCache(s.cachePath(), body)
	return s.parseTracked(body)
}

// CacheInfo reports the state of the on-disk cache without touching the
// network.
func (s *TLEStore) CacheInfo() CacheInfo {
	info := CacheInfo{Path: s.cachePath(), URL: s.url}
	st, err := os.Stat(info.Path)
	if err != nil {
		return info
	}
	info.Exists = true
	info.SizeBytes = st.Size()
	age := time.Since(st.ModTime())
	info.AgeSeconds = int64(age.Seconds())
	info.Fresh = age < s.maxAge
	return info
}

func (s *TLEStore) cachePath() string {
	return filepath.Join(s.dataRoot, tleCacheFile)
}

// loadOrFetch walks the four-tier fallback chain to get raw TLE text:
// fresh cache -> network -> stale cache -> embedded data.
func (s *TLEStore) loadOrFetch(cachePath string) (string, error) {
	// Tier 1: fresh disk cache
	info, err := os.Stat(cachePath)
	if err == nil && time.Since(info.ModTime()) < s.maxAge {
		if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
			return string(b), nil
		}
	}

	// Tier 2: network fetch
	body, fetchErr := s.fetchFromNetwork()
	if fetchErr == nil {
		_ = s.writeCache(cachePath, body)
		return body, nil
	}

	// Tier 3: stale disk cache
	if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
		return string(b), nil
	}

	// Tier 4: embedded fallback baked into the binary
	if embeddedTLE != "" {
		return embeddedTLE, nil
	}

	return "", fmt.Errorf("%w: all sources exhausted: %v", ErrServiceUnavailable, fetchErr)
}

// fetchFromNetwork downloads the element-set dump from CelesTrak (or
// whatever URL is configured). Times out after 30 seconds.
func (s *TLEStore) fetchFromNetwork() (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(s.url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("TLE fetch returned HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeCache atomically writes data to cachePath via a temp file and rename
// so readers never see a half-written file.
func (s *TLEStore) writeCache(cachePath, data string) error {
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "tle-*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), cachePath)
}

// parseTracked extracts element sets for the tracked LEO targets from a
// bulk TLE text dump. Input is expected in standard 3-line format (name,
// line 1, line 2) as served by CelesTrak. Groups that fail checksum or
// format validation are skipped.
func (s *TLEStore) parseTracked(raw string) (map[int]Element, error) {
	wanted := make(map[int]bool, len(catalog.LEOTargets))
	for _, sat := range catalog.LEOTargets {
		wanted[sat.NoradID] = true
	}

	result := make(map[int]Element)
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	for i := 0; i+2 < len(lines); i += 3 {
		name := strings.TrimSpace(lines[i])
		l1 := strings.TrimSpace(lines[i+1])
		l2 := strings.TrimSpace(lines[i+2])

		tle, err := sgp4.ParseTLE(name + "\n" + l1 + "\n" + l2)
		if err != nil {
			continue
		}

		if wanted[tle.SatelliteNumber] {
			result[tle.SatelliteNumber] = Element{
				Name:    name,
				NoradID: tle.SatelliteNumber,
				Line1:   l1,
				Line2:   l2,
			}
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no tracked element sets found in %d lines of input", len(lines))
	}

	return result, nil
}
