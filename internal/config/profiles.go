package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ProfileInfo describes a named configuration profile on disk.
type ProfileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// DefaultConfigDir returns the directory searched for named config profiles.
func DefaultConfigDir() string {
	if dir := os.Getenv("SATWATCH_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "/etc/satwatch"
}

// ListProfiles returns every *.toml file in dir as a selectable profile.
// A missing directory is not an error; it just means no profiles exist.
func ListProfiles(dir string) ([]ProfileInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var profiles []ProfileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		profiles = append(profiles, ProfileInfo{
			Name: strings.TrimSuffix(e.Name(), ".toml"),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return profiles, nil
}
