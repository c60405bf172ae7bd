package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famedia/internal/config"
	"famedia/internal/metadata"
)

const presetYAML = `presets:
  - name: Home
    coordinates: "40.7484405, -73.9856644"
    location: Empire State Building
    city: New York
    state: New York
    country: United States - US
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	file := filepath.Join(t.TempDir(), "geotag_data.yaml")
	require.NoError(t, os.WriteFile(file, []byte(presetYAML), 0o644))
	return config.Config{ExternalMediaDir: "/photos", GeotagDataFile: file}
}

func TestBatchDefaultsToMediaRoot(t *testing.T) {
	opts := &processOptions{recursive: true, move: true}
	b, err := opts.batch(testConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "/photos", b.SelectedDirectory)
	assert.True(t, b.Recursive)
	assert.True(t, b.MoveSelected)
	assert.False(t, b.Geotagging())
}

func TestBatchFromPreset(t *testing.T) {
	opts := &processOptions{dir: "/photos/2023", geotag: true, override: true, preset: "home"}
	opts.input.City = "Brooklyn"

	b, err := opts.batch(testConfig(t))
	require.NoError(t, err)
	require.True(t, b.Geotagging())
	assert.Equal(t, "/photos/2023", b.SelectedDirectory)
	assert.True(t, b.Geotag.Override)
	assert.Equal(t, "Brooklyn", b.Geotag.City)
	assert.Equal(t, "Empire State Building", b.Geotag.Location)
	assert.Equal(t, "US", b.Geotag.CountryCode)
}

func TestBatchRejectsBadGeotag(t *testing.T) {
	tests := map[string]*processOptions{
		"unknown preset": {geotag: true, preset: "Office"},
		"bad coordinates": {geotag: true, input: metadata.GeotagInput{
			Coordinates: "north", Country: "United States - US",
		}},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := opts.batch(testConfig(t))
			assert.Error(t, err)
		})
	}
}

func TestNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, nonEmpty("a", "", "c", ""))
	assert.Empty(t, nonEmpty("", ""))
}
