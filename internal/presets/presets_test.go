package presets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `presets:
  - name: Home
    coordinates: "40.7484405, -73.9856644"
    location: Empire State Building
    city: New York
    state: New York
    country: United States - US
  - name: " Beach "
    coordinates: "36.97, -122.03"
    location: Boardwalk
    city: Santa Cruz
    state: California
    country: United States - US
`

func TestDecodeAndFind(t *testing.T) {
	c, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, []string{"Home", "Beach"}, c.Names())

	p, err := c.Find("home")
	require.NoError(t, err)
	assert.Equal(t, "40.7484405, -73.9856644", p.Coordinates)
	assert.Equal(t, "New York", p.City)

	_, err = c.Find("Office")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "preset not found: Office (known: Home, Beach)")
}

func TestDecodeRejectsInvalidPresets(t *testing.T) {
	tests := map[string]string{
		"no name":       "presets:\n  - coordinates: \"1, 2\"\n    country: X - XX\n",
		"duplicate":     "presets:\n  - name: A\n    coordinates: \"1, 2\"\n    country: X - XX\n  - name: a\n    coordinates: \"1, 2\"\n    country: X - XX\n",
		"coordinates":   "presets:\n  - name: A\n    coordinates: \"north\"\n    country: X - XX\n",
		"country":       "presets:\n  - name: A\n    coordinates: \"1, 2\"\n    country: Nowhere\n",
		"unknown key":   "presets:\n  - name: A\n    coords: \"1, 2\"\n",
		"not a catalog": "- 1\n- 2\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeEmptyFile(t *testing.T) {
	c, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, c.Presets)
}

func TestLoadAndJSONShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geotag_data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	data, err := json.Marshal(c.Presets[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Home",
		"coordinates": "40.7484405, -73.9856644",
		"location": "Empire State Building",
		"city": "New York",
		"state": "New York",
		"country": "United States - US"
	}`, string(data))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))
}
