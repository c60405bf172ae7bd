package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famedia/internal/app"
	"famedia/internal/config"
	"famedia/internal/domain"
	osfs "famedia/internal/infra/fs"
	"famedia/internal/infra/tz"
	"famedia/internal/logging"
)

type fakeTool struct {
	applied []string
}

func (f *fakeTool) Apply(ctx context.Context, path string, assignments []domain.FieldAssignment) error {
	f.applied = append(f.applied, filepath.Base(path))
	return nil
}

func (f *fakeTool) Query(ctx context.Context, path string, fields ...string) (map[string]string, error) {
	return map[string]string{}, nil
}

const presetYAML = `presets:
  - name: Home
    coordinates: "40.7484405, -73.9856644"
    location: Empire State Building
    city: New York
    state: New York
    country: United States - US
`

type fixture struct {
	media  string
	server *Server
	tool   *fakeTool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	media := t.TempDir()
	presetFile := filepath.Join(t.TempDir(), "geotag_data.yaml")
	require.NoError(t, os.WriteFile(presetFile, []byte(presetYAML), 0o644))

	cfg := config.Config{
		AppName:           "Test Processor",
		FamilyLastName:    "Smith",
		MediaDir:          media,
		ExternalMediaDir:  "/photos",
		MoveToDir:         t.TempDir(),
		ExternalMoveToDir: "/archive",
		ExcludedDirs:      []string{"@eaDir"},
		Timezone:          "GMT",
		GeotagDataFile:    presetFile,
	}
	logger := logging.New(io.Discard, false)
	tool := &fakeTool{}
	pipeline := app.NewPipeline(cfg, osfs.OSFS{}, tool, nil, tz.Resolver{}, logger)
	return &fixture{media: media, server: New(cfg, pipeline, osfs.OSFS{}, logger), tool: tool}
}

func (f *fixture) write(t *testing.T, rel string) {
	t.Helper()
	path := filepath.Join(f.media, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("media"), 0o644))
}

func TestStartProcessingStreamsProgress(t *testing.T) {
	f := newFixture(t)
	f.write(t, "2023-06-01T10.30.00 - Summer Trip.jpg")

	body := `{"selected_media_directory": "/photos", "recursive_search": false, "move_files_selected": false, "geotag_enabled": false}`
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/start-processing", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Batch-Id"))
	assert.Equal(t, strings.Join([]string{
		"RECURSIVE_SEARCH is false. Processing files in the top-level directory only.",
		"GEOTAG_FILES is false. Files will not be geotaged.",
		"-------------- New Process --------------",
		"File processed successfully: 2023-06-01T10.30.00 - Summer Trip.jpg",
		"Test Processor completed successfully.",
	}, "\n")+"\n", rec.Body.String())
	assert.True(t, rec.Flushed)
	assert.Len(t, f.tool.applied, 2)
}

func TestStartProcessingWithGeotag(t *testing.T) {
	f := newFixture(t)
	f.write(t, "2023-06-01T10.30.00 - Summer Trip.jpg")

	body := `{"selected_media_directory": "/photos", "geotag_enabled": true, "geotag_override": true,
		"geotag_data": {"coordinates": "40.7484405, -73.9856644", "location": "ESB", "city": "New York", "state": "NY", "country": "United States - US"}}`
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/start-processing", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GEOTAG_FILES is true. Files will be geotagged. (Override: enabled)")
}

func TestStartProcessingRejectsBadInput(t *testing.T) {
	tests := map[string]struct {
		body string
		want string
	}{
		"coordinates": {
			body: `{"selected_media_directory": "/photos", "geotag_enabled": true, "geotag_data": {"coordinates": "north", "country": "X - XX"}}`,
			want: "Error: invalid coordinates format",
		},
		"country": {
			body: `{"selected_media_directory": "/photos", "geotag_enabled": true, "geotag_data": {"coordinates": "1, 2", "country": "Nowhere"}}`,
			want: "Error: invalid country",
		},
		"no directory": {
			body: `{"recursive_search": true}`,
			want: "Error: no media directory selected",
		},
		"not json": {
			body: `selected_media_directory=/photos`,
			want: "Error: invalid request body",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			rec := httptest.NewRecorder()
			f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/start-processing", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Body.String(), tt.want), rec.Body.String())
			assert.Empty(t, f.tool.applied)
		})
	}
}

func TestStartProcessingRejectsConcurrentBatch(t *testing.T) {
	f := newFixture(t)
	f.server.busy.Lock()
	defer f.server.busy.Unlock()

	rec := httptest.NewRecorder()
	body := `{"selected_media_directory": "/photos"}`
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/start-processing", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStartProcessingForm(t *testing.T) {
	f := newFixture(t)
	f.write(t, "trips/2023-06-01T10.30.00 - Summer Trip.jpg")

	form := url.Values{
		"selected_media_directory": {"/photos"},
		"recursive_search":         {"on"},
		"geotag_enabled":           {"on"},
		"geotag_preset":            {"home"},
	}
	req := httptest.NewRequest(http.MethodPost, "/start-processing-form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, "RECURSIVE_SEARCH is true. Processing files in all subdirectories.")
	assert.Contains(t, out, "GEOTAG_FILES is true. Files will be geotagged. (Override: disabled)")
	assert.True(t, strings.HasSuffix(out, "Test Processor completed successfully.\n"), out)
}

func TestStartProcessingFormUnknownPreset(t *testing.T) {
	f := newFixture(t)
	form := url.Values{
		"selected_media_directory": {"/photos"},
		"geotag_enabled":           {"true"},
		"geotag_preset":            {"Office"},
	}
	req := httptest.NewRequest(http.MethodPost, "/start-processing-form", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "preset not found")
}

func TestStartProcessingRequiresPost(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/start-processing", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDirectoryStructure(t *testing.T) {
	f := newFixture(t)
	f.write(t, "2023/trip/a.jpg")
	f.write(t, "2024/b.jpg")
	f.write(t, "@eaDir/thumb.jpg")
	f.write(t, "top.jpg")

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/directory-structure", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var root DirNode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &root))
	assert.Equal(t, "/photos", root.Name)
	assert.Equal(t, f.media, root.InternalPath)
	assert.Equal(t, "/photos", root.ExternalPath)

	require.Len(t, root.Subdirectories, 2)
	assert.Equal(t, "2023", root.Subdirectories[0].Name)
	assert.Equal(t, "/photos/2023", root.Subdirectories[0].ExternalPath)
	require.Len(t, root.Subdirectories[0].Subdirectories, 1)
	assert.Equal(t, "/photos/2023/trip", root.Subdirectories[0].Subdirectories[0].ExternalPath)
	assert.Equal(t, "2024", root.Subdirectories[1].Name)
	assert.Empty(t, root.Subdirectories[1].Subdirectories)
}

func TestGeotagData(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geotag-data", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"presets": [{
		"name": "Home",
		"coordinates": "40.7484405, -73.9856644",
		"location": "Empire State Building",
		"city": "New York",
		"state": "New York",
		"country": "United States - US"
	}]}`, rec.Body.String())
}

func TestGeotagDataMissingFile(t *testing.T) {
	f := newFixture(t)
	f.server.Config.GeotagDataFile = filepath.Join(t.TempDir(), "missing.yaml")

	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geotag-data", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading geotag data")
}

func TestInfo(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"app_name": "Test Processor", "move_to_dir": "/archive", "move_files_enabled": false}`, rec.Body.String())
}
