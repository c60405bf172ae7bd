package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args []string, env map[string]string) (Config, error) {
	t.Helper()
	var cfg Config
	fs := pflag.NewFlagSet("famedia", pflag.ContinueOnError)
	cfg.Bind(fs)
	require.NoError(t, fs.Parse(args))
	err := cfg.Resolve(fs, func(key string) string { return env[key] })
	return cfg, err
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := parse(t, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Smith", cfg.FamilyLastName)
	assert.Equal(t, "Smith Family Media Processor", cfg.AppName)
	assert.Equal(t, "/media", cfg.ExternalMediaDir)
	assert.Equal(t, "GMT", cfg.Timezone)
	assert.False(t, cfg.EnableMoveFiles)
	assert.Empty(t, cfg.FilesToDelete)
	assert.Zero(t, cfg.ExiftoolTimeout)
}

func TestResolveReadsEnvironment(t *testing.T) {
	cfg, err := parse(t, nil, map[string]string{
		"FAMILY_LAST_NAME":     "Jones",
		"FILES_TO_DELETE":      "Thumbs.db, .DS_Store,,",
		"EXCLUDED_DIRECTORIES": "@eaDir",
		"ENABLE_MOVE_FILES":    "TRUE",
		"TZ":                   "America/Denver",
		"EXTERNAL_MEDIA_DIR":   "/volume1/photos",
		"EXIFTOOL_TIMEOUT":     "45s",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jones Family Media Processor", cfg.AppName)
	assert.Equal(t, []string{"Thumbs.db", ".DS_Store"}, cfg.FilesToDelete)
	assert.Equal(t, []string{"@eaDir"}, cfg.ExcludedDirs)
	assert.True(t, cfg.EnableMoveFiles)
	assert.Equal(t, "America/Denver", cfg.Timezone)
	assert.Equal(t, "/volume1/photos", cfg.ExternalMediaDir)
	assert.Equal(t, 45*time.Second, cfg.ExiftoolTimeout)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := parse(t, []string{"--family", "Brown", "--enable-move=false"}, map[string]string{
		"FAMILY_LAST_NAME":  "Jones",
		"ENABLE_MOVE_FILES": "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "Brown", cfg.FamilyLastName)
	assert.False(t, cfg.EnableMoveFiles)
}

func TestResolveRejectsBadTimeout(t *testing.T) {
	_, err := parse(t, []string{"--exiftool-timeout", "soon"}, nil)
	assert.Error(t, err)
}

func TestLibraryConstants(t *testing.T) {
	lib := NewLibrary("Smith Family Media Processor", "Smith", []string{"Thumbs.db"})

	assert.Equal(t, "Smith Family", lib.FamilyName)
	assert.Equal(t, "Smith Family Photos", lib.Copyright)
	assert.True(t, lib.ShouldDelete("Thumbs.db"))
	assert.False(t, lib.ShouldDelete("thumbs.db"))
	assert.Equal(t, "Smith Family Media Processor ending early", lib.EndingEarly())
}

func TestLibraryExtensions(t *testing.T) {
	lib := NewLibrary("app", "Smith", nil)

	for _, ext := range []string{".jpg", ".JPG", ".jpeg", ".JPEG", ".mp4", ".Mp4"} {
		assert.True(t, lib.Allowed(ext), ext)
	}
	for _, ext := range []string{".png", ".heic", ""} {
		assert.False(t, lib.Allowed(ext), ext)
	}

	assert.Equal(t, ".jpg", lib.NormalizeExt(".JPEG"))
	assert.Equal(t, ".jpg", lib.NormalizeExt(".JPG"))
	assert.Equal(t, ".mp4", lib.NormalizeExt(".MP4"))
}

func TestMountTranslatesPrefixes(t *testing.T) {
	m := Mount{Internal: "/media", External: "/volume1/photos"}

	assert.Equal(t, "/media/2023/trip", m.ToInternal("/volume1/photos/2023/trip"))
	assert.Equal(t, "/media", m.ToInternal("/volume1/photos"))
	assert.Equal(t, "/volume1/photos/a.jpg", m.ToExternal("/media/a.jpg"))
	assert.Equal(t, "/mediaextra/a.jpg", m.ToExternal("/mediaextra/a.jpg"))
}
