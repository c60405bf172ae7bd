package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const (
	DefaultMediaDir    = "/media"
	DefaultMoveToDir   = "/moveTo"
	DefaultFamilyName  = "Smith"
	DefaultGeotagFile  = "./config/geotag_data.yaml"
	DefaultTimezone    = "GMT"
	DefaultListenAddr  = ":5000"
	DefaultExiftoolBin = "exiftool"
)

// Config holds process-wide settings. Command-line flags win over environment
// variables, which win over the defaults above.
type Config struct {
	FamilyLastName    string
	AppName           string
	GeotagDataFile    string
	MediaDir          string
	MoveToDir         string
	ExternalMediaDir  string
	ExternalMoveToDir string
	ExcludedDirs      []string
	FilesToDelete     []string
	Timezone          string
	EnableMoveFiles   bool
	Verbose           bool
	ExiftoolPath      string
	ExiftoolTimeout   time.Duration
	ListenAddr        string

	excludedDirsRaw    string
	filesToDeleteRaw   string
	exiftoolTimeoutRaw string
}

// Bind registers the command-line flags on fs.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.FamilyLastName, "family", DefaultFamilyName, "Family last name written to author fields")
	fs.StringVar(&c.AppName, "app-name", "", "Application name used in progress messages")
	fs.StringVar(&c.GeotagDataFile, "geotag-data", DefaultGeotagFile, "YAML file with geotag presets")
	fs.StringVar(&c.MediaDir, "media-dir", DefaultMediaDir, "Media root as seen by this process")
	fs.StringVar(&c.MoveToDir, "move-to-dir", DefaultMoveToDir, "Archive root as seen by this process")
	fs.StringVar(&c.ExternalMediaDir, "external-media-dir", "", "Media root as shown to users")
	fs.StringVar(&c.ExternalMoveToDir, "external-move-to-dir", "", "Archive root as shown to users")
	fs.StringVar(&c.excludedDirsRaw, "exclude-dirs", "", "Comma separated directory names hidden from the directory tree")
	fs.StringVar(&c.filesToDeleteRaw, "delete-files", "", "Comma separated file names deleted when found")
	fs.StringVar(&c.Timezone, "tz", DefaultTimezone, "Timezone of the wall-clock times in file names")
	fs.BoolVar(&c.EnableMoveFiles, "enable-move", false, "Allow moving processed files into the archive")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "Verbose output")
	fs.StringVar(&c.ExiftoolPath, "exiftool", DefaultExiftoolBin, "Path to the exiftool binary")
	fs.StringVar(&c.exiftoolTimeoutRaw, "exiftool-timeout", "", "Timeout for a single exiftool invocation (e.g. 30s); empty waits forever")
	fs.StringVar(&c.ListenAddr, "listen", DefaultListenAddr, "HTTP listen address")
}

// Resolve fills every flag that was not set explicitly from the environment and
// validates the result.
func (c *Config) Resolve(fs *pflag.FlagSet, getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	changed := func(name string) bool {
		if fs == nil {
			return false
		}
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	envString := func(flag, key string, dst *string) {
		if changed(flag) {
			return
		}
		if val := strings.TrimSpace(getenv(key)); val != "" {
			*dst = val
		}
	}
	envBool := func(flag, key string, dst *bool) {
		if changed(flag) {
			return
		}
		if val := strings.TrimSpace(getenv(key)); val != "" {
			*dst = truthy(val)
		}
	}

	envString("family", "FAMILY_LAST_NAME", &c.FamilyLastName)
	envString("app-name", "APP_NAME", &c.AppName)
	envString("geotag-data", "GEOTAG_DATA_FILE", &c.GeotagDataFile)
	envString("media-dir", "MEDIA_DIR", &c.MediaDir)
	envString("move-to-dir", "MOVE_TO_DIR", &c.MoveToDir)
	envString("external-media-dir", "EXTERNAL_MEDIA_DIR", &c.ExternalMediaDir)
	envString("external-move-to-dir", "EXTERNAL_MOVE_TO_DIR", &c.ExternalMoveToDir)
	envString("exclude-dirs", "EXCLUDED_DIRECTORIES", &c.excludedDirsRaw)
	envString("delete-files", "FILES_TO_DELETE", &c.filesToDeleteRaw)
	envString("tz", "TZ", &c.Timezone)
	envBool("enable-move", "ENABLE_MOVE_FILES", &c.EnableMoveFiles)
	envBool("verbose", "VERBOSE_LOGGING", &c.Verbose)
	envString("exiftool", "EXIFTOOL_PATH", &c.ExiftoolPath)
	envString("exiftool-timeout", "EXIFTOOL_TIMEOUT", &c.exiftoolTimeoutRaw)
	envString("listen", "LISTEN_ADDR", &c.ListenAddr)

	return c.normalize()
}

func (c *Config) normalize() error {
	if c.FamilyLastName == "" {
		c.FamilyLastName = DefaultFamilyName
	}
	if c.AppName == "" {
		c.AppName = fmt.Sprintf("%s Family Media Processor", c.FamilyLastName)
	}
	if c.MediaDir == "" || c.MoveToDir == "" {
		return errors.New("media and move-to directories are required")
	}
	c.MediaDir = filepath.Clean(c.MediaDir)
	c.MoveToDir = filepath.Clean(c.MoveToDir)
	if c.ExternalMediaDir == "" {
		c.ExternalMediaDir = c.MediaDir
	}
	if c.ExternalMoveToDir == "" {
		c.ExternalMoveToDir = c.MoveToDir
	}
	c.ExcludedDirs = splitList(c.excludedDirsRaw)
	c.FilesToDelete = splitList(c.filesToDeleteRaw)
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.ExiftoolPath == "" {
		c.ExiftoolPath = DefaultExiftoolBin
	}
	if c.exiftoolTimeoutRaw != "" {
		d, err := time.ParseDuration(c.exiftoolTimeoutRaw)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid exiftool timeout %q, use a duration like 30s", c.exiftoolTimeoutRaw)
		}
		c.ExiftoolTimeout = d
	}
	return nil
}

// Library returns the immutable constants the processing core depends on.
func (c Config) Library() Library {
	return NewLibrary(c.AppName, c.FamilyLastName, c.FilesToDelete)
}

func (c Config) MediaMount() Mount {
	return Mount{Internal: c.MediaDir, External: c.ExternalMediaDir}
}

func (c Config) MoveMount() Mount {
	return Mount{Internal: c.MoveToDir, External: c.ExternalMoveToDir}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func truthy(val string) bool {
	val = strings.ToLower(val)
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
