package exif

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// Reader inspects the EXIF block of JPEG files without starting exiftool.
type Reader struct{}

// HasGPS reports whether the EXIF GPS IFD of path holds a position. Files
// without an EXIF block report false without error.
func (Reader) HasGPS(ctx context.Context, path string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	x, err := goexif.Decode(file)
	if x == nil || (err != nil && goexif.IsCriticalError(err)) {
		return false, nil
	}

	if _, _, err := x.LatLong(); err != nil {
		return false, nil
	}
	return true, nil
}

// GPSChecker is any source able to answer whether a file already has a position.
type GPSChecker interface {
	HasGPS(ctx context.Context, path string) (bool, error)
}

// Probe checks JPEGs with Reader first and defers to Fallback for everything
// the EXIF block cannot answer, such as XMP positions and video containers.
type Probe struct {
	Reader   Reader
	Fallback GPSChecker
}

func (p Probe) HasGPS(ctx context.Context, path string) (bool, error) {
	if isJPEG(path) {
		if found, err := p.Reader.HasGPS(ctx, path); err == nil && found {
			return true, nil
		}
	}
	if p.Fallback == nil {
		return false, nil
	}
	return p.Fallback.HasGPS(ctx, path)
}

func isJPEG(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}
