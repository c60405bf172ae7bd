package app

import (
	"context"
	"io/fs"
	"time"

	"famedia/internal/domain"
)

type FileSystem interface {
	ReadDir(dir string) ([]fs.DirEntry, error)
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	Rename(src, dst string) error
	Remove(path string) error
	Move(src, dst string) error
	Chtimes(path string, atime, mtime time.Time) error
}

// MetadataTool reads and writes embedded metadata. Apply runs one tool
// invocation; its error text is the tool's own diagnostic output.
type MetadataTool interface {
	Apply(ctx context.Context, path string, assignments []domain.FieldAssignment) error
	Query(ctx context.Context, path string, fields ...string) (map[string]string, error)
}

type GPSProbe interface {
	HasGPS(ctx context.Context, path string) (bool, error)
}

type TimezoneResolver interface {
	Resolve(name string) (*time.Location, error)
}
