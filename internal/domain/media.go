package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MediaFile is a file of the selected set, identified by its current path.
type MediaFile struct {
	Path     string
	Name     string
	BaseName string
	Ext      string
}

func NewMediaFile(path string) MediaFile {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return MediaFile{
		Path:     path,
		Name:     name,
		BaseName: strings.TrimSuffix(name, ext),
		Ext:      ext,
	}
}

// WithExt returns the file renamed to the given extension within the same directory.
func (m MediaFile) WithExt(ext string) MediaFile {
	return NewMediaFile(filepath.Join(filepath.Dir(m.Path), m.BaseName+ext))
}

// ParsedName is the structured form of a conforming base name.
type ParsedName struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
	Title  string
	Tags   []string
}

// ExifDate renders the embedded date as "YYYY:MM:DD hh:mm:ss".
func (p ParsedName) ExifDate() string {
	return fmt.Sprintf("%04d:%02d:%02d %02d:%02d:%02d", p.Year, p.Month, p.Day, p.Hour, p.Minute, p.Second)
}

// Instant interprets the embedded date as wall-clock time in loc. A time that
// falls into a daylight saving gap resolves to the instant time.Date picks.
func (p ParsedName) Instant(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(p.Year, time.Month(p.Month), p.Day, p.Hour, p.Minute, p.Second, 0, loc)
}

// GeotagRequest is the batch-wide location written into every geotagged file.
type GeotagRequest struct {
	Latitude    float64
	Longitude   float64
	Location    string
	City        string
	State       string
	Country     string
	CountryCode string
	Override    bool
}

// FieldAssignment is one "-Field=Value" (or "-Field+=Value" when Append is set)
// argument for the metadata tool. An empty Value without Append clears the field.
type FieldAssignment struct {
	Field  string
	Value  string
	Append bool
}

func Set(field, value string) FieldAssignment {
	return FieldAssignment{Field: field, Value: value}
}

func Clear(field string) FieldAssignment {
	return FieldAssignment{Field: field}
}

func Add(field, value string) FieldAssignment {
	return FieldAssignment{Field: field, Value: value, Append: true}
}

func (a FieldAssignment) String() string {
	op := "="
	if a.Append {
		op = "+="
	}
	return "-" + a.Field + op + a.Value
}
