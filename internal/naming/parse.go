// Package naming parses the library's file naming convention:
//
//	YYYY-MM-DDThh.mm.ss - Title [tag1;Parent.Child]
//
// The bracketed tag group is optional.
package naming

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"famedia/internal/domain"
)

const (
	TagDelimiter          = ";"
	TagHierarchyDelimiter = "."
)

var (
	ErrFormat        = errors.New("name does not match YYYY-MM-DDThh.mm.ss - Title [tags]")
	ErrTitleBrackets = errors.New("title contains brackets")
	ErrDoubleSpace   = errors.New("contains consecutive spaces")
	ErrEmptyTag      = errors.New("contains an empty tag")
	ErrInvalidDate   = errors.New("date does not exist")
)

var namePattern = regexp.MustCompile(`^([0-9]{4})-([0-9]{2})-([0-9]{2})T([0-9]{2})\.([0-9]{2})\.([0-9]{2}) - (.+?)(?: \[(.+)\])?$`)

// Parse parses and validates fileName (including its extension).
// The grammar is matched against the base name; the double space rule applies
// to the whole name.
func Parse(fileName string) (domain.ParsedName, error) {
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	m := namePattern.FindStringSubmatch(baseName)
	if m == nil {
		return domain.ParsedName{}, ErrFormat
	}

	parsed := domain.ParsedName{
		Year:   atoi(m[1]),
		Month:  atoi(m[2]),
		Day:    atoi(m[3]),
		Hour:   atoi(m[4]),
		Minute: atoi(m[5]),
		Second: atoi(m[6]),
		Title:  m[7],
	}

	if !validDate(parsed) {
		return domain.ParsedName{}, ErrInvalidDate
	}
	if strings.ContainsAny(parsed.Title, "[]") {
		return domain.ParsedName{}, ErrTitleBrackets
	}
	if strings.Contains(fileName, "  ") {
		return domain.ParsedName{}, ErrDoubleSpace
	}

	if m[8] != "" {
		for _, tag := range strings.Split(m[8], TagDelimiter) {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				return domain.ParsedName{}, ErrEmptyTag
			}
			parsed.Tags = append(parsed.Tags, tag)
		}
	}

	return parsed, nil
}

// HierarchyPath renders a dot-delimited tag with sep between its trimmed levels,
// e.g. "Family.Trips" -> "Family|Trips".
func HierarchyPath(tag, sep string) string {
	parts := strings.Split(tag, TagHierarchyDelimiter)
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return strings.Join(parts, sep)
}

// ArchiveMonth extracts the year and two-digit month from the leading
// "YYYY-MM-" prefix of a file name.
func ArchiveMonth(fileName string) (year string, month int, ok bool) {
	parts := strings.SplitN(fileName, "-", 3)
	if len(parts) < 3 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return "", 0, false
	}
	if _, err := strconv.Atoi(parts[0]); err != nil {
		return "", 0, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return "", 0, false
	}
	return parts[0], month, true
}

// validDate rejects dates time.Date would normalize, such as February 30 or hour 24.
func validDate(p domain.ParsedName) bool {
	if p.Hour > 23 || p.Minute > 59 || p.Second > 59 {
		return false
	}
	t := time.Date(p.Year, time.Month(p.Month), p.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == p.Year && int(t.Month()) == p.Month && t.Day() == p.Day
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
