// Package metadata builds the ordered field assignments written to each file.
package metadata

import (
	"strings"

	"famedia/internal/config"
	"famedia/internal/domain"
	"famedia/internal/naming"
)

type Planner struct {
	Library config.Library
}

func NewPlanner(lib config.Library) Planner {
	return Planner{Library: lib}
}

// ClearTags returns the assignments that empty every tag field. Tag values are
// appended by Plan, so this must run in its own invocation first.
func (p Planner) ClearTags() []domain.FieldAssignment {
	out := make([]domain.FieldAssignment, 0, len(tagFields))
	for _, f := range tagFields {
		out = append(out, domain.Clear(f.Name))
	}
	return out
}

// Plan returns the assignments for one file. fileName is the name the file had
// when it was selected and is preserved in RawFileName.
func (p Planner) Plan(parsed domain.ParsedName, fileName string) []domain.FieldAssignment {
	title := strings.ReplaceAll(parsed.Title, "_", "-")

	var out []domain.FieldAssignment
	out = append(out, domain.Set(dateField, parsed.ExifDate()+" +00:00"))

	for _, f := range titleFields {
		out = append(out, domain.Set(f, title))
	}
	out = appendClears(out, captionClearFields)
	out = appendClears(out, ratingClearFields)

	for _, f := range authorFields {
		out = append(out, domain.Set(f, p.Library.FamilyName))
	}

	out = append(out, domain.Set(copyrightField, p.Library.Copyright))
	out = appendClears(out, rightsClearFields)

	out = append(out, domain.Set(rawFileNameField, fileName))
	out = appendClears(out, provenanceClearFields)

	for _, tag := range parsed.Tags {
		out = append(out, TagAssignments(tag)...)
	}
	return out
}

// TagAssignments appends one tag to every tag field.
func TagAssignments(tag string) []domain.FieldAssignment {
	pipe := naming.HierarchyPath(tag, "|")
	slash := naming.HierarchyPath(tag, "/")

	out := make([]domain.FieldAssignment, 0, len(tagFields))
	for _, f := range tagFields {
		value := slash
		if f.Hierarchical {
			value = pipe
		}
		out = append(out, domain.Add(f.Name, value))
	}
	return out
}

func appendClears(out []domain.FieldAssignment, fields []string) []domain.FieldAssignment {
	for _, f := range fields {
		out = append(out, domain.Clear(f))
	}
	return out
}
