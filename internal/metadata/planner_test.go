package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famedia/internal/config"
	"famedia/internal/domain"
)

func testPlanner() Planner {
	return NewPlanner(config.NewLibrary("Smith Family Media Processor", "Smith", nil))
}

func valueOf(t *testing.T, list []domain.FieldAssignment, field string) string {
	t.Helper()
	for _, a := range list {
		if a.Field == field && !a.Append {
			return a.Value
		}
	}
	t.Fatalf("field %s not assigned", field)
	return ""
}

func appended(list []domain.FieldAssignment, field string) []string {
	var out []string
	for _, a := range list {
		if a.Field == field && a.Append {
			out = append(out, a.Value)
		}
	}
	return out
}

func TestPlanSetsIdentityFields(t *testing.T) {
	parsed := domain.ParsedName{Year: 2023, Month: 6, Day: 1, Hour: 10, Minute: 30, Title: "Summer_Trip"}
	got := testPlanner().Plan(parsed, "2023-06-01T10.30.00 - Summer_Trip.JPEG")

	assert.Equal(t, "2023:06:01 10:30:00 +00:00", valueOf(t, got, "Time:all"))
	for _, f := range titleFields {
		assert.Equal(t, "Summer-Trip", valueOf(t, got, f), f)
	}
	for _, f := range authorFields {
		assert.Equal(t, "Smith Family", valueOf(t, got, f), f)
	}
	assert.Equal(t, "Smith Family Photos", valueOf(t, got, "Copyright"))
	assert.Equal(t, "2023-06-01T10.30.00 - Summer_Trip.JPEG", valueOf(t, got, "RawFileName"))

	for _, group := range [][]string{captionClearFields, ratingClearFields, rightsClearFields, provenanceClearFields} {
		for _, f := range group {
			assert.Equal(t, "", valueOf(t, got, f), f)
		}
	}
}

func TestPlanWithoutTagsHasNoTagFields(t *testing.T) {
	got := testPlanner().Plan(domain.ParsedName{Year: 2023, Month: 1, Day: 1, Title: "x"}, "x.jpg")
	for _, a := range got {
		assert.False(t, a.Append, a.Field)
		for _, f := range tagFields {
			assert.NotEqual(t, f.Name, a.Field)
		}
	}
}

func TestPlanAppendsHierarchicalTags(t *testing.T) {
	parsed := domain.ParsedName{Year: 2023, Month: 6, Day: 1, Title: "Summer Trip", Tags: []string{"Family.Trips", "Beach"}}
	got := testPlanner().Plan(parsed, "a.jpg")

	assert.Equal(t, []string{"Family|Trips", "Beach"}, appended(got, "XMP:HierarchicalSubject"))
	assert.Equal(t, []string{"Family/Trips", "Beach"}, appended(got, "XMP:Subject"))
	assert.Equal(t, []string{"Family/Trips", "Beach"}, appended(got, "IPTC:Keywords"))
	assert.Equal(t, []string{"Family/Trips", "Beach"}, appended(got, "Microsoft:Category"))
}

func TestPlanIsDeterministic(t *testing.T) {
	parsed := domain.ParsedName{Year: 2023, Month: 6, Day: 1, Title: "t", Tags: []string{"a.b"}}
	p := testPlanner()
	assert.Equal(t, p.Plan(parsed, "a.jpg"), p.Plan(parsed, "a.jpg"))
}

func TestClearTagsCoversEveryTagField(t *testing.T) {
	got := testPlanner().ClearTags()
	require.Len(t, got, 4)
	assert.Equal(t, "-XMP:HierarchicalSubject=", got[0].String())
	assert.Equal(t, "-XMP:Subject=", got[1].String())
	assert.Equal(t, "-IPTC:Keywords=", got[2].String())
	assert.Equal(t, "-Microsoft:Category=", got[3].String())
}

func TestTagAssignmentRendering(t *testing.T) {
	got := TagAssignments("Family.Trips")
	assert.Equal(t, "-XMP:HierarchicalSubject+=Family|Trips", got[0].String())
	assert.Equal(t, "-XMP:Subject+=Family/Trips", got[1].String())
}
