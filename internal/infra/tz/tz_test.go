package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famedia/internal/domain"
)

func TestResolveKnownZone(t *testing.T) {
	loc, err := Resolver{}.Resolve("America/Denver")
	require.NoError(t, err)

	parsed := domain.ParsedName{Year: 2023, Month: 6, Day: 1, Hour: 10, Minute: 30}
	assert.Equal(t, time.Date(2023, 6, 1, 16, 30, 0, 0, time.UTC), parsed.Instant(loc).UTC())
}

func TestResolveRejectsUnknownZone(t *testing.T) {
	_, err := Resolver{}.Resolve("Mars/Olympus_Mons")
	assert.Error(t, err)
	_, err = Resolver{}.Resolve("  ")
	assert.Error(t, err)
}

func TestInstantInsideSpringForwardGap(t *testing.T) {
	loc, err := Resolver{}.Resolve("America/New_York")
	require.NoError(t, err)

	// 02:30 does not exist on 2023-03-12 in New York; clocks jump from 02:00 to 03:00.
	parsed := domain.ParsedName{Year: 2023, Month: 3, Day: 12, Hour: 2, Minute: 30}
	at := parsed.Instant(loc).UTC()
	assert.Equal(t, 2023, at.Year())
	assert.Equal(t, time.March, at.Month())
	assert.Equal(t, 12, at.Day())
	assert.Contains(t, []int{6, 7}, at.Hour())
	assert.Equal(t, 30, at.Minute())
}
