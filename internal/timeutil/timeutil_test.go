package timeutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAbsoluteFixedOffset(t *testing.T) {
	got, err := ToAbsolute("2024-03-01T09:00", 8)
	require.NoError(t, err)
	want := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want), "got %s, want %s", got, want)
}

func TestToAbsoluteIgnoresAmbientZone(t *testing.T) {
	// Parsing must not depend on time.Local.
	orig := time.Local
	time.Local = time.FixedZone("weird", -11*3600)
	defer func() { time.Local = orig }()

	got, err := ToAbsolute("2024-03-01T09:00", 8)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC), got.UTC())
}

func TestToAbsoluteAcceptsSeconds(t *testing.T) {
	got, err := ToAbsolute("2024-03-01T09:00:30", 8)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Second())
}

func TestToAbsoluteMalformed(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "2024-13-01T09:00", "2024-03-01 09:00"} {
		_, err := ToAbsolute(in, 8)
		require.Error(t, err, "input %q", in)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), "input %q should yield a ParseError", in)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"2024-03-01T09:00",
		"2024-12-31T23:59",
		"2024-01-01T00:00",
		"2024-02-29T12:30",
	}
	for _, in := range inputs {
		abs, err := ToAbsolute(in, 8)
		require.NoError(t, err)
		assert.Equal(t, in, ToWallClock(abs, 8), "round trip of %q", in)
	}
}

func TestDateIn(t *testing.T) {
	// 23:30 UTC+8 on March 1 is 15:30 UTC the same day; 01:00 UTC+8 on
	// March 2 is still March 1 in UTC.
	late := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", DateIn(late, 8))

	early := time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-02", DateIn(early, 8))
}
