package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:     "00:00:00",
		9:     "00:00:09",
		59:    "00:00:59",
		60:    "00:01:00",
		150:   "00:02:30",
		3599:  "00:59:59",
		3600:  "01:00:00",
		86399: "23:59:59",
	}

	for seconds, want := range cases {
		assert.Equal(t, want, FormatTimestamp(seconds))
	}
}

func TestFormatTimestampClampsNegative(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatTimestamp(-5))
}

func TestFormatTimestampDropsFraction(t *testing.T) {
	assert.Equal(t, "00:00:30", FormatTimestamp(30.75))
}

func TestParseTimestamp(t *testing.T) {
	cases := map[string]float64{
		"00:00:00": 0,
		"00:02:30": 150,
		"1:00:00":  3600,
		"02:30":    150,
		"23:59:59": 86399,
		" 01:05 ":  65,
	}

	for in, want := range cases {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "90", "1:2:3:4", "aa:bb", "-1:00", "01:x0"} {
		_, err := ParseTimestamp(in)
		assert.Error(t, err, in)
	}
}

// The server formats seconds into a display string and the client
// parses it back independently, so the pair has to round-trip for the
// whole day range
func TestTimestampRoundTrip(t *testing.T) {
	for s := 0; s < 24*3600; s += 7 {
		got, err := ParseTimestamp(FormatTimestamp(float64(s)))
		require.NoError(t, err)
		require.Equal(t, float64(s), got)
	}
}
