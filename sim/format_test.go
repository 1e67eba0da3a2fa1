package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseHz covers direct Hz, centi-Hz display values, comma decimals,
// and the rejection cases.
func TestParseHz(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"40", 40},
		{"40.5", 40.5},
		{"40,5", 40.5},
		{" 40 ", 40},
		{"4000", 40},   // centi-Hz display value
		{"9000", 90},   // centi-Hz display value
		{"150", 150},   // below the display threshold, taken as Hz
		{"200", 200},   // threshold itself is not divided
		{"200.5", 2.005},
	}
	for _, tc := range cases {
		got, err := ParseHz(tc.in)
		require.NoError(t, err, tc.in)
		assert.InDelta(t, tc.want, got, 1e-12, tc.in)
	}

	_, err := ParseHz("")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = ParseHz("   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = ParseHz("0")
	assert.ErrorIs(t, err, ErrNonPositiveInput)
	_, err = ParseHz("-3")
	assert.ErrorIs(t, err, ErrNonPositiveInput)
	_, err = ParseHz("fast")
	assert.Error(t, err)
}

// TestParseThickness: empty means the default layer height, junk and
// non-positive values are rejected.
func TestParseThickness(t *testing.T) {
	got, err := ParseThickness("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEntryThicknessCm, got)

	got, err = ParseThickness("2,5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)

	_, err = ParseThickness("0")
	assert.ErrorIs(t, err, ErrNonPositiveInput)
	_, err = ParseThickness("thin")
	assert.Error(t, err)
}

// TestFmtMinutes renders hour/minute/second strings and "?" for values no
// model produced.
func TestFmtMinutes(t *testing.T) {
	assert.Equal(t, "2h 36min 00s", FmtMinutes(156))
	assert.Equal(t, "57min 00s", FmtMinutes(57))
	assert.Equal(t, "1h 00min 30s", FmtMinutes(60.5))
	assert.Equal(t, "0min 00s", FmtMinutes(-5), "negative clamps to zero")
	assert.Equal(t, "?", FmtMinutes(math.NaN()))
	assert.Equal(t, "?", FmtMinutes(math.Inf(1)))
}

// TestFmtHMS renders zero-padded clock strings.
func TestFmtHMS(t *testing.T) {
	assert.Equal(t, "01:02:05", FmtHMS(3725))
	assert.Equal(t, "00:00:00", FmtHMS(0))
	assert.Equal(t, "00:00:00", FmtHMS(-10))
	assert.Equal(t, "00:01:00", FmtHMS(59.6))
}
