package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatNumbers(t *testing.T) {
	nums, err := ParseSeatNumbers("1, 2, 14")
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 14}, nums)

	// Whitespace variations are tolerated.
	nums, err = ParseSeatNumbers("  3,4 ,  5 ")
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 4, 5}, nums)

	nums, err = ParseSeatNumbers("")
	require.NoError(t, err)
	assert.Empty(t, nums)

	for _, bad := range []string{"a, b", "1,,2", "0", "-1", "1, 1"} {
		_, err := ParseSeatNumbers(bad)
		assert.ErrorIs(t, err, ErrInvalidSeatList, "input %q", bad)
	}
}

func TestFormatSeatNumbers(t *testing.T) {
	assert.Equal(t, "1, 2, 14", FormatSeatNumbers([]uint32{1, 2, 14}))
	assert.Equal(t, "", FormatSeatNumbers(nil))
}

func TestSeatNumbersRoundTrip(t *testing.T) {
	in := []uint32{7, 3, 21}
	out, err := ParseSeatNumbers(FormatSeatNumbers(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
