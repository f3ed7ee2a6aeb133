package vin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1M8GDM9AXKP042788 is the well-known checksum-valid sample VIN (check digit
// 'X' at position 8). All-ones is also valid: the weight vector sums to 89,
// and 89 mod 11 == 1.
const (
	validVIN    = "1M8GDM9AXKP042788"
	allOnesVIN  = "11111111111111111"
	fleetishVIN = "1FTBW3XM5TKA12345" // plausible shape, checksum not asserted
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase uppercased", "1m8gdm9axkp042788", validVIN},
		{"separators stripped", "1M8-GDM 9AX.KP042788", validVIN},
		{"forbidden letters stripped", "IOQ1M8GDM9AXKP042788", validVIN},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestIsWellFormed(t *testing.T) {
	assert.True(t, IsWellFormed(validVIN))
	assert.True(t, IsWellFormed(allOnesVIN))
	assert.True(t, IsWellFormed(fleetishVIN))
	assert.False(t, IsWellFormed(validVIN[:16]))
	assert.False(t, IsWellFormed(validVIN+"1"))
	assert.False(t, IsWellFormed(""))
}

func TestValid_KnownGood(t *testing.T) {
	assert.True(t, Valid(validVIN))
	assert.True(t, Valid(allOnesVIN))
	assert.True(t, Valid(strings.ToLower(validVIN)), "case must not matter")
}

func TestValid_LengthGate(t *testing.T) {
	for _, s := range []string{"", "1", validVIN[:16], validVIN + "8"} {
		assert.False(t, Valid(s), "input %q", s)
	}
}

func TestValid_ForbiddenLetters(t *testing.T) {
	// I, O, Q are stripped by normalization, so a 17-char string containing
	// them comes out short and must be rejected.
	for _, c := range []string{"I", "O", "Q"} {
		mutated := c + validVIN[1:]
		assert.False(t, Valid(mutated), "letter %s", c)
	}
}

func TestValid_MutationFlipsValidity(t *testing.T) {
	// Changing a single non-check-digit character must not be silently
	// accepted. With mod-11 weighting a same-weight collision is possible in
	// principle, but not for these particular substitutions.
	mutations := []string{
		"2" + validVIN[1:],             // position 0
		validVIN[:4] + "E" + validVIN[5:], // position 4
		validVIN[:16] + "9",            // position 16
	}
	for _, m := range mutations {
		assert.False(t, Valid(m), "mutated VIN %q must be invalid", m)
	}
}

func TestValid_WrongCheckDigit(t *testing.T) {
	for _, cd := range []byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'} {
		m := validVIN[:CheckDigitPos] + string(cd) + validVIN[CheckDigitPos+1:]
		assert.False(t, Valid(m), "check digit %c", cd)
	}
}

func TestCheckDigit(t *testing.T) {
	cd, ok := CheckDigit(validVIN)
	require.True(t, ok)
	assert.Equal(t, byte('X'), cd)

	cd, ok = CheckDigit(allOnesVIN)
	require.True(t, ok)
	assert.Equal(t, byte('1'), cd)

	_, ok = CheckDigit("short")
	assert.False(t, ok)
}

func TestValid_Pure(t *testing.T) {
	// Same input, same answer, every time.
	first := Valid(fleetishVIN)
	for i := 0; i < 3; i++ {
		assert.True(t, Valid(validVIN))
		assert.Equal(t, first, Valid(fleetishVIN))
	}
}
