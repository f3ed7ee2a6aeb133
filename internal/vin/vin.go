// Package vin implements VIN normalization, ISO 3779 check-digit validation,
// and decoding of a VIN into vehicle attributes via the NHTSA vPIC lookup
// with a deterministic offline fallback.
package vin

import "strings"

// Length is the fixed length of a Vehicle Identification Number.
const Length = 17

// CheckDigitPos is the 0-based index of the embedded check digit.
const CheckDigitPos = 8

// transliteration maps VIN letters to their numeric values. I, O and Q are
// not valid VIN characters and are absent.
var transliteration = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
}

// weights is the standard per-position weight vector. Position 8 (the check
// digit itself) carries weight 0.
var weights = [Length]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

func isVINChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'A' && c <= 'Z':
		return c != 'I' && c != 'O' && c != 'Q'
	default:
		return false
	}
}

// Normalize uppercases s and strips every character outside [A-HJ-NPR-Z0-9].
// Both keyboard input and raw barcode reads go through this before any
// further checks.
func Normalize(s string) string {
	s = strings.ToUpper(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isVINChar(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// IsWellFormed reports whether s normalizes to exactly 17 valid VIN
// characters. This is the fast gate used while input is still being typed or
// scanned; it does not verify the check digit.
func IsWellFormed(s string) bool {
	return len(Normalize(s)) == Length
}

func charValue(c byte) (int, bool) {
	if c >= '0' && c <= '9' {
		return int(c - '0'), true
	}
	v, ok := transliteration[c]
	return v, ok
}

// CheckDigit computes the check digit for a well-formed (already normalized,
// 17-character) VIN. The weighted sum of the transliterated characters is
// taken mod 11; 10 is written as 'X'. Returns false if v contains a
// character outside the VIN alphabet.
func CheckDigit(v string) (byte, bool) {
	if len(v) != Length {
		return 0, false
	}
	sum := 0
	for i := 0; i < Length; i++ {
		n, ok := charValue(v[i])
		if !ok {
			return 0, false
		}
		sum += n * weights[i]
	}
	r := sum % 11
	if r == 10 {
		return 'X', true
	}
	return byte('0' + r), true
}

// Valid reports whether s is a syntactically and checksum-valid VIN: 17
// characters after normalization, with the computed check digit matching the
// character at position 8. Pure and idempotent.
func Valid(s string) bool {
	v := Normalize(s)
	if len(v) != Length {
		return false
	}
	cd, ok := CheckDigit(v)
	if !ok {
		return false
	}
	return v[CheckDigitPos] == cd
}
