package otp

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
	"time"
)

// DefaultDigits is the code width used when a non-positive width is given.
const DefaultDigits = 6

// Generator creates one-time codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates fixed-width decimal codes.
type Numeric struct {
	digits int
	reader io.Reader
}

// NewNumeric returns a generator for codes with the given number of digits.
// Widths outside 4-9 fall back to DefaultDigits.
func NewNumeric(digits int) *Numeric {
	if digits < 4 || digits > 9 {
		digits = DefaultDigits
	}

	return &Numeric{digits: digits, reader: rand.Reader}
}

// Generate returns a code in [10^(d-1), 10^d - 1].
func (n *Numeric) Generate() (string, error) {
	low := int64(1)
	for range n.digits - 1 {
		low *= 10
	}
	span := big.NewInt(9 * low)

	v, err := rand.Int(n.reader, span)
	if err != nil {
		return "", err
	}

	return strconv.FormatInt(low+v.Int64(), 10), nil
}

// Expired reports whether a code issued at issuedAt is past ttl at now.
// A zero issuedAt is always expired; a non-positive ttl never expires.
func Expired(issuedAt, now time.Time, ttl time.Duration) bool {
	if issuedAt.IsZero() {
		return true
	}
	if ttl <= 0 {
		return false
	}
	return now.Sub(issuedAt) > ttl
}
