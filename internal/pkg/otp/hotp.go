package otp

import (
	"crypto/subtle"
	"errors"
	"time"

	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

var (
	// ErrInvalidDigits is returned when digits is neither 6 nor 8.
	ErrInvalidDigits = errors.New("otp: digits must be 6 or 8")
	// ErrInvalidPeriod is returned for a zero TOTP period.
	ErrInvalidPeriod = errors.New("otp: period must be greater than zero")
)

// DefaultWindow is the number of periods accepted on each side of the current
// one when verifying a TOTP code.
const DefaultWindow = 1

// ValidDigits reports whether digits is a supported code length.
func ValidDigits(digits int) bool {
	return digits == 6 || digits == 8
}

// Compute derives the code for counter using dynamic truncation (RFC 4226 §5.3).
func Compute(secret []byte, counter uint64, digits int, alg Algorithm) (string, error) {
	if !ValidDigits(digits) {
		return "", ErrInvalidDigits
	}

	palg, err := alg.pquerna()
	if err != nil {
		return "", err
	}

	return hotp.GenerateCodeCustom(EncodeBase32(secret), counter, hotp.ValidateOpts{
		Digits:    potp.Digits(digits),
		Algorithm: palg,
	})
}

// GenerateHOTP returns the code for an explicit counter.
func GenerateHOTP(secret []byte, counter uint64, digits int, alg Algorithm) (string, error) {
	return Compute(secret, counter, digits, alg)
}

// VerifyHOTP checks code against exactly one counter value. It never looks
// ahead, so a code for counter+1 is rejected.
func VerifyHOTP(secret []byte, code string, counter uint64, digits int, alg Algorithm) (bool, error) {
	want, err := Compute(secret, counter, digits, alg)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1, nil
}

// TimeCounter returns floor(unix(at) / period).
func TimeCounter(at time.Time, period uint) (uint64, error) {
	if period == 0 {
		return 0, ErrInvalidPeriod
	}

	unix := at.Unix()
	if unix < 0 {
		unix = 0
	}

	return uint64(unix) / uint64(period), nil
}

// GenerateTOTP returns the code for the time step containing at.
func GenerateTOTP(secret []byte, at time.Time, digits int, period uint, alg Algorithm) (string, error) {
	counter, err := TimeCounter(at, period)
	if err != nil {
		return "", err
	}

	return Compute(secret, counter, digits, alg)
}

// VerifyTOTP accepts code if it matches any time step within window steps of
// the one containing at. All candidates are computed and compared so the
// running time does not depend on which step matched.
func VerifyTOTP(secret []byte, code string, at time.Time, digits int, period uint, alg Algorithm, window int) (bool, error) {
	current, err := TimeCounter(at, period)
	if err != nil {
		return false, err
	}
	if window < 0 {
		window = 0
	}

	got := []byte(code)
	match := 0
	for i := -window; i <= window; i++ {
		if i < 0 && uint64(-i) > current {
			continue
		}

		want, err := Compute(secret, current+uint64(int64(i)), digits, alg)
		if err != nil {
			return false, err
		}

		match |= subtle.ConstantTimeCompare([]byte(want), got)
	}

	return match == 1, nil
}

// RemainingSeconds returns how long the code generated at stays current.
func RemainingSeconds(at time.Time, period uint) int {
	if period == 0 {
		return 0
	}

	unix := at.Unix()
	if unix < 0 {
		unix = 0
	}

	return int(uint64(period) - uint64(unix)%uint64(period))
}
