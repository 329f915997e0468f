// Package otp implements the HMAC-based one-time password algorithms of
// RFC 4226 (HOTP) and RFC 6238 (TOTP), plus the Base32 codec used for
// human-transcribable shared secrets.
//
// Every function in this package is pure: no I/O, no shared state. Time is
// passed in explicitly so callers control the clock.
package otp
