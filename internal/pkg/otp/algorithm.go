package otp

import (
	"errors"

	potp "github.com/pquerna/otp"
)

var (
	// ErrUnsupportedAlgorithm is returned for an Algorithm outside SHA1/SHA256/SHA512.
	ErrUnsupportedAlgorithm = errors.New("otp: unsupported algorithm")
	// ErrUnsupportedType is returned for a Type outside TOTP/HOTP.
	ErrUnsupportedType = errors.New("otp: unsupported type")
)

// Algorithm is the HMAC hash function used to derive codes.
type Algorithm int16

const (
	AlgorithmUnknown Algorithm = iota
	AlgorithmSHA1
	AlgorithmSHA256
	AlgorithmSHA512
)

var algorithmNames = map[Algorithm]string{
	AlgorithmSHA1:   "SHA1",
	AlgorithmSHA256: "SHA256",
	AlgorithmSHA512: "SHA512",
}

// ParseAlgorithm maps a case-sensitive name such as "SHA256" to an Algorithm.
func ParseAlgorithm(s string) Algorithm {
	for k, v := range algorithmNames {
		if v == s {
			return k
		}
	}

	return AlgorithmUnknown
}

func (a Algorithm) String() string {
	if v, ok := algorithmNames[a]; ok {
		return v
	}

	return "UNKNOWN"
}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

func (a Algorithm) pquerna() (potp.Algorithm, error) {
	switch a {
	case AlgorithmSHA1:
		return potp.AlgorithmSHA1, nil
	case AlgorithmSHA256:
		return potp.AlgorithmSHA256, nil
	case AlgorithmSHA512:
		return potp.AlgorithmSHA512, nil
	case AlgorithmUnknown:
		return 0, ErrUnsupportedAlgorithm
	default:
		return 0, ErrUnsupportedAlgorithm
	}
}

// Type selects the counter source of an account.
type Type int16

const (
	TypeUnknown Type = iota
	TypeTOTP
	TypeHOTP
)

var typeNames = map[Type]string{
	TypeTOTP: "TOTP",
	TypeHOTP: "HOTP",
}

// ParseType maps "TOTP" or "HOTP" to a Type.
func ParseType(s string) Type {
	for k, v := range typeNames {
		if v == s {
			return k
		}
	}

	return TypeUnknown
}

func (t Type) String() string {
	if v, ok := typeNames[t]; ok {
		return v
	}

	return "UNKNOWN"
}

// Valid reports whether t is TOTP or HOTP.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}
