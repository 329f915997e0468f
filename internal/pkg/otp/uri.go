package otp

import (
	"net/url"
	"strconv"

	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/pquerna/otp/totp"
)

// KeyURIOptions describes an account for an otpauth:// provisioning URI.
type KeyURIOptions struct {
	Type        Type
	Issuer      string
	AccountName string
	Secret      []byte
	Algorithm   Algorithm
	Digits      int
	Period      uint
	Counter     uint64
}

// KeyURI returns the otpauth:// URI understood by authenticator apps.
func KeyURI(opts KeyURIOptions) (string, error) {
	alg, err := opts.Algorithm.pquerna()
	if err != nil {
		return "", err
	}
	if !ValidDigits(opts.Digits) {
		return "", ErrInvalidDigits
	}

	switch opts.Type {
	case TypeTOTP:
		key, err := totp.Generate(totp.GenerateOpts{
			Issuer:      opts.Issuer,
			AccountName: opts.AccountName,
			Period:      opts.Period,
			Secret:      opts.Secret,
			Digits:      potp.Digits(opts.Digits),
			Algorithm:   alg,
		})
		if err != nil {
			return "", err
		}

		return key.URL(), nil
	case TypeHOTP:
		key, err := hotp.Generate(hotp.GenerateOpts{
			Issuer:      opts.Issuer,
			AccountName: opts.AccountName,
			Secret:      opts.Secret,
			Digits:      potp.Digits(opts.Digits),
			Algorithm:   alg,
		})
		if err != nil {
			return "", err
		}

		// hotp.Generate omits the counter parameter that apps require.
		u, err := url.Parse(key.URL())
		if err != nil {
			return "", err
		}
		q := u.Query()
		q.Set("counter", strconv.FormatUint(opts.Counter, 10))
		u.RawQuery = q.Encode()

		return u.String(), nil
	case TypeUnknown:
		return "", ErrUnsupportedType
	default:
		return "", ErrUnsupportedType
	}
}
