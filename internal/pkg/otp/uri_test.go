package otp

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyURI(t *testing.T) {
	raw, err := KeyURI(KeyURIOptions{
		Type:        TypeTOTP,
		Issuer:      "Example",
		AccountName: "alice@example.com",
		Secret:      rfcSecretSHA1,
		Algorithm:   AlgorithmSHA256,
		Digits:      8,
		Period:      60,
	})
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", u.Scheme)
	assert.Equal(t, "totp", u.Host)
	assert.Equal(t, EncodeBase32(rfcSecretSHA1), u.Query().Get("secret"))
	assert.Equal(t, "SHA256", u.Query().Get("algorithm"))
	assert.Equal(t, "8", u.Query().Get("digits"))
	assert.Equal(t, "60", u.Query().Get("period"))

	raw, err = KeyURI(KeyURIOptions{
		Type:        TypeHOTP,
		Issuer:      "Example",
		AccountName: "bob",
		Secret:      rfcSecretSHA1,
		Algorithm:   AlgorithmSHA1,
		Digits:      6,
		Counter:     7,
	})
	require.NoError(t, err)

	u, err = url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "hotp", u.Host)
	assert.Equal(t, "7", u.Query().Get("counter"))

	_, err = KeyURI(KeyURIOptions{Type: TypeUnknown, Algorithm: AlgorithmSHA1, Digits: 6})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
