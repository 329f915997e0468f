package otp

import (
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rfcSecretSHA1   = []byte("12345678901234567890")
	rfcSecretSHA256 = []byte("12345678901234567890123456789012")
	rfcSecretSHA512 = []byte("1234567890123456789012345678901234567890123456789012345678901234")
)

func TestGenerateHOTP_RFC4226(t *testing.T) {
	want := []string{"755224", "287082", "359152", "969429", "338314", "254676", "287922", "162583", "399871", "520489"}

	for counter, code := range want {
		got, err := GenerateHOTP(rfcSecretSHA1, uint64(counter), 6, AlgorithmSHA1)
		require.NoError(t, err)
		assert.Equal(t, code, got, "counter %d", counter)
	}
}

func TestGenerateHOTP_Deterministic(t *testing.T) {
	first, err := GenerateHOTP(rfcSecretSHA1, 42, 8, AlgorithmSHA512)
	require.NoError(t, err)

	for range 5 {
		again, err := GenerateHOTP(rfcSecretSHA1, 42, 8, AlgorithmSHA512)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerateTOTP_RFC6238(t *testing.T) {
	tests := []struct {
		unix   int64
		alg    Algorithm
		secret []byte
		want   string
	}{
		{59, AlgorithmSHA1, rfcSecretSHA1, "94287082"},
		{59, AlgorithmSHA256, rfcSecretSHA256, "46119246"},
		{59, AlgorithmSHA512, rfcSecretSHA512, "90693936"},
		{1111111109, AlgorithmSHA1, rfcSecretSHA1, "07081804"},
		{1111111109, AlgorithmSHA256, rfcSecretSHA256, "68084774"},
		{1111111109, AlgorithmSHA512, rfcSecretSHA512, "25091201"},
		{1234567890, AlgorithmSHA1, rfcSecretSHA1, "89005924"},
		{2000000000, AlgorithmSHA1, rfcSecretSHA1, "69279037"},
		{20000000000, AlgorithmSHA1, rfcSecretSHA1, "65353130"},
	}

	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			got, err := GenerateTOTP(tt.secret, time.Unix(tt.unix, 0), 8, 30, tt.alg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_ZeroPadding(t *testing.T) {
	// truncated value 152 at counter 44
	code, err := Compute(rfcSecretSHA1, 44, 6, AlgorithmSHA1)
	require.NoError(t, err)
	assert.Equal(t, "000152", code)

	// codes are rendered by the digits width
	assert.Equal(t, "000042", otp.DigitsSix.Format(42))
	assert.Equal(t, "00000042", otp.DigitsEight.Format(42))
}

func TestCompute_Errors(t *testing.T) {
	_, err := Compute(rfcSecretSHA1, 0, 7, AlgorithmSHA1)
	assert.ErrorIs(t, err, ErrInvalidDigits)

	_, err = Compute(rfcSecretSHA1, 0, 6, AlgorithmUnknown)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = Compute(rfcSecretSHA1, 0, 6, Algorithm(9))
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = GenerateTOTP(rfcSecretSHA1, time.Unix(59, 0), 6, 0, AlgorithmSHA1)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestCompute_MatchesPquerna(t *testing.T) {
	secret := []byte("an arbitrary shared secret value")
	encoded := EncodeBase32(secret)

	algs := map[Algorithm]otp.Algorithm{
		AlgorithmSHA1:   otp.AlgorithmSHA1,
		AlgorithmSHA256: otp.AlgorithmSHA256,
		AlgorithmSHA512: otp.AlgorithmSHA512,
	}

	for alg, palg := range algs {
		for _, digits := range []int{6, 8} {
			for counter := uint64(0); counter < 50; counter++ {
				got, err := GenerateHOTP(secret, counter, digits, alg)
				require.NoError(t, err)

				want, err := hotp.GenerateCodeCustom(encoded, counter, hotp.ValidateOpts{
					Digits:    otp.Digits(digits),
					Algorithm: palg,
				})
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		}

		at := time.Date(2024, 3, 1, 12, 0, 7, 0, time.UTC)
		got, err := GenerateTOTP(secret, at, 6, 30, alg)
		require.NoError(t, err)
		want, err := totp.GenerateCodeCustom(encoded, at, totp.ValidateOpts{
			Period:    30,
			Digits:    otp.DigitsSix,
			Algorithm: palg,
		})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestVerifyHOTP(t *testing.T) {
	ok, err := VerifyHOTP(rfcSecretSHA1, "359152", 2, 6, AlgorithmSHA1)
	require.NoError(t, err)
	assert.True(t, ok)

	// code for counter 3 must not pass at counter 2
	ok, err = VerifyHOTP(rfcSecretSHA1, "969429", 2, 6, AlgorithmSHA1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = VerifyHOTP(rfcSecretSHA1, "35915", 2, 6, AlgorithmSHA1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyTOTP_Window(t *testing.T) {
	const period = 30
	now := time.Unix(1_700_000_015, 0)
	current, err := TimeCounter(now, period)
	require.NoError(t, err)

	codeAt := func(c uint64) string {
		code, err := GenerateHOTP(rfcSecretSHA1, c, 6, AlgorithmSHA1)
		require.NoError(t, err)
		return code
	}

	tests := []struct {
		name    string
		counter uint64
		want    bool
	}{
		{"previous step", current - 1, true},
		{"current step", current, true},
		{"next step", current + 1, true},
		{"two steps ahead", current + 2, false},
		{"two steps behind", current - 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyTOTP(rfcSecretSHA1, codeAt(tt.counter), now, 6, period, AlgorithmSHA1, DefaultWindow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestVerifyTOTP_NearEpoch(t *testing.T) {
	code, err := GenerateTOTP(rfcSecretSHA1, time.Unix(5, 0), 6, 30, AlgorithmSHA1)
	require.NoError(t, err)

	ok, err := VerifyTOTP(rfcSecretSHA1, code, time.Unix(5, 0), 6, 30, AlgorithmSHA1, DefaultWindow)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRemainingSeconds(t *testing.T) {
	assert.Equal(t, 30, RemainingSeconds(time.Unix(60, 0), 30))
	assert.Equal(t, 1, RemainingSeconds(time.Unix(59, 0), 30))
	assert.Equal(t, 20, RemainingSeconds(time.Unix(70, 0), 30))
	assert.Equal(t, 0, RemainingSeconds(time.Unix(70, 0), 0))
}
