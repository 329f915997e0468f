package jwt

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

func newTestJWT(t *testing.T, at time.Time) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    bytes.Repeat([]byte("k"), 64),
		Issuer:    "smartotp-test",
		Audiences: []string{"smartotp"},
		TTL:       time.Hour,
		Clock:     clock.Fixed(at),
		UUID:      staticID("jti-1"),
	})
	require.NoError(t, err)

	return j
}

func TestSymmetric_RoundTrip(t *testing.T) {
	now := time.Now()
	j := newTestJWT(t, now)

	token, err := j.Generate(42)
	require.NoError(t, err)

	clm, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), clm.OwnerID)
	assert.Equal(t, "42", clm.Subject)
	assert.Equal(t, "jti-1", clm.ID)
}

func TestSymmetric_Expired(t *testing.T) {
	issued := newTestJWT(t, time.Now().Add(-2*time.Hour))
	token, err := issued.Generate(42)
	require.NoError(t, err)

	_, err = newTestJWT(t, time.Now()).Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetric_Tampered(t *testing.T) {
	j := newTestJWT(t, time.Now())
	token, err := j.Generate(42)
	require.NoError(t, err)

	_, err = j.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewHS512(Config{Secret: []byte("short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestAuthContext(t *testing.T) {
	assert.Nil(t, GetAuth(context.Background()))

	ctx := SetAuth(context.Background(), Claims{OwnerID: 9})
	require.NotNil(t, GetAuth(ctx))
	assert.Equal(t, int64(9), GetAuth(ctx).OwnerID)
}
