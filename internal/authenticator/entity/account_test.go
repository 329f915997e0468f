package entity

import (
	"testing"

	"github.com/shandysiswandi/smartotp/internal/pkg/vault"
	"github.com/stretchr/testify/assert"
)

func TestAccount_Label(t *testing.T) {
	a := Account{Issuer: "GitHub", AccountName: "octo@example.com"}
	assert.Equal(t, "GitHub - octo@example.com", a.Label())
}

func TestAccount_SecretScope(t *testing.T) {
	a := Account{ID: 11, OwnerID: 7}
	assert.Equal(t, vault.Scope{OwnerID: 7, AccountID: 11, Purpose: vault.PurposeOTPSeed}, a.SecretScope())
	assert.NotEqual(t, a.SecretScope(), SecretScope(7, 12))
}
