package entity

import (
	"time"

	"github.com/shandysiswandi/smartotp/internal/pkg/otp"
	"github.com/shandysiswandi/smartotp/internal/pkg/vault"
)

const (
	DefaultDigits = 6
	DefaultPeriod = 30
)

type Account struct {
	ID               int64
	OwnerID          int64
	Issuer           string
	AccountName      string
	Type             otp.Type
	Algorithm        otp.Algorithm
	Digits           int
	Period           uint   // TOTP only
	Counter          uint64 // HOTP only
	SecretCiphertext string
	SecretCreatedAt  time.Time
	IconURL          string
	SortOrder        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

// Label is the "Issuer - AccountName" text used in audit details.
func (a Account) Label() string {
	return a.Issuer + " - " + a.AccountName
}

// SecretScope binds the secret ciphertext to this account and owner.
func (a Account) SecretScope() vault.Scope {
	return SecretScope(a.OwnerID, a.ID)
}

func SecretScope(ownerID, accountID int64) vault.Scope {
	return vault.Scope{OwnerID: ownerID, AccountID: accountID, Purpose: vault.PurposeOTPSeed}
}

type AccountDetails struct {
	ID          int64
	OwnerID     int64
	Issuer      string
	AccountName string
	IconURL     string
}
