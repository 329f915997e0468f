package vault

import (
	"crypto/sha256"
	"strconv"
	"strings"
)

// Purpose separates ciphertexts of different kinds of secret.
type Purpose string

// PurposeOTPSeed scopes encryption to OTP account secrets.
const PurposeOTPSeed Purpose = "otp_seed"

// Scope is authenticated alongside the ciphertext.
type Scope struct {
	OwnerID   int64
	AccountID int64
	Purpose   Purpose
}

func (s Scope) canonical() string {
	var b strings.Builder
	b.WriteString("smartotp:v1|owner=")
	b.WriteString(strconv.FormatInt(s.OwnerID, 10))
	b.WriteString("|account=")
	b.WriteString(strconv.FormatInt(s.AccountID, 10))
	b.WriteString("|purpose=")
	b.WriteString(string(s.Purpose))
	return b.String()
}

// aad is fixed length and never contains raw identifiers.
func (s Scope) aad() []byte {
	sum := sha256.Sum256([]byte(s.canonical()))
	return sum[:]
}
