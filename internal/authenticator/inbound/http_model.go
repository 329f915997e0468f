package inbound

import (
	"net/http"
	"time"
)

type AccountResponse struct {
	ID          int64     `json:"id,string"`
	Issuer      string    `json:"issuer"`
	AccountName string    `json:"account_name"`
	Type        string    `json:"type" example:"TOTP"`
	Algorithm   string    `json:"algorithm" example:"SHA1"`
	Digits      int       `json:"digits" example:"6"`
	Period      uint      `json:"period,omitempty" example:"30"`
	Counter     uint64    `json:"counter,omitempty"`
	IconURL     string    `json:"icon_url,omitempty"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AccountsResponse []AccountResponse

func (r AccountsResponse) Meta() map[string]any {
	return map[string]any{"total": len(r)}
}

type AccountCreateRequest struct {
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
	Type        string `json:"type" example:"TOTP"`
	Algorithm   string `json:"algorithm,omitempty" example:"SHA1"`
	Digits      int    `json:"digits,omitempty" example:"6"`
	Period      uint   `json:"period,omitempty" example:"30"`
	Counter     uint64 `json:"counter,omitempty"`
	Secret      string `json:"secret,omitempty" example:"JBSWY3DPEHPK3PXP"`
	IconURL     string `json:"icon_url,omitempty"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

type AccountCreateResponse struct {
	Account AccountResponse `json:"account"`
	// KeyURI is shown once; it embeds the secret.
	KeyURI string `json:"key_uri" example:"otpauth://totp/Acme:bob?issuer=Acme&secret=JBSWY3DPEHPK3PXP"`
}

func (AccountCreateResponse) StatusCode() int { return http.StatusCreated }

func (AccountCreateResponse) Message() string {
	return "OTP account created. Scan the key URI now, it will not be shown again."
}

type AccountUpdateRequest struct {
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
	IconURL     string `json:"icon_url,omitempty"`
}

type AccountSortOrderRequest struct {
	SortOrder int `json:"sort_order"`
}

type GenerateCodeResponse struct {
	Code             string    `json:"code" example:"287082"`
	RemainingSeconds int       `json:"remaining_seconds,omitempty" example:"17"`
	GeneratedAt      time.Time `json:"generated_at"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" example:"287082"`
}

type VerifyCodeResponse struct {
	IsValid bool `json:"is_valid"`
}

type AccountExportResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Total     int       `json:"total"`
}

func (AccountExportResponse) StatusCode() int { return http.StatusCreated }
