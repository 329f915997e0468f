package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/smartotp/internal/authenticator/entity"
	"github.com/shandysiswandi/smartotp/internal/authenticator/usecase"
	"github.com/shandysiswandi/smartotp/internal/pkg/router"
)

const headerIdempotencyKey = "Idempotency-Key"

// HTTPEndpoint exposes HTTP handlers for OTP accounts and codes.
type HTTPEndpoint struct {
	uc uc
}

func clientInfo(r *router.Request) usecase.ClientInfo {
	return usecase.ClientInfo{IPAddress: r.ClientIP(), UserAgent: r.UserAgent()}
}

func toAccountResponse(a entity.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Issuer:      a.Issuer,
		AccountName: a.AccountName,
		Type:        a.Type.String(),
		Algorithm:   a.Algorithm.String(),
		Digits:      a.Digits,
		Period:      a.Period,
		Counter:     a.Counter,
		IconURL:     a.IconURL,
		SortOrder:   a.SortOrder,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// @Summary List OTP accounts
// @Description Returns the caller's OTP accounts ordered by sort order. Secrets are never returned.
// @Tags Authenticator, Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=AccountsResponse} "Accounts"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/accounts [get]
func (h *HTTPEndpoint) AccountList(r *router.Request) (any, error) {
	resp, err := h.uc.AccountList(r.Context())
	if err != nil {
		return nil, err
	}

	return AccountsResponse(lo.Map(resp.Accounts, func(a entity.Account, _ int) AccountResponse {
		return toAccountResponse(a)
	})), nil
}

// @Summary Create OTP account
// @Description Stores a new TOTP or HOTP account. When secret is omitted a random one is generated. The otpauth URI is only returned here.
// @Tags Authenticator, Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AccountCreateRequest true "Account payload"
// @Success 201 {object} router.successResponse{data=AccountCreateResponse} "Created account"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/accounts [post]
func (h *HTTPEndpoint) AccountCreate(r *router.Request) (any, error) {
	var req AccountCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.AccountCreate(r.Context(), usecase.AccountCreateInput{
		Issuer:      req.Issuer,
		AccountName: req.AccountName,
		Type:        req.Type,
		Algorithm:   req.Algorithm,
		Digits:      req.Digits,
		Period:      req.Period,
		Counter:     req.Counter,
		Secret:      req.Secret,
		IconURL:     req.IconURL,
		SortOrder:   req.SortOrder,
		Client:      clientInfo(r),
	})
	if err != nil {
		return nil, err
	}

	return AccountCreateResponse{
		Account: toAccountResponse(resp.Account),
		KeyURI:  resp.KeyURI,
	}, nil
}

// @Summary Update OTP account
// @Tags Authenticator, Accounts
// @Security BearerAuth
// @Accept json
// @Param id path int true "Account ID"
// @Param request body AccountUpdateRequest true "Account details"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "OTP account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/accounts/{id} [put]
func (h *HTTPEndpoint) AccountUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req AccountUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.AccountUpdate(r.Context(), usecase.AccountUpdateInput{
		AccountID:   id,
		Issuer:      req.Issuer,
		AccountName: req.AccountName,
		IconURL:     req.IconURL,
		Client:      clientInfo(r),
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

// @Summary Update OTP account sort order
// @Tags Authenticator, Accounts
// @Security BearerAuth
// @Accept json
// @Param id path int true "Account ID"
// @Param request body AccountSortOrderRequest true "Sort order"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "OTP account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/otp/accounts/{id}/sort-order [patch]
func (h *HTTPEndpoint) AccountSortOrder(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req AccountSortOrderRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.AccountSortOrder(r.Context(), usecase.AccountSortOrderInput{
		AccountID: id,
		SortOrder: req.SortOrder,
		Client:    clientInfo(r),
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

// @Summary Delete OTP account
// @Description Soft deletes the account. Deleting twice succeeds.
// @Tags Authenticator, Accounts
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 204 "No Content"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "OTP account not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/accounts/{id} [delete]
func (h *HTTPEndpoint) AccountDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.AccountDelete(r.Context(), usecase.AccountDeleteInput{
		AccountID: id,
		Client:    clientInfo(r),
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

// @Summary Generate OTP code
// @Description Computes the current code. For HOTP accounts every call consumes one counter value; send an Idempotency-Key to make retries safe.
// @Tags Authenticator, Codes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Account ID"
// @Param Idempotency-Key header string false "Client generated request key"
// @Success 200 {object} router.successResponse{data=GenerateCodeResponse} "Generated code"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "OTP account not found"
// @Failure 409 {object} router.errorResponse "Idempotency-Key already processed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/accounts/{id}/code [get]
func (h *HTTPEndpoint) GenerateCode(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.GenerateCode(r.Context(), usecase.GenerateCodeInput{
		AccountID:      id,
		IdempotencyKey: r.Header.Get(headerIdempotencyKey),
		Client:         clientInfo(r),
	})
	if err != nil {
		return nil, err
	}

	return GenerateCodeResponse{
		Code:             resp.Code,
		RemainingSeconds: resp.RemainingSeconds,
		GeneratedAt:      resp.GeneratedAt,
	}, nil
}

// @Summary Verify OTP code
// @Description Checks a code against the account. A wrong code returns is_valid=false, not an error.
// @Tags Authenticator, Codes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param request body VerifyCodeRequest true "Code to verify"
// @Success 200 {object} router.successResponse{data=VerifyCodeResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "OTP account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many verification attempts"
// @Router /api/v1/otp/accounts/{id}/verify [post]
func (h *HTTPEndpoint) VerifyCode(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req VerifyCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{
		AccountID: id,
		Code:      req.Code,
		Client:    clientInfo(r),
	})
	if err != nil {
		return nil, err
	}

	return VerifyCodeResponse{IsValid: resp.IsValid}, nil
}

// @Summary Export OTP accounts
// @Description Uploads the caller's account metadata as JSON and returns a short lived download URL. Secrets are not exported.
// @Tags Authenticator, Accounts
// @Security BearerAuth
// @Produce json
// @Success 201 {object} router.successResponse{data=AccountExportResponse} "Export location"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 503 {object} router.errorResponse "Export is not available"
// @Router /api/v1/otp/exports [post]
func (h *HTTPEndpoint) AccountExport(r *router.Request) (any, error) {
	resp, err := h.uc.AccountExport(r.Context())
	if err != nil {
		return nil, err
	}

	return AccountExportResponse{
		URL:       resp.URL,
		ExpiresAt: resp.ExpiresAt,
		Total:     resp.Total,
	}, nil
}
