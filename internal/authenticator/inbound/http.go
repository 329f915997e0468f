package inbound

import (
	"context"

	"github.com/shandysiswandi/smartotp/internal/authenticator/usecase"
	"github.com/shandysiswandi/smartotp/internal/pkg/router"
)

type uc interface {
	AccountList(ctx context.Context) (*usecase.AccountListOutput, error)
	AccountCreate(ctx context.Context, in usecase.AccountCreateInput) (*usecase.AccountCreateOutput, error)
	AccountUpdate(ctx context.Context, in usecase.AccountUpdateInput) error
	AccountSortOrder(ctx context.Context, in usecase.AccountSortOrderInput) error
	AccountDelete(ctx context.Context, in usecase.AccountDeleteInput) error
	AccountExport(ctx context.Context) (*usecase.AccountExportOutput, error)

	GenerateCode(ctx context.Context, in usecase.GenerateCodeInput) (*usecase.GenerateCodeOutput, error)
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Accounts (need authenticated)
	r.GET("/api/v1/otp/accounts", end.AccountList)
	r.POST("/api/v1/otp/accounts", end.AccountCreate)
	r.PUT("/api/v1/otp/accounts/:id", end.AccountUpdate)
	r.PATCH("/api/v1/otp/accounts/:id/sort-order", end.AccountSortOrder)
	r.DELETE("/api/v1/otp/accounts/:id", end.AccountDelete)

	// Codes (need authenticated)
	r.GET("/api/v1/otp/accounts/:id/code", end.GenerateCode)
	r.POST("/api/v1/otp/accounts/:id/verify", end.VerifyCode)

	r.POST("/api/v1/otp/exports", end.AccountExport)
}
