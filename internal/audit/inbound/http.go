package inbound

import "github.com/shandysiswandi/smartotp/internal/pkg/router"

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/audit/logs", end.LogList) // need authenticated
}
