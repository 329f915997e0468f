package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/smartotp/internal/audit/entity"
	"github.com/shandysiswandi/smartotp/internal/audit/usecase"
	"github.com/shandysiswandi/smartotp/internal/pkg/router"
)

// HTTPEndpoint exposes the caller's audit trail.
type HTTPEndpoint struct {
	uc uc
}

// @Summary List audit logs
// @Description Pages through the caller's audit records, newest first.
// @Tags Audit
// @Security BearerAuth
// @Produce json
// @Param action query string false "Filter by action, for example OTP_VERIFIED"
// @Param page query int false "Page number, starts at 1"
// @Param size query int false "Page size, at most 100"
// @Success 200 {object} router.successResponse{data=LogsResponse} "Audit logs"
// @Failure 400 {object} router.errorResponse "Invalid query parameter"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 422 {object} router.errorResponse "Unknown action"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/audit/logs [get]
func (h *HTTPEndpoint) LogList(r *router.Request) (any, error) {
	page, err := r.GetQueryInt("page")
	if err != nil {
		return nil, err
	}

	size, err := r.GetQueryInt("size")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.LogList(r.Context(), usecase.LogListInput{
		Action: r.GetQuery("action"),
		Page:   int32(min(max(page, 0), 1<<20)),
		Size:   int32(min(max(size, 0), 1<<10)),
	})
	if err != nil {
		return nil, err
	}

	return LogsResponse{
		Logs: lo.Map(resp.Logs, func(l entity.Log, _ int) LogResponse {
			return LogResponse{
				ID:            l.ID,
				Action:        l.Action.String(),
				Success:       l.Success,
				Details:       l.Details,
				ErrorMessage:  l.ErrorMessage,
				IPAddress:     l.IPAddress,
				UserAgent:     l.UserAgent,
				CorrelationID: l.CorrelationID,
				CreatedAt:     l.CreatedAt,
			}
		}),
		page:  resp.Page,
		size:  resp.Size,
		total: resp.Total,
	}, nil
}
