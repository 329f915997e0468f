package inbound

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shandysiswandi/smartotp/internal/audit/usecase"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/messaging"
	"github.com/shandysiswandi/smartotp/internal/pkg/uid"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

// ensureCorrelationID prefers the header, then the id carried in the body
// (brokers without headers), then a fresh one.
func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header, fromBody string) context.Context {
	if cID, ok := messaging.HeaderValue(headers, keyOfCorrelationID); ok && cID != "" {
		return instrument.SetCorrelationID(ctx, cID)
	}
	if fromBody != "" {
		return instrument.SetCorrelationID(ctx, fromBody)
	}

	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OtpAudit(ctx context.Context, msg messaging.Message) error {
	body := msg.Body()

	var payload event.OtpAuditMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		ctx = h.ensureCorrelationID(ctx, msg.Headers(), "")
		slog.ErrorContext(ctx, "failed to parse message body of otp audit", "msg_body", string(body), "error", err)
		return nil
	}

	ctx = h.ensureCorrelationID(ctx, msg.Headers(), payload.CorrelationID)

	ctx, span := h.ins.Tracer("audit.inbound.mq").Start(ctx, "OtpAudit")
	defer span.End()

	slog.InfoContext(ctx, "consume: otp audit", "action", payload.Action.String(), "owner_id", payload.OwnerID)

	var occurredAt time.Time
	if payload.OccurredAt > 0 {
		occurredAt = time.UnixMilli(payload.OccurredAt)
	}

	if err := h.uc.RecordLog(ctx, usecase.RecordLogInput{
		OwnerID:       payload.OwnerID,
		Action:        payload.Action,
		Success:       payload.Success,
		Details:       payload.Details,
		ErrorMessage:  payload.ErrorMessage,
		IPAddress:     payload.IPAddress,
		UserAgent:     payload.UserAgent,
		CorrelationID: instrument.GetCorrelationID(ctx),
		OccurredAt:    occurredAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp audit", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
