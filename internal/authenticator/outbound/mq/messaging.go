package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/smartotp/internal/authenticator/usecase"
	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/messaging"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, clk clock.Clocker, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, clock: clk, ins: ins}
}

func (m *Messaging) PublishAudit(ctx context.Context, ev usecase.AuditEvent) error {
	ctx, span := m.ins.Tracer("authenticator.outbound.mq").Start(ctx, "PublishAudit")
	defer span.End()

	cID := instrument.GetCorrelationID(ctx)
	body, err := json.Marshal(event.OtpAuditMessage{
		OwnerID:       ev.OwnerID,
		Action:        ev.Action,
		Success:       ev.Success,
		Details:       ev.Details,
		ErrorMessage:  ev.ErrorMessage,
		IPAddress:     ev.Client.IPAddress,
		UserAgent:     ev.Client.UserAgent,
		CorrelationID: cID,
		OccurredAt:    m.clock.Now().UnixMilli(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if _, err := m.client.Publish(ctx, event.OtpAuditDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
