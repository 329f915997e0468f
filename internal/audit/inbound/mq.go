package inbound

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/smartotp/internal/pkg/config"
	"github.com/shandysiswandi/smartotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/messaging"
	"github.com/shandysiswandi/smartotp/internal/pkg/uid"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	concurrency := cfg.GetInt("modules.audit.consumer.concurrency")
	if concurrency <= 0 {
		concurrency = 4
	}

	consumers := []struct {
		name    string
		topic   string // destination where publisher sent message
		handler messaging.Handler
	}{
		{
			name:    event.OtpAuditConsumerAudit,
			topic:   event.OtpAuditDestination,
			handler: mqHandler.OtpAudit,
		},
	}

	for _, consumer := range consumers {
		routine.Go(ctx, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
			return messenger.Consume(pCtx,
				consumer.topic,
				consumer.handler,
				messaging.WithGroup(consumer.name),
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
		})
	}
}
