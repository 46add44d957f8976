package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

// LogSender writes replies to the log instead of a messaging provider.
// Deployments wire a real provider client behind OutboundSender.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, tenant core.NormalizedTenant, to, body string) error {
	s.logger.Info("Outbound reply",
		zap.String("tenant_id", tenant.ID),
		zap.String("from", tenant.PhoneNumber),
		zap.String("to", to),
		zap.String("body", body),
	)
	return nil
}
