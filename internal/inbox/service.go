// Package inbox is the message-receipt pipeline: resolve the tenant owning
// the inbox number, run the guard chain, and hand admitted messages to the
// responder queue.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/core"
	"github.com/andrelmp/inbox-guardian/internal/guard"
	"github.com/andrelmp/inbox-guardian/internal/metrics"
	"github.com/andrelmp/inbox-guardian/internal/queue"
	"github.com/andrelmp/inbox-guardian/internal/storage/postgres"
)

var ErrTenantNotFound = errors.New("no tenant owns this inbox number")

// TenantLookup is the read-only tenant store the pipeline consults.
type TenantLookup interface {
	GetByPhoneNumber(ctx context.Context, number string) (core.TenantRecord, error)
}

// Publisher hands admitted messages to the responder side.
type Publisher interface {
	Push(ctx context.Context, msg *queue.Message) error
}

type Service struct {
	tenants TenantLookup
	chain   *guard.Chain
	queue   Publisher
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewService(tenants TenantLookup, chain *guard.Chain, publisher Publisher, logger *zap.Logger, collector *metrics.Collector) *Service {
	return &Service{
		tenants: tenants,
		chain:   chain,
		queue:   publisher,
		logger:  logger,
		metrics: collector,
	}
}

// Receive processes one inbound message. Denials are data in the returned
// result; an error means the message could not be processed at all
// (unknown inbox, queue failure).
func (s *Service) Receive(ctx context.Context, msg core.InboundMessage) (guard.Result, error) {
	start := time.Now()

	record, err := s.tenants.GetByPhoneNumber(ctx, msg.To)
	if err != nil {
		if errors.Is(err, postgres.ErrTenantNotFound) {
			return guard.Result{}, ErrTenantNotFound
		}
		return guard.Result{}, fmt.Errorf("tenant lookup failed: %w", err)
	}

	result := s.chain.Check(ctx, record, msg.From, msg.Body)
	s.metrics.RecordIntake(result.Allowed, time.Since(start))

	if !result.Allowed {
		s.logger.Info("message rejected",
			zap.String("tenant_id", record.ID()),
			zap.String("sender", msg.From),
			zap.String("reason", result.Reason),
		)
		return result, nil
	}

	id := msg.ID
	if id == "" {
		id = uuid.New().String()
	}
	receivedAt := msg.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = start
	}

	if err := s.queue.Push(ctx, &queue.Message{
		ID:         id,
		TenantID:   record.ID(),
		Sender:     msg.From,
		Body:       msg.Body,
		ReceivedAt: receivedAt,
	}); err != nil {
		return result, fmt.Errorf("failed to enqueue admitted message: %w", err)
	}

	s.logger.Debug("message admitted",
		zap.String("tenant_id", record.ID()),
		zap.String("sender", msg.From),
		zap.String("message_id", id),
	)

	return result, nil
}
