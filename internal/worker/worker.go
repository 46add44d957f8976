package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/core"
	"github.com/andrelmp/inbox-guardian/internal/metrics"
	"github.com/andrelmp/inbox-guardian/internal/queue"
	"github.com/andrelmp/inbox-guardian/internal/responder"
	"github.com/andrelmp/inbox-guardian/internal/tenant"
)

// OutboundSender delivers a reply back to the messaging provider.
type OutboundSender interface {
	Send(ctx context.Context, tenant core.NormalizedTenant, to, body string) error
}

// TenantGetter loads the tenant record for a queued message.
type TenantGetter interface {
	GetByID(ctx context.Context, id string) (core.TenantRecord, error)
}

// Worker drains the admitted-message queue and produces replies. Several
// workers may run against the same queue; BRPOP hands each message to
// exactly one of them.
type Worker struct {
	id         int
	queue      *queue.RedisQueue
	tenants    TenantGetter
	matcher    *responder.Matcher
	sender     OutboundSender
	popTimeout time.Duration
	logger     *zap.Logger
	metrics    *metrics.Collector
}

func New(id int, q *queue.RedisQueue, tenants TenantGetter, matcher *responder.Matcher, sender OutboundSender, popTimeout time.Duration, logger *zap.Logger, collector *metrics.Collector) *Worker {
	if popTimeout <= 0 {
		popTimeout = 5 * time.Second
	}
	return &Worker{
		id:         id,
		queue:      q,
		tenants:    tenants,
		matcher:    matcher,
		sender:     sender,
		popTimeout: popTimeout,
		logger:     logger.With(zap.Int("worker_id", id)),
		metrics:    collector,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Worker stopped")
			return
		default:
		}

		msg, err := w.queue.Pop(ctx, w.popTimeout)
		if err != nil {
			if errors.Is(err, queue.ErrTimeout) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Error("Failed to pop message", zap.Error(err))
			continue
		}

		w.process(ctx, msg)

		if depth, err := w.queue.Length(ctx); err == nil {
			w.metrics.SetQueueDepth(depth)
		}
	}
}

func (w *Worker) process(ctx context.Context, msg *queue.Message) {
	record, err := w.tenants.GetByID(ctx, msg.TenantID)
	if err != nil {
		w.logger.Error("Tenant vanished between admission and reply",
			zap.String("tenant_id", msg.TenantID),
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return
	}

	normalized := tenant.Normalize(record)
	reply, matched := w.matcher.Reply(normalized, msg.Body)
	w.metrics.RecordReply(normalized.ID, matched)

	if err := w.sender.Send(ctx, normalized, msg.Sender, reply); err != nil {
		w.logger.Error("Failed to send reply",
			zap.String("tenant_id", normalized.ID),
			zap.String("sender", msg.Sender),
			zap.Error(err),
		)
		return
	}

	w.logger.Debug("Reply sent",
		zap.String("tenant_id", normalized.ID),
		zap.String("sender", msg.Sender),
		zap.Bool("matched", matched),
	)
}
