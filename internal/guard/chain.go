package guard

import (
	"context"

	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/core"
	"github.com/andrelmp/inbox-guardian/internal/metrics"
	"github.com/andrelmp/inbox-guardian/internal/ratelimit"
	"github.com/andrelmp/inbox-guardian/internal/tenant"
)

// Chain runs the guards in a fixed order and stops at the first denial.
// Subscription runs before rate limiting so an ineligible tenant never
// consumes a rate-limit slot. The chain holds no mutable state and is safe
// for any number of concurrent callers.
type Chain struct {
	guards  []Guard
	logger  *zap.Logger
	metrics *metrics.Collector
}

func NewChain(limiter ratelimit.Limiter, failOpen bool, logger *zap.Logger, collector *metrics.Collector) *Chain {
	return &Chain{
		guards: []Guard{
			NewSubscriptionGuard(),
			NewRateLimitGuard(limiter, failOpen, logger, collector),
		},
		logger:  logger,
		metrics: collector,
	}
}

// Append registers an extra guard after the built-in pair. Abuse and spam
// detection plug in here.
func (c *Chain) Append(g Guard) {
	c.guards = append(c.guards, g)
}

// Check is the sole entry point of the admission layer. body is not
// inspected by any active guard; it is passed through for appended guards.
func (c *Chain) Check(ctx context.Context, record core.TenantRecord, sender, body string) Result {
	gc := &Context{
		Tenant:     record,
		Normalized: tenant.Normalize(record),
		Sender:     sender,
		Body:       body,
	}

	var rateLimit *ratelimit.Result
	for _, g := range c.guards {
		res := g.Evaluate(ctx, gc)
		if res.RateLimit != nil {
			rateLimit = res.RateLimit
		}
		if !res.Allowed {
			res.RateLimit = rateLimit
			c.logger.Debug("message denied",
				zap.String("tenant_id", gc.Normalized.ID),
				zap.String("sender", sender),
				zap.String("guard", g.Name()),
				zap.String("reason", res.Reason),
			)
			c.metrics.RecordDecision(gc.Normalized.ID, false, res.Reason)
			return res
		}
	}

	c.metrics.RecordDecision(gc.Normalized.ID, true, "")
	return Result{Allowed: true, RateLimit: rateLimit}
}
