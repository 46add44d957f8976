package guard

import (
	"context"

	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/metrics"
	"github.com/andrelmp/inbox-guardian/internal/ratelimit"
)

// RateLimitGuard delegates to the counter-store limiter. When the store is
// unreachable the configured policy decides: fail-open admits the message,
// fail-closed denies it. Either way the result is marked degraded and
// carries the rate_limiter_unavailable reason, never the quota code, and
// the fallback is logged and counted.
type RateLimitGuard struct {
	limiter  ratelimit.Limiter
	failOpen bool
	logger   *zap.Logger
	metrics  *metrics.Collector
}

func NewRateLimitGuard(limiter ratelimit.Limiter, failOpen bool, logger *zap.Logger, collector *metrics.Collector) *RateLimitGuard {
	return &RateLimitGuard{
		limiter:  limiter,
		failOpen: failOpen,
		logger:   logger,
		metrics:  collector,
	}
}

func (g *RateLimitGuard) Name() string {
	return "rate_limit"
}

func (g *RateLimitGuard) Evaluate(ctx context.Context, gc *Context) Result {
	res, err := g.limiter.Check(ctx, gc.Normalized, gc.Sender)
	if err != nil {
		g.logger.Warn("rate limiter unavailable, applying fallback policy",
			zap.String("tenant_id", gc.Normalized.ID),
			zap.String("sender", gc.Sender),
			zap.Bool("fail_open", g.failOpen),
			zap.Error(err),
		)
		g.metrics.RecordLimiterError()

		fallback := ratelimit.Result{
			Allowed:  g.failOpen,
			Reason:   ratelimit.ReasonUnavailable,
			Degraded: true,
		}
		out := Result{Allowed: fallback.Allowed, RateLimit: &fallback}
		if !fallback.Allowed {
			out.Reason = ratelimit.ReasonUnavailable
		}
		return out
	}

	out := Result{Allowed: res.Allowed, RateLimit: &res}
	if !res.Allowed {
		out.Reason = res.Reason
	}
	return out
}
