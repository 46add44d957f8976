package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps fixed-window counters in process memory. It exists
// for single-node deployments without redis and for tests; semantics match
// RedisLimiter. The single mutex serializes increment-and-compare, which is
// what the atomicity contract requires.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) bump(key string, windowLen time.Duration) (int, time.Duration) {
	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(windowLen)}
		l.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt.Sub(now)
}

func (l *MemoryLimiter) Check(_ context.Context, tenant core.NormalizedTenant, sender string) (Result, error) {
	quota := QuotaForTier(tenant.Subscription.Tier)

	l.mu.Lock()
	defer l.mu.Unlock()

	senderCount, senderTTL := l.bump(senderKey(tenant.ID, sender), quota.Window)
	if senderCount > quota.SenderLimit {
		return Result{Allowed: false, Reason: ReasonSenderQuota, ResetIn: senderTTL}, nil
	}

	tenantCount, tenantTTL := l.bump(tenantKey(tenant.ID), quota.Window)
	if tenantCount > quota.TenantLimit {
		return Result{Allowed: false, Reason: ReasonTenantQuota, ResetIn: tenantTTL}, nil
	}

	remaining := quota.SenderLimit - senderCount
	if tenantRemaining := quota.TenantLimit - tenantCount; tenantRemaining < remaining {
		remaining = tenantRemaining
	}

	return Result{Allowed: true, Remaining: remaining, ResetIn: senderTTL}, nil
}

func (l *MemoryLimiter) Usage(_ context.Context, tenantID string) (int, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[tenantKey(tenantID)]
	if !ok {
		return 0, 0, nil
	}
	now := l.now()
	if !now.Before(w.resetAt) {
		return 0, 0, nil
	}
	return w.count, w.resetAt.Sub(now), nil
}
