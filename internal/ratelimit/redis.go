package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

// incrScript bumps a window counter and stamps the window TTL on first use,
// returning the new count and the remaining window in milliseconds. Running
// it as a script keeps increment-and-compare atomic against concurrent
// checks on the same key.
var incrScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`)

// RedisLimiter is the shared fixed-window limiter backed by redis.
type RedisLimiter struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisLimiter(client *redis.Client, timeout time.Duration) *RedisLimiter {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	return &RedisLimiter{client: client, timeout: timeout}
}

func senderKey(tenantID, sender string) string {
	return fmt.Sprintf("ratelimit:%s:%s", tenantID, sender)
}

func tenantKey(tenantID string) string {
	return fmt.Sprintf("ratelimit:%s", tenantID)
}

func (l *RedisLimiter) Check(ctx context.Context, tenant core.NormalizedTenant, sender string) (Result, error) {
	quota := QuotaForTier(tenant.Subscription.Tier)

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	senderCount, senderTTL, err := l.bump(ctx, senderKey(tenant.ID, sender), quota.Window)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check for tenant %s: %w", tenant.ID, err)
	}
	if senderCount > quota.SenderLimit {
		return Result{
			Allowed: false,
			Reason:  ReasonSenderQuota,
			ResetIn: senderTTL,
		}, nil
	}

	// Independent tenant-wide cap, layered on top of the per-sender one. A
	// denial here has already consumed a sender slot, which is fine: the
	// tenant is out of quota for the rest of the window regardless.
	tenantCount, tenantTTL, err := l.bump(ctx, tenantKey(tenant.ID), quota.Window)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit check for tenant %s: %w", tenant.ID, err)
	}
	if tenantCount > quota.TenantLimit {
		return Result{
			Allowed: false,
			Reason:  ReasonTenantQuota,
			ResetIn: tenantTTL,
		}, nil
	}

	remaining := quota.SenderLimit - senderCount
	if tenantRemaining := quota.TenantLimit - tenantCount; tenantRemaining < remaining {
		remaining = tenantRemaining
	}

	return Result{
		Allowed:   true,
		Remaining: remaining,
		ResetIn:   senderTTL,
	}, nil
}

func (l *RedisLimiter) bump(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	vals, err := incrScript.Run(ctx, l.client, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("unexpected script reply of length %d", len(vals))
	}
	return int(vals[0]), time.Duration(vals[1]) * time.Millisecond, nil
}

func (l *RedisLimiter) Usage(ctx context.Context, tenantID string) (int, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	count, err := l.client.Get(ctx, tenantKey(tenantID)).Int()
	if err == redis.Nil {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("usage lookup for tenant %s: %w", tenantID, err)
	}

	ttl, err := l.client.PTTL(ctx, tenantKey(tenantID)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("usage lookup for tenant %s: %w", tenantID, err)
	}

	return count, ttl, nil
}
