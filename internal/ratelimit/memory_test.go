package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

func starterTenant(id string) core.NormalizedTenant {
	return core.NormalizedTenant{
		ID:           id,
		Subscription: core.Subscription{Status: core.StatusActive, Tier: core.TierStarter},
	}
}

func TestMemoryLimiterSenderQuota(t *testing.T) {
	l := NewMemoryLimiter()
	tenant := starterTenant("t1")
	quota := QuotaForTier(core.TierStarter)

	for i := 0; i < quota.SenderLimit; i++ {
		res, err := l.Check(context.Background(), tenant, "s1")
		require.NoError(t, err)
		require.True(t, res.Allowed, "message %d should fit the quota", i+1)
		assert.Equal(t, quota.SenderLimit-i-1, res.Remaining)
	}

	res, err := l.Check(context.Background(), tenant, "s1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, ReasonSenderQuota, res.Reason)
	assert.Greater(t, res.ResetIn, time.Duration(0))
}

func TestMemoryLimiterIsolatesSendersAndTenants(t *testing.T) {
	l := NewMemoryLimiter()
	quota := QuotaForTier(core.TierStarter)

	// Exhaust sender s1 on tenant t1.
	for i := 0; i < quota.SenderLimit+1; i++ {
		l.Check(context.Background(), starterTenant("t1"), "s1")
	}

	// A different sender on the same tenant still has quota.
	res, err := l.Check(context.Background(), starterTenant("t1"), "s2")
	require.NoError(t, err)
	assert.True(t, res.Allowed, "one abusive sender must not exhaust the tenant for others")

	// The same sender on a different tenant is unaffected.
	res, err = l.Check(context.Background(), starterTenant("t2"), "s1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryLimiterTenantCap(t *testing.T) {
	l := NewMemoryLimiter()
	tenant := starterTenant("t1")
	quota := QuotaForTier(core.TierStarter)

	// Spread load across enough senders to hit the tenant-wide cap
	// without any single sender hitting its own limit.
	senders := quota.TenantLimit/quota.SenderLimit + 1
	var denied *Result
	for s := 0; s < senders && denied == nil; s++ {
		for i := 0; i < quota.SenderLimit; i++ {
			res, err := l.Check(context.Background(), tenant, senderName(s))
			require.NoError(t, err)
			if !res.Allowed {
				denied = &res
				break
			}
		}
	}

	require.NotNil(t, denied, "tenant-wide cap should eventually deny")
	assert.Equal(t, ReasonTenantQuota, denied.Reason)
}

func senderName(i int) string {
	return string(rune('a'+i%26)) + string(rune('a'+(i/26)%26))
}

func TestMemoryLimiterWindowResets(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	tenant := starterTenant("t1")
	quota := QuotaForTier(core.TierStarter)

	for i := 0; i < quota.SenderLimit+1; i++ {
		l.Check(context.Background(), tenant, "s1")
	}
	res, _ := l.Check(context.Background(), tenant, "s1")
	require.False(t, res.Allowed)

	// Next window: counters start over.
	now = now.Add(quota.Window + time.Second)
	res, err := l.Check(context.Background(), tenant, "s1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, quota.SenderLimit-1, res.Remaining)
}

func TestMemoryLimiterUsage(t *testing.T) {
	l := NewMemoryLimiter()
	tenant := starterTenant("t1")

	count, _, err := l.Usage(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	for i := 0; i < 3; i++ {
		l.Check(context.Background(), tenant, "s1")
	}

	count, resetIn, err := l.Usage(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Greater(t, resetIn, time.Duration(0))
}
