package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

func TestQuotaForTier(t *testing.T) {
	starter := QuotaForTier(core.TierStarter)
	pro := QuotaForTier(core.TierPro)

	assert.Greater(t, pro.SenderLimit, starter.SenderLimit)
	assert.Greater(t, pro.TenantLimit, starter.TenantLimit)
}

func TestQuotaForUnknownTierFallsBackToStarter(t *testing.T) {
	assert.Equal(t, QuotaForTier(core.TierStarter), QuotaForTier(core.Tier("enterprise")))
	assert.Equal(t, QuotaForTier(core.TierStarter), QuotaForTier(core.Tier("")))
}

func TestKeyFormats(t *testing.T) {
	assert.Equal(t, "ratelimit:t1:s1", senderKey("t1", "s1"))
	assert.Equal(t, "ratelimit:t1", tenantKey("t1"))
}
