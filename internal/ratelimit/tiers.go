package ratelimit

import (
	"time"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

// Quota is the limit set resolved from a subscription tier. SenderLimit
// caps a single sender within one tenant; TenantLimit is an independent cap
// across all senders of the tenant. Both count within the same window.
type Quota struct {
	SenderLimit int
	TenantLimit int
	Window      time.Duration
}

var tierQuotas = map[core.Tier]Quota{
	core.TierStarter: {SenderLimit: 15, TenantLimit: 300, Window: time.Hour},
	core.TierPro:     {SenderLimit: 60, TenantLimit: 3000, Window: time.Hour},
}

// QuotaForTier resolves the quota for a tier. Unknown or empty tiers get
// the starter quota rather than unlimited service.
func QuotaForTier(tier core.Tier) Quota {
	if q, ok := tierQuotas[tier]; ok {
		return q
	}
	return tierQuotas[core.TierStarter]
}
