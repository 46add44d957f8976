// Package ratelimit tracks per-tenant, per-sender message usage against
// tier quotas. Counters live in a shared store (redis in production, an
// in-process map for single-node setups and tests).
package ratelimit

import (
	"context"
	"time"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

// Denial reasons. ReasonUnavailable is reserved for store outages and is
// never returned for an exhausted quota, so dashboards can tell abuse
// blocking apart from infrastructure degradation.
const (
	ReasonSenderQuota = "sender_quota_exceeded"
	ReasonTenantQuota = "tenant_quota_exceeded"
	ReasonUnavailable = "rate_limiter_unavailable"
)

// Result is the limiter's verdict for a single message.
type Result struct {
	Allowed   bool          `json:"allowed"`
	Reason    string        `json:"reason,omitempty"`
	Remaining int           `json:"remaining"`
	ResetIn   time.Duration `json:"reset_in"`
	// Degraded marks a decision produced by the fail-open/fail-closed
	// fallback instead of a real counter read.
	Degraded bool `json:"degraded,omitempty"`
}

// Limiter is implemented by the counter-store backends. Check consumes one
// slot for (tenant, sender) and reports whether the message fits the
// tenant's tier quota. The increment-and-compare must be atomic per key:
// two concurrent checks for the same pair must never both be admitted when
// only one slot remains.
type Limiter interface {
	Check(ctx context.Context, tenant core.NormalizedTenant, sender string) (Result, error)
}

// Usage reports the tenant-level count consumed in the current window.
// Both backends implement it for the admin usage endpoint.
type UsageReporter interface {
	Usage(ctx context.Context, tenantID string) (count int, resetIn time.Duration, err error)
}
