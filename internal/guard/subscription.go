package guard

import (
	"context"
	"time"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

// SubscriptionGuard checks whether the tenant is entitled to automated
// service at all. Pure wall-clock evaluation, no I/O; the decision is never
// cached, so a tenant crossing its expiry boundary is blocked starting with
// the first message after expiry.
type SubscriptionGuard struct {
	now func() time.Time
}

func NewSubscriptionGuard() *SubscriptionGuard {
	return &SubscriptionGuard{now: time.Now}
}

func (g *SubscriptionGuard) Name() string {
	return "subscription"
}

func (g *SubscriptionGuard) Evaluate(_ context.Context, gc *Context) Result {
	sub := gc.Tenant.Subscription()

	switch sub.Status {
	case core.StatusExpired, core.StatusCancelled:
		return Deny(ReasonSubscriptionExpired)
	case core.StatusTrial:
		// A trial without an end date never expires here. Deliberate
		// policy, not missing validation.
		if sub.TrialEndDate != nil && g.now().After(*sub.TrialEndDate) {
			return Deny(ReasonTrialExpired)
		}
	}

	return Allow()
}
