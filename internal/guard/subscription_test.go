package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

func clientWith(sub core.Subscription) core.TenantRecord {
	return core.ClientRecord(&core.Client{
		ID:           "client-1",
		BusinessName: "Barber Joe",
		PhoneNumber:  "+15550001111",
		Subscription: sub,
	})
}

func TestSubscriptionGuard(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Millisecond)
	future := now.Add(time.Millisecond)

	tests := []struct {
		name       string
		sub        core.Subscription
		wantAllow  bool
		wantReason string
	}{
		{
			name:      "active allows",
			sub:       core.Subscription{Status: core.StatusActive, Tier: core.TierPro},
			wantAllow: true,
		},
		{
			name:       "expired denies",
			sub:        core.Subscription{Status: core.StatusExpired},
			wantAllow:  false,
			wantReason: ReasonSubscriptionExpired,
		},
		{
			name:       "cancelled denies",
			sub:        core.Subscription{Status: core.StatusCancelled},
			wantAllow:  false,
			wantReason: ReasonSubscriptionExpired,
		},
		{
			name:       "trial one millisecond past end denies",
			sub:        core.Subscription{Status: core.StatusTrial, TrialEndDate: &past},
			wantAllow:  false,
			wantReason: ReasonTrialExpired,
		},
		{
			name:      "trial one millisecond before end allows",
			sub:       core.Subscription{Status: core.StatusTrial, TrialEndDate: &future},
			wantAllow: true,
		},
		{
			name:      "trial exactly at end allows",
			sub:       core.Subscription{Status: core.StatusTrial, TrialEndDate: &now},
			wantAllow: true,
		},
		{
			name:      "trial without end date never expires",
			sub:       core.Subscription{Status: core.StatusTrial},
			wantAllow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewSubscriptionGuard()
			g.now = func() time.Time { return now }

			res := g.Evaluate(context.Background(), &Context{Tenant: clientWith(tt.sub)})

			assert.Equal(t, tt.wantAllow, res.Allowed)
			assert.Equal(t, tt.wantReason, res.Reason)
		})
	}
}

func TestSubscriptionGuardReevaluatesEveryMessage(t *testing.T) {
	end := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	record := clientWith(core.Subscription{Status: core.StatusTrial, TrialEndDate: &end})

	current := end.Add(-time.Minute)
	g := NewSubscriptionGuard()
	g.now = func() time.Time { return current }

	res := g.Evaluate(context.Background(), &Context{Tenant: record})
	assert.True(t, res.Allowed)

	// First message after crossing the boundary is blocked.
	current = end.Add(time.Millisecond)
	res = g.Evaluate(context.Background(), &Context{Tenant: record})
	assert.False(t, res.Allowed)
	assert.Equal(t, ReasonTrialExpired, res.Reason)
}
