package responder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

func TestMatcherPicksFirstMatchingFAQ(t *testing.T) {
	m := NewMatcher([]FAQ{
		{Keywords: []string{"hours"}, Answer: "We open at 9."},
		{Keywords: []string{"price"}, Answer: "From $20."},
	})

	reply, matched := m.Reply(core.NormalizedTenant{}, "What are your HOURS and prices?")
	assert.True(t, matched)
	assert.Equal(t, "We open at 9.", reply)
}

func TestMatcherFallsBackToAfterHoursMessage(t *testing.T) {
	m := NewMatcher(DefaultFAQs())
	tenant := core.NormalizedTenant{
		Config: core.TenantConfig{AfterHoursMessage: "Back Monday!"},
	}

	reply, matched := m.Reply(tenant, "asdf qwerty")
	assert.False(t, matched)
	assert.Equal(t, "Back Monday!", reply)
}

func TestMatcherStockFallback(t *testing.T) {
	m := NewMatcher(nil)

	reply, matched := m.Reply(core.NormalizedTenant{}, "anything")
	assert.False(t, matched)
	assert.Equal(t, defaultFallback, reply)
}
