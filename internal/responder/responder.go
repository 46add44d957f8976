// Package responder is the keyword FAQ matcher. It runs after admission,
// never before: the guard chain has already decided the message deserves a
// reply slot.
package responder

import (
	"strings"

	"github.com/andrelmp/inbox-guardian/internal/core"
)

// FAQ pairs trigger keywords with a canned answer.
type FAQ struct {
	Keywords []string `json:"keywords"`
	Answer   string   `json:"answer"`
}

const defaultFallback = "Thanks for your message! Someone from the team will get back to you soon."

type Matcher struct {
	faqs []FAQ
}

func NewMatcher(faqs []FAQ) *Matcher {
	return &Matcher{faqs: faqs}
}

// DefaultFAQs is the stock set used until per-tenant FAQ management lands.
func DefaultFAQs() []FAQ {
	return []FAQ{
		{
			Keywords: []string{"hours", "open", "closing"},
			Answer:   "You can find our opening hours on our website. Reply HUMAN to talk to a person.",
		},
		{
			Keywords: []string{"price", "cost", "quote"},
			Answer:   "Pricing depends on the service. Reply with what you need and we'll send a quote.",
		},
		{
			Keywords: []string{"address", "location", "where"},
			Answer:   "Our address is listed on our website. Reply HUMAN if you need directions.",
		},
	}
}

// Reply picks the first FAQ whose keyword appears in the message. When
// nothing matches, the tenant's after-hours message (or a stock fallback)
// is used and matched reports false.
func (m *Matcher) Reply(tenant core.NormalizedTenant, body string) (reply string, matched bool) {
	text := strings.ToLower(body)

	for _, faq := range m.faqs {
		for _, kw := range faq.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return faq.Answer, true
			}
		}
	}

	if tenant.Config.AfterHoursMessage != "" {
		return tenant.Config.AfterHoursMessage, false
	}
	return defaultFallback, false
}
