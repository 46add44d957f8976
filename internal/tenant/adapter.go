// Package tenant bridges the two historical tenant shapes. The schema
// migration from clients to workspaces never completed, so the message path
// sees both and everything downstream wants exactly one.
package tenant

import (
	"github.com/andrelmp/inbox-guardian/internal/core"
)

// NicheFallback is assigned to workspaces, which dropped the niche column.
const NicheFallback = "other"

// Normalize projects either tenant variant onto the canonical legacy shape.
// The mapping is total: missing optional fields are defaulted, never
// rejected. It is a pure projection and is re-run on every guard
// evaluation; nothing is cached.
func Normalize(r core.TenantRecord) core.NormalizedTenant {
	switch r.Kind {
	case core.KindWorkspace:
		w := r.Workspace

		// A workspace can own several inbox numbers; downstream wants one
		// canonical contact number, so the first entry wins. An empty list
		// yields an empty number rather than an error.
		number := ""
		if len(w.PhoneNumbers) > 0 {
			number = w.PhoneNumbers[0]
		}

		return core.NormalizedTenant{
			ID:           w.ID,
			BusinessName: w.Name,
			ContactEmail: w.ContactEmail,
			PhoneNumber:  number,
			Niche:        NicheFallback,
			Slug:         core.Slugify(w.Name),
			Config: core.TenantConfig{
				BusinessHours:     w.Settings.BusinessHours,
				Timezone:          w.Settings.Timezone,
				AfterHoursMessage: w.Settings.AfterHoursMessage,
				AdminNumbers:      w.Settings.AdminNumbers,
			},
			Subscription: w.Subscription,
		}

	case core.KindClient:
		c := r.Client
		return core.NormalizedTenant{
			ID:           c.ID,
			BusinessName: c.BusinessName,
			ContactEmail: c.ContactEmail,
			PhoneNumber:  c.PhoneNumber,
			Niche:        c.Niche,
			Slug:         c.Slug,
			Config:       c.Config,
			Subscription: c.Subscription,
		}
	}

	// Unknown kind. The repository only ever builds the two known
	// variants, so this is unreachable in practice; an empty tenant keeps
	// the mapping total either way.
	return core.NormalizedTenant{Niche: NicheFallback}
}
