// Package guard is the admission-control layer between message receipt and
// the responder. Every inbound message runs the chain; a denial means the
// message is dropped before the responder ever sees it.
package guard

import (
	"context"

	"github.com/andrelmp/inbox-guardian/internal/core"
	"github.com/andrelmp/inbox-guardian/internal/ratelimit"
)

const (
	ReasonSubscriptionExpired = "subscription_expired"
	ReasonTrialExpired        = "trial_expired"
)

// Context carries one message evaluation through the chain. Normalized is
// built fresh by the chain on every call. Body is unused by the active
// guards; it is here for the abuse/spam guards the chain is already wired
// to run.
type Context struct {
	Tenant     core.TenantRecord
	Normalized core.NormalizedTenant
	Sender     string
	Body       string
}

// Result is the chain's verdict. Denials are data, never errors. RateLimit
// is set whenever the rate-limit guard ran, blocking or not.
type Result struct {
	Allowed   bool              `json:"allowed"`
	Reason    string            `json:"reason,omitempty"`
	RateLimit *ratelimit.Result `json:"rate_limit,omitempty"`
}

// Guard is one admission check. Returning Allowed=false stops the chain.
type Guard interface {
	Name() string
	Evaluate(ctx context.Context, gc *Context) Result
}

func Allow() Result {
	return Result{Allowed: true}
}

func Deny(reason string) Result {
	return Result{Allowed: false, Reason: reason}
}
