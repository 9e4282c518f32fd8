package model

import (
	"time"

	"github.com/touchline/scoutbase/internal/domain/types"
)

// CheckoutSession is a provider-agnostic record of an in-flight upgrade.
// The payment provider redirects back with the session id; completion flips
// the organization's tier.
type CheckoutSession struct {
	ID         string     `json:"id"`
	OrgID      string     `json:"org_id"`
	TargetTier types.Tier `json:"target_tier"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Completed  bool       `json:"completed"`
}

// Expired reports whether the session can no longer be completed.
func (s *CheckoutSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Subscription is the read shape for an organization's current plan.
type Subscription struct {
	OrgID string     `json:"org_id"`
	Tier  types.Tier `json:"tier"`

	// Usage within the current calendar month (UTC).
	Period      string         `json:"period"` // e.g. "2026-08"
	Usage       map[string]int `json:"usage"`
	Limits      map[string]int `json:"limits"`
}
