package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/plan"
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/metrics"
)

// checkoutTTL bounds how long an upgrade session stays completable.
const checkoutTTL = 30 * time.Minute

// CreateCheckout opens a provider-agnostic upgrade session for the org.
func (s *Service) CreateCheckout(ctx context.Context, id auth.Identity, targetTier string) (*model.CheckoutSession, error) {
	tier := types.Tier(targetTier)
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidInput, targetTier)
	}

	current, err := s.orgTier(ctx, id.OrgID)
	if err != nil {
		return nil, err
	}
	if !tier.AtLeast(current) || tier == current {
		return nil, fmt.Errorf("%w: cannot change from %s to %s", ErrInvalidInput, current, tier)
	}

	now := time.Now().UTC()
	cs := &model.CheckoutSession{
		ID:         uuid.NewString(),
		OrgID:      id.OrgID,
		TargetTier: tier,
		CreatedAt:  now,
		ExpiresAt:  now.Add(checkoutTTL),
	}
	if err := s.stores.CreateCheckoutSession(ctx, cs); err != nil {
		return nil, err
	}
	metrics.RecordCheckoutSession(string(tier))
	return cs, nil
}

// CompleteCheckout finishes an upgrade session, as signalled by the payment
// provider's webhook, and flips the organization's tier.
func (s *Service) CompleteCheckout(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	cs, err := s.stores.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cs.Completed {
		return nil, ErrAlreadyCompleted
	}
	if cs.Expired(time.Now().UTC()) {
		return nil, ErrSessionExpired
	}

	org, err := s.stores.GetOrg(ctx, cs.OrgID)
	if err != nil {
		return nil, err
	}
	if err := s.stores.SetOrgTier(ctx, cs.OrgID, string(cs.TargetTier)); err != nil {
		return nil, err
	}
	if err := s.stores.CompleteCheckoutSession(ctx, sessionID); err != nil {
		return nil, err
	}
	cs.Completed = true
	metrics.RecordTierChange(string(cs.TargetTier))

	s.audit(ctx, auth.Identity{UserID: "billing", OrgID: cs.OrgID},
		model.AuditTierChanged, "org", cs.OrgID, map[string]string{
			"from": string(org.Tier),
			"to":   string(cs.TargetTier),
		})
	return cs, nil
}

// Subscription returns the organization's plan, usage and limits.
func (s *Service) Subscription(ctx context.Context, id auth.Identity) (*model.Subscription, error) {
	tier, err := s.orgTier(ctx, id.OrgID)
	if err != nil {
		return nil, err
	}
	return &model.Subscription{
		OrgID:  id.OrgID,
		Tier:   tier,
		Period: plan.Period(time.Now().UTC()),
		Usage:  s.meter.Usage(id.OrgID),
		Limits: plan.Limits(tier),
	}, nil
}
