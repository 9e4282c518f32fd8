package memory

import (
	"context"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
)

// AppendAudit records one admin action.
func (s *Store) AppendAudit(ctx context.Context, e *model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	s.audit[e.OrgID] = append(s.audit[e.OrgID], &cp)
	return nil
}

// ListAudit returns up to limit entries for the org, newest first.
func (s *Store) ListAudit(ctx context.Context, orgID string, limit int) ([]*model.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.audit[orgID]
	if limit <= 0 || limit > len(stored) {
		limit = len(stored)
	}
	out := make([]*model.AuditEntry, 0, limit)
	for i := len(stored) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *stored[i]
		out = append(out, &cp)
	}
	return out, nil
}

// CreateCheckoutSession stores a new checkout session.
func (s *Store) CreateCheckoutSession(ctx context.Context, cs *model.CheckoutSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checks[cs.ID]; ok {
		return repository.ErrAlreadyExists
	}
	cp := *cs
	s.checks[cs.ID] = &cp
	return nil
}

// GetCheckoutSession returns a checkout session by id.
func (s *Store) GetCheckoutSession(ctx context.Context, id string) (*model.CheckoutSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs, ok := s.checks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *cs
	return &cp, nil
}

// CompleteCheckoutSession marks the session completed.
func (s *Store) CompleteCheckoutSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.checks[id]
	if !ok {
		return repository.ErrNotFound
	}
	cs.Completed = true
	return nil
}

// AddQuotaUsage moves the (org, period, key) counter by delta, flooring at
// zero.
func (s *Store) AddQuotaUsage(ctx context.Context, orgID, period, key string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := quotaKey(orgID, period)
	bucket, ok := s.quota[id]
	if !ok {
		bucket = make(map[string]int)
		s.quota[id] = bucket
	}
	n := bucket[key] + delta
	if n < 0 {
		n = 0
	}
	bucket[key] = n
	return nil
}

// QuotaUsage returns the org's usage counters for one period.
func (s *Store) QuotaUsage(ctx context.Context, orgID, period string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int)
	for key, n := range s.quota[quotaKey(orgID, period)] {
		out[key] = n
	}
	return out, nil
}
