package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
)

// CreateOrg stores a new organization.
func (s *Store) CreateOrg(ctx context.Context, o *model.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[o.ID]; ok {
		return repository.ErrAlreadyExists
	}
	cp := *o
	s.orgs[o.ID] = &cp
	return nil
}

// GetOrg returns the organization by id.
func (s *Store) GetOrg(ctx context.Context, id string) (*model.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orgs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

// ListOrgs returns every organization, oldest first.
func (s *Store) ListOrgs(ctx context.Context) ([]*model.Organization, error) {
	s.mu.RLock()
	out := make([]*model.Organization, 0, len(s.orgs))
	for _, o := range s.orgs {
		cp := *o
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// SetOrgTier updates the organization's subscription tier.
func (s *Store) SetOrgTier(ctx context.Context, id string, tier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orgs[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Tier = types.Tier(tier)
	return nil
}

// DeleteOrg removes an organization, e.g. to roll back a failed
// registration.
func (s *Store) DeleteOrg(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orgs, id)
	return nil
}

// CreateUser stores a new account. Emails are unique across orgs.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; ok {
		return repository.ErrAlreadyExists
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrAlreadyExists
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// GetUser returns the user if it belongs to the org.
func (s *Store) GetUser(ctx context.Context, orgID, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok || u.OrgID != orgID {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByEmail looks an account up for login. Email match is
// case-insensitive.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// UpdateUser replaces the stored record.
func (s *Store) UpdateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.users[u.ID]
	if !ok || old.OrgID != u.OrgID {
		return repository.ErrNotFound
	}
	cp := *u
	cp.UpdatedAt = time.Now().UTC()
	s.users[u.ID] = &cp
	return nil
}

// ListUsers returns every account in the org, email-sorted.
func (s *Store) ListUsers(ctx context.Context, orgID string) ([]*model.User, error) {
	s.mu.RLock()
	out := make([]*model.User, 0)
	for _, u := range s.users {
		if u.OrgID != orgID {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

// GetPreference returns one per-user flag value.
func (s *Store) GetPreference(ctx context.Context, userID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.prefs[prefKey(userID, key)]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

// SetPreference stores one per-user flag value, overwriting any previous one.
func (s *Store) SetPreference(ctx context.Context, userID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs[prefKey(userID, key)] = value
	return nil
}
