package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/pkg/logger"
	"github.com/touchline/scoutbase/pkg/metrics"
)

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.RecordLoginFailure()
		return "", nil, ErrInvalidCredentials
	}

	u, err := s.stores.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordLoginFailure()
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		metrics.RecordLoginFailure()
		return "", nil, ErrInvalidCredentials
	}
	if !u.Active {
		metrics.RecordLoginFailure()
		return "", nil, ErrAccountDisabled
	}

	token := s.sessions.Create(auth.Identity{
		UserID: u.ID,
		OrgID:  u.OrgID,
		Role:   u.Role,
	})
	metrics.RecordLoginSuccess()
	s.logger.Debug(ctx, "login", logger.String("userID", u.ID))
	return token, u, nil
}

// Logout revokes the session token.
func (s *Service) Logout(ctx context.Context, token string) {
	s.sessions.Revoke(token)
}

// Me returns the caller's account and organization.
func (s *Service) Me(ctx context.Context, id auth.Identity) (*model.User, *model.Organization, error) {
	u, err := s.stores.GetUser(ctx, id.OrgID, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	org, err := s.stores.GetOrg(ctx, id.OrgID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return u, org, nil
}

// GetPreference reads one per-user flag. Missing keys resolve to "".
func (s *Service) GetPreference(ctx context.Context, id auth.Identity, key string) (string, error) {
	v, err := s.stores.GetPreference(ctx, id.UserID, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

// SetPreference stores one per-user flag.
func (s *Service) SetPreference(ctx context.Context, id auth.Identity, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: missing key", ErrInvalidInput)
	}
	return s.stores.SetPreference(ctx, id.UserID, key, value)
}
