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
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/logger"
)

// CreateUser adds an account to the caller's organization.
func (s *Service) CreateUser(ctx context.Context, id auth.Identity, u *model.User, password string) (*model.User, error) {
	u.OrgID = id.OrgID
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.PasswordHash = hash
	u.Active = true
	u.CreatedAt = now
	u.UpdatedAt = now

	if err := s.stores.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: email already registered", ErrInvalidInput)
		}
		return nil, err
	}

	s.audit(ctx, id, model.AuditUserCreated, "user", u.ID, map[string]string{
		"email": u.Email,
		"role":  string(u.Role),
	})
	return u, nil
}

// UpdateUser changes an account's name or role.
func (s *Service) UpdateUser(ctx context.Context, id auth.Identity, userID, name string, role string) (*model.User, error) {
	u, err := s.stores.GetUser(ctx, id.OrgID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	changed := map[string]string{}
	if name != "" && name != u.Name {
		u.Name = name
		changed["name"] = name
	}
	if role != "" && role != string(u.Role) {
		if !types.Role(role).Valid() {
			return nil, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, role)
		}
		u.Role = types.Role(role)
		changed["role"] = role
	}
	if len(changed) == 0 {
		return u, nil
	}

	if err := s.stores.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	s.audit(ctx, id, model.AuditUserUpdated, "user", u.ID, changed)
	return u, nil
}

// DeactivateUser disables an account and revokes its sessions.
func (s *Service) DeactivateUser(ctx context.Context, id auth.Identity, userID string) error {
	if userID == id.UserID {
		return fmt.Errorf("%w: cannot deactivate own account", ErrInvalidInput)
	}
	u, err := s.stores.GetUser(ctx, id.OrgID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !u.Active {
		return nil
	}

	u.Active = false
	if err := s.stores.UpdateUser(ctx, u); err != nil {
		return err
	}
	s.sessions.RevokeUser(userID)

	s.audit(ctx, id, model.AuditUserDeactivated, "user", userID, nil)
	return nil
}

// ListUsers returns every account in the caller's organization.
func (s *Service) ListUsers(ctx context.Context, id auth.Identity) ([]*model.User, error) {
	return s.stores.ListUsers(ctx, id.OrgID)
}

// ListAudit returns the organization's audit log, newest first.
func (s *Service) ListAudit(ctx context.Context, id auth.Identity, limit int) ([]*model.AuditEntry, error) {
	if limit <= 0 || limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	return s.stores.ListAudit(ctx, id.OrgID, limit)
}

// audit appends one entry to the organization's audit log. Failures only
// log; the primary mutation already succeeded.
func (s *Service) audit(ctx context.Context, id auth.Identity, action, targetType, targetID string, fields map[string]string) {
	e := &model.AuditEntry{
		ID:         uuid.NewString(),
		OrgID:      id.OrgID,
		ActorID:    id.UserID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Fields:     fields,
		Details:    model.RenderDetails(action, targetID, fields),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.stores.AppendAudit(ctx, e); err != nil {
		s.logger.Error(ctx, "audit append failed",
			logger.String("action", action),
			logger.Error(err),
		)
	}
}
