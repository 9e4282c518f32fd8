package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/logger"
)

// Register creates a new organization on the freemium tier together with its
// first admin account.
func (s *Service) Register(ctx context.Context, orgName, email, name, password string) (*model.Organization, *model.User, error) {
	if strings.TrimSpace(orgName) == "" {
		return nil, nil, fmt.Errorf("%w: missing organization name", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	now := time.Now().UTC()
	org := &model.Organization{
		ID:        uuid.NewString(),
		Name:      orgName,
		Tier:      types.TierFreemium,
		CreatedAt: now,
	}

	admin := &model.User{
		OrgID:  org.ID,
		Email:  email,
		Name:   name,
		Role:   types.RoleAdmin,
		Active: true,
	}
	if err := admin.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}
	admin.ID = uuid.NewString()
	admin.PasswordHash = hash
	admin.CreatedAt = now
	admin.UpdatedAt = now

	if err := s.stores.CreateOrg(ctx, org); err != nil {
		return nil, nil, err
	}
	if err := s.stores.CreateUser(ctx, admin); err != nil {
		// Roll the org back so a failed registration leaves nothing behind.
		if derr := s.stores.DeleteOrg(ctx, org.ID); derr != nil {
			s.logger.Warn(ctx, "registration rollback failed",
				logger.String("orgID", org.ID),
				logger.Error(derr),
			)
		}
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, nil, fmt.Errorf("%w: email already registered", ErrInvalidInput)
		}
		return nil, nil, err
	}
	return org, admin, nil
}
