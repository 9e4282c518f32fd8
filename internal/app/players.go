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
	"github.com/touchline/scoutbase/pkg/logger"
	"github.com/touchline/scoutbase/pkg/metrics"
)

// orgTier resolves the organization's current subscription tier.
func (s *Service) orgTier(ctx context.Context, orgID string) (types.Tier, error) {
	org, err := s.stores.GetOrg(ctx, orgID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return org.Tier, nil
}

// CreatePlayer adds a player to the caller's organization and ranks them.
func (s *Service) CreatePlayer(ctx context.Context, id auth.Identity, p *model.Player) (*model.Player, error) {
	p.OrgID = id.OrgID
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	tier, err := s.orgTier(ctx, id.OrgID)
	if err != nil {
		return nil, err
	}
	if !s.allowQuota(ctx, id.OrgID, plan.QuotaPlayers, tier) {
		metrics.RecordQuotaDenied(plan.QuotaPlayers)
		return nil, fmt.Errorf("%w: %s", ErrQuotaExceeded, plan.QuotaPlayers)
	}

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.stores.CreatePlayer(ctx, p); err != nil {
		return nil, err
	}
	s.rescore(ctx, p)
	metrics.UpdatePlayersTotal(s.stores.CountPlayers(ctx))

	s.logger.Debug(ctx, "player created",
		logger.String("playerID", p.ID),
		logger.String("orgID", p.OrgID),
	)
	return p, nil
}

// GetPlayer returns one player of the caller's organization.
func (s *Service) GetPlayer(ctx context.Context, id auth.Identity, playerID string) (*model.Player, error) {
	p, err := s.stores.GetPlayer(ctx, id.OrgID, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// UpdatePlayer replaces a player's profile and refreshes their ranking.
func (s *Service) UpdatePlayer(ctx context.Context, id auth.Identity, p *model.Player) (*model.Player, error) {
	p.OrgID = id.OrgID
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	existing, err := s.stores.GetPlayer(ctx, id.OrgID, p.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	if err := s.stores.UpdatePlayer(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.rescore(ctx, p)
	return p, nil
}

// DeletePlayer removes a player, their ranking entry, and records the action.
func (s *Service) DeletePlayer(ctx context.Context, id auth.Identity, playerID string) error {
	p, err := s.stores.GetPlayer(ctx, id.OrgID, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.stores.DeletePlayer(ctx, id.OrgID, playerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.ranks.Remove(ctx, id.OrgID, playerID)
	metrics.UpdatePlayersTotal(s.stores.CountPlayers(ctx))

	s.audit(ctx, id, model.AuditPlayerDeleted, "player", playerID, map[string]string{
		"name": p.Name,
	})
	return nil
}

// ListPlayers searches the organization's player database.
func (s *Service) ListPlayers(ctx context.Context, id auth.Identity, f model.PlayerFilter) ([]*model.Player, int, error) {
	if f.Limit <= 0 || f.Limit > s.maxPageSize {
		f.Limit = s.maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.stores.ListPlayers(ctx, id.OrgID, f)
}

// rescore recomputes the weighted score and updates the ranking. Scoring
// failures only log; the profile write already succeeded.
func (s *Service) rescore(ctx context.Context, p *model.Player) {
	start := time.Now()
	b, err := s.scorer.Score(ctx, p, s.weights)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.logger.Error(ctx, "scoring failed",
			logger.String("playerID", p.ID),
			logger.Error(err),
		)
		return
	}
	if _, err := s.ranks.UpdateScore(ctx, p.OrgID, p.ID, p.Name, string(p.Position), b.Score); err != nil {
		s.logger.Error(ctx, "ranking update failed",
			logger.String("playerID", p.ID),
			logger.Error(err),
		)
	}
}
