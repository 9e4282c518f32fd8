package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/touchline/scoutbase/internal/auth"
	"github.com/touchline/scoutbase/internal/domain/analysis"
	"github.com/touchline/scoutbase/internal/domain/model"
	"github.com/touchline/scoutbase/internal/domain/scoring"
	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/metrics"
)

// ScorePlayer computes the weighted-score breakdown for one player.
func (s *Service) ScorePlayer(ctx context.Context, id auth.Identity, playerID string) (scoring.Breakdown, error) {
	p, err := s.GetPlayer(ctx, id, playerID)
	if err != nil {
		return scoring.Breakdown{}, err
	}
	return s.scorer.Score(ctx, p, s.weights)
}

// Analyze produces the AI-assisted profile for one player.
func (s *Service) Analyze(ctx context.Context, id auth.Identity, playerID string) (*analysis.Analysis, error) {
	p, err := s.GetPlayer(ctx, id, playerID)
	if err != nil {
		return nil, err
	}
	a, err := s.analyzer.Analyze(p)
	if err != nil {
		return nil, err
	}
	metrics.RecordAnalysis()
	return a, nil
}

// Compare runs the side-by-side comparison for two or more players of the
// caller's organization.
func (s *Service) Compare(ctx context.Context, id auth.Identity, playerIDs []string) (*analysis.Comparison, error) {
	if len(playerIDs) < 2 {
		return nil, fmt.Errorf("%w: at least 2 players required", ErrInvalidInput)
	}

	players := make([]*model.Player, 0, len(playerIDs))
	for _, pid := range playerIDs {
		p, err := s.GetPlayer(ctx, id, pid)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf("%w: player %s", ErrNotFound, pid)
			}
			return nil, err
		}
		players = append(players, p)
	}

	c, err := s.analyzer.Compare(players)
	if err != nil {
		if errors.Is(err, analysis.ErrNotEnoughPlayers) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		return nil, err
	}
	metrics.RecordComparison()
	return c, nil
}

// Rankings returns the organization's top players by weighted score.
func (s *Service) Rankings(ctx context.Context, id auth.Identity, limit int) ([]types.RankEntry, error) {
	if limit <= 0 || limit > s.maxRankingLimit {
		limit = s.maxRankingLimit
	}
	return s.ranks.TopN(ctx, id.OrgID, limit)
}
