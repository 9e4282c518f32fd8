package memory

import (
	"context"
	"sort"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
)

// CreateReport stores a new scouting report.
func (s *Store) CreateReport(ctx context.Context, r *model.ScoutingReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[r.ID]; ok {
		return repository.ErrAlreadyExists
	}
	cp := *r
	s.reports[r.ID] = &cp
	return nil
}

// GetReport returns the report if it belongs to the org.
func (s *Store) GetReport(ctx context.Context, orgID, id string) (*model.ScoutingReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok || r.OrgID != orgID {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// ListReports returns the org's reports, newest first. A non-empty playerID
// narrows to one player.
func (s *Store) ListReports(ctx context.Context, orgID, playerID string) ([]*model.ScoutingReport, error) {
	s.mu.RLock()
	out := make([]*model.ScoutingReport, 0)
	for _, r := range s.reports {
		if r.OrgID != orgID {
			continue
		}
		if playerID != "" && r.PlayerID != playerID {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
