package memory

import (
	"context"
	"sort"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
)

// CreatePlayer stores a new player.
func (s *Store) CreatePlayer(ctx context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[p.ID]; ok {
		return repository.ErrAlreadyExists
	}
	cp := *p
	s.players[p.ID] = &cp
	return nil
}

// GetPlayer returns the player if it belongs to the org.
func (s *Store) GetPlayer(ctx context.Context, orgID, id string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	if !ok || p.OrgID != orgID {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// UpdatePlayer replaces the stored record. Org ownership cannot change.
func (s *Store) UpdatePlayer(ctx context.Context, p *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.players[p.ID]
	if !ok || old.OrgID != p.OrgID {
		return repository.ErrNotFound
	}
	cp := *p
	s.players[p.ID] = &cp
	return nil
}

// DeletePlayer removes the player from the org.
func (s *Store) DeletePlayer(ctx context.Context, orgID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok || p.OrgID != orgID {
		return repository.ErrNotFound
	}
	delete(s.players, id)
	return nil
}

// ListPlayers returns the org's players matching the filter, name-sorted,
// plus the total match count before pagination.
func (s *Store) ListPlayers(ctx context.Context, orgID string, f model.PlayerFilter) ([]*model.Player, int, error) {
	s.mu.RLock()
	matched := make([]*model.Player, 0)
	for _, p := range s.players {
		if p.OrgID != orgID || !f.Matches(p) {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if f.Offset > 0 {
		if f.Offset >= total {
			return []*model.Player{}, total, nil
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, total, nil
}

// CountPlayers returns the number of players across all orgs.
func (s *Store) CountPlayers(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
