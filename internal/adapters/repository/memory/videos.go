package memory

import (
	"context"
	"sort"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
)

// CreateVideo stores a new video record.
func (s *Store) CreateVideo(ctx context.Context, v *model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[v.ID]; ok {
		return repository.ErrAlreadyExists
	}
	cp := *v
	s.videos[v.ID] = &cp
	return nil
}

// GetVideo returns the video if it belongs to the org.
func (s *Store) GetVideo(ctx context.Context, orgID, id string) (*model.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.videos[id]
	if !ok || v.OrgID != orgID {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

// ListVideos returns the org's videos, newest first.
func (s *Store) ListVideos(ctx context.Context, orgID string) ([]*model.Video, error) {
	s.mu.RLock()
	out := make([]*model.Video, 0)
	for _, v := range s.videos {
		if v.OrgID != orgID {
			continue
		}
		cp := *v
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

// AddTag appends a highlight tag to its video.
func (s *Store) AddTag(ctx context.Context, t *model.HighlightTag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.videos[t.VideoID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	s.tags[t.VideoID] = append(s.tags[t.VideoID], &cp)
	return nil
}

// ListTags returns the video's tags sorted by minute.
func (s *Store) ListTags(ctx context.Context, videoID string) ([]*model.HighlightTag, error) {
	s.mu.RLock()
	stored := s.tags[videoID]
	out := make([]*model.HighlightTag, 0, len(stored))
	for _, t := range stored {
		cp := *t
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Minute < out[j].Minute })
	return out, nil
}

// CreateJob stores a new processing job.
func (s *Store) CreateJob(ctx context.Context, j *model.ProcessingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[j.ID]; ok {
		return repository.ErrAlreadyExists
	}
	cp := *j
	s.jobs[j.ID] = &cp
	return nil
}

// GetJob returns the job if it belongs to the org.
func (s *Store) GetJob(ctx context.Context, orgID, id string) (*model.ProcessingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok || j.OrgID != orgID {
		return nil, repository.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

// UpdateJob replaces the stored job record.
func (s *Store) UpdateJob(ctx context.Context, j *model.ProcessingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.jobs[j.ID]
	if !ok || old.OrgID != j.OrgID {
		return repository.ErrNotFound
	}
	cp := *j
	s.jobs[j.ID] = &cp
	return nil
}
