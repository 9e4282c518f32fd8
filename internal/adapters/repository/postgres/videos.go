package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/touchline/scoutbase/internal/adapters/repository"
	"github.com/touchline/scoutbase/internal/domain/model"
)

const videoColumns = `id, org_id, player_id, title, match_date, duration_sec, source_url, created_at`

const jobColumns = `id, submission_id, org_id, video_id, status, error,
	clip_count, thumbnail_count, rendered_sec, submitted_at, started_at, finished_at`

// CreateVideo inserts a new video record.
func (s *Store) CreateVideo(ctx context.Context, v *model.Video) error {
	query := `INSERT INTO videos (` + videoColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.ExecContext(ctx, query,
		v.ID, v.OrgID, v.PlayerID, v.Title, v.MatchDate, v.DurationSec, v.SourceURL, v.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

// GetVideo returns one video scoped to the organization.
func (s *Store) GetVideo(ctx context.Context, orgID, id string) (*model.Video, error) {
	var v model.Video
	query := `SELECT ` + videoColumns + ` FROM videos WHERE org_id = $1 AND id = $2`
	err := s.db.QueryRowContext(ctx, query, orgID, id).Scan(
		&v.ID, &v.OrgID, &v.PlayerID, &v.Title, &v.MatchDate, &v.DurationSec, &v.SourceURL, &v.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return &v, nil
}

// ListVideos returns the organization's videos, newest first.
func (s *Store) ListVideos(ctx context.Context, orgID string) ([]*model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE org_id = $1 ORDER BY created_at DESC, id`
	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*model.Video
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(
			&v.ID, &v.OrgID, &v.PlayerID, &v.Title, &v.MatchDate, &v.DurationSec, &v.SourceURL, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}

// AddTag attaches a highlight tag to a video.
func (s *Store) AddTag(ctx context.Context, t *model.HighlightTag) error {
	query := `
		INSERT INTO highlight_tags (id, video_id, minute, event, label, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.VideoID, t.Minute, string(t.Event), t.Label, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

// ListTags returns a video's highlight tags ordered by minute.
func (s *Store) ListTags(ctx context.Context, videoID string) ([]*model.HighlightTag, error) {
	query := `
		SELECT id, video_id, minute, event, label, created_by, created_at
		FROM highlight_tags WHERE video_id = $1 ORDER BY minute, id
	`
	rows, err := s.db.QueryContext(ctx, query, videoID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []*model.HighlightTag
	for rows.Next() {
		var t model.HighlightTag
		if err := rows.Scan(&t.ID, &t.VideoID, &t.Minute, &t.Event, &t.Label, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

// CreateJob inserts a new processing job.
func (s *Store) CreateJob(ctx context.Context, j *model.ProcessingJob) error {
	query := `
		INSERT INTO processing_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		j.ID, j.SubmissionID, j.OrgID, j.VideoID, string(j.Status), j.Error,
		j.Result.ClipCount, j.Result.ThumbnailCount, j.Result.RenderedSec,
		j.SubmittedAt, nullableTime(j.StartedAt), nullableTime(j.FinishedAt),
	)
	if isUniqueViolation(err) {
		return repository.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetJob returns one processing job scoped to the organization.
func (s *Store) GetJob(ctx context.Context, orgID, id string) (*model.ProcessingJob, error) {
	var (
		j                    model.ProcessingJob
		startedAt, finishedAt sql.NullTime
	)
	query := `SELECT ` + jobColumns + ` FROM processing_jobs WHERE org_id = $1 AND id = $2`
	err := s.db.QueryRowContext(ctx, query, orgID, id).Scan(
		&j.ID, &j.SubmissionID, &j.OrgID, &j.VideoID, &j.Status, &j.Error,
		&j.Result.ClipCount, &j.Result.ThumbnailCount, &j.Result.RenderedSec,
		&j.SubmittedAt, &startedAt, &finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	j.StartedAt = timeOrZero(startedAt)
	j.FinishedAt = timeOrZero(finishedAt)
	return &j, nil
}

// UpdateJob replaces a stored processing job's mutable state.
func (s *Store) UpdateJob(ctx context.Context, j *model.ProcessingJob) error {
	query := `
		UPDATE processing_jobs SET
			status = $3, error = $4, clip_count = $5, thumbnail_count = $6,
			rendered_sec = $7, started_at = $8, finished_at = $9
		WHERE org_id = $1 AND id = $2
	`
	res, err := s.db.ExecContext(ctx, query,
		j.OrgID, j.ID, string(j.Status), j.Error,
		j.Result.ClipCount, j.Result.ThumbnailCount, j.Result.RenderedSec,
		nullableTime(j.StartedAt), nullableTime(j.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return requireRow(res)
}
