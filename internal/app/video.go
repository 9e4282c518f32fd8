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

// CreateVideo registers an uploaded recording.
func (s *Service) CreateVideo(ctx context.Context, id auth.Identity, v *model.Video) (*model.Video, error) {
	v.OrgID = id.OrgID
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if v.PlayerID != "" {
		if _, err := s.GetPlayer(ctx, id, v.PlayerID); err != nil {
			return nil, err
		}
	}

	v.ID = uuid.NewString()
	v.CreatedAt = time.Now().UTC()
	if err := s.stores.CreateVideo(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// GetVideo returns one video with its highlight tags.
func (s *Service) GetVideo(ctx context.Context, id auth.Identity, videoID string) (*model.Video, []*model.HighlightTag, error) {
	v, err := s.stores.GetVideo(ctx, id.OrgID, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	tags, err := s.stores.ListTags(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}
	return v, tags, nil
}

// ListVideos returns the organization's videos.
func (s *Service) ListVideos(ctx context.Context, id auth.Identity) ([]*model.Video, error) {
	return s.stores.ListVideos(ctx, id.OrgID)
}

// AddTag attaches a highlight tag to a video.
func (s *Service) AddTag(ctx context.Context, id auth.Identity, t *model.HighlightTag) (*model.HighlightTag, error) {
	v, err := s.stores.GetVideo(ctx, id.OrgID, t.VideoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := t.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	t.ID = uuid.NewString()
	t.CreatedBy = id.UserID
	t.CreatedAt = time.Now().UTC()
	if err := s.stores.AddTag(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// SubmitJob queues a video for clip processing. Submission ids make the
// operation idempotent: a repeated id returns the already-created job. When
// the queue is full, the id is released so the client can retry.
func (s *Service) SubmitJob(ctx context.Context, id auth.Identity, videoID, submissionID string) (*model.ProcessingJob, bool, error) {
	if submissionID == "" {
		return nil, false, fmt.Errorf("%w: missing submission_id", ErrInvalidInput)
	}
	if _, err := s.stores.GetVideo(ctx, id.OrgID, videoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	tier, err := s.orgTier(ctx, id.OrgID)
	if err != nil {
		return nil, false, err
	}
	if !plan.Allowed(tier, plan.FeatureVideoJobs) {
		metrics.RecordQuotaDenied(string(plan.FeatureVideoJobs))
		return nil, false, fmt.Errorf("%w: %s", ErrFeatureLocked, plan.FeatureVideoJobs)
	}

	// Scope the idempotency id to the org so tenants cannot collide.
	dedupeID := id.OrgID + ":" + submissionID
	if s.deduper.SeenAndRecord(ctx, dedupeID) {
		metrics.RecordJobDuplicate()
		if j, derr := s.findJobBySubmission(ctx, id.OrgID, submissionID); derr == nil {
			return j, true, nil
		}
		// The original job is gone (cache outlived the record); treat as new.
		s.logger.Warn(ctx, "duplicate submission without job record",
			logger.String("submissionID", submissionID),
		)
	}

	if !s.allowQuota(ctx, id.OrgID, plan.QuotaVideoJobs, tier) {
		s.deduper.Unrecord(ctx, dedupeID)
		metrics.RecordQuotaDenied(plan.QuotaVideoJobs)
		return nil, false, fmt.Errorf("%w: %s", ErrQuotaExceeded, plan.QuotaVideoJobs)
	}

	j := &model.ProcessingJob{
		ID:           uuid.NewString(),
		SubmissionID: submissionID,
		OrgID:        id.OrgID,
		VideoID:      videoID,
		Status:       types.JobQueued,
		SubmittedAt:  time.Now().UTC(),
	}
	if err := s.stores.CreateJob(ctx, j); err != nil {
		s.deduper.Unrecord(ctx, dedupeID)
		s.releaseQuota(ctx, id.OrgID, plan.QuotaVideoJobs)
		return nil, false, err
	}
	s.rememberSubmission(id.OrgID, submissionID, j.ID)

	if !s.queue.Enqueue(ctx, *j) {
		// Backpressure: release the idempotency id and refund the quota
		// unit so the client may retry.
		s.deduper.Unrecord(ctx, dedupeID)
		s.forgetSubmission(id.OrgID, submissionID)
		s.releaseQuota(ctx, id.OrgID, plan.QuotaVideoJobs)
		j.Status = types.JobFailed
		j.Error = "queue full"
		j.FinishedAt = time.Now().UTC()
		_ = s.stores.UpdateJob(ctx, j)
		return nil, false, ErrBackpressure
	}
	return j, false, nil
}

// rememberSubmission indexes a submission id onto its job id.
func (s *Service) rememberSubmission(orgID, submissionID, jobID string) {
	s.submissions.Store(orgID+":"+submissionID, jobID)
}

func (s *Service) forgetSubmission(orgID, submissionID string) {
	s.submissions.Delete(orgID + ":" + submissionID)
}

func (s *Service) findJobBySubmission(ctx context.Context, orgID, submissionID string) (*model.ProcessingJob, error) {
	v, ok := s.submissions.Load(orgID + ":" + submissionID)
	if !ok {
		return nil, ErrNotFound
	}
	return s.stores.GetJob(ctx, orgID, v.(string))
}

// GetJob returns one processing job of the caller's organization.
func (s *Service) GetJob(ctx context.Context, id auth.Identity, jobID string) (*model.ProcessingJob, error) {
	j, err := s.stores.GetJob(ctx, id.OrgID, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return j, nil
}
