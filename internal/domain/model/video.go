package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/touchline/scoutbase/internal/domain/types"
)

// Video is an uploaded match or training recording.
type Video struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	PlayerID    string    `json:"player_id,omitempty"`
	Title       string    `json:"title"`
	MatchDate   time.Time `json:"match_date"`
	DurationSec int       `json:"duration_sec"`
	SourceURL   string    `json:"source_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the video record for storable values.
func (v *Video) Validate() error {
	switch {
	case strings.TrimSpace(v.Title) == "":
		return errors.New("missing title")
	case v.DurationSec <= 0:
		return errors.New("duration must be positive")
	}
	return nil
}

// HighlightTag marks one moment in a video.
type HighlightTag struct {
	ID        string          `json:"id"`
	VideoID   string          `json:"video_id"`
	Minute    int             `json:"minute"`
	Event     types.EventType `json:"event"`
	Label     string          `json:"label"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// Validate checks the tag against the owning video.
func (t *HighlightTag) Validate(video *Video) error {
	switch {
	case !t.Event.Valid():
		return fmt.Errorf("invalid event type %q", t.Event)
	case t.Minute < 0:
		return errors.New("minute must not be negative")
	case video != nil && t.Minute*60 > video.DurationSec:
		return fmt.Errorf("minute %d beyond video duration", t.Minute)
	}
	return nil
}

// JobResult summarizes what the clip pipeline produced.
type JobResult struct {
	ClipCount      int `json:"clip_count"`
	ThumbnailCount int `json:"thumbnail_count"`
	RenderedSec    int `json:"rendered_sec"`
}

// ProcessingJob tracks one video through the clip pipeline.
type ProcessingJob struct {
	ID           string          `json:"id"`
	SubmissionID string          `json:"submission_id"` // client idempotency id
	OrgID        string          `json:"org_id"`
	VideoID      string          `json:"video_id"`
	Status       types.JobStatus `json:"status"`
	Error        string          `json:"error,omitempty"`
	Result       JobResult       `json:"result"`
	SubmittedAt  time.Time       `json:"submitted_at"`
	StartedAt    time.Time       `json:"started_at,omitzero"`
	FinishedAt   time.Time       `json:"finished_at,omitzero"`
}
