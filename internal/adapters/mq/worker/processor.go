package worker

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/touchline/scoutbase/internal/domain/model"
)

// Clip rendering constants. Each highlight becomes one clip with a lead-in
// and lead-out around the tagged minute.
const (
	clipSeconds         = 12
	thumbnailsPerClip   = 1
	defaultMinLatencyMS = 40
	defaultMaxLatencyMS = 120
)

// VideoReader provides the video and tag data the pipeline consumes.
type VideoReader interface {
	GetVideo(ctx context.Context, orgID, id string) (*model.Video, error)
	ListTags(ctx context.Context, videoID string) ([]*model.HighlightTag, error)
}

// ClipProcessor simulates the clip pipeline: it cuts one clip per highlight
// tag and renders a thumbnail for each. Work duration is derived from the
// job id, so reruns behave identically.
type ClipProcessor struct {
	videos       VideoReader
	minLatencyMS int
	maxLatencyMS int
}

// ProcessorOption applies a configuration option to the ClipProcessor.
type ProcessorOption func(*ClipProcessor)

// WithLatencyRange bounds the simulated per-job work duration.
func WithLatencyRange(minMS, maxMS int) ProcessorOption {
	return func(p *ClipProcessor) {
		if minMS > 0 && maxMS >= minMS {
			p.minLatencyMS = minMS
			p.maxLatencyMS = maxMS
		}
	}
}

// NewClipProcessor creates the pipeline over the given video source.
func NewClipProcessor(videos VideoReader, opts ...ProcessorOption) *ClipProcessor {
	p := &ClipProcessor{
		videos:       videos,
		minLatencyMS: defaultMinLatencyMS,
		maxLatencyMS: defaultMaxLatencyMS,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process cuts clips for every highlight tag on the job's video.
func (p *ClipProcessor) Process(ctx context.Context, j *Job) (model.JobResult, error) {
	video, err := p.videos.GetVideo(ctx, j.OrgID, j.VideoID)
	if err != nil {
		return model.JobResult{}, fmt.Errorf("loading video %s: %w", j.VideoID, err)
	}
	tags, err := p.videos.ListTags(ctx, j.VideoID)
	if err != nil {
		return model.JobResult{}, fmt.Errorf("loading tags for video %s: %w", j.VideoID, err)
	}

	if err := p.simulateWork(ctx, j.ID, len(tags)); err != nil {
		return model.JobResult{}, err
	}

	rendered := len(tags) * clipSeconds
	if rendered > video.DurationSec {
		rendered = video.DurationSec
	}
	return model.JobResult{
		ClipCount:      len(tags),
		ThumbnailCount: len(tags) * thumbnailsPerClip,
		RenderedSec:    rendered,
	}, nil
}

// simulateWork sleeps for a per-job deterministic duration scaled by the
// number of clips, honoring cancellation.
func (p *ClipProcessor) simulateWork(ctx context.Context, jobID string, clips int) error {
	h := fnv.New64a()
	h.Write([]byte(jobID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	spread := p.maxLatencyMS - p.minLatencyMS + 1
	perClip := time.Duration(p.minLatencyMS+rng.Intn(spread)) * time.Millisecond
	total := perClip * time.Duration(clips+1)

	timer := time.NewTimer(total)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
