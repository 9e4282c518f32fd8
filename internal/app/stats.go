package service

import (
	"context"
	"runtime"
	"time"
)

// Stats is the operational snapshot served by GET /stats.
type Stats struct {
	UptimeSeconds  int64 `json:"uptime_seconds"`
	TotalPlayers   int   `json:"total_players"`
	QueueSize      int   `json:"queue_size"`
	QueueCapacity  int   `json:"queue_capacity"`
	WorkerCount    int   `json:"worker_count"`
	DedupeSize     int64 `json:"dedupe_size"`
	ActiveSessions int   `json:"active_sessions"`
	Goroutines     int   `json:"goroutines"`
}

// GetStats returns the current operational snapshot.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		UptimeSeconds:  int64(time.Since(s.startAt).Seconds()),
		TotalPlayers:   s.stores.CountPlayers(ctx),
		QueueSize:      s.queue.Len(ctx),
		QueueCapacity:  s.queueSize,
		WorkerCount:    s.workerCount,
		DedupeSize:     s.deduper.Size(),
		ActiveSessions: s.sessions.Len(),
		Goroutines:     runtime.NumGoroutine(),
	}
}
