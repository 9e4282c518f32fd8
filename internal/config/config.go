// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL is the Postgres DSN. Empty selects the in-memory stores
	// (demo mode).
	DatabaseURL string `koanf:"database_url"`

	// DemoMode forces in-memory stores even when DatabaseURL is set.
	DemoMode bool `koanf:"demo_mode"`

	// SessionTTLMinutes bounds how long a login session stays valid.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// WorkerCount sets the number of video-processing workers.
	WorkerCount int `koanf:"worker_count"`

	// JobQueueSize bounds the in-memory processing job queue.
	JobQueueSize int `koanf:"job_queue_size"`

	// IdempotencySize sets the size of the job idempotency cache.
	IdempotencySize int `koanf:"idempotency_size"`

	// MaxPageSize caps page sizes on list endpoints.
	MaxPageSize int `koanf:"max_page_size"`

	// MaxRankingLimit caps GET /api/rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// ComparisonWeights holds the default percentage weights for the
	// weighted score: technical, physical, mental, age, potential.
	ComparisonWeights map[string]float64 `koanf:"comparison_weights"`

	// JobLatencyMinMS and JobLatencyMaxMS bound the simulated clip
	// pipeline stage latency.
	JobLatencyMinMS int `koanf:"job_latency_min_ms"`
	JobLatencyMaxMS int `koanf:"job_latency_max_ms"`

	// VerifyBaseURL is the public base URL encoded into report QR codes.
	VerifyBaseURL string `koanf:"verify_base_url"`

	// ReportFooter is printed at the bottom of every PDF page.
	ReportFooter string `koanf:"report_footer"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		SessionTTLMinutes: 12 * 60,
		WorkerCount:       runtime.NumCPU() * 2,
		JobQueueSize:      10_000,
		IdempotencySize:   100_000,
		MaxPageSize:       100,
		MaxRankingLimit:   100,
		ComparisonWeights: map[string]float64{
			"technical": 30,
			"physical":  20,
			"mental":    20,
			"age":       15,
			"potential": 15,
		},
		JobLatencyMinMS: 40,
		JobLatencyMaxMS: 120,
		VerifyBaseURL:   "https://app.scoutbase.example/verify",
		ReportFooter:    "Generated by Scoutbase",
	}
}
