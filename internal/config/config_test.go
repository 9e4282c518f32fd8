package config

import "testing"

func TestNewDefaults(t *testing.T) {
	c := New()

	if c.Addr == "" {
		t.Error("expected a default addr")
	}
	if c.LogLevel != "info" {
		t.Errorf("expected default log level info, got %q", c.LogLevel)
	}
	if c.SessionTTLMinutes <= 0 {
		t.Error("expected a positive session TTL")
	}
	if c.JobQueueSize <= 0 {
		t.Error("expected a positive job queue size")
	}
	if c.WorkerCount <= 0 {
		t.Error("expected a positive worker count")
	}
	if c.MaxPageSize <= 0 || c.MaxRankingLimit <= 0 {
		t.Error("expected positive list caps")
	}
	if c.DatabaseURL != "" {
		t.Error("expected no default database URL (demo stores)")
	}

	total := 0.0
	for _, w := range c.ComparisonWeights {
		total += w
	}
	if total != 100 {
		t.Errorf("default comparison weights should sum to 100, got %v", total)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty addr", func(c *Config) { c.Addr = "" }, true},
		{"zero session ttl", func(c *Config) { c.SessionTTLMinutes = 0 }, true},
		{"zero queue size", func(c *Config) { c.JobQueueSize = 0 }, true},
		{"zero page size", func(c *Config) { c.MaxPageSize = 0 }, true},
		{"inverted latency range", func(c *Config) { c.JobLatencyMinMS = 200; c.JobLatencyMaxMS = 100 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			tc.mutate(c)
			err := c.validate()
			if tc.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
