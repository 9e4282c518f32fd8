// Package plan maps subscription tiers onto feature access and monthly quotas.
package plan

import (
	"sync"
	"time"

	"github.com/touchline/scoutbase/internal/domain/types"
)

// Feature is a gated capability.
type Feature string

// Gated capabilities.
const (
	FeaturePDFExport        Feature = "pdf_export"
	FeatureVideoJobs        Feature = "video_jobs"
	FeatureAdvancedAnalysis Feature = "advanced_analysis"
)

// Quota keys counted per organization per calendar month (UTC).
const (
	QuotaPlayers    = "players"
	QuotaReports    = "reports"
	QuotaPDFExports = "pdf_exports"
	QuotaVideoJobs  = "video_jobs"
)

// Unlimited marks a quota with no cap.
const Unlimited = -1

var featureTable = map[types.Tier]map[Feature]bool{
	types.TierFreemium: {},
	types.TierPro: {
		FeaturePDFExport:        true,
		FeatureVideoJobs:        true,
		FeatureAdvancedAnalysis: true,
	},
	types.TierEnterprise: {
		FeaturePDFExport:        true,
		FeatureVideoJobs:        true,
		FeatureAdvancedAnalysis: true,
	},
}

var limitTable = map[types.Tier]map[string]int{
	types.TierFreemium: {
		QuotaPlayers:    50,
		QuotaReports:    20,
		QuotaPDFExports: 0,
		QuotaVideoJobs:  0,
	},
	types.TierPro: {
		QuotaPlayers:    1000,
		QuotaReports:    500,
		QuotaPDFExports: 100,
		QuotaVideoJobs:  50,
	},
	types.TierEnterprise: {
		QuotaPlayers:    Unlimited,
		QuotaReports:    Unlimited,
		QuotaPDFExports: Unlimited,
		QuotaVideoJobs:  Unlimited,
	},
}

// Allowed reports whether tier t grants feature f.
func Allowed(t types.Tier, f Feature) bool {
	return featureTable[t][f]
}

// Limits returns a copy of the monthly quota table for tier t.
func Limits(t types.Tier) map[string]int {
	src := limitTable[t]
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Period formats the UTC calendar month used as the quota window.
func Period(now time.Time) string {
	return now.UTC().Format("2006-01")
}

// Meter counts per-org usage within the current period. Counters from past
// periods are dropped lazily, which implements the monthly reset.
type Meter struct {
	mu    sync.Mutex
	now   func() time.Time
	usage map[string]map[string]int // period -> org|key -> count
}

// MeterOption applies a configuration option to the Meter.
type MeterOption func(*Meter)

// WithClock overrides the meter's time source.
func WithClock(now func() time.Time) MeterOption {
	return func(m *Meter) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMeter creates a usage meter with configuration options.
func NewMeter(opts ...MeterOption) *Meter {
	m := &Meter{
		now:   time.Now,
		usage: make(map[string]map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Allow atomically checks the quota for (org, key) under tier and, when
// within limits, counts one use. It returns false when the tier's cap is
// already reached.
func (m *Meter) Allow(orgID, key string, tier types.Tier) bool {
	limit, ok := limitTable[tier][key]
	if !ok {
		return false
	}
	if limit == Unlimited {
		m.add(orgID, key, 1)
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	period := Period(m.now())
	m.dropStale(period)
	bucket := m.bucket(period)
	id := orgID + "|" + key
	if bucket[id] >= limit {
		return false
	}
	bucket[id]++
	return true
}

// Release refunds one previously counted use, flooring at zero. Used when a
// metered operation is rejected downstream, e.g. by queue backpressure.
func (m *Meter) Release(orgID, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	period := Period(m.now())
	m.dropStale(period)
	bucket := m.bucket(period)
	id := orgID + "|" + key
	if bucket[id] > 0 {
		bucket[id]--
	}
}

// Seed primes the current-period counter from persisted usage, e.g. after a
// restart. It never lowers a counter that is already higher.
func (m *Meter) Seed(orgID, key string, n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	period := Period(m.now())
	m.dropStale(period)
	bucket := m.bucket(period)
	id := orgID + "|" + key
	if n > bucket[id] {
		bucket[id] = n
	}
}

// Used returns the current-period count for (org, key).
func (m *Meter) Used(orgID, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	period := Period(m.now())
	return m.bucket(period)[orgID+"|"+key]
}

// Usage returns all current-period counters for one org.
func (m *Meter) Usage(orgID string) map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.bucket(Period(m.now()))
	out := make(map[string]int)
	for _, key := range []string{QuotaPlayers, QuotaReports, QuotaPDFExports, QuotaVideoJobs} {
		out[key] = bucket[orgID+"|"+key]
	}
	return out
}

func (m *Meter) add(orgID, key string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	period := Period(m.now())
	m.dropStale(period)
	m.bucket(period)[orgID+"|"+key] += n
}

// bucket returns the counter map for period, creating it on first use.
// Callers must hold m.mu.
func (m *Meter) bucket(period string) map[string]int {
	b, ok := m.usage[period]
	if !ok {
		b = make(map[string]int)
		m.usage[period] = b
	}
	return b
}

// dropStale deletes counters from past periods. Callers must hold m.mu.
func (m *Meter) dropStale(current string) {
	for p := range m.usage {
		if p != current {
			delete(m.usage, p)
		}
	}
}
