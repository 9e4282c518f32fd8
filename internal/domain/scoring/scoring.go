// Package scoring computes the weighted comparison score from a player's
// attribute categories.
package scoring

import (
	"context"
	"errors"

	"github.com/touchline/scoutbase/internal/domain/model"
)

// Age bounds used to invert age into a 0-100 factor. A player at minAge
// scores 100, at maxAge scores 0.
const (
	defaultMinAge = 16
	defaultMaxAge = 40
)

// Weights are the caller-adjustable percentage weights for the five score
// components. They are applied as given and are NOT required to sum to 100;
// the score divides by whatever they do sum to.
type Weights struct {
	Technical float64 `json:"technical"`
	Physical  float64 `json:"physical"`
	Mental    float64 `json:"mental"`
	Age       float64 `json:"age"`
	Potential float64 `json:"potential"`
}

// DefaultWeights returns the stock weighting used when the caller supplies none.
func DefaultWeights() Weights {
	return Weights{Technical: 30, Physical: 20, Mental: 20, Age: 15, Potential: 15}
}

// WeightsFromMap builds Weights from a config-style map; missing keys fall
// back to the defaults.
func WeightsFromMap(m map[string]float64) Weights {
	w := DefaultWeights()
	if v, ok := m["technical"]; ok {
		w.Technical = v
	}
	if v, ok := m["physical"]; ok {
		w.Physical = v
	}
	if v, ok := m["mental"]; ok {
		w.Mental = v
	}
	if v, ok := m["age"]; ok {
		w.Age = v
	}
	if v, ok := m["potential"]; ok {
		w.Potential = v
	}
	return w
}

func (w Weights) total() float64 {
	return w.Technical + w.Physical + w.Mental + w.Age + w.Potential
}

// Breakdown carries the score plus the intermediate values the client
// displays next to it.
type Breakdown struct {
	PlayerID      string  `json:"player_id"`
	TechnicalMean float64 `json:"technical_mean"`
	PhysicalMean  float64 `json:"physical_mean"`
	MentalMean    float64 `json:"mental_mean"`
	InvertedAge   float64 `json:"inverted_age"`
	Potential     float64 `json:"potential"`
	Score         float64 `json:"score"`
}

// Scorer computes a weighted score for a player.
type Scorer interface {
	Score(ctx context.Context, p *model.Player, w Weights) (Breakdown, error)
}

// ErrNilPlayer is returned when Score is called without a player.
var ErrNilPlayer = errors.New("nil player")

// WeightedScorer implements Scorer over the fixed attribute categories.
type WeightedScorer struct {
	minAge int
	maxAge int
}

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithAgeRange overrides the bounds used for the inverted-age factor.
func WithAgeRange(minAge, maxAge int) Option {
	return func(s *WeightedScorer) {
		if minAge > 0 && maxAge > minAge {
			s.minAge = minAge
			s.maxAge = maxAge
		}
	}
}

// NewWeightedScorer creates a scorer with configuration options.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{
		minAge: defaultMinAge,
		maxAge: defaultMaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes the weighted score: unweighted mean per category, combined
// with the inverted-age and potential factors under the given weights.
func (s *WeightedScorer) Score(ctx context.Context, p *model.Player, w Weights) (Breakdown, error) {
	if p == nil {
		return Breakdown{}, ErrNilPlayer
	}
	if err := ctx.Err(); err != nil {
		return Breakdown{}, err
	}

	b := Breakdown{
		PlayerID:      p.ID,
		TechnicalMean: mean(p.Attributes.Technical()),
		PhysicalMean:  mean(p.Attributes.Physical()),
		MentalMean:    mean(p.Attributes.Mental()),
		InvertedAge:   s.invertedAge(p.Age),
		Potential:     float64(p.Potential),
	}

	total := w.total()
	if total == 0 {
		// All-zero weights: nothing to average over.
		return b, nil
	}

	b.Score = (w.Technical*b.TechnicalMean +
		w.Physical*b.PhysicalMean +
		w.Mental*b.MentalMean +
		w.Age*b.InvertedAge +
		w.Potential*b.Potential) / total
	return b, nil
}

// invertedAge maps age onto 0-100 where younger is higher.
func (s *WeightedScorer) invertedAge(age int) float64 {
	span := float64(s.maxAge - s.minAge)
	v := float64(s.maxAge-age) / span * 100
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// mean returns the unweighted average of vals, or 0 for an empty slice.
func mean(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}
