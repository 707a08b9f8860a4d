// Package scoring converts raw presence probabilities into risk assessments.
package scoring

import (
	"context"
	"math"
	"time"

	"github.com/okian/whalerisk/internal/domain/gbm"
	"github.com/okian/whalerisk/internal/domain/model"
)

// Tier thresholds. Classification happens on the unrounded probability;
// both boundary values fall into the lower tier (0.6 -> MEDIUM, 0.3 -> LOW).
const (
	highThreshold   = 0.6
	mediumThreshold = 0.3
)

// Operational advisories keyed by tier.
const (
	highRecommendation   = "Reduce speed to 10 knots or less. Increase lookout."
	mediumRecommendation = "Exercise caution. Post additional lookouts."
	lowRecommendation    = "Maintain standard whale watching protocols."
)

const displayPrecision = 3

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithClock sets the time source used to derive the default month. Tests
// supply a fixed clock instead of depending on wall-clock time.
func WithClock(clock func() time.Time) Option {
	return func(s *Scorer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Scorer wraps a scoring artifact and classifies its probabilities into
// risk tiers. It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	predictor gbm.Predictor
	clock     func() time.Time
}

// New creates a Scorer over the given predictor.
func New(predictor gbm.Predictor, opts ...Option) *Scorer {
	s := &Scorer{
		predictor: predictor,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssessPoint scores one location. A nil month means "current calendar month"
// at call time. Artifact failures propagate untranslated.
func (s *Scorer) AssessPoint(ctx context.Context, lat, lon float64, month *int) (model.Assessment, error) {
	m := s.currentMonth()
	if month != nil {
		m = *month
	}
	return s.assess(ctx, lat, lon, m)
}

// AssessRoute scores an ordered sequence of waypoints. A single current month
// is computed once and applied to every waypoint so the batch is consistent.
// Output preserves input order and count. The caller must reject empty input.
func (s *Scorer) AssessRoute(ctx context.Context, waypoints []model.Coordinate) ([]model.Assessment, error) {
	month := s.currentMonth()
	out := make([]model.Assessment, 0, len(waypoints))
	for _, wp := range waypoints {
		a, err := s.assess(ctx, wp.Lat, wp.Lon, month)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *Scorer) assess(ctx context.Context, lat, lon float64, month int) (model.Assessment, error) {
	p, err := s.predictor.Score(ctx, lat, lon, month)
	if err != nil {
		return model.Assessment{}, err
	}

	level, recommendation := Classify(p)
	return model.Assessment{
		RiskLevel:      level,
		Probability:    round(p, displayPrecision),
		Recommendation: recommendation,
		Latitude:       lat,
		Longitude:      lon,
		Month:          month,
	}, nil
}

// Classify maps a probability to its tier and advisory.
func Classify(p float64) (model.RiskLevel, string) {
	switch {
	case p > highThreshold:
		return model.RiskHigh, highRecommendation
	case p > mediumThreshold:
		return model.RiskMedium, mediumRecommendation
	default:
		return model.RiskLow, lowRecommendation
	}
}

func (s *Scorer) currentMonth() int {
	return int(s.clock().Month())
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
