// Package app provides the core business service that implements
// the dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/okian/whalerisk/internal/domain/gbm"
	"github.com/okian/whalerisk/internal/domain/model"
	"github.com/okian/whalerisk/internal/domain/scoring"
	"github.com/okian/whalerisk/pkg/logger"
	"github.com/okian/whalerisk/pkg/metrics"
)

const (
	defaultModelPath          = "model/whale_risk_model.json"
	defaultCacheSize          = 4096
	nanosecondsPerMillisecond = 1e6
)

// Service owns the loaded scoring artifact and the risk scorer, and implements
// the API dependencies. The artifact is loaded once in Start and never mutated,
// so concurrent assessment calls need no locking.
type Service struct {
	mu sync.RWMutex

	// Core components
	predictor    gbm.Predictor
	scorer       *scoring.Scorer
	instrumented *instrumentedPredictor

	// Configuration
	modelPath string
	cacheSize int
	clock     func() time.Time

	// State
	started   bool
	treeCount int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithModelPath sets the scoring artifact location.
func WithModelPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.modelPath = path
		}
	}
}

// WithPredictor injects a scoring artifact directly, bypassing the file load.
// Tests use this to supply a deterministic stand-in.
func WithPredictor(p gbm.Predictor) Option {
	return func(s *Service) {
		if p != nil {
			s.predictor = p
		}
	}
}

// WithClock sets the time source used for default-month resolution.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithScoreCacheSize bounds the score cache; 0 disables caching.
func WithScoreCacheSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.cacheSize = size
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		modelPath: defaultModelPath,
		cacheSize: defaultCacheSize,
		clock:     time.Now,
		logger:    nil, // Will be replaced when the service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the scoring artifact and builds the scorer. An artifact load
// failure is fatal: the caller must abort startup rather than retry per
// request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting whale risk service...")

	if s.predictor == nil {
		m, err := gbm.Load(s.modelPath)
		if err != nil {
			return fmt.Errorf("load scoring artifact: %w", err)
		}
		s.predictor = m
		s.treeCount = m.TreeCount()
		metrics.UpdateModelTreesLoaded(s.treeCount)
		s.logger.Info(ctx, "scoring artifact loaded",
			logger.String("path", s.modelPath),
			logger.Int("trees", s.treeCount),
		)
	}

	s.instrumented = &instrumentedPredictor{inner: s.predictor}
	if s.cacheSize > 0 {
		cache, err := lru.New[scoreKey, float64](s.cacheSize)
		if err != nil {
			return fmt.Errorf("build score cache: %w", err)
		}
		s.instrumented.cache = cache
		s.logger.Info(ctx, "score cache enabled", logger.Int("size", s.cacheSize))
	}

	s.scorer = scoring.New(s.instrumented, scoring.WithClock(s.clock))

	s.started = true
	s.logger.Info(ctx, "whale risk service started")
	return nil
}

// Stop marks the service stopped. There are no background resources to
// release; the artifact stays in memory until the process exits.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
}

// AssessPoint scores one location, defaulting the month when nil.
func (s *Service) AssessPoint(ctx context.Context, lat, lon float64, month *int) (model.Assessment, error) {
	a, err := s.scorer.AssessPoint(ctx, lat, lon, month)
	if err != nil {
		metrics.RecordModelScoreError()
		return model.Assessment{}, err
	}
	metrics.RecordAssessment(string(a.RiskLevel))
	return a, nil
}

// AssessRoute scores an ordered, non-empty sequence of waypoints. Emptiness
// is rejected at the HTTP boundary before this is called.
func (s *Service) AssessRoute(ctx context.Context, waypoints []model.Coordinate) ([]model.Assessment, error) {
	out, err := s.scorer.AssessRoute(ctx, waypoints)
	if err != nil {
		metrics.RecordModelScoreError()
		return nil, err
	}
	metrics.RecordRouteAssessment(len(out))
	return out, nil
}

// GetStats returns current service statistics.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":   s.started,
		"modelPath": s.modelPath,
		"treeCount": s.treeCount,
		"cacheSize": s.cacheSize,
	}
	if s.instrumented != nil {
		stats["cacheHits"] = s.instrumented.hits.Load()
		stats["cacheMisses"] = s.instrumented.misses.Load()
	}
	return stats
}

// scoreKey identifies one scored input. The artifact is deterministic, so a
// cached probability never goes stale.
type scoreKey struct {
	lat   float64
	lon   float64
	month int
}

// instrumentedPredictor wraps the artifact with latency metrics and an
// optional read-through LRU cache.
type instrumentedPredictor struct {
	inner  gbm.Predictor
	cache  *lru.Cache[scoreKey, float64]
	hits   atomic.Int64
	misses atomic.Int64
}

func (p *instrumentedPredictor) Score(ctx context.Context, lat, lon float64, month int) (float64, error) {
	key := scoreKey{lat: lat, lon: lon, month: month}
	if p.cache != nil {
		if prob, ok := p.cache.Get(key); ok {
			p.hits.Add(1)
			metrics.RecordCacheHit()
			return prob, nil
		}
		p.misses.Add(1)
		metrics.RecordCacheMiss()
	}

	start := time.Now()
	prob, err := p.inner.Score(ctx, lat, lon, month)
	if err != nil {
		return 0, err
	}
	metrics.RecordModelScoreDuration(float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond)

	if p.cache != nil {
		p.cache.Add(key, prob)
	}
	return prob, nil
}
