// Package gbm loads and evaluates the gradient-boosted whale presence model.
package gbm

import "context"

// Predictor abstracts the scoring artifact so the service can run against a
// fake or deterministic stand-in in tests.
type Predictor interface {
	// Score returns the whale presence probability in [0,1] for a location
	// and calendar month.
	Score(ctx context.Context, lat, lon float64, month int) (float64, error)
}
