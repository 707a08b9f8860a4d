// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":5002".
	Addr string `koanf:"addr"`

	// ModelPath points at the scoring artifact JSON. Loading it is fatal
	// on failure; the service cannot start without it.
	ModelPath string `koanf:"model_path"`

	// MaxRouteWaypoints caps the waypoint count accepted by the route endpoint.
	MaxRouteWaypoints int `koanf:"max_route_waypoints"`

	// ScoreCacheSize bounds the in-memory score cache; 0 disables caching.
	ScoreCacheSize int `koanf:"score_cache_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":5002",
		ModelPath:         "model/whale_risk_model.json",
		MaxRouteWaypoints: 1000,
		ScoreCacheSize:    4096,
	}
}
