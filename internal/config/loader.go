package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if WHALERISK_CONFIG is set
//  3. env (prefix WHALERISK_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("WHALERISK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: WHALERISK_ADDR, WHALERISK_MODEL_PATH, ...
	// Map env keys like WHALERISK_MODEL_PATH -> model_path (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("WHALERISK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "whalerisk_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("%w: model_path must not be empty", ErrInvalidConfig)
	}
	if cfg.MaxRouteWaypoints < 1 {
		return nil, fmt.Errorf("%w: max_route_waypoints must be at least 1", ErrInvalidConfig)
	}
	if cfg.ScoreCacheSize < 0 {
		return nil, fmt.Errorf("%w: score_cache_size must not be negative", ErrInvalidConfig)
	}
	return &cfg, nil
}
