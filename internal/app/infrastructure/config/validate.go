package config

import (
	"errors"
	"fmt"
	"math"
)

func (m *Manager) validate(cfg *Config) error {
	// app
	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if cfg.App.LogLevel != "" && !validLevels[cfg.App.LogLevel] {
		return fmt.Errorf("app.log_level must be one of trace, debug, info, warn, error, fatal; got %s", cfg.App.LogLevel)
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if cfg.App.GinMode != "" && !validModes[cfg.App.GinMode] {
		return fmt.Errorf("app.gin_mode must be one of debug, release, test; got %s", cfg.App.GinMode)
	}

	if cfg.App.Port < 1 || cfg.App.Port > 65535 {
		return fmt.Errorf("app.port must be [1,65535]; got %d", cfg.App.Port)
	}

	// store
	switch cfg.Store.Driver {
	case DriverMongo:
		if cfg.Store.URI == "" {
			return errors.New("store.uri is required for the mongo driver")
		}
		if cfg.Store.Database == "" {
			return errors.New("store.database is required for the mongo driver")
		}
		if cfg.Store.Collection == "" {
			return errors.New("store.collection is required for the mongo driver")
		}
		if cfg.Store.ConnectTimeoutSeconds < 1 {
			return errors.New("store.connect_timeout_seconds must be positive")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("store.driver must be mongo or memory; got %q", cfg.Store.Driver)
	}

	// messages
	if cfg.Messages.TTLSeconds < 1 || cfg.Messages.TTLSeconds > math.MaxInt32 {
		return fmt.Errorf("messages.ttl_seconds must be [1,%d]; got %d", math.MaxInt32, cfg.Messages.TTLSeconds)
	}
	if cfg.Messages.PollIntervalSeconds < 1 || cfg.Messages.PollIntervalSeconds > 60 {
		return fmt.Errorf("messages.poll_interval_seconds must be [1,60]; got %d", cfg.Messages.PollIntervalSeconds)
	}

	// limiter
	if (cfg.Limiter.Requests != 0 && cfg.Limiter.Per == 0) || (cfg.Limiter.Requests == 0 && cfg.Limiter.Per != 0) {
		return errors.New("limiter.requests and limiter.per must both be set or both be zero")
	}
	if cfg.Limiter.Requests < 0 || cfg.Limiter.Per < 0 {
		return errors.New("limiter.requests and limiter.per must not be negative")
	}

	return nil
}
