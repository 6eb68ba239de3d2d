package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables that take precedence over the config file.
const (
	EnvLogLevel    = "LOG_LEVEL"
	EnvGinMode     = "GIN_MODE"
	EnvPort        = "PORT"
	EnvAuthToken   = "AUTH_TOKEN"
	EnvStoreDriver = "STORE_DRIVER"
	EnvMongoURI    = "MONGO_URI"
	EnvTTLSeconds  = "MESSAGE_TTL_SECONDS"
)

// ApplyEnv overlays environment variables on the loaded config. The overlay is not written back to disk.
func (m *Manager) ApplyEnv() error {
	return m.applyEnv(os.LookupEnv)
}

func (m *Manager) applyEnv(lookup func(string) (string, bool)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := *m.cfg

	if v, ok := lookup(EnvLogLevel); ok {
		next.App.LogLevel = v
	}
	if v, ok := lookup(EnvGinMode); ok {
		next.App.GinMode = v
	}
	if v, ok := lookup(EnvAuthToken); ok {
		next.App.AuthToken = v
	}
	if v, ok := lookup(EnvStoreDriver); ok {
		next.Store.Driver = v
	}
	if v, ok := lookup(EnvMongoURI); ok {
		next.Store.URI = v
	}

	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		next.App.Port = port
	}
	if v, ok := lookup(EnvTTLSeconds); ok {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTTLSeconds, err)
		}
		next.Messages.TTLSeconds = ttl
	}

	if err := m.validate(&next); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	m.cfg = &next
	return nil
}
