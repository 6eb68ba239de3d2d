package config

import (
	"selfchat/pkg/logger"
	"time"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

func (m *Manager) GetDefault() *Config {
	return &Config{
		App: App{
			LogLevel: "info",
			LogFile:  logger.DefaultLogFile,
			GinMode:  "release",
			Port:     5000,
		},
		Store: Store{
			Driver:                DriverMongo,
			URI:                   "mongodb://localhost:27017",
			Database:              "selfchat",
			Collection:            "messages",
			ConnectTimeoutSeconds: 10,
		},
		Messages: Messages{
			TTLSeconds:          180,
			PollIntervalSeconds: 3,
		},
		Limiter: Limiter{
			Requests: 20,
			Per:      time.Second,
		},
		CORS: CORS{
			AllowOrigins: []string{"*"},
		},
	}
}
