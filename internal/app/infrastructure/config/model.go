package config

import "time"

type Config struct {
	App      App      `json:"app"`
	Store    Store    `json:"store"`
	Messages Messages `json:"messages"`
	Limiter  Limiter  `json:"limiter"`
	CORS     CORS     `json:"cors"`
}

type App struct {
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	GinMode   string `json:"gin_mode"`
	Port      int    `json:"port"`
	AuthToken string `json:"auth_token"` // basic auth for /metrics and pprof, disabled when empty
}

type Store struct {
	Driver                string `json:"driver"` // mongo или memory
	URI                   string `json:"uri"`
	Database              string `json:"database"`
	Collection            string `json:"collection"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds"`
	SnapshotPath          string `json:"snapshot_path"` // только для memory
}

type Messages struct {
	TTLSeconds          int `json:"ttl_seconds"`
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}

type Limiter struct {
	Requests int           `json:"requests"` // сколько запросов
	Per      time.Duration `json:"per"`      // за какое время
}

type CORS struct {
	AllowOrigins []string `json:"allow_origins"`
}

func (c *Config) TTL() time.Duration {
	return time.Duration(c.Messages.TTLSeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Messages.PollIntervalSeconds) * time.Second
}

func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Store.ConnectTimeoutSeconds) * time.Second
}
