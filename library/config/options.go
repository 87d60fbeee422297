package config

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = d
	}
}

// WithoutSession lets commands that never issue sessions run without
// SESSION_SECRET.
func WithoutSession() Option {
	return func(c *Config) {
		c.sessionOptional = true
	}
}
