// SPDX-License-Identifier: MIT

package config

import "time"

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration `yaml:"readTimeout"`

	// WriteTimeout is the maximum duration before timing out response writes
	WriteTimeout time.Duration `yaml:"writeTimeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration `yaml:"idleTimeout"`

	// MaxHeaderBytes caps the size of parsed request headers
	MaxHeaderBytes int `yaml:"maxHeaderBytes"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultMaxHeaderBytes  = 1 << 20 // 1 MB
	defaultShutdownTimeout = 15 * time.Second
)

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadTimeout:     defaultReadTimeout,
		WriteTimeout:    defaultWriteTimeout,
		IdleTimeout:     defaultIdleTimeout,
		MaxHeaderBytes:  defaultMaxHeaderBytes,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

func overlayServerEnv(s *ServerConfig) {
	s.ReadTimeout = ParseDuration("WELLCORE_SERVER_READ_TIMEOUT", s.ReadTimeout)
	s.WriteTimeout = ParseDuration("WELLCORE_SERVER_WRITE_TIMEOUT", s.WriteTimeout)
	s.IdleTimeout = ParseDuration("WELLCORE_SERVER_IDLE_TIMEOUT", s.IdleTimeout)

	maxHeaderBytes := ParseInt("WELLCORE_SERVER_MAX_HEADER_BYTES", s.MaxHeaderBytes)
	if maxHeaderBytes > 0 {
		s.MaxHeaderBytes = maxHeaderBytes
	}

	shutdownTimeout := ParseDuration("WELLCORE_SERVER_SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	if shutdownTimeout < 3*time.Second {
		shutdownTimeout = 3 * time.Second
	}
	s.ShutdownTimeout = shutdownTimeout
}
