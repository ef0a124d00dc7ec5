package server

import (
	"net"
	"time"

	"github.com/spf13/cast"
)

// Config defines configuration options for the HTTP server.
type Config struct {
	// HideErrorDetails leaves the error trace and details out of responses.
	HideErrorDetails bool `yaml:"hide_error_details"`

	// Host address to bind the server to.
	Host string `yaml:"host" validate:"required"`

	// Port number to listen on.
	Port int `yaml:"port" validate:"required"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `yaml:"read_timeout" validate:"required" default:"30s"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"required" default:"60s"`

	// IdleTimeout is the maximum amount of time to wait for the next request.
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"required" default:"120s"`

	// HandleTimeout is the maximum duration for handling a single request.
	HandleTimeout time.Duration `yaml:"request_timeout" validate:"required" default:"30s"`

	// BodyLimit is the maximum request body size in bytes. Default is 32MB.
	BodyLimit int `yaml:"body_limit" validate:"required" default:"33554432"`
}

// Address returns the server's listen address in the form "host:port".
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, cast.ToString(c.Port))
}
