package server

import (
	"net/http"
	"net/url"
	"time"
)

// Config configures a Server.
type Config struct {
	// Address is the listen address, e.g. ":8080".
	Address string

	// BasePath is the path the application is served under.
	BasePath string

	// Title is the page title.
	Title string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// WebSocket settings of the navigation endpoint.
	ReadBufferSize  int
	WriteBufferSize int
	MaxMessageSize  int64
	PingInterval    time.Duration
	PongTimeout     time.Duration
	WSWriteTimeout  time.Duration

	// CheckOrigin validates the Origin of navigation connections.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		BasePath:          "/",
		Title:             "Estudos",
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		MaxMessageSize:    4096,
		PingInterval:      30 * time.Second,
		PongTimeout:       60 * time.Second,
		WSWriteTimeout:    10 * time.Second,
		CheckOrigin:       SameOriginCheck,
	}
}

func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.BasePath == "" {
		out.BasePath = d.BasePath
	}
	if out.Title == "" {
		out.Title = d.Title
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = d.ReadHeaderTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = d.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = d.IdleTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = d.MaxMessageSize
	}
	if out.PingInterval == 0 {
		out.PingInterval = d.PingInterval
	}
	if out.PongTimeout == 0 {
		out.PongTimeout = d.PongTimeout
	}
	if out.WSWriteTimeout == 0 {
		out.WSWriteTimeout = d.WSWriteTimeout
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	return &out
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host matches the Host header.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil || r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}
