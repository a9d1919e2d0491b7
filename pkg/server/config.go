package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServerConfig holds the configuration for the spreadsheet server.
type ServerConfig struct {
	// Address is the host:port to listen on.
	Address string

	// SheetSize is the number of cells in the served sheet.
	SheetSize int

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates WebSocket upgrade origins. The default
	// accepts same-host origins only.
	CheckOrigin func(r *http.Request) bool

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds header reads on the HTTP listener.
	ReadHeaderTimeout time.Duration

	// MetricsRegistry receives the server's Prometheus metrics. Each
	// server defaults to its own registry so that multiple servers in
	// one process never collide on registration.
	MetricsRegistry *prometheus.Registry
}

// DefaultServerConfig returns the default configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":8080",
		SheetSize:         4,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		CheckOrigin:       sameHostOrigin,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MetricsRegistry:   prometheus.NewRegistry(),
	}
}

// fillDefaults completes any unset fields from the defaults.
func (c *ServerConfig) fillDefaults() {
	defaults := DefaultServerConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.SheetSize == 0 {
		c.SheetSize = defaults.SheetSize
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = defaults.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = defaults.WriteBufferSize
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = defaults.CheckOrigin
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if c.MetricsRegistry == nil {
		c.MetricsRegistry = defaults.MetricsRegistry
	}
}

// sameHostOrigin accepts upgrades with no Origin header or an Origin
// matching the request host.
func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
