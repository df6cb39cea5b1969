package mirror

import (
	"log/slog"
	"net/http"
	"time"
)

// Config configures a Mirror and its Hub.
type Config struct {
	// ReadBufferSize and WriteBufferSize size the websocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the Origin header on upgrade.
	// If nil, any origin is accepted.
	CheckOrigin func(r *http.Request) bool

	// WriteTimeout bounds a single frame write to a client.
	WriteTimeout time.Duration

	// SendBuffer is how many frames may queue per client before the client
	// is dropped as too slow.
	SendBuffer int

	// Logger receives connection and broadcast events.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		WriteTimeout:    10 * time.Second,
		SendBuffer:      64,
	}
}

func (c *Config) resolve() *Config {
	out := *c
	def := DefaultConfig()
	if out.ReadBufferSize <= 0 {
		out.ReadBufferSize = def.ReadBufferSize
	}
	if out.WriteBufferSize <= 0 {
		out.WriteBufferSize = def.WriteBufferSize
	}
	if out.WriteTimeout <= 0 {
		out.WriteTimeout = def.WriteTimeout
	}
	if out.SendBuffer <= 0 {
		out.SendBuffer = def.SendBuffer
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = func(*http.Request) bool { return true }
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
