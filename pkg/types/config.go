package types

import (
	"errors"
	"time"
)

// Config holds backend selection and connection parameters. It is passed
// explicitly to every constructor; nothing reads process-wide settings.
type Config struct {
	Backend        string        `json:"backend" yaml:"backend"`
	DataDir        string        `json:"data_dir" yaml:"data_dir"`
	Mode           string        `json:"mode" yaml:"mode"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Repository modes. Connected repositories issue one statement per call;
// disconnected repositories work against an in-memory table and reconcile on
// Save.
const (
	ModeConnected    = "connected"
	ModeDisconnected = "disconnected"
)

// DefaultConnectTimeout bounds how long opening the backing store may retry.
const DefaultConnectTimeout = 10 * time.Second

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrModeUnknown    = errors.New("unknown repository mode")
	ErrTimeoutInvalid = errors.New("connect timeout must not be negative")
)

// Backend lifecycle errors.
var (
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrDetached        = errors.New("backend is detached")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. An empty Mode is valid and means connected.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.Mode {
	case "", ModeConnected, ModeDisconnected:
	default:
		return ErrModeUnknown
	}
	if c.ConnectTimeout < 0 {
		return ErrTimeoutInvalid
	}
	return nil
}

// GetMode returns the effective repository mode.
func (c Config) GetMode() string {
	if c.Mode == "" {
		return ModeConnected
	}
	return c.Mode
}

// GetConnectTimeout returns the effective connect timeout.
func (c Config) GetConnectTimeout() time.Duration {
	if c.ConnectTimeout == 0 {
		return DefaultConnectTimeout
	}
	return c.ConnectTimeout
}
