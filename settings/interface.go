package settings

import (
	"net/url"
	"time"
)

// Settings is the typed configuration for the node, populated once at startup
// by NewSettings and passed by reference to every service.
type Settings struct {
	ClientName         string
	ServiceName        string
	Version            string
	Commit             string
	LogLevel           string
	LoggerType         string
	PrometheusEndpoint string

	TracingEnabled      bool
	TracingCollectorURL *url.URL
	TracingSampleRate   float64

	RPC RPCSettings
}

// RPCSettings configures the RPC dispatch service.
type RPCSettings struct {
	// InitialWarmupStatus is the status message the warmup gate starts with.
	InitialWarmupStatus string

	// HelpCacheTTL bounds how long generated help listings are cached.
	HelpCacheTTL time.Duration

	// SafeMode restricts dispatch to commands flagged as safe-mode allowed.
	SafeMode bool

	// TimerDriver names the timer backend the daemon registers ("standard"
	// selects the time.AfterFunc driver; empty registers none).
	TimerDriver string
}
