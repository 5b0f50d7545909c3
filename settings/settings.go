// Package settings builds the node's typed configuration from gocore config
// (settings.conf / environment), with sensible defaults for every key.
package settings

import (
	"time"
)

func NewSettings() *Settings {
	return &Settings{
		ClientName:         getString("clientName", "pivxd"),
		ServiceName:        getString("SERVICE_NAME", "pivxd"),
		Version:            getString("version", "dev"),
		Commit:             getString("commit", "unknown"),
		LogLevel:           getString("logLevel", "INFO"),
		LoggerType:         getString("loggerType", "zerolog"),
		PrometheusEndpoint: getString("prometheusEndpoint", "/metrics"),

		TracingEnabled:      getBool("tracing_enabled", false),
		TracingCollectorURL: getURL("tracing_collector_url", "http://localhost:4318"),
		TracingSampleRate:   getFloat64("tracing_sample_rate", 1.0),

		RPC: RPCSettings{
			InitialWarmupStatus: getString("rpc_initialWarmupStatus", "starting"),
			HelpCacheTTL:        getDurationSeconds("rpc_helpCacheTTLSeconds", time.Hour),
			SafeMode:            getBool("rpc_safeMode", false),
			TimerDriver:         getString("rpc_timerDriver", "standard"),
		},
	}
}
