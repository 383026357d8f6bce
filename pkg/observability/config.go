// Package observability provides OpenTelemetry-based tracing, metrics and
// structured logging for the algoviz CLI and MCP server.
package observability

import "log/slog"

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is a one-shot CLI command.
	ModeCLI AppMode = "cli"
	// ModeMCP is the MCP stdio server.
	ModeMCP AppMode = "mcp"
)

// Config is the telemetry and logging setup of one process. An empty
// OTLPEndpoint keeps everything local: logs only, no-op tracer and meter.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string // deployment environment, e.g. "dev"
	Mode           AppMode

	OTLPEndpoint string // gRPC collector address, e.g. "localhost:4317"
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	LogLevel slog.Level
	LogJSON  bool
}

// DefaultConfig returns the zero-config setup.
func DefaultConfig() Config {
	return Config{
		ServiceName: scopeName,
		Mode:        ModeCLI,
		LogLevel:    slog.LevelInfo,
	}
}
