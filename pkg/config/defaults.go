package config

import "time"

// Playback defaults.
const (
	DefaultPlaybackSpeed    = time.Second
	DefaultPlaybackMinSpeed = 10 * time.Millisecond
	DefaultPlaybackAutoplay = false
)

// Module defaults.
const (
	DefaultArrayInitialCapacity = 4
	DefaultHeapMode             = HeapModeMax
)

// Render defaults.
const (
	DefaultRenderColor    = true
	DefaultRenderWidth    = 100
	DefaultRenderMaxSteps = 0
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatText
)

// Telemetry defaults.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryMetricsAddr  = ""
	DefaultTelemetryEnvironment  = ""
)

// Accepted enum values.
const (
	HeapModeMax = "max"
	HeapModeMin = "min"

	LogFormatText = "text"
	LogFormatJSON = "json"
)
