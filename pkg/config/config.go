// Package config provides configuration loading and validation for algoviz:
// a YAML file, ALGOVIZ_ environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/dynarray"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/observability"
)

// Sentinel validation errors.
var (
	ErrInvalidSpeed     = errors.New("playback speed below minimum")
	ErrInvalidMinSpeed  = errors.New("minimum playback speed too small")
	ErrInvalidCapacity  = errors.New("invalid initial array capacity")
	ErrInvalidHeapMode  = errors.New("heap mode must be max or min")
	ErrInvalidWidth     = errors.New("render width must be positive")
	ErrInvalidMaxSteps  = errors.New("render max steps must not be negative")
	ErrInvalidLogLevel  = errors.New("unknown log level")
	ErrInvalidLogFormat = errors.New("log format must be text or json")
)

const (
	envPrefix = "ALGOVIZ"

	// otelEndpointEnv is the standard OTLP endpoint variable, honored as a
	// fallback for telemetry.otlp_endpoint.
	otelEndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// Config holds all configuration for algoviz.
type Config struct {
	Playback  PlaybackConfig  `mapstructure:"playback"`
	Array     ArrayConfig     `mapstructure:"array"`
	Heap      HeapConfig      `mapstructure:"heap"`
	Render    RenderConfig    `mapstructure:"render"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// PlaybackConfig holds sequencer timing.
type PlaybackConfig struct {
	Speed    time.Duration `mapstructure:"speed"`
	MinSpeed time.Duration `mapstructure:"min_speed"`
	Autoplay bool          `mapstructure:"autoplay"`
}

// ArrayConfig holds dynamic array settings.
type ArrayConfig struct {
	InitialCapacity int `mapstructure:"initial_capacity"`
}

// HeapConfig holds binary heap settings.
type HeapConfig struct {
	Mode string `mapstructure:"mode"`
}

// RenderConfig holds transcript rendering settings. MaxSteps of zero renders
// every step.
type RenderConfig struct {
	Color    bool `mapstructure:"color"`
	Width    int  `mapstructure:"width"`
	MaxSteps int  `mapstructure:"max_steps"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds exporter settings. An empty OTLPEndpoint disables
// trace and metric export; an empty MetricsAddr disables the scrape server.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string `mapstructure:"otlp_headers"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
	Environment  string `mapstructure:"environment"`
}

// LoadConfig loads configuration from file and environment variables. An
// empty path searches ./algoviz.yaml, ./config/algoviz.yaml and
// $HOME/.config/algoviz/algoviz.yaml; a missing file there is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("algoviz")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/algoviz")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindErr := viperCfg.BindEnv("telemetry.otlp_endpoint", envPrefix+"_TELEMETRY_OTLP_ENDPOINT", otelEndpointEnv)
	if bindErr != nil {
		return nil, fmt.Errorf("failed to bind env: %w", bindErr)
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Playback: PlaybackConfig{
			Speed:    DefaultPlaybackSpeed,
			MinSpeed: DefaultPlaybackMinSpeed,
			Autoplay: DefaultPlaybackAutoplay,
		},
		Array:   ArrayConfig{InitialCapacity: DefaultArrayInitialCapacity},
		Heap:    HeapConfig{Mode: DefaultHeapMode},
		Render:  RenderConfig{Color: DefaultRenderColor, Width: DefaultRenderWidth, MaxSteps: DefaultRenderMaxSteps},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: DefaultTelemetryOTLPEndpoint,
			MetricsAddr:  DefaultTelemetryMetricsAddr,
			Environment:  DefaultTelemetryEnvironment,
		},
	}
}

func setDefaults(viperCfg *viper.Viper) {
	d := Default()

	viperCfg.SetDefault("playback.speed", d.Playback.Speed)
	viperCfg.SetDefault("playback.min_speed", d.Playback.MinSpeed)
	viperCfg.SetDefault("playback.autoplay", d.Playback.Autoplay)

	viperCfg.SetDefault("array.initial_capacity", d.Array.InitialCapacity)
	viperCfg.SetDefault("heap.mode", d.Heap.Mode)

	viperCfg.SetDefault("render.color", d.Render.Color)
	viperCfg.SetDefault("render.width", d.Render.Width)
	viperCfg.SetDefault("render.max_steps", d.Render.MaxSteps)

	viperCfg.SetDefault("logging.level", d.Logging.Level)
	viperCfg.SetDefault("logging.format", d.Logging.Format)

	viperCfg.SetDefault("telemetry.otlp_endpoint", d.Telemetry.OTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.metrics_addr", d.Telemetry.MetricsAddr)
	viperCfg.SetDefault("telemetry.environment", d.Telemetry.Environment)
}

func validateConfig(config *Config) error {
	if config.Playback.MinSpeed < anim.MinSpeed {
		return fmt.Errorf("%w: %s (floor %s)", ErrInvalidMinSpeed, config.Playback.MinSpeed, anim.MinSpeed)
	}

	if config.Playback.Speed < config.Playback.MinSpeed {
		return fmt.Errorf("%w: %s < %s", ErrInvalidSpeed, config.Playback.Speed, config.Playback.MinSpeed)
	}

	capErr := dynarray.ValidCapacity(config.Array.InitialCapacity)
	if capErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCapacity, capErr)
	}

	if config.Heap.Mode != HeapModeMax && config.Heap.Mode != HeapModeMin {
		return fmt.Errorf("%w: %q", ErrInvalidHeapMode, config.Heap.Mode)
	}

	if config.Render.Width <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, config.Render.Width)
	}

	if config.Render.MaxSteps < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSteps, config.Render.MaxSteps)
	}

	_, levelErr := ParseLevel(config.Logging.Level)
	if levelErr != nil {
		return levelErr
	}

	if config.Logging.Format != LogFormatText && config.Logging.Format != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}

// ParseLevel maps a level name (debug, info, warn, error) to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(name))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, name)
	}

	return level, nil
}

// Observability maps the logging and telemetry sections onto an
// observability configuration for the given mode and version.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version
	cfg.Mode = mode
	cfg.Environment = c.Telemetry.Environment
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.LogJSON = c.Logging.Format == LogFormatJSON

	level, err := ParseLevel(c.Logging.Level)
	if err == nil {
		cfg.LogLevel = level
	}

	return cfg
}
