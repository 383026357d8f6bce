// Package commands implements CLI command handlers for algoviz.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/heap"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/config"
	"github.com/Sumatoshi-tech/algoviz/pkg/observability"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
	"github.com/Sumatoshi-tech/algoviz/pkg/version"
)

// metricsReadHeaderTimeout bounds header reads on the scrape server.
const metricsReadHeaderTimeout = 5 * time.Second

// app carries state shared by every subcommand: the loaded configuration,
// the observability providers and the optional Prometheus scrape server.
type app struct {
	cfgFile string
	verbose bool
	quiet   bool
	noColor bool

	cfg       *config.Config
	providers observability.Providers
	engine    *observability.EngineMetrics
	meter     metric.Meter

	metricsSrv      *http.Server
	metricsProvider *sdkmetric.MeterProvider
}

// NewRootCommand builds the algoviz command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "algoviz",
		Short: "Step-by-step data structure and algorithm visualizer",
		Long: `algoviz records every operation on a dynamic array, binary search tree,
AVL tree, binary heap or heapsort as a sequence of reversible steps and plays
them back as terminal transcripts, live animations or HTML reports.

Commands:
  play      Run operations and print their steps
  demo      Run a built-in scenario
  report    Render an HTML report with per-step charts
  validate  Check a scenario file
  modules   List modules and operations
  mcp       Start the MCP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./algoviz.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress the run summary")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newPlayCommand(a))
	rootCmd.AddCommand(newDemoCommand(a))
	rootCmd.AddCommand(newReportCommand(a))
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newModulesCommand())
	rootCmd.AddCommand(newMCPCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}

	if a.noColor {
		cfg.Render.Color = false
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	a.cfg = cfg

	mode := observability.ModeCLI
	if cmd.Name() == mcpCommandName {
		mode = observability.ModeMCP
	}

	obsCfg := cfg.Observability(mode, version.Version)
	if a.verbose {
		obsCfg.LogLevel = slog.LevelDebug
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	a.providers = providers
	a.meter = providers.Meter

	if cfg.Telemetry.MetricsAddr != "" {
		serveErr := a.serveMetrics(cfg.Telemetry.MetricsAddr)
		if serveErr != nil {
			return serveErr
		}
	}

	engine, err := observability.NewEngineMetrics(a.meter)
	if err != nil {
		return fmt.Errorf("init engine metrics: %w", err)
	}

	a.engine = engine

	return nil
}

// serveMetrics replaces the meter with a Prometheus-backed one and serves
// it with health endpoints on addr.
func (a *app) serveMetrics(addr string) error {
	mp, handler, err := observability.NewPrometheus()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	a.metricsProvider = mp
	a.meter = mp.Meter("algoviz")
	a.metricsSrv = &http.Server{
		Handler:           observability.NewMux(a.providers.Tracer, handler),
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		serveErr := a.metricsSrv.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			a.providers.Logger.Error("metrics server stopped", "addr", addr, "error", serveErr)
		}
	}()

	a.providers.Logger.Info("serving metrics", "addr", listener.Addr().String())

	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error

	if a.metricsSrv != nil {
		errs = append(errs, a.metricsSrv.Shutdown(ctx))
	}

	if a.metricsProvider != nil {
		errs = append(errs, a.metricsProvider.Shutdown(ctx))
	}

	if a.providers.Shutdown != nil {
		errs = append(errs, a.providers.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

// sessionOptions wires configuration and telemetry into a new session.
// extra options apply last.
func (a *app) sessionOptions(speed time.Duration, extra ...session.Option) []session.Option {
	mode, err := heap.ParseMode(a.cfg.Heap.Mode)
	if err != nil {
		mode = heap.Max
	}

	opts := []session.Option{
		session.WithLogger(a.providers.Logger),
		session.WithTracer(a.providers.Tracer),
		session.WithMetrics(a.engine),
		session.WithInitialCapacity(a.cfg.Array.InitialCapacity),
		session.WithHeapMode(mode),
		session.WithSequencerOptions(anim.WithMinSpeed(a.cfg.Playback.MinSpeed), anim.WithSpeed(speed)),
	}

	return append(opts, extra...)
}
