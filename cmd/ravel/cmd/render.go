package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog/log"

	"github.com/go-drift/ravel/cmd/ravel/internal/config"
	"github.com/go-drift/ravel/cmd/ravel/internal/demo"
	"github.com/go-drift/ravel/pkg/dom/memdom"
	"github.com/go-drift/ravel/pkg/run"
	raveltest "github.com/go-drift/ravel/pkg/testing"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Run a demo app and print the resulting HTML",
		Long: `Run a bundled demo app against an in-memory document.

The app is mounted, a scripted sequence of events is dispatched (one per
run loop cycle) and the final document is printed without position
markers.

Apps:
  counter   A counter with a selectable step
  todo      A todo list with filters and inline editing

Flags:
  --steps N          Scale the script (default: 2)
  --metrics          Print run loop metrics in Prometheus text format
  --trace            Print per-cycle timings
  --snapshot FILE    Write a JSON snapshot of the document to FILE
  --debug ADDR       Serve /cycles, /runtime and /metrics on ADDR after
                     rendering, until interrupted

When no app is named, app.demo from ravel.yaml is used. Metrics are also
printed when metrics.enabled is set there.`,
		Usage: "ravel render [app] [--steps N] [--metrics] [--trace] [--snapshot FILE] [--debug ADDR]",
		Run: func(ctx context.Context, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			return runRender(ctx, os.Stdout, cfg, args)
		},
	})
}

type renderOptions struct {
	app      string
	steps    int
	metrics  bool
	trace    bool
	snapshot string
	debug    string
}

func parseRenderArgs(args []string) (renderOptions, error) {
	opts := renderOptions{steps: 2}
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--metrics":
			opts.metrics = true
		case "--trace":
			opts.trace = true
		case "--steps", "--snapshot", "--debug":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", arg)
			}
			i++
			switch arg {
			case "--snapshot":
				opts.snapshot = args[i]
				continue
			case "--debug":
				opts.debug = args[i]
				continue
			}
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 {
				return opts, fmt.Errorf("--steps must be a non-negative integer (got %q)", args[i])
			}
			opts.steps = n
		default:
			if strings.HasPrefix(arg, "--") {
				return opts, fmt.Errorf("unknown flag %s", arg)
			}
			if opts.app != "" {
				return opts, fmt.Errorf("unexpected argument %q", arg)
			}
			opts.app = arg
		}
	}
	return opts, nil
}

func runRender(ctx context.Context, w io.Writer, cfg *config.Resolved, args []string) error {
	opts, err := parseRenderArgs(args)
	if err != nil {
		return err
	}
	if opts.app == "" {
		opts.app = cfg.Demo
	}
	app, ok := demo.Lookup(opts.app)
	if !ok {
		return fmt.Errorf("unknown app %q (see \"ravel render --help\")", opts.app)
	}

	logger := log.Logger.With().Str("app", app.Name).Logger()
	runOpts := []run.Option{run.WithLogger(logger)}

	var metrics *run.Metrics
	if opts.metrics || cfg.MetricsEnabled {
		metrics, err = run.NewMetrics(run.MetricsConfig{Enabled: true, Namespace: cfg.MetricsNamespace})
		if err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}
		runOpts = append(runOpts, run.WithMetrics(metrics))
	}

	var trace *run.TraceBuffer
	if opts.trace || opts.debug != "" {
		trace = run.NewTraceBuffer(0, 0)
		runOpts = append(runOpts, run.WithTrace(trace))
	}

	var debug *run.DebugServer
	if opts.debug != "" {
		runtimeStats := run.NewRuntimeBuffer(0, time.Second)
		sampleCtx, stopSampling := context.WithCancel(ctx)
		defer stopSampling()
		go runtimeStats.Sample(sampleCtx)

		debug = &run.DebugServer{Trace: trace, Runtime: runtimeStats, Metrics: metrics, Logger: logger}
		if _, err := debug.Start(opts.debug); err != nil {
			return err
		}
		defer debug.Stop()
	}

	steps := app.Script(opts.steps)
	logger.Info().Int("steps", len(steps)).Msg("rendering")

	doc := memdom.New()
	res, err := app.Run(ctx, doc, steps, runOpts...)
	if err != nil {
		return fmt.Errorf("%s: %w", app.Name, err)
	}

	fmt.Fprintln(w, res.HTML)
	fmt.Fprintf(w, "\nmodel:  %s\ncycles: %d\n", res.Model, res.Cycles)

	stats := doc.Stats()
	fmt.Fprintf(w, "dom:    %d creates, %d inserts, %d removes, %d text updates, %d attribute writes\n",
		stats.Creates, stats.Inserts, stats.Removes, stats.SetData, stats.SetAttributes+stats.RemoveAttributes)

	if opts.trace {
		writeTimeline(w, trace.Snapshot())
	}
	if metrics != nil {
		if err := writeMetrics(w, metrics); err != nil {
			return err
		}
	}
	if opts.snapshot != "" {
		if err := raveltest.CaptureDocument(doc).UpdateFile(opts.snapshot); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		logger.Info().Str("path", opts.snapshot).Msg("snapshot written")
	}
	if debug != nil {
		logger.Info().Msg("serving diagnostics until interrupted")
		<-ctx.Done()
	}
	return nil
}

func writeTimeline(w io.Writer, tl run.Timeline) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-6s %-7s %-12s %-12s %-12s\n", "cycle", "events", "run", "sync", "rebuild")
	for _, s := range tl.Samples {
		fmt.Fprintf(w, "%-6d %-7d %-12s %-12s %-12s\n", s.Cycle, s.Events, s.Phases.Run, s.Phases.Sync, s.Phases.Rebuild)
	}
	fmt.Fprintf(w, "slow cycles (> %s): %d\n", tl.Threshold, tl.Slow)
}

func writeMetrics(w io.Writer, m *run.Metrics) error {
	families, err := m.Registry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	fmt.Fprintln(w)
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}
	}
	return nil
}
