// Package main provides the pixelcanvas command, which runs a Lua drawing
// script and shows the result in a window, or renders it headless and
// reports canvas statistics.
package main

import (
	"errors"
	"expvar"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-pixelcanvas/internal/config"
	"github.com/opd-ai/go-pixelcanvas/internal/profiling"
	"github.com/opd-ai/go-pixelcanvas/pkg/sketch"
)

// Version is the current version of pixelcanvas.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	script     string
	headless   bool
	watch      bool
	check      bool
	version    bool
	title      string
	noStatus   bool
	logLevel   string
	jsonLogs   bool
	debugAddr  string
	cpuProfile string
	memProfile string
	tracePath  string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("pixelcanvas", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.script, "s", "", "Path to the Lua sketch script")
	fs.BoolVar(&o.headless, "headless", false, "Render without opening a window and print canvas statistics")
	fs.BoolVar(&o.watch, "watch", false, "Re-render when the script changes on disk")
	fs.BoolVar(&o.check, "check", false, "Validate the sketch table and exit")
	fs.BoolVar(&o.version, "v", false, "Print version and exit")
	fs.StringVar(&o.title, "title", "", "Window title, overriding the sketch table")
	fs.BoolVar(&o.noStatus, "no-status", false, "Hide the status line in the window")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	fs.BoolVar(&o.jsonLogs, "json", false, "Write logs as JSON")
	fs.StringVar(&o.debugAddr, "debug-addr", "", "Serve expvar metrics on this address, e.g. localhost:6060")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&o.memProfile, "memprofile", "", "Write memory profile to file")
	fs.StringVar(&o.tracePath, "trace", "", "Write execution trace to file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

// newLogger builds the slog-backed logger selected by the flags.
func newLogger(o *options, stderr io.Writer) (sketch.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q", o.logLevel)
	}
	if o.jsonLogs {
		return sketch.JSONLogger(stderr, level), nil
	}
	return sketch.TextLogger(stderr, level), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if o.version {
		fmt.Fprintf(stdout, "pixelcanvas version %s\n", Version)
		return 0
	}

	if o.script == "" {
		fmt.Fprintln(stderr, "No script specified. Use -s to specify a Lua sketch.")
		fmt.Fprintln(stderr, "Usage: pixelcanvas -s <script.lua> [-headless] [-watch]")
		return 1
	}
	if _, err := os.Stat(o.script); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(stderr, "Script not found: %s\n", o.script)
		} else {
			fmt.Fprintf(stderr, "Error accessing script %s: %v\n", o.script, err)
		}
		return 1
	}

	if o.check {
		return runCheck(o.script, stdout, stderr)
	}

	logger, err := newLogger(o, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	profConfig := profiling.Config{
		CPUProfilePath: o.cpuProfile,
		MemProfilePath: o.memProfile,
		TracePath:      o.tracePath,
	}
	if profConfig.Enabled() {
		profiler := profiling.New(profConfig)
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			report, err := profiler.Stop()
			if err != nil {
				logger.Warn("failed to stop profiling", "error", err)
				return
			}
			logger.Info("profiling finished", "report", report.String())
		}()
	}

	opts := sketch.DefaultOptions()
	opts.Headless = o.headless
	opts.WatchScript = o.watch
	opts.WindowTitle = o.title
	opts.ShowStatus = !o.noStatus
	opts.Logger = logger

	s, err := sketch.New(o.script, &opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading sketch: %v\n", err)
		return 1
	}

	if o.debugAddr != "" {
		if err := serveMetrics(o.debugAddr, s.Metrics(), logger); err != nil {
			fmt.Fprintf(stderr, "Failed to serve metrics: %v\n", err)
			return 1
		}
	}

	if o.headless && !o.watch {
		return renderOnce(s, logger, stderr)
	}
	return runInteractive(s, o.headless, logger, stderr)
}

// runCheck evaluates the script's top level and prints the resulting
// scene configuration.
func runCheck(path string, stdout, stderr io.Writer) int {
	parser, err := config.NewParser()
	if err != nil {
		fmt.Fprintf(stderr, "Error creating parser: %v\n", err)
		return 1
	}
	defer parser.Close()

	cfg, err := parser.ParseFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: ok (%s)\n", path, cfg)
	return 0
}

// renderOnce renders the sketch a single time and logs what it drew.
func renderOnce(s sketch.Sketch, logger sketch.Logger, stderr io.Writer) int {
	snap, err := s.Render()
	if err != nil {
		fmt.Fprintf(stderr, "Render failed: %v\n", err)
		return 1
	}

	st := s.Status()
	logger.Info("rendered",
		"size", fmt.Sprintf("%dx%d", snap.Width(), snap.Height()),
		"lit", snap.Count(),
		"bounds", snap.ColoredBounds().String(),
		"duration", st.LastRenderDuration,
	)
	return 0
}

// runInteractive starts the sketch and blocks until a signal arrives or
// the window is closed.
func runInteractive(s sketch.Sketch, headless bool, logger sketch.Logger, stderr io.Writer) int {
	stopped := make(chan struct{})
	s.SetErrorHandler(func(err error) {
		logger.Warn("sketch error", "error", err)
	})
	s.SetEventHandler(func(e sketch.Event) {
		logger.Debug("event", "type", e.Type.String(), "message", e.Message)
		if e.Type == sketch.EventStopped {
			close(stopped)
		}
	})

	if err := s.Start(); err != nil {
		fmt.Fprintf(stderr, "Failed to start: %v\n", err)
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-stopped:
			if !headless {
				logger.Info("window closed")
			}
			if err := s.Stop(); err != nil {
				logger.Warn("stop error", "error", err)
			}
			return 0
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Info("received SIGHUP, reloading sketch")
				if err := s.Reload(); err != nil {
					logger.Warn("reload failed", "error", err)
				}
				continue
			}
			logger.Info("shutting down", "signal", sig.String())
			if err := s.Stop(); err != nil {
				fmt.Fprintf(stderr, "Stop error: %v\n", err)
				return 1
			}
			return 0
		}
	}
}

// serveMetrics publishes m under /debug/vars on addr.
func serveMetrics(addr string, m *sketch.Metrics, logger sketch.Logger) error {
	m.RegisterExpvar()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/debug/vars", expvar.Handler())

	go func() {
		if err := http.Serve(ln, mux); err != nil && !errors.Is(err, net.ErrClosed) {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}
