package sketch

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/opd-ai/go-pixelcanvas/internal/config"
	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

// Sketch is a running drawing script with full lifecycle control.
// It is safe for concurrent use from multiple goroutines.
type Sketch interface {
	// Start renders the script once and, unless headless, opens the
	// display window. It returns after the first render; the display and
	// the file watcher run in background goroutines. A failing first
	// render is returned and the sketch stays stopped.
	Start() error

	// Stop closes the window and the watcher and waits for them to exit.
	// Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// Render evaluates the script from scratch and returns the new
	// snapshot. It works whether or not the sketch is running; when
	// running, the window shows the new snapshot. On error the previous
	// snapshot stays current.
	Render() (*canvas.Snapshot, error)

	// Reload re-reads the script and renders it. It returns ErrNotRunning
	// on a stopped sketch.
	Reload() error

	// Snapshot returns the most recent successful render, or nil.
	Snapshot() *canvas.Snapshot

	// Config returns the scene configuration of the most recent
	// successful render, or the defaults before the first one.
	Config() config.Config

	// IsRunning returns true if the sketch is currently running.
	IsRunning() bool

	// Status returns detailed status information about the sketch.
	Status() Status

	// SetErrorHandler registers a callback for runtime errors such as a
	// failed reload. Panics in the handler are recovered.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle events.
	SetEventHandler(handler EventHandler)

	// Metrics returns the metrics collector for this instance.
	Metrics() *Metrics
}

// New creates a Sketch from a script file on disk. The file is re-read
// on every render. The sketch is created but not started.
//
// Example:
//
//	s, err := sketch.New("rings.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	snap, err := s.Render()
func New(scriptPath string, opts *Options) (Sketch, error) {
	if _, err := os.ReadFile(scriptPath); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return newSketch(scriptPath, scriptPath, func() ([]byte, error) {
		return os.ReadFile(scriptPath)
	}, opts), nil
}

// NewFromFS creates a Sketch from a script in fsys, such as an embed.FS.
//
// Example:
//
//	//go:embed sketches/*.lua
//	var sketches embed.FS
//
//	s, err := sketch.NewFromFS(sketches, "sketches/rings.lua", nil)
func NewFromFS(fsys fs.FS, scriptPath string, opts *Options) (Sketch, error) {
	if _, err := fs.ReadFile(fsys, scriptPath); err != nil {
		return nil, fmt.Errorf("read script from FS: %w", err)
	}

	s := newSketch("embedded:"+scriptPath, scriptPath, func() ([]byte, error) {
		return fs.ReadFile(fsys, scriptPath)
	}, opts)
	s.watchPath = ""
	return s, nil
}

// NewFromReader creates a Sketch from script content read once from r.
// Reload re-renders the same content.
func NewFromReader(r io.Reader, opts *Options) (Sketch, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	s := newSketch("reader", "sketch", func() ([]byte, error) {
		return content, nil
	}, opts)
	s.watchPath = ""
	return s, nil
}

func newSketch(source, name string, load func() ([]byte, error), opts *Options) *sketchImpl {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}
	logger := opts.Logger
	if logger == nil {
		logger = NopLogger()
	}

	return &sketchImpl{
		opts:      *opts,
		source:    source,
		name:      name,
		watchPath: name,
		load:      load,
		metrics:   metrics,
		logger:    logger,
		cfg:       config.DefaultConfig(),
	}
}
