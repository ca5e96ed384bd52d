package sketch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-pixelcanvas/internal/config"
	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

// sketchImpl is the private implementation of the Sketch interface.
type sketchImpl struct {
	// Source
	opts      Options
	source    string
	name      string
	watchPath string // empty when the script has no file on disk
	load      func() ([]byte, error)

	// Components
	metrics *Metrics
	logger  Logger
	display display

	// Render results, guarded by mu
	snapshot     *canvas.Snapshot
	cfg          config.Config
	lastRender   time.Time
	lastDuration time.Duration
	lastErr      error
	status       string
	renderCount  atomic.Uint64

	// State
	running   atomic.Bool
	startTime time.Time

	// Handlers
	errorHandler ErrorHandler
	eventHandler EventHandler

	// Synchronization
	mu        sync.RWMutex
	renderMu  sync.Mutex // serializes renders
	lifecycle sync.Mutex // serializes Start and Stop
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// Verify interface implementation at compile time.
var _ Sketch = (*sketchImpl)(nil)

// Start renders the sketch and starts the display and watcher.
func (s *sketchImpl) Start() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.running.Load() {
		return ErrAlreadyRunning
	}

	if _, err := s.Render(); err != nil {
		return fmt.Errorf("initial render: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	var watcher *scriptWatcher
	if s.opts.WatchScript {
		if s.watchPath == "" {
			s.logger.Warn("script watching needs a file on disk; ignoring", "source", s.source)
		} else {
			w, err := newScriptWatcher(s.watchPath, s.opts.WatchDebounce, s.Reload, s.notifyError)
			if err != nil {
				cancel()
				return fmt.Errorf("watch script: %w", err)
			}
			watcher = w
		}
	}

	s.mu.Lock()
	s.ctx, s.cancel = ctx, cancel
	s.startTime = time.Now()
	s.mu.Unlock()

	// Set running state BEFORE starting goroutines so Reload from the
	// watcher sees a running sketch.
	s.running.Store(true)
	s.metrics.IncrementStarts()
	s.metrics.SetRunning(true)

	if watcher != nil {
		watcher.Start()
		s.logger.Debug("watching script", "path", s.watchPath)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if s.opts.Headless {
			<-ctx.Done()
		} else {
			s.runDisplay(ctx)
			// The window may have been closed by the user.
			cancel()
		}

		s.running.Store(false)
		s.metrics.SetRunning(false)
		if watcher != nil {
			watcher.Stop()
		}
		s.emitEvent(EventStopped, "Sketch stopped")
	}()

	s.logger.Info("sketch started", "source", s.source, "headless", s.opts.Headless)
	s.emitEvent(EventStarted, "Sketch started")
	return nil
}

// Stop cancels the background goroutines and waits for them.
func (s *sketchImpl) Stop() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.RLock()
	cancel := s.cancel
	s.mu.RUnlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-done:
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
		s.metrics.IncrementStops()
		s.logger.Info("sketch stopped", "source", s.source)
		return nil
	case <-time.After(timeout):
		err := fmt.Errorf("shutdown timeout after %v: some goroutines did not stop", timeout)
		s.notifyError(err)
		return err
	}
}

// Render evaluates the script and publishes the new snapshot.
func (s *sketchImpl) Render() (*canvas.Snapshot, error) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	source, err := s.load()
	if err != nil {
		return nil, s.renderFailed(fmt.Errorf("read script: %w", err))
	}

	f, err := renderScript(s.name, source, s.opts)
	if err != nil {
		return nil, s.renderFailed(err)
	}
	if f.output != "" {
		s.logger.Info("script output", "source", s.source, "output", f.output)
	}

	lit := f.snapshot.Count()
	status := statusLine(f, lit)

	s.mu.Lock()
	s.snapshot = f.snapshot
	s.cfg = f.config
	s.lastRender = time.Now()
	s.lastDuration = f.duration
	s.lastErr = nil
	s.status = status
	s.mu.Unlock()

	s.renderCount.Add(1)
	s.metrics.RecordRender(f.duration, lit)
	s.showFrame(f, status)

	s.logger.Debug("rendered",
		"size", fmt.Sprintf("%dx%d", f.config.Width, f.config.Height),
		"lit", lit,
		"duration", f.duration,
	)
	s.emitEvent(EventRendered, fmt.Sprintf("Rendered %dx%d in %v", f.config.Width, f.config.Height, f.duration))
	return f.snapshot, nil
}

// renderFailed records a render error and returns it.
func (s *sketchImpl) renderFailed(err error) error {
	s.metrics.IncrementRenderErrors()
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.logger.Warn("render failed", "source", s.source, "error", err)
	return err
}

// Reload re-renders a running sketch.
func (s *sketchImpl) Reload() error {
	if !s.running.Load() {
		return ErrNotRunning
	}

	if _, err := s.Render(); err != nil {
		wrappedErr := fmt.Errorf("reload failed: %w", err)
		s.notifyError(wrappedErr)
		return wrappedErr
	}

	s.metrics.IncrementReloads()
	s.emitEvent(EventReloaded, "Sketch reloaded")
	return nil
}

// Snapshot returns the most recent successful render.
func (s *sketchImpl) Snapshot() *canvas.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Config returns the scene configuration of the most recent render.
func (s *sketchImpl) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// IsRunning returns true if the sketch is currently running.
func (s *sketchImpl) IsRunning() bool {
	return s.running.Load()
}

// Status returns detailed status information about the sketch.
func (s *sketchImpl) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		Running:            s.running.Load(),
		StartTime:          s.startTime,
		RenderCount:        s.renderCount.Load(),
		LastRender:         s.lastRender,
		LastRenderDuration: s.lastDuration,
		LastError:          s.lastErr,
		Source:             s.source,
	}
}

// SetErrorHandler registers a callback for runtime errors.
func (s *sketchImpl) SetErrorHandler(handler ErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (s *sketchImpl) SetEventHandler(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventHandler = handler
}

// Metrics returns the metrics collector for this instance.
func (s *sketchImpl) Metrics() *Metrics {
	return s.metrics
}

// notifyError invokes the error handler asynchronously and emits an
// EventError.
func (s *sketchImpl) notifyError(err error) {
	s.mu.RLock()
	handler := s.errorHandler
	s.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				// Recover from panics in error handler to prevent crashing
				if r := recover(); r != nil {
					s.logger.Error("error handler panicked", "panic", r, "original_error", err)
				}
			}()
			handler(err)
		}()
	}

	s.emitEvent(EventError, err.Error())
}

// emitEvent sends an event to the event handler if configured.
func (s *sketchImpl) emitEvent(eventType EventType, message string) {
	s.metrics.IncrementEventsEmitted()

	s.mu.RLock()
	handler := s.eventHandler
	s.mu.RUnlock()

	if handler == nil {
		return
	}

	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Message:   message,
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("event handler panicked", "panic", r, "event", event.Type)
			}
		}()
		handler(event)
	}()
}

// statusLine summarises a frame for the window status line.
func statusLine(f *frame, lit int) string {
	return fmt.Sprintf("%dx%d  %d lit  %v", f.config.Width, f.config.Height, lit, f.duration.Round(time.Microsecond))
}
