// Package profiling records CPU, heap and execution-trace profiles for a
// pixelcanvas run, for use with go tool pprof and go tool trace.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
	"time"
)

var (
	// ErrActive is returned by Start on a running session.
	ErrActive = errors.New("profiling session already active")

	// ErrInactive is returned by Stop when no session is running.
	ErrInactive = errors.New("profiling session not active")
)

// Config selects which profiles to record. Empty paths disable the
// corresponding profile.
type Config struct {
	// CPUProfilePath receives the CPU profile.
	CPUProfilePath string

	// MemProfilePath receives a heap profile written when the session stops.
	MemProfilePath string

	// TracePath receives a runtime execution trace.
	TracePath string
}

// Enabled reports whether any profile is configured.
func (c Config) Enabled() bool {
	return c.CPUProfilePath != "" || c.MemProfilePath != "" || c.TracePath != ""
}

// Report summarises a finished session.
type Report struct {
	Duration   time.Duration
	HeapAlloc  uint64 // bytes live at stop, after a GC
	TotalAlloc uint64 // bytes allocated during the session
	NumGC      uint32 // collections during the session
	Goroutines int
}

// String formats the report for a log line.
func (r Report) String() string {
	return fmt.Sprintf("%v, heap %d KiB, allocated %d KiB, %d GCs, %d goroutines",
		r.Duration.Round(time.Millisecond), r.HeapAlloc/1024, r.TotalAlloc/1024, r.NumGC, r.Goroutines)
}

// Profiler runs one profiling session at a time.
type Profiler struct {
	config    Config
	cpuFile   *os.File
	traceFile *os.File
	started   time.Time
	baseline  runtime.MemStats
	active    bool
	mu        sync.Mutex
}

// New creates a Profiler. Nothing is recorded until Start.
func New(config Config) *Profiler {
	return &Profiler{config: config}
}

// Config returns the profiler configuration.
func (p *Profiler) Config() Config {
	return p.config
}

// Start opens the configured outputs and begins CPU profiling and
// tracing. On error nothing is left running.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active {
		return ErrActive
	}

	if path := p.config.CPUProfilePath; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	if path := p.config.TracePath; path != "" {
		f, err := os.Create(path)
		if err == nil {
			err = trace.Start(f)
			if err != nil {
				f.Close()
			}
		}
		if err != nil {
			p.stopCPU()
			return fmt.Errorf("start trace: %w", err)
		}
		p.traceFile = f
	}

	runtime.ReadMemStats(&p.baseline)
	p.started = time.Now()
	p.active = true
	return nil
}

// Stop ends the session, writes the heap profile if configured and
// returns a summary. All outputs are closed even if one of them fails.
func (p *Profiler) Stop() (Report, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active {
		return Report{}, ErrInactive
	}
	p.active = false

	var errs []error
	if p.traceFile != nil {
		trace.Stop()
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close trace: %w", err))
		}
		p.traceFile = nil
	}
	if err := p.stopCPU(); err != nil {
		errs = append(errs, err)
	}

	runtime.GC()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	if path := p.config.MemProfilePath; path != "" {
		if err := WriteHeapProfile(path); err != nil {
			errs = append(errs, err)
		}
	}

	report := Report{
		Duration:   time.Since(p.started),
		HeapAlloc:  ms.HeapAlloc,
		TotalAlloc: ms.TotalAlloc - p.baseline.TotalAlloc,
		NumGC:      ms.NumGC - p.baseline.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
	return report, errors.Join(errs...)
}

func (p *Profiler) stopCPU() error {
	if p.cpuFile == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := p.cpuFile.Close()
	p.cpuFile = nil
	if err != nil {
		return fmt.Errorf("close CPU profile: %w", err)
	}
	return nil
}

// Active reports whether a session is running.
func (p *Profiler) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// WriteHeapProfile writes a heap profile to path after forcing a GC.
// It does not need a running session.
func WriteHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heap profile: %w", err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write heap profile: %w", err)
	}
	return nil
}
