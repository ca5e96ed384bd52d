package sketch

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics collects operational counters for a sketch. It is safe for
// concurrent use. RegisterExpvar exposes the values under /debug/vars.
type Metrics struct {
	starts        atomic.Int64
	stops         atomic.Int64
	renders       atomic.Int64
	renderErrors  atomic.Int64
	reloads       atomic.Int64
	eventsEmitted atomic.Int64

	renderLatencyNs    atomic.Int64
	renderLatencyCount atomic.Int64
	lastRenderNs       atomic.Int64
	litPixels          atomic.Int64

	currentlyRunning atomic.Int32

	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes the metrics with expvar under the
// pixelcanvas_ prefix. Safe to call multiple times; only the first call
// on any Metrics registers, since expvar names are process-global.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}
	if expvar.Get("pixelcanvas_renders_total") != nil {
		return
	}

	expvar.Publish("pixelcanvas_starts_total", expvar.Func(func() any { return m.starts.Load() }))
	expvar.Publish("pixelcanvas_stops_total", expvar.Func(func() any { return m.stops.Load() }))
	expvar.Publish("pixelcanvas_renders_total", expvar.Func(func() any { return m.renders.Load() }))
	expvar.Publish("pixelcanvas_render_errors_total", expvar.Func(func() any { return m.renderErrors.Load() }))
	expvar.Publish("pixelcanvas_reloads_total", expvar.Func(func() any { return m.reloads.Load() }))
	expvar.Publish("pixelcanvas_events_emitted_total", expvar.Func(func() any { return m.eventsEmitted.Load() }))

	expvar.Publish("pixelcanvas_running", expvar.Func(func() any { return m.currentlyRunning.Load() }))
	expvar.Publish("pixelcanvas_lit_pixels", expvar.Func(func() any { return m.litPixels.Load() }))

	expvar.Publish("pixelcanvas_render_latency_last_ms", expvar.Func(func() any {
		return float64(m.lastRenderNs.Load()) / 1e6
	}))
	expvar.Publish("pixelcanvas_render_latency_avg_ms", expvar.Func(func() any {
		return float64(safeDivide(m.renderLatencyNs.Load(), m.renderLatencyCount.Load())) / 1e6
	}))
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Starts        int64
	Stops         int64
	Renders       int64
	RenderErrors  int64
	Reloads       int64
	EventsEmitted int64

	Running   bool
	LitPixels int64

	LastRenderLatency time.Duration
	RenderLatencyAvg  time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Starts:        m.starts.Load(),
		Stops:         m.stops.Load(),
		Renders:       m.renders.Load(),
		RenderErrors:  m.renderErrors.Load(),
		Reloads:       m.reloads.Load(),
		EventsEmitted: m.eventsEmitted.Load(),

		Running:   m.currentlyRunning.Load() > 0,
		LitPixels: m.litPixels.Load(),

		LastRenderLatency: time.Duration(m.lastRenderNs.Load()),
		RenderLatencyAvg:  safeDivide(m.renderLatencyNs.Load(), m.renderLatencyCount.Load()),
	}
}

// IncrementStarts records a start operation.
func (m *Metrics) IncrementStarts() {
	m.starts.Add(1)
}

// IncrementStops records a stop operation.
func (m *Metrics) IncrementStops() {
	m.stops.Add(1)
}

// IncrementReloads records a reload.
func (m *Metrics) IncrementReloads() {
	m.reloads.Add(1)
}

// IncrementRenderErrors records a failed render.
func (m *Metrics) IncrementRenderErrors() {
	m.renderErrors.Add(1)
}

// IncrementEventsEmitted records an event emission.
func (m *Metrics) IncrementEventsEmitted() {
	m.eventsEmitted.Add(1)
}

// RecordRender records a successful render, its duration and the number
// of non-black pixels it produced.
func (m *Metrics) RecordRender(d time.Duration, lit int) {
	m.renders.Add(1)
	m.renderLatencyNs.Add(d.Nanoseconds())
	m.renderLatencyCount.Add(1)
	m.lastRenderNs.Store(d.Nanoseconds())
	m.litPixels.Store(int64(lit))
}

// SetRunning updates the running gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.currentlyRunning.Store(1)
	} else {
		m.currentlyRunning.Store(0)
	}
}

// Reset sets all metrics back to zero.
func (m *Metrics) Reset() {
	m.starts.Store(0)
	m.stops.Store(0)
	m.renders.Store(0)
	m.renderErrors.Store(0)
	m.reloads.Store(0)
	m.eventsEmitted.Store(0)
	m.renderLatencyNs.Store(0)
	m.renderLatencyCount.Store(0)
	m.lastRenderNs.Store(0)
	m.litPixels.Store(0)
	m.currentlyRunning.Store(0)
}

func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}
