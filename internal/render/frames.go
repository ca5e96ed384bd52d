package render

import (
	"sync/atomic"
	"time"
)

// FrameMetrics tracks the display frame rate. It is safe for concurrent use.
type FrameMetrics struct {
	frames       atomic.Int64
	lastFPS      atomic.Int64 // FPS * 1000
	periodStart  atomic.Int64 // Unix nano
	updatePeriod time.Duration
}

// NewFrameMetrics creates a FrameMetrics that recomputes the rate every
// updatePeriod (one second if updatePeriod is not positive).
func NewFrameMetrics(updatePeriod time.Duration) *FrameMetrics {
	if updatePeriod <= 0 {
		updatePeriod = time.Second
	}
	fm := &FrameMetrics{updatePeriod: updatePeriod}
	fm.periodStart.Store(time.Now().UnixNano())
	return fm
}

// RecordFrame counts one presented frame.
func (fm *FrameMetrics) RecordFrame() {
	fm.recordFrameAt(time.Now())
}

func (fm *FrameMetrics) recordFrameAt(now time.Time) {
	fm.frames.Add(1)

	start := fm.periodStart.Load()
	elapsed := time.Duration(now.UnixNano() - start)
	if elapsed < fm.updatePeriod {
		return
	}
	if fm.periodStart.CompareAndSwap(start, now.UnixNano()) {
		frames := fm.frames.Swap(0)
		fm.lastFPS.Store(int64(float64(frames) / elapsed.Seconds() * 1000))
	}
}

// FPS returns the frame rate measured over the last complete period.
func (fm *FrameMetrics) FPS() float64 {
	return float64(fm.lastFPS.Load()) / 1000
}
