package render

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"zero width", func(c *Config) { c.Width = 0 }, true},
		{"negative height", func(c *Config) { c.Height = -1 }, true},
		{"zero scale", func(c *Config) { c.Scale = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigWindowSize(t *testing.T) {
	tests := []struct {
		name       string
		showStatus bool
		wantHeight int
	}{
		{"canvas only", false, 150},
		{"status strip below canvas", true, 150 + StatusBarHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{Width: 100, Height: 50, Scale: 3, ShowStatus: tt.showStatus}
			if w, h := c.CanvasSize(); w != 300 || h != 150 {
				t.Errorf("CanvasSize() = %dx%d", w, h)
			}
			if w, h := c.WindowSize(); w != 300 || h != tt.wantHeight {
				t.Errorf("WindowSize() = %dx%d, want 300x%d", w, h, tt.wantHeight)
			}
		})
	}
	if StatusBarHeight < int(defaultFontSize) {
		t.Errorf("StatusBarHeight = %d is shorter than the font", StatusBarHeight)
	}
}

func TestFrameMetrics(t *testing.T) {
	fm := NewFrameMetrics(0)
	if fm.updatePeriod != time.Second {
		t.Errorf("default period = %v", fm.updatePeriod)
	}

	start := time.Unix(0, fm.periodStart.Load())
	for i := 1; i <= 30; i++ {
		fm.recordFrameAt(start.Add(time.Duration(i) * time.Second / 60))
	}
	if fm.FPS() != 0 {
		t.Errorf("FPS before a full period = %v", fm.FPS())
	}

	for i := 31; i <= 60; i++ {
		fm.recordFrameAt(start.Add(time.Duration(i) * time.Second / 60))
	}
	if got := fm.FPS(); got < 59.9 || got > 60.1 {
		t.Errorf("FPS() = %v, want 60", got)
	}
}
