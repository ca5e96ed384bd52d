package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

// ErrGameTerminated is returned when the game loop is terminated via context cancellation.
var ErrGameTerminated = errors.New("game terminated")

// TextRendererInterface defines the interface for text rendering.
// This allows for mocking in tests.
type TextRendererInterface interface {
	DrawText(screen *ebiten.Image, textStr string, x, y float64, clr color.RGBA)
	MeasureText(textStr string) (width, height float64)
	LineHeight() float64
	SetFontSize(size float64)
	FontSize() float64
}

// statusBackground fills the status strip.
var statusBackground = color.RGBA{A: 0xb0}

// Game implements ebiten.Game and presents the most recent canvas snapshot.
type Game struct {
	config       Config
	textRenderer TextRendererInterface
	frames       *FrameMetrics
	snapshot     *canvas.Snapshot
	frame        *ebiten.Image
	dirty        bool
	status       string
	mu           sync.RWMutex
	running      bool
	ctx          context.Context
}

// NewGame creates a new Game instance with the provided configuration.
func NewGame(config Config) *Game {
	return NewGameWithRenderer(config, NewTextRenderer())
}

// NewGameWithRenderer creates a new Game instance with a custom text renderer.
// This is useful for testing.
func NewGameWithRenderer(config Config, renderer TextRendererInterface) *Game {
	return &Game{
		config:       config,
		textRenderer: renderer,
		frames:       NewFrameMetrics(time.Second),
	}
}

// SetContext sets a context for the game loop. When the context is cancelled,
// the game loop will terminate gracefully.
func (g *Game) SetContext(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ctx = ctx
}

// SetSnapshot replaces the displayed image. It is uploaded to the GPU on
// the next Draw.
func (g *Game) SetSnapshot(s *canvas.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.snapshot = s
	g.dirty = true
}

// Snapshot returns the snapshot currently on display.
func (g *Game) Snapshot() *canvas.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshot
}

// SetStatus sets the text of the status line.
func (g *Game) SetStatus(status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = status
}

// Status returns the text of the status line.
func (g *Game) Status() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status
}

// Update implements ebiten.Game.Update.
// It is called every tick (typically 60 times per second).
func (g *Game) Update() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	// Check for context cancellation (used for programmatic shutdown)
	if g.ctx != nil {
		select {
		case <-g.ctx.Done():
			return ErrGameTerminated
		default:
		}
	}
	return nil
}

// Draw implements ebiten.Game.Draw.
// It is called every frame to render the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.frames.RecordFrame()
	screen.Fill(color.Black)

	if g.dirty {
		g.frame = nil
		if g.snapshot != nil && g.snapshot.Width() > 0 && g.snapshot.Height() > 0 {
			g.frame = ebiten.NewImageFromImage(UpscaleSnapshot(g.snapshot, g.config.Scale))
		}
		g.dirty = false
	}
	if g.frame != nil {
		screen.DrawImage(g.frame, nil)
	}

	if g.config.ShowStatus {
		g.drawStatus(screen)
	}
}

// drawStatus draws the status line and frame rate in the strip below the
// canvas, so no canvas row is covered.
func (g *Game) drawStatus(screen *ebiten.Image) {
	line := fmt.Sprintf("%.0f fps", g.frames.FPS())
	if g.status != "" {
		line = g.status + "  " + line
	}

	_, top := g.config.CanvasSize()
	w := screen.Bounds().Dx()
	vector.DrawFilledRect(screen, 0, float32(top), float32(w), float32(StatusBarHeight), statusBackground, false)

	g.textRenderer.DrawText(screen, line, 2, float64(top), g.config.StatusColor)
}

// Layout implements ebiten.Game.Layout.
// It returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config.WindowSize()
}

// Config returns the current configuration.
func (g *Game) Config() Config {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.config
}

// SetConfig updates the game configuration in-place, e.g. after a reload
// changed the canvas size. The window is resized to match.
func (g *Game) SetConfig(config Config) {
	g.mu.Lock()
	resize := g.running && (config.Width != g.config.Width || config.Height != g.config.Height || config.Scale != g.config.Scale || config.ShowStatus != g.config.ShowStatus)
	retitle := g.running && config.Title != g.config.Title
	g.config = config
	g.dirty = true
	g.mu.Unlock()

	if resize {
		ebiten.SetWindowSize(config.WindowSize())
	}
	if retitle {
		ebiten.SetWindowTitle(config.Title)
	}
}

// Run starts the Ebiten game loop.
// This function blocks until the window is closed or the context is
// cancelled; cancellation returns nil.
func (g *Game) Run() error {
	cfg := g.Config()
	ebiten.SetWindowSize(cfg.WindowSize())
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.mu.Lock()
	g.running = true
	g.mu.Unlock()

	err := ebiten.RunGame(g)

	g.mu.Lock()
	g.running = false
	g.mu.Unlock()

	if errors.Is(err, ErrGameTerminated) {
		return nil
	}
	return err
}

// IsRunning returns whether the game loop is currently running.
func (g *Game) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

// FPS returns the measured frame rate.
func (g *Game) FPS() float64 {
	return g.frames.FPS()
}
