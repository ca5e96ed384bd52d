//go:build !noebiten

package sketch

import (
	"context"
	"fmt"

	"github.com/opd-ai/go-pixelcanvas/internal/config"
	"github.com/opd-ai/go-pixelcanvas/internal/render"
)

// display holds the window while the sketch runs in windowed mode.
type display struct {
	game *render.Game
}

// renderConfig maps a scene configuration to viewer settings.
func (s *sketchImpl) renderConfig(cfg config.Config) render.Config {
	rc := render.DefaultConfig()
	rc.Width = cfg.Width
	rc.Height = cfg.Height
	rc.Scale = cfg.Scale
	rc.Title = cfg.Title
	if s.opts.WindowTitle != "" {
		rc.Title = s.opts.WindowTitle
	}
	rc.ShowStatus = s.opts.ShowStatus
	return rc
}

// runDisplay opens the window and blocks until it is closed or ctx is
// cancelled.
func (s *sketchImpl) runDisplay(ctx context.Context) {
	s.mu.Lock()
	game := render.NewGame(s.renderConfig(s.cfg))
	game.SetContext(ctx)
	game.SetSnapshot(s.snapshot)
	game.SetStatus(s.status)
	s.display.game = game
	s.mu.Unlock()

	if err := game.Run(); err != nil {
		s.notifyError(fmt.Errorf("display: %w", err))
	}

	s.mu.Lock()
	s.display.game = nil
	s.mu.Unlock()
}

// showFrame hands a new render to the window, if one is open.
func (s *sketchImpl) showFrame(f *frame, status string) {
	s.mu.RLock()
	game := s.display.game
	s.mu.RUnlock()
	if game == nil {
		return
	}

	if rc := s.renderConfig(f.config); rc != game.Config() {
		game.SetConfig(rc)
	}
	game.SetSnapshot(f.snapshot)
	game.SetStatus(status)
}
