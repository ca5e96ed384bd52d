//go:build noebiten

package sketch

import "context"

// display is empty in noebiten builds.
type display struct{}

// runDisplay has no window to open in noebiten builds and behaves like
// headless mode.
func (s *sketchImpl) runDisplay(ctx context.Context) {
	s.logger.Warn("built without display support; running headless")
	<-ctx.Done()
}

// showFrame is a no-op in noebiten builds.
func (s *sketchImpl) showFrame(f *frame, status string) {}
