package sketch

import (
	"fmt"
	"strings"
	"time"

	"github.com/opd-ai/go-pixelcanvas/internal/config"
	"github.com/opd-ai/go-pixelcanvas/internal/lua"
	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

// drawFunction is the Lua global every sketch must define.
const drawFunction = "draw"

// frame is the outcome of one successful render.
type frame struct {
	snapshot *canvas.Snapshot
	config   config.Config
	duration time.Duration
	output   string
}

// runtimeConfig derives the script limits from the options.
func runtimeConfig(opts Options) lua.RuntimeConfig {
	rc := lua.DefaultConfig()
	rc.Stdout = nil
	if opts.LuaCPULimit > 0 {
		rc.CPULimit = opts.LuaCPULimit
	}
	if opts.LuaMemoryLimit > 0 {
		rc.MemoryLimit = opts.LuaMemoryLimit
	}
	return rc
}

// renderScript evaluates one script from scratch and returns its canvas.
func renderScript(name string, source []byte, opts Options) (*frame, error) {
	start := time.Now()

	sr, err := lua.New(runtimeConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("lua runtime: %w", err)
	}
	defer sr.Close()

	// The canvas size is only known once the top level has run.
	bindings, err := lua.NewCanvasBindings(sr, canvas.New(0, 0))
	if err != nil {
		return nil, fmt.Errorf("canvas bindings: %w", err)
	}

	closure, err := sr.LoadString(name, string(source))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}
	if _, err := sr.Execute(closure); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}

	cfg, err := config.FromValue(sr.GetGlobal(config.GlobalName))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	if !sr.HasFunction(drawFunction) {
		return nil, ErrNoDrawFunction
	}

	cv := cfg.NewCanvas()
	bindings.SetCanvas(cv)
	if _, err := sr.CallFunction(drawFunction); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}

	return &frame{
		snapshot: cv.Snapshot(),
		config:   *cfg,
		duration: time.Since(start),
		output:   strings.TrimRight(sr.Output(), "\n"),
	}, nil
}
