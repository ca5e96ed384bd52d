// Package lua runs pixelcanvas drawing scripts on the Golua runtime.
// Scripts execute inside CPU and memory limits so a runaway loop cannot
// hang a render.
package lua

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// RuntimeConfig contains configuration options for the script runtime.
type RuntimeConfig struct {
	// CPULimit is the instruction budget for a single Execute or
	// CallFunction. 0 means unlimited.
	CPULimit uint64
	// MemoryLimit is the allocation budget in bytes. 0 means unlimited.
	MemoryLimit uint64
	// Stdout receives print output in addition to the capture buffer.
	// If nil, output is only captured.
	Stdout io.Writer
}

// DefaultConfig returns a RuntimeConfig with a 10M instruction budget and
// a 50 MB memory budget.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		CPULimit:    10_000_000,
		MemoryLimit: 50 * 1024 * 1024,
		Stdout:      os.Stdout,
	}
}

// ScriptRuntime wraps a Golua runtime. All methods are safe for
// concurrent use; Lua execution itself is serialized.
type ScriptRuntime struct {
	config  RuntimeConfig
	runtime *rt.Runtime
	output  *bytes.Buffer
	cleanup func()
	mu      sync.RWMutex
}

// New creates a runtime with the Lua standard libraries loaded.
func New(config RuntimeConfig) (*ScriptRuntime, error) {
	output := &bytes.Buffer{}
	var stdout io.Writer = output
	if config.Stdout != nil {
		stdout = io.MultiWriter(config.Stdout, output)
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &ScriptRuntime{
		config:  config,
		runtime: runtime,
		output:  output,
		cleanup: cleanup,
	}, nil
}

// LoadString compiles a chunk of Lua source.
func (sr *ScriptRuntime) LoadString(name, code string) (*rt.Closure, error) {
	return sr.load(name, []byte(code))
}

// LoadFile reads and compiles a Lua file from disk.
func (sr *ScriptRuntime) LoadFile(path string) (*rt.Closure, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return sr.load(path, content)
}

// LoadFileFromFS reads and compiles a Lua file from fsys.
func (sr *ScriptRuntime) LoadFileFromFS(fsys fs.FS, path string) (*rt.Closure, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script from FS %s: %w", path, err)
	}
	return sr.load(path, content)
}

func (sr *ScriptRuntime) load(name string, content []byte) (*rt.Closure, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	closure, err := sr.runtime.CompileAndLoadLuaChunk(
		name,
		content,
		rt.TableValue(sr.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, name, err)
	}
	return closure, nil
}

// limits returns the per-call resource budget.
func (sr *ScriptRuntime) limits() rt.RuntimeContextDef {
	return rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    sr.config.CPULimit,
			Memory: sr.config.MemoryLimit,
		},
	}
}

// Execute runs a compiled chunk within the configured limits.
func (sr *ScriptRuntime) Execute(closure *rt.Closure) (result rt.Value, err error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	defer recoverLimit(&result, &err)

	sr.runtime.PushContext(sr.limits())
	defer sr.runtime.PopContext()

	result, err = rt.Call1(sr.runtime.MainThread(), rt.FunctionValue(closure))
	if err != nil {
		return rt.NilValue, fmt.Errorf("%w: %w", ErrExecution, err)
	}
	return result, nil
}

// recoverLimit converts the panic golua raises when a hard limit is
// exhausted into ErrLimitExceeded.
func recoverLimit(result *rt.Value, err *error) {
	if r := recover(); r != nil {
		*result = rt.NilValue
		*err = fmt.Errorf("%w: %v", ErrLimitExceeded, r)
	}
}

// ExecuteString compiles and runs code.
func (sr *ScriptRuntime) ExecuteString(name, code string) (rt.Value, error) {
	closure, err := sr.LoadString(name, code)
	if err != nil {
		return rt.NilValue, err
	}
	return sr.Execute(closure)
}

// ExecuteFile compiles and runs the file at path.
func (sr *ScriptRuntime) ExecuteFile(path string) (rt.Value, error) {
	closure, err := sr.LoadFile(path)
	if err != nil {
		return rt.NilValue, err
	}
	return sr.Execute(closure)
}

// GetGlobal returns a global from the Lua environment.
func (sr *ScriptRuntime) GetGlobal(name string) rt.Value {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.runtime.GlobalEnv().Get(rt.StringValue(name))
}

// SetGlobal sets a global in the Lua environment.
func (sr *ScriptRuntime) SetGlobal(name string, value rt.Value) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.runtime.GlobalEnv().Set(rt.StringValue(name), value)
}

// SetGoFunction registers fn as a Lua global. The function is declared
// compliant with the CPU and memory limits.
func (sr *ScriptRuntime) SetGoFunction(name string, fn rt.GoFunctionFunc, nArgs int, hasVarArgs bool) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	goFunc := rt.NewGoFunction(fn, name, nArgs, hasVarArgs)
	rt.SolemnlyDeclareCompliance(rt.ComplyMemSafe|rt.ComplyCpuSafe, goFunc)
	sr.runtime.GlobalEnv().Set(rt.StringValue(name), rt.FunctionValue(goFunc))
}

// HasFunction reports whether name is a global function.
func (sr *ScriptRuntime) HasFunction(name string) bool {
	return sr.GetGlobal(name).Type() == rt.FunctionType
}

// CallFunction calls the global function name within the configured
// limits.
func (sr *ScriptRuntime) CallFunction(name string, args ...rt.Value) (result rt.Value, err error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	defer recoverLimit(&result, &err)

	fn := sr.runtime.GlobalEnv().Get(rt.StringValue(name))
	if fn.Type() != rt.FunctionType {
		return rt.NilValue, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}

	sr.runtime.PushContext(sr.limits())
	defer sr.runtime.PopContext()

	result, err = rt.Call1(sr.runtime.MainThread(), fn, args...)
	if err != nil {
		return rt.NilValue, fmt.Errorf("%w: %s: %w", ErrExecution, name, err)
	}
	return result, nil
}

// Output returns everything scripts have printed so far.
func (sr *ScriptRuntime) Output() string {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.output.String()
}

// ClearOutput discards captured print output.
func (sr *ScriptRuntime) ClearOutput() {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.output.Reset()
}

// Config returns the runtime configuration.
func (sr *ScriptRuntime) Config() RuntimeConfig {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.config
}

// Close releases the runtime. It must not be used afterwards.
func (sr *ScriptRuntime) Close() error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if sr.cleanup != nil {
		sr.cleanup()
		sr.cleanup = nil
	}
	return nil
}
