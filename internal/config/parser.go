package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// Parser extracts the sketch table by running a script's top level in a
// private Lua runtime. Drawing functions are not available there, so a
// script must draw inside draw() for its configuration to be readable
// this way.
type Parser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewParser creates a Parser with a fresh Lua runtime whose output is
// discarded.
func NewParser() (*Parser, error) {
	runtime := rt.New(io.Discard)
	cleanup := lib.LoadAll(runtime)

	return &Parser{
		runtime: runtime,
		cleanup: cleanup,
	}, nil
}

// Parse executes content and returns the configuration it declares.
func (p *Parser) Parse(content []byte) (cfg *Config, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	env := p.runtime.GlobalEnv()
	env.Set(rt.StringValue(GlobalName), rt.NilValue)

	closure, err := p.runtime.CompileAndLoadLuaChunk("config", content, rt.TableValue(env))
	if err != nil {
		return nil, fmt.Errorf("failed to compile sketch: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			cfg, err = nil, fmt.Errorf("sketch exceeded parse limits: %v", r)
		}
	}()

	p.runtime.PushContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    10_000_000,
			Memory: 50 * 1024 * 1024, // 50 MB
		},
	})
	defer p.runtime.PopContext()

	if _, err := rt.Call1(p.runtime.MainThread(), rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute sketch: %w", err)
	}

	return FromValue(env.Get(rt.StringValue(GlobalName)))
}

// ParseFile reads and parses the script at path.
func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sketch %s: %w", path, err)
	}
	return p.Parse(content)
}

// ParseFromFS reads and parses a script from fsys.
func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sketch from FS %s: %w", path, err)
	}
	return p.Parse(content)
}

// ParseReader parses a script read from r.
func (p *Parser) ParseReader(r io.Reader) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read sketch: %w", err)
	}
	return p.Parse(content)
}

// Close releases the parser's Lua runtime.
func (p *Parser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}
