// This file implements the Lua configuration parser.

package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sync"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-activity/internal/paint"
	"github.com/opd-ai/go-activity/pkg/indicator"
)

// ErrNoConfigTable is returned when a script leaves indicator.config unset
// or replaces it with something other than a table.
var ErrNoConfigTable = errors.New("indicator.config is not a table")

// ErrScriptLimit is returned when a script exceeds its CPU or memory budget.
var ErrScriptLimit = errors.New("lua resource limit exceeded")

// LuaLimits bounds the resources a configuration script may use. Zero means
// unlimited.
type LuaLimits struct {
	CPU    uint64
	Memory uint64
}

// DefaultLuaLimits are generous for configuration scripts and stop runaway
// loops quickly.
var DefaultLuaLimits = LuaLimits{CPU: 10_000_000, Memory: 50 * 1024 * 1024}

// LuaConfigParser parses Lua configuration files. The script runs with a
// global indicator table and fills indicator.config:
//
//	indicator.config = {
//	    type = "gradient_circle_rotate",
//	    color = "#ff6600",
//	    padding = 8,
//	}
//	indicator.message = "Loading..."
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	limits  LuaLimits
	mu      sync.Mutex
}

// NewLuaConfigParser creates a parser whose scripts print nowhere.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a parser whose scripts print to
// stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = io.Discard
	}
	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)
	return &LuaConfigParser{runtime: runtime, cleanup: cleanup, limits: DefaultLuaLimits}, nil
}

// SetLimits replaces the resource limits used by later Parse calls.
func (p *LuaConfigParser) SetLimits(l LuaLimits) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limits = l
}

// Parse executes content and extracts the configuration. Keys the script
// does not set keep their default values.
func (p *LuaConfigParser) Parse(content []byte) (cfg *Config, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup == nil {
		return nil, errors.New("lua parser is closed")
	}
	p.initIndicatorGlobal()

	closure, err := p.runtime.CompileAndLoadLuaChunk("config", content, rt.TableValue(p.runtime.GlobalEnv()))
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	p.runtime.PushContext(rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{Cpu: p.limits.CPU, Memory: p.limits.Memory},
	})
	defer p.runtime.PopContext()

	// golua panics when a hard limit is hit.
	defer func() {
		if r := recover(); r != nil {
			cfg, err = nil, fmt.Errorf("%w: %v", ErrScriptLimit, r)
		}
	}()

	if _, err := rt.Call1(p.runtime.MainThread(), rt.FunctionValue(closure)); err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}
	return p.extractConfig()
}

// initIndicatorGlobal installs a fresh indicator table so state does not
// leak between parses.
func (p *LuaConfigParser) initIndicatorGlobal() {
	t := rt.NewTable()
	t.Set(rt.StringValue("config"), rt.TableValue(rt.NewTable()))
	types := rt.NewTable()
	for i, typ := range indicator.Types() {
		types.Set(rt.IntValue(int64(i+1)), rt.StringValue(typ.String()))
	}
	t.Set(rt.StringValue("types"), rt.TableValue(types))
	p.runtime.GlobalEnv().Set(rt.StringValue("indicator"), rt.TableValue(t))
}

func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	root, ok := p.runtime.GlobalEnv().Get(rt.StringValue("indicator")).TryTable()
	if !ok {
		return nil, ErrNoConfigTable
	}
	table, ok := root.Get(rt.StringValue("config")).TryTable()
	if !ok {
		return nil, ErrNoConfigTable
	}
	if err := extractConfigTable(&cfg, table); err != nil {
		return nil, err
	}
	if msg := getTableString(root, "message"); msg != nil {
		cfg.Message.Text = *msg
	}
	return &cfg, nil
}

func extractConfigTable(cfg *Config, table *rt.Table) error {
	if val := getTableString(table, "type"); val != nil {
		t, err := indicator.ParseType(*val)
		if err != nil {
			return fmt.Errorf("invalid type: %w", err)
		}
		cfg.Indicator.Type = t
	}
	if val := getTableString(table, "color"); val != nil {
		c, err := paint.Parse(*val)
		if err != nil {
			return fmt.Errorf("invalid color: %w", err)
		}
		cfg.Indicator.Color = c
	}
	if val := getTableFloat(table, "padding"); val != nil {
		cfg.Indicator.Padding = *val
	}
	if val := getTableFloat(table, "size"); val != nil {
		cfg.Indicator.Size = *val
	}

	if val := getTableInt(table, "width"); val != nil {
		cfg.Window.Width = *val
	}
	if val := getTableInt(table, "height"); val != nil {
		cfg.Window.Height = *val
	}
	if val := getTableInt(table, "fps"); val != nil {
		cfg.Window.FPS = *val
	}
	if val := getTableString(table, "title"); val != nil {
		cfg.Window.Title = *val
	}

	bools := []struct {
		key    string
		target *bool
	}{
		{"transparent", &cfg.Window.Transparent},
		{"skip_taskbar", &cfg.Window.SkipTaskbar},
		{"skip_pager", &cfg.Window.SkipPager},
		{"keep_above", &cfg.Window.KeepAbove},
	}
	for _, b := range bools {
		if val := getTableBool(table, b.key); val != nil {
			*b.target = *val
		}
	}

	if val := getTableString(table, "message"); val != nil {
		cfg.Message.Text = *val
	}
	if val := getTableFloat(table, "message_size"); val != nil {
		cfg.Message.Size = *val
	}

	colors := []struct {
		key    string
		target *color.RGBA
	}{
		{"background", &cfg.Window.Background},
		{"message_color", &cfg.Message.Color},
	}
	for _, c := range colors {
		if val := getTableString(table, c.key); val != nil {
			parsed, err := paint.ParseColor(*val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", c.key, err)
			}
			*c.target = parsed
		}
	}
	return nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableBool retrieves a boolean value from a Lua table. The strings
// "yes", "true" and "1" count as true.
func getTableBool(table *rt.Table, key string) *bool {
	val := table.Get(rt.StringValue(key))
	if b, ok := val.TryBool(); ok {
		return &b
	}
	if s, ok := val.TryString(); ok {
		b := s == "yes" || s == "true" || s == "1"
		return &b
	}
	return nil
}

// getTableString retrieves a string value from a Lua table.
func getTableString(table *rt.Table, key string) *string {
	if s, ok := table.Get(rt.StringValue(key)).TryString(); ok {
		return &s
	}
	return nil
}

// getTableFloat retrieves a number from a Lua table.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if n, ok := val.TryFloat(); ok {
		return &n
	}
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}
	return nil
}

// getTableInt retrieves an integer from a Lua table, truncating floats.
func getTableInt(table *rt.Table, key string) *int {
	val := table.Get(rt.StringValue(key))
	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i
	}
	if f, ok := val.TryFloat(); ok {
		i := int(f)
		return &i
	}
	return nil
}
