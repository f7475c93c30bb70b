package config

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/opd-ai/go-activity/internal/paint"
	"github.com/opd-ai/go-activity/pkg/indicator"
)

func newLuaParser(t *testing.T) *LuaConfigParser {
	t.Helper()
	p, err := NewLuaConfigParser()
	if err != nil {
		t.Fatalf("NewLuaConfigParser failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestLuaConfigParserParseBasic(t *testing.T) {
	p := newLuaParser(t)
	content := `
indicator.config = {
    type = "blank",
    color = "#ff0000",
    padding = 4,
    size = 48.5,
    width = 300,
    height = 200.9,
    title = "busy",
    background = "#00000080",
    transparent = true,
    skip_taskbar = "yes",
    keep_above = true,
    fps = 30,
    message = "Working",
    message_size = 18,
    message_color = "rgb(10, 20, 30)",
}
`
	cfg, err := p.Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Indicator.Type != indicator.BlankType {
		t.Errorf("type = %v", cfg.Indicator.Type)
	}
	if cfg.Indicator.Color != paint.RGB(1, 0, 0) {
		t.Errorf("color = %+v", cfg.Indicator.Color)
	}
	if cfg.Indicator.Padding != 4 || cfg.Indicator.Size != 48.5 {
		t.Errorf("padding/size = %v/%v", cfg.Indicator.Padding, cfg.Indicator.Size)
	}
	w := cfg.Window
	if w.Width != 300 || w.Height != 200 || w.Title != "busy" || w.FPS != 30 {
		t.Errorf("window = %+v", w)
	}
	if w.Background != (color.RGBA{A: 128}) {
		t.Errorf("background = %+v", w.Background)
	}
	if !w.Transparent || !w.SkipTaskbar || w.SkipPager || !w.KeepAbove {
		t.Errorf("window flags = %+v", w)
	}
	m := cfg.Message
	if m.Text != "Working" || m.Size != 18 || m.Color != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("message = %+v", m)
	}
}

func TestLuaConfigParserDefaults(t *testing.T) {
	p := newLuaParser(t)
	cfg, err := p.Parse([]byte("-- nothing to see"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != DefaultConfig() {
		t.Errorf("empty script = %+v, want defaults", *cfg)
	}
}

func TestLuaConfigParserTopLevelMessage(t *testing.T) {
	p := newLuaParser(t)
	cfg, err := p.Parse([]byte(`
indicator.config.message = "from config"
indicator.message = "from top level"
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Message.Text != "from top level" {
		t.Errorf("message = %q", cfg.Message.Text)
	}
}

func TestLuaConfigParserScripting(t *testing.T) {
	p := newLuaParser(t)
	cfg, err := p.Parse([]byte(`
local size = 40
indicator.config = { width = size * 3, height = size * 2, type = indicator.types[2] }
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Width != 120 || cfg.Window.Height != 80 {
		t.Errorf("size = %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Indicator.Type != indicator.GradientCircleRotateType {
		t.Errorf("type = %v", cfg.Indicator.Type)
	}
}

func TestLuaConfigParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		is      error
		substr  string
	}{
		{"syntax", "indicator.config = {", nil, "compile"},
		{"runtime", "error('boom')", nil, "execute"},
		{"unknown type", `indicator.config = { type = "bouncing" }`, indicator.ErrUnknownType, "type"},
		{"bad color", `indicator.config = { color = "nope" }`, nil, "color"},
		{"bad background", `indicator.config = { background = "#12" }`, nil, "background"},
		{"config removed", "indicator.config = nil", ErrNoConfigTable, ""},
		{"config not a table", "indicator.config = 3", ErrNoConfigTable, ""},
		{"indicator replaced", "indicator = 'x'", ErrNoConfigTable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newLuaParser(t)
			_, err := p.Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q does not mention %q", err, tt.substr)
			}
		})
	}
}

func TestLuaConfigParserStateDoesNotLeak(t *testing.T) {
	p := newLuaParser(t)
	if _, err := p.Parse([]byte(`indicator.config = { width = 999 }`)); err != nil {
		t.Fatal(err)
	}
	cfg, err := p.Parse([]byte(`indicator.config.height = 50`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window.Width != DefaultWidth || cfg.Window.Height != 50 {
		t.Errorf("second parse = %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
}

func TestLuaConfigParserCPULimit(t *testing.T) {
	p := newLuaParser(t)
	p.SetLimits(LuaLimits{CPU: 1000})
	_, err := p.Parse([]byte("while true do end"))
	if err == nil {
		t.Fatal("runaway script was not stopped")
	}
}

func TestLuaConfigParserClosed(t *testing.T) {
	p, err := NewLuaConfigParser()
	if err != nil {
		t.Fatal(err)
	}
	p.Close()
	p.Close()
	if _, err := p.Parse([]byte("")); err == nil {
		t.Error("closed parser parsed")
	}
}

func FuzzLuaParser(f *testing.F) {
	f.Add([]byte(`indicator.config = { type = "gradient_circle_rotate", color = "#fff" }`))
	f.Add([]byte(`indicator.config = { padding = -1, width = 1e300 }`))
	f.Add([]byte(""))
	f.Add([]byte("indicator = nil"))
	f.Add([]byte("for i = 1, 10 do indicator.config[i] = i end"))

	f.Fuzz(func(t *testing.T, data []byte) {
		p, err := NewLuaConfigParser()
		if err != nil {
			t.Fatal(err)
		}
		defer p.Close()
		p.SetLimits(LuaLimits{CPU: 100_000, Memory: 1 << 20})

		cfg, err := p.Parse(data)
		if err == nil && cfg == nil {
			t.Error("Parse returned nil config with nil error")
		}
	})
}
