package config

import (
	"errors"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/opd-ai/go-activity/internal/paint"
	"github.com/opd-ai/go-activity/pkg/indicator"
)

func newParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestParseFileSample(t *testing.T) {
	cfg, err := newParser(t).ParseFile(filepath.Join("testdata", "indicator.lua"))
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Indicator = IndicatorConfig{
		Type:    indicator.GradientCircleRotateType,
		Color:   paint.FromRGBA(color.RGBA{R: 255, G: 102, A: 255}),
		Padding: 8,
		Size:    96,
	}
	want.Window.Width, want.Window.Height, want.Window.FPS = 160, 140, 50
	want.Window.Title = "Please wait"
	want.Window.Background = color.RGBA{A: 128}
	want.Window.SkipTaskbar, want.Window.SkipPager = true, true
	want.Message.Text = "Loading..."
	if *cfg != want {
		t.Errorf("config =\n%+v\nwant\n%+v", *cfg, want)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := newParser(t).ParseFile(filepath.Join(t.TempDir(), "missing.lua"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want not exist", err)
	}
}

func TestParseValidates(t *testing.T) {
	_, err := newParser(t).Parse([]byte(`indicator.config = { fps = 0 }`))
	if err == nil || !strings.Contains(err.Error(), "window.fps") {
		t.Errorf("error = %v, want a window.fps validation error", err)
	}
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("ACTIVITY_JOB", "import")
	cfg, err := newParser(t).Parse([]byte(`indicator.message = "Running $ACTIVITY_JOB"`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Message.Text != "Running import" {
		t.Errorf("message = %q", cfg.Message.Text)
	}
}

func TestParseFromFSAndReader(t *testing.T) {
	p := newParser(t)
	content := `indicator.config = { width = 64, height = 64 }`
	fsys := fstest.MapFS{"conf/a.lua": {Data: []byte(content)}}

	cfg, err := p.ParseFromFS(fsys, "conf/a.lua")
	if err != nil || cfg.Window.Width != 64 {
		t.Errorf("ParseFromFS = %+v, %v", cfg, err)
	}
	if _, err := p.ParseFromFS(fsys, "conf/b.lua"); err == nil {
		t.Error("ParseFromFS of a missing file succeeded")
	}

	cfg, err = p.ParseReader(strings.NewReader(content))
	if err != nil || cfg.Window.Height != 64 {
		t.Errorf("ParseReader = %+v, %v", cfg, err)
	}
}

func TestParseFileWrapsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.lua")
	if err := os.WriteFile(path, []byte(`indicator.config = { type = "spiral" }`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := newParser(t).ParseFile(path)
	if !errors.Is(err, indicator.ErrUnknownType) || !strings.Contains(err.Error(), path) {
		t.Errorf("error = %v", err)
	}
}
