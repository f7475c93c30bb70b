// Package main provides the activity command, which shows an animated
// activity indicator in a small window or renders it to an image file.
package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/gg"
	"golang.org/x/term"

	"github.com/opd-ai/go-activity/internal/profiling"
	"github.com/opd-ai/go-activity/internal/render"
	"github.com/opd-ai/go-activity/pkg/activity"
	"github.com/opd-ai/go-activity/pkg/indicator"
)

// Version is the current version of activity.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

//go:embed default.lua
var builtinConfig embed.FS

const builtinConfigName = "default.lua"

// statsInterval is how often debug mode logs frame statistics.
const statsInterval = 5 * time.Second

type cliOptions struct {
	configPath string
	typ        string
	color      string
	size       float64
	message    string
	title      string
	snapshot   string
	frames     int
	scale      float64
	noWatch    bool
	version    bool
	debug      bool
	cpuProfile string
	memProfile string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	o := &cliOptions{}
	fs := flag.NewFlagSet("activity", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "c", "", "Path to a Lua configuration file")
	fs.StringVar(&o.typ, "type", "", "Indicator type (blank, gradient_circle_rotate)")
	fs.StringVar(&o.color, "color", "", "Indicator color, e.g. #ff6600 or rgba(255,102,0,0.8)")
	fs.Float64Var(&o.size, "size", 0, "Indicator edge length in pixels (0 fills the window)")
	fs.StringVar(&o.message, "message", "", "Label drawn under the indicator")
	fs.StringVar(&o.title, "title", "", "Window title")
	fs.StringVar(&o.snapshot, "snapshot", "", "Render to a .png or .gif file instead of opening a window")
	fs.IntVar(&o.frames, "frames", 33, "Number of frames in a .gif snapshot")
	fs.Float64Var(&o.scale, "scale", 1, "Scale factor applied to snapshot frames")
	fs.BoolVar(&o.noWatch, "no-watch", false, "Do not reload the configuration file when it changes")
	fs.BoolVar(&o.version, "v", false, "Print version and exit")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging, frame statistics and leak detection")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&o.memProfile, "memprofile", "", "Write memory profile to file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.frames < 1 {
		return nil, fmt.Errorf("-frames must be at least 1, got %d", o.frames)
	}
	if !(o.scale > 0) {
		return nil, fmt.Errorf("-scale must be positive, got %v", o.scale)
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if o.version {
		fmt.Fprintf(stdout, "activity version %s\n", Version)
		return 0
	}

	logger := newLogger(stderr, o.debug)
	if o.debug {
		gg.SetLogger(logger.Slog())
	}

	profConfig := profiling.Config{CPUProfilePath: o.cpuProfile, MemProfilePath: o.memProfile}
	if profConfig.Enabled() {
		session, err := profiling.Start(profConfig)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := session.Stop(); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	a, err := open(o, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 1
	}

	if o.snapshot != "" {
		return runSnapshot(a, o, stdout, stderr)
	}
	return runWindow(a, o, logger, stderr)
}

// open creates the activity from -c, or from the built-in configuration.
func open(o *cliOptions, logger indicator.Logger) (activity.Activity, error) {
	opts := &activity.Options{
		WindowTitle: o.title,
		Message:     o.message,
		Type:        o.typ,
		Color:       o.color,
		Size:        o.size,
		Headless:    o.snapshot != "",
		Logger:      logger,
		WatchConfig: o.configPath != "" && !o.noWatch,
	}
	if o.configPath == "" {
		return activity.NewFromFS(builtinConfig, builtinConfigName, opts)
	}
	return activity.New(o.configPath, opts)
}

func runSnapshot(a activity.Activity, o *cliOptions, stdout, stderr io.Writer) int {
	n := o.frames
	if render.IsStill(o.snapshot) {
		n = 1
	}
	frames, err := a.Snapshot(n)
	if err != nil {
		fmt.Fprintf(stderr, "Snapshot failed: %v\n", err)
		return 1
	}
	frames = render.ScaleFrames(frames, o.scale)
	if err := render.SaveSnapshot(o.snapshot, frames, a.Status().Interval); err != nil {
		fmt.Fprintf(stderr, "Snapshot failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %d frame(s) to %s\n", len(frames), o.snapshot)
	return 0
}

func runWindow(a activity.Activity, o *cliOptions, logger *indicator.SlogAdapter, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.SetErrorHandler(func(err error) {
		logger.Warn("runtime error", "error", err)
	})
	a.SetEventHandler(func(e activity.Event) {
		logger.Debug("lifecycle event", "type", e.Type.String(), "message", e.Message)
	})

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for range hup {
			logger.Info("received SIGHUP, reloading configuration")
			if err := a.ReloadConfig(); err != nil {
				logger.Warn("reload failed", "error", err)
			}
		}
	}()

	if o.debug {
		monitor := profiling.NewMonitor(profiling.DefaultMonitorConfig(), func(g profiling.Growth) {
			logger.Warn("possible memory leak", "growth", g.String())
		})
		monitor.Start()
		defer monitor.Stop()
		go logStats(ctx, a, logger)
	}

	if err := a.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// logStats logs frame statistics until ctx is done.
func logStats(ctx context.Context, a activity.Activity, logger indicator.Logger) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st := a.Status()
			heap := profiling.ReadSample().HeapAlloc
			logger.Debug("frame stats", "frames", st.Frames, "fps", fmt.Sprintf("%.1f", st.FPS), "heap", profiling.FormatBytes(heap))
		}
	}
}

// newLogger logs text to terminals and JSON otherwise.
func newLogger(w io.Writer, debug bool) *indicator.SlogAdapter {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return indicator.TextLogger(w, level)
	}
	return indicator.JSONLogger(w, level)
}
