// Package activity runs an activity indicator window driven by a Lua
// configuration file.
//
// # Basic Usage
//
// Load a configuration and run the window on the main goroutine:
//
//	a, err := activity.New("/path/to/indicator.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := a.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// With [Options.Headless] no window is opened: a ticker advances the
// animation and composites each frame in software, available through
// [Activity.LastFrame]. Headless instances can also be driven in the
// background with [Activity.Start] and [Activity.Restart].
//
// # Configuration Sources
//
//   - Disk file: [New], which can also watch the file for changes
//   - Embedded FS: [NewFromFS]
//   - io.Reader: [NewFromReader]
//
// # Reloading
//
// [Activity.ReloadConfig] reparses the source and updates the running
// indicator in place. With [Options.WatchConfig] set, saving the file does
// the same.
//
// # Snapshots
//
// [Activity.Snapshot] renders frames of the configured indicator in
// software, without opening a window.
package activity
