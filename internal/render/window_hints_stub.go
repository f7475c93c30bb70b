//go:build !linux

package render

// ApplyWindowHints does nothing: EWMH hints are X11 specific.
func ApplyWindowHints(title string, h WindowHints) error {
	return nil
}

// CloseWindowHints does nothing on this platform.
func CloseWindowHints() {}
