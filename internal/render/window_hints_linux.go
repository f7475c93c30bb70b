//go:build linux

package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// _NET_WM_STATE client message actions.
const netWMStateAdd = 1

var errWindowNotFound = errors.New("window not found")

// WindowHintApplier asks the window manager to add EWMH states to a window.
// It caches the X11 connection and interned atoms.
type WindowHintApplier struct {
	mu    sync.Mutex
	conn  *xgb.Conn
	atoms map[string]xproto.Atom
}

var globalHintApplier = &WindowHintApplier{atoms: make(map[string]xproto.Atom)}

// ApplyWindowHints requests hints for the top-level window titled title. It
// must run after the window has been mapped. Without an X server it does
// nothing.
func ApplyWindowHints(title string, h WindowHints) error {
	if !h.Any() {
		return nil
	}
	return globalHintApplier.Apply(title, h)
}

// CloseWindowHints releases the shared X11 connection.
func CloseWindowHints() {
	globalHintApplier.Close()
}

// stateAtomNames lists the _NET_WM_STATE atoms for h, two per client
// message as EWMH allows.
func stateAtomNames(h WindowHints) []string {
	var names []string
	if h.SkipTaskbar {
		names = append(names, "_NET_WM_STATE_SKIP_TASKBAR")
	}
	if h.SkipPager {
		names = append(names, "_NET_WM_STATE_SKIP_PAGER")
	}
	if h.Above {
		names = append(names, "_NET_WM_STATE_ABOVE")
	}
	return names
}

// Apply sends one _NET_WM_STATE add request per pair of hints.
func (a *WindowHintApplier) Apply(title string, h WindowHints) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.conn == nil {
		conn, err := xgb.NewConn()
		if err != nil {
			return nil
		}
		a.conn = conn
	}
	setup := xproto.Setup(a.conn)
	if len(setup.Roots) == 0 {
		return nil
	}
	root := setup.Roots[0].Root

	win, err := a.findWindow(root, title)
	if err != nil {
		return fmt.Errorf("apply window hints: %w", err)
	}
	state, err := a.atom("_NET_WM_STATE")
	if err != nil {
		return fmt.Errorf("apply window hints: %w", err)
	}

	names := stateAtomNames(h)
	for i := 0; i < len(names); i += 2 {
		first, err := a.atom(names[i])
		if err != nil {
			return fmt.Errorf("apply window hints: %w", err)
		}
		var second xproto.Atom
		if i+1 < len(names) {
			if second, err = a.atom(names[i+1]); err != nil {
				return fmt.Errorf("apply window hints: %w", err)
			}
		}
		ev := xproto.ClientMessageEvent{
			Format: 32,
			Window: win,
			Type:   state,
			Data:   xproto.ClientMessageDataUnionData32New([]uint32{netWMStateAdd, uint32(first), uint32(second), 1, 0}),
		}
		mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify)
		if err := xproto.SendEventChecked(a.conn, false, root, mask, string(ev.Bytes())).Check(); err != nil {
			return fmt.Errorf("apply window hints: %w", err)
		}
	}
	return nil
}

// findWindow looks up a managed window by its _NET_WM_NAME, falling back to
// the active window.
func (a *WindowHintApplier) findWindow(root xproto.Window, title string) (xproto.Window, error) {
	clients, err := a.windowList(root, "_NET_CLIENT_LIST")
	if err == nil {
		for _, w := range clients {
			if name, err := a.windowName(w); err == nil && name == title {
				return w, nil
			}
		}
	}
	active, err := a.windowList(root, "_NET_ACTIVE_WINDOW")
	if err != nil || len(active) == 0 || active[0] == xproto.WindowNone {
		return xproto.WindowNone, errWindowNotFound
	}
	return active[0], nil
}

func (a *WindowHintApplier) windowList(root xproto.Window, property string) ([]xproto.Window, error) {
	prop, err := a.atom(property)
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(a.conn, false, root, prop, xproto.AtomWindow, 0, 1024).Reply()
	if err != nil || reply == nil {
		return nil, err
	}
	out := make([]xproto.Window, 0, len(reply.Value)/4)
	for i := 0; i+4 <= len(reply.Value); i += 4 {
		out = append(out, xproto.Window(xgb.Get32(reply.Value[i:])))
	}
	return out, nil
}

func (a *WindowHintApplier) windowName(w xproto.Window) (string, error) {
	name, err := a.atom("_NET_WM_NAME")
	if err != nil {
		return "", err
	}
	utf8, err := a.atom("UTF8_STRING")
	if err != nil {
		return "", err
	}
	reply, err := xproto.GetProperty(a.conn, false, w, name, utf8, 0, 256).Reply()
	if err != nil || reply == nil {
		return "", err
	}
	return string(reply.Value), nil
}

func (a *WindowHintApplier) atom(name string) (xproto.Atom, error) {
	if atom, ok := a.atoms[name]; ok {
		return atom, nil
	}
	reply, err := xproto.InternAtom(a.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	a.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// Close releases the X11 connection. It is safe to call repeatedly.
func (a *WindowHintApplier) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
	a.atoms = make(map[string]xproto.Atom)
}
