//go:build linux

package render

import (
	"fmt"
	"os/exec"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// knownCompositors are process names checked when the X server cannot be
// queried.
var knownCompositors = []string{"picom", "compton", "compiz", "mutter", "kwin_x11", "xfwm4", "marco", "muffin"}

// DetectCompositor checks whether an X11 compositor is running. It asks the
// X server who owns the _NET_WM_CM_Sn selection and falls back to looking
// for known compositor processes.
func DetectCompositor() CompositorStatus {
	if status := detectCompositorSelection(); status != CompositorUnknown {
		return status
	}
	return detectCompositorProcess()
}

func detectCompositorSelection() CompositorStatus {
	conn, err := xgb.NewConn()
	if err != nil {
		return CompositorUnknown
	}
	defer conn.Close()

	name := fmt.Sprintf("_NET_WM_CM_S%d", conn.DefaultScreen)
	atom, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil || atom == nil {
		return CompositorUnknown
	}
	owner, err := xproto.GetSelectionOwner(conn, atom.Atom).Reply()
	if err != nil || owner == nil {
		return CompositorUnknown
	}
	if owner.Owner != xproto.WindowNone {
		return CompositorActive
	}
	return CompositorInactive
}

func detectCompositorProcess() CompositorStatus {
	if _, err := exec.LookPath("pgrep"); err != nil {
		return CompositorUnknown
	}
	for _, name := range knownCompositors {
		if exec.Command("pgrep", "-x", name).Run() == nil {
			return CompositorActive
		}
	}
	return CompositorInactive
}
