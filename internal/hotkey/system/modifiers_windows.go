//go:build windows

package system

import (
	"fmt"

	"github.com/cla7997/edl-timestamps/internal/hotkey"
	xhotkey "golang.design/x/hotkey"
)

var keyOverrides = map[string]xhotkey.Key{}

// Windows reports AltGr as Ctrl+Alt.
func platformModifiers(c hotkey.Combo) ([]xhotkey.Modifier, error) {
	set := map[xhotkey.Modifier]bool{}
	for _, m := range c.Modifiers {
		switch m {
		case hotkey.ModCtrl:
			set[xhotkey.ModCtrl] = true
		case hotkey.ModAlt:
			set[xhotkey.ModAlt] = true
		case hotkey.ModAltGr:
			set[xhotkey.ModCtrl] = true
			set[xhotkey.ModAlt] = true
		case hotkey.ModShift:
			set[xhotkey.ModShift] = true
		case hotkey.ModSuper:
			set[xhotkey.ModWin] = true
		default:
			return nil, fmt.Errorf("%w: %s", hotkey.ErrUnknownKey, m)
		}
	}

	mods := make([]xhotkey.Modifier, 0, len(set))
	for _, m := range []xhotkey.Modifier{xhotkey.ModCtrl, xhotkey.ModAlt, xhotkey.ModShift, xhotkey.ModWin} {
		if set[m] {
			mods = append(mods, m)
		}
	}
	return mods, nil
}
