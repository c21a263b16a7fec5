//go:build linux && cgo && x11

package system

import (
	"fmt"

	"github.com/cla7997/edl-timestamps/internal/hotkey"
	xhotkey "golang.design/x/hotkey"
)

// keyOverrides replaces keysyms that xhotkey gets wrong on X11: KeyTab
// carries XK_Escape and the digits are shifted by one (Key1 is XK_0).
var keyOverrides = map[string]xhotkey.Key{
	"tab": 0xff09,
	"0":   0x0030,
	"1":   0x0031,
	"2":   0x0032,
	"3":   0x0033,
	"4":   0x0034,
	"5":   0x0035,
	"6":   0x0036,
	"7":   0x0037,
	"8":   0x0038,
	"9":   0x0039,
}

// X11 maps Alt to Mod1, Super to Mod4 and AltGr (ISO_Level3_Shift) to Mod5
// on common keyboard layouts.
func platformModifiers(c hotkey.Combo) ([]xhotkey.Modifier, error) {
	mods := make([]xhotkey.Modifier, 0, len(c.Modifiers))
	for _, m := range c.Modifiers {
		switch m {
		case hotkey.ModCtrl:
			mods = append(mods, xhotkey.ModCtrl)
		case hotkey.ModAlt:
			mods = append(mods, xhotkey.Mod1)
		case hotkey.ModAltGr:
			mods = append(mods, xhotkey.Mod5)
		case hotkey.ModShift:
			mods = append(mods, xhotkey.ModShift)
		case hotkey.ModSuper:
			mods = append(mods, xhotkey.Mod4)
		default:
			return nil, fmt.Errorf("%w: %s", hotkey.ErrUnknownKey, m)
		}
	}
	return mods, nil
}
