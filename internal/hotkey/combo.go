// Package hotkey parses hotkey combos, routes fired combos to handlers and
// binds them to the OS global hotkey facility.
package hotkey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyCombo  = errors.New("hotkey: empty combo")
	ErrUnknownKey  = errors.New("hotkey: unknown key")
	ErrMissingKey  = errors.New("hotkey: combo has no key")
	ErrMultipleKey = errors.New("hotkey: combo has more than one key")
)

// Modifier is a platform independent modifier key.
type Modifier int

const (
	ModCtrl Modifier = iota + 1
	ModAlt
	ModAltGr
	ModShift
	ModSuper
)

var modifierNames = map[Modifier]string{
	ModCtrl:  "ctrl",
	ModAlt:   "alt",
	ModAltGr: "alt gr",
	ModShift: "shift",
	ModSuper: "win",
}

func (m Modifier) String() string {
	if name, ok := modifierNames[m]; ok {
		return name
	}
	return fmt.Sprintf("modifier(%d)", int(m))
}

var modifierAliases = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"alt gr":  ModAltGr,
	"altgr":   ModAltGr,
	"shift":   ModShift,
	"win":     ModSuper,
	"windows": ModSuper,
	"super":   ModSuper,
	"cmd":     ModSuper,
}

var keyAliases = map[string]string{
	"del":    "delete",
	"return": "enter",
	"esc":    "escape",
}

var keyNames = func() map[string]struct{} {
	keys := map[string]struct{}{}
	for _, k := range []string{"delete", "space", "enter", "escape", "tab", "left", "right", "up", "down"} {
		keys[k] = struct{}{}
	}
	for c := 'a'; c <= 'z'; c++ {
		keys[string(c)] = struct{}{}
	}
	for c := '0'; c <= '9'; c++ {
		keys[string(c)] = struct{}{}
	}
	for i := 1; i <= 20; i++ {
		keys[fmt.Sprintf("f%d", i)] = struct{}{}
	}
	return keys
}()

// Combo is a set of modifiers plus exactly one key.
type Combo struct {
	Modifiers []Modifier
	Key       string
}

// ParseCombo parses strings like "alt gr+f10" or "Ctrl + Delete".
// Tokens are case-insensitive; repeated modifiers are collapsed.
func ParseCombo(s string) (Combo, error) {
	if strings.TrimSpace(s) == "" {
		return Combo{}, ErrEmptyCombo
	}

	var c Combo
	seen := map[Modifier]bool{}
	for _, raw := range strings.Split(s, "+") {
		tok := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
		if tok == "" {
			return Combo{}, fmt.Errorf("%w: %q", ErrUnknownKey, raw)
		}

		if mod, ok := modifierAliases[tok]; ok {
			if !seen[mod] {
				seen[mod] = true
				c.Modifiers = append(c.Modifiers, mod)
			}
			continue
		}

		if alias, ok := keyAliases[tok]; ok {
			tok = alias
		}
		if _, ok := keyNames[tok]; !ok {
			return Combo{}, fmt.Errorf("%w: %q in %q", ErrUnknownKey, tok, s)
		}
		if c.Key != "" {
			return Combo{}, fmt.Errorf("%w: %q", ErrMultipleKey, s)
		}
		c.Key = tok
	}

	if c.Key == "" {
		return Combo{}, fmt.Errorf("%w: %q", ErrMissingKey, s)
	}

	sort.Slice(c.Modifiers, func(i, j int) bool { return c.Modifiers[i] < c.Modifiers[j] })
	return c, nil
}

// MustParseCombo is ParseCombo that panics on error.
func MustParseCombo(s string) Combo {
	c, err := ParseCombo(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the normalized combo, e.g. "ctrl+shift+f9".
func (c Combo) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, m := range c.Modifiers {
		parts = append(parts, m.String())
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}

// Has reports whether m is part of the combo.
func (c Combo) Has(m Modifier) bool {
	for _, mod := range c.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

// KeyNames returns the recognized key names, sorted.
func KeyNames() []string {
	names := make([]string, 0, len(keyNames))
	for k := range keyNames {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ModifierNames returns the recognized modifier spellings, sorted.
func ModifierNames() []string {
	names := make([]string, 0, len(modifierAliases))
	for k := range modifierAliases {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
