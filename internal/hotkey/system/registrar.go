//go:build windows || (linux && cgo && x11)

// Package system binds hotkey combos with the OS through
// golang.design/x/hotkey.
//
// On Linux the backend needs cgo, an X11 display and the x11 build tag. The
// library opens the display while the package initializes and panics when
// none is available, so only the main package imports this one.
package system

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cla7997/edl-timestamps/internal/hotkey"
	xhotkey "golang.design/x/hotkey"
)

// Registrar registers combos with the OS.
type Registrar struct {
	mu    sync.Mutex
	bound []*binding
}

type binding struct {
	combo hotkey.Combo
	hk    *xhotkey.Hotkey
	stop  chan struct{}
	done  chan struct{}
}

// NewRegistrar returns the registrar for the current platform.
func NewRegistrar() *Registrar {
	return &Registrar{}
}

// Register grabs c globally. fn runs on a goroutine dedicated to c, once
// per key-down.
//
// On X11 the grab happens asynchronously, so a combo already grabbed by
// another client is not reported here; Xlib aborts the process instead.
func (r *Registrar) Register(c hotkey.Combo, fn func()) error {
	mods, err := platformModifiers(c)
	if err != nil {
		return err
	}
	key, err := platformKey(c.Key)
	if err != nil {
		return err
	}

	hk := xhotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("registering %s: %w", c, err)
	}

	b := &binding{
		combo: c,
		hk:    hk,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go b.listen(fn)

	r.mu.Lock()
	r.bound = append(r.bound, b)
	r.mu.Unlock()
	return nil
}

func (b *binding) listen(fn func()) {
	defer close(b.done)
	keydown := b.hk.Keydown()
	for {
		select {
		case <-b.stop:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			fn()
		}
	}
}

// UnregisterAll releases every combo. It waits for running callbacks to
// return, so it must not be called from inside one.
func (r *Registrar) UnregisterAll() error {
	r.mu.Lock()
	bound := r.bound
	r.bound = nil
	r.mu.Unlock()

	var errs []string
	for _, b := range bound {
		close(b.stop)
		<-b.done
		if err := b.hk.Unregister(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", b.combo, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("unregistering hotkeys: %s", strings.Join(errs, "; "))
	}
	return nil
}

var platformKeys = map[string]xhotkey.Key{
	"a": xhotkey.KeyA, "b": xhotkey.KeyB, "c": xhotkey.KeyC, "d": xhotkey.KeyD,
	"e": xhotkey.KeyE, "f": xhotkey.KeyF, "g": xhotkey.KeyG, "h": xhotkey.KeyH,
	"i": xhotkey.KeyI, "j": xhotkey.KeyJ, "k": xhotkey.KeyK, "l": xhotkey.KeyL,
	"m": xhotkey.KeyM, "n": xhotkey.KeyN, "o": xhotkey.KeyO, "p": xhotkey.KeyP,
	"q": xhotkey.KeyQ, "r": xhotkey.KeyR, "s": xhotkey.KeyS, "t": xhotkey.KeyT,
	"u": xhotkey.KeyU, "v": xhotkey.KeyV, "w": xhotkey.KeyW, "x": xhotkey.KeyX,
	"y": xhotkey.KeyY, "z": xhotkey.KeyZ,

	"0": xhotkey.Key0, "1": xhotkey.Key1, "2": xhotkey.Key2, "3": xhotkey.Key3,
	"4": xhotkey.Key4, "5": xhotkey.Key5, "6": xhotkey.Key6, "7": xhotkey.Key7,
	"8": xhotkey.Key8, "9": xhotkey.Key9,

	"f1": xhotkey.KeyF1, "f2": xhotkey.KeyF2, "f3": xhotkey.KeyF3, "f4": xhotkey.KeyF4,
	"f5": xhotkey.KeyF5, "f6": xhotkey.KeyF6, "f7": xhotkey.KeyF7, "f8": xhotkey.KeyF8,
	"f9": xhotkey.KeyF9, "f10": xhotkey.KeyF10, "f11": xhotkey.KeyF11, "f12": xhotkey.KeyF12,
	"f13": xhotkey.KeyF13, "f14": xhotkey.KeyF14, "f15": xhotkey.KeyF15, "f16": xhotkey.KeyF16,
	"f17": xhotkey.KeyF17, "f18": xhotkey.KeyF18, "f19": xhotkey.KeyF19, "f20": xhotkey.KeyF20,

	"delete": xhotkey.KeyDelete,
	"space":  xhotkey.KeySpace,
	"enter":  xhotkey.KeyReturn,
	"escape": xhotkey.KeyEscape,
	"tab":    xhotkey.KeyTab,
	"left":   xhotkey.KeyLeft,
	"right":  xhotkey.KeyRight,
	"up":     xhotkey.KeyUp,
	"down":   xhotkey.KeyDown,
}

func platformKey(name string) (xhotkey.Key, error) {
	if k, ok := keyOverrides[name]; ok {
		return k, nil
	}
	k, ok := platformKeys[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", hotkey.ErrUnknownKey, name)
	}
	return k, nil
}
