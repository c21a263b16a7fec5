//go:build !windows && !(linux && cgo && x11)

// Package system binds hotkey combos with the OS. This build has no
// backend: Linux needs cgo and the x11 build tag, other platforms are not
// supported.
package system

import "github.com/cla7997/edl-timestamps/internal/hotkey"

// Registrar is unavailable in this build; Register always fails.
type Registrar struct{}

// NewRegistrar returns the registrar for the current platform.
func NewRegistrar() *Registrar {
	return &Registrar{}
}

// Register implements hotkey.Registrar.
func (r *Registrar) Register(c hotkey.Combo, fn func()) error {
	return hotkey.ErrUnsupportedPlatform
}

// UnregisterAll implements hotkey.Registrar.
func (r *Registrar) UnregisterAll() error {
	return nil
}
