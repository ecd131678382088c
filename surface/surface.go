// Package surface names the drawing surfaces the game can render to and the
// errors returned when one can't be set up.
package surface

import (
	"errors"
	"fmt"
	"slices"
)

const (
	Terminal = "terminal" // ANSI escape codes on stdout, keys from eiannone/keyboard.
	Tcell    = "tcell"    // tcell screen.
	Canvas   = "canvas"   // Ebiten window.
)

var (
	// ErrMissing is returned when no surface, or an unknown one, is requested.
	ErrMissing = errors.New("missing rendering surface")
	// ErrNoContext is returned when the surface exists but can't be drawn on.
	ErrNoContext = errors.New("unable to acquire drawing context")
)

// IDs returns the known surfaces.
func IDs() []string { return []string{Terminal, Tcell, Canvas} }

// Validate returns ErrMissing if id is not a known surface.
func Validate(id string) error {
	if id == "" {
		return ErrMissing
	}
	if !slices.Contains(IDs(), id) {
		return fmt.Errorf("%w: unknown surface %q", ErrMissing, id)
	}
	return nil
}

// NoContext wraps err as an ErrNoContext failure of surface id.
func NoContext(id string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrNoContext, id, err)
}
