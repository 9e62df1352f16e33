// Package theme names the available backgrounds and owns the one that is
// currently running.
package theme

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Theme is the name of a background effect.
type Theme string

const (
	Halos    Theme = "halos"
	Smoke    Theme = "smoke"
	Topology Theme = "topology"
)

// ErrUnknownTheme is returned by Parse for names outside All.
var ErrUnknownTheme = errors.New("unknown theme")

var errConstructorPanic = errors.New("effect constructor panicked")

var all = []Theme{Halos, Smoke, Topology}

// All lists the themes in cycling order.
func All() []Theme {
	return slices.Clone(all)
}

// Parse resolves a case-insensitive theme name.
func Parse(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(all, t) {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
	return t, nil
}

// Next is the theme after t in cycling order. Unknown themes start the cycle.
func Next(t Theme) Theme {
	i := slices.Index(all, t)
	return all[(i+1)%len(all)]
}

func (t Theme) String() string { return string(t) }
