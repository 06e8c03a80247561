package paint

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/gg"
)

// Color is a hex color token such as "#FF6B6B".
type Color string

// NRGBA converts the token to an opaque color. Malformed tokens come out black.
func (c Color) NRGBA() color.NRGBA {
	r, g, b, _ := gg.Hex(string(c)).Color().RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
}

// Instrument is an immutable catalog entry. BaseNote is carried along but the
// sonification mapping does not use it.
type Instrument struct {
	Name     string
	Color    Color
	BaseNote int
}

// Catalog is the fixed, ordered list of instruments a session can select from.
type Catalog []Instrument

var defaultCatalog = Catalog{
	{Name: "Synth Waves", Color: "#FF6B6B", BaseNote: 60},
	{Name: "Cosmic Bells", Color: "#4ECDC4", BaseNote: 72},
	{Name: "Dream Strings", Color: "#45B7D1", BaseNote: 48},
	{Name: "Star Chimes", Color: "#96CEB4", BaseNote: 84},
	{Name: "Nebula Pads", Color: "#FFEEAD", BaseNote: 36},
}

// DefaultCatalog returns a copy of the built-in instrument catalog.
func DefaultCatalog() Catalog {
	c := make(Catalog, len(defaultCatalog))
	copy(c, defaultCatalog)
	return c
}

// Lookup finds an instrument by name, ignoring case and surrounding space.
func (c Catalog) Lookup(name string) (Instrument, error) {
	name = strings.TrimSpace(name)
	for _, inst := range c {
		if strings.EqualFold(inst.Name, name) {
			return inst, nil
		}
	}
	return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, name)
}

// At returns the i'th instrument.
func (c Catalog) At(i int) (Instrument, error) {
	if i < 0 || i >= len(c) {
		return Instrument{}, fmt.Errorf("%w: index %d out of range [0,%d)", ErrUnknownInstrument, i, len(c))
	}
	return c[i], nil
}

// Index returns the position of the named instrument, or -1.
func (c Catalog) Index(name string) int {
	for i, inst := range c {
		if inst.Name == name {
			return i
		}
	}
	return -1
}
