package brand

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#RRGGBB" (the leading '#' is optional).
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is like ParseHex but panics on malformed input.
func MustHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as uppercase "RRGGBB" without a leading '#',
// the form WordprocessingML expects.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// String returns "#RRGGBB".
func (c RGB) String() string {
	return "#" + c.Hex()
}

// Tint mixes c toward white. amount 0 returns c, 1 returns white.
func (c RGB) Tint(amount float64) RGB {
	amount = math.Max(0, math.Min(1, amount))
	mix := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) + (255-float64(v))*amount))
	}
	return RGB{R: mix(c.R), G: mix(c.G), B: mix(c.B)}
}

// NormalizeHex converts any accepted color spelling to "RRGGBB".
// Invalid input is returned unchanged.
func NormalizeHex(s string) string {
	c, err := ParseHex(s)
	if err != nil {
		return s
	}
	return c.Hex()
}
