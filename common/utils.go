package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Clamp limits v to [lo, hi].
func Clamp[T ~float32 | ~float64 | ~int](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseHexColor converts "#rrggbb" (or "rrggbb") into RGB components in [0, 1].
//
// Parameters:
//   - hex: the color string
//
// Returns:
//   - [3]float32: the RGB components
//   - error: error if the string is not a 6-digit hex color
func ParseHexColor(hex string) ([3]float32, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return [3]float32{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return [3]float32{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// MustHexColor is ParseHexColor for compile-time constants; it panics on malformed input.
func MustHexColor(hex string) [3]float32 {
	c, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}
