package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is written as a YAML sequence [x, y, z] or as the text "x, y, z",
// the form INI files use.
type Vec3 [3]float64

type Vec2 [2]float64

func (v Vec3) Mgl() mgl64.Vec3 { return mgl64.Vec3(v) }
func (v Vec2) Mgl() mgl64.Vec2 { return mgl64.Vec2(v) }

func (v *Vec3) UnmarshalText(text []byte) error {
	return parseFloats(string(text), v[:])
}

func (v *Vec2) UnmarshalText(text []byte) error {
	return parseFloats(string(text), v[:])
}

func parseFloats(s string, dst []float64) error {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != len(dst) {
		return fmt.Errorf("expected %d components, got %q", len(dst), s)
	}
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		dst[i] = x
	}
	return nil
}
