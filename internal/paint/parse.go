package paint

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// NamedColors maps CSS color names to their RGBA values.
var NamedColors = map[string]color.RGBA{
	"black":     {R: 0, G: 0, B: 0, A: 255},
	"white":     {R: 255, G: 255, B: 255, A: 255},
	"red":       {R: 255, G: 0, B: 0, A: 255},
	"green":     {R: 0, G: 128, B: 0, A: 255},
	"blue":      {R: 0, G: 0, B: 255, A: 255},
	"yellow":    {R: 255, G: 255, B: 0, A: 255},
	"cyan":      {R: 0, G: 255, B: 255, A: 255},
	"magenta":   {R: 255, G: 0, B: 255, A: 255},
	"gray":      {R: 128, G: 128, B: 128, A: 255},
	"grey":      {R: 128, G: 128, B: 128, A: 255},
	"silver":    {R: 192, G: 192, B: 192, A: 255},
	"lime":      {R: 0, G: 255, B: 0, A: 255},
	"navy":      {R: 0, G: 0, B: 128, A: 255},
	"teal":      {R: 0, G: 128, B: 128, A: 255},
	"purple":    {R: 128, G: 0, B: 128, A: 255},
	"orange":    {R: 255, G: 165, B: 0, A: 255},
	"pink":      {R: 255, G: 192, B: 203, A: 255},
	"gold":      {R: 255, G: 215, B: 0, A: 255},
	"indigo":    {R: 75, G: 0, B: 130, A: 255},
	"violet":    {R: 238, G: 130, B: 238, A: 255},
	"turquoise": {R: 64, G: 224, B: 208, A: 255},
	"crimson":   {R: 220, G: 20, B: 60, A: 255},

	"transparent": {R: 0, G: 0, B: 0, A: 0},
}

// ParseColor parses a color string and returns an RGBA color.
// Supported formats:
//   - Named colors: "red", "blue", "green", etc.
//   - Hex formats: "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA" (the # is optional)
//   - RGB function: "rgb(255, 0, 0)"
//   - RGBA function: "rgba(255, 0, 0, 0.5)" or "rgba(255, 0, 0, 128)"
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}

	if clr, ok := NamedColors[strings.ToLower(s)]; ok {
		return clr, nil
	}

	if strings.HasPrefix(s, "#") || isHexString(s) {
		return parseHexColor(s)
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "rgba("):
		return parseColorFunc(s, "rgba(", 4)
	case strings.HasPrefix(lower, "rgb("):
		return parseColorFunc(s, "rgb(", 3)
	}

	return color.RGBA{}, fmt.Errorf("unrecognized color format: %q", s)
}

// MustParseColor parses a color string and panics if parsing fails.
// Use this only for known-good color values in initialization code.
func MustParseColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ToHex converts a color to a hex string with # prefix.
// The alpha byte is only emitted when the color is not opaque.
func ToHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func isHexString(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, c := range s {
		if !isHexDigit(c) {
			return false
		}
	}
	return true
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'f') ||
		(c >= 'A' && c <= 'F')
}

// parseHexColor parses the four hex layouts. Shorthand forms are expanded
// to their long form first so a single decoding loop handles all of them.
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")

	switch len(s) {
	case 3, 4:
		var b strings.Builder
		for _, c := range s {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		s = b.String()
	case 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %d", len(s))
	}
	if len(s) == 6 {
		s += "ff"
	}

	names := [4]string{"red", "green", "blue", "alpha"}
	var channels [4]uint8
	for i := range channels {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid %s component: %w", names[i], err)
		}
		channels[i] = uint8(v)
	}
	return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}

// parseColorFunc parses "rgb(r, g, b)" and "rgba(r, g, b, a)".
func parseColorFunc(s, prefix string, want int) (color.RGBA, error) {
	if !strings.HasSuffix(s, ")") {
		return color.RGBA{}, fmt.Errorf("invalid %s) format: %q", prefix, s)
	}

	parts := strings.Split(s[len(prefix):len(s)-1], ",")
	if len(parts) != want {
		return color.RGBA{}, fmt.Errorf("%s) requires exactly %d values, got %d", prefix, want, len(parts))
	}

	out := color.RGBA{A: 255}
	targets := []*uint8{&out.R, &out.G, &out.B}
	for i, dst := range targets {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid channel %d: %w", i, err)
		}
		*dst = uint8(v)
	}
	if want == 4 {
		a, err := parseAlphaComponent(strings.TrimSpace(parts[3]))
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha value: %w", err)
		}
		out.A = a
	}
	return out, nil
}

// parseAlphaComponent accepts both 0-255 integers and 0.0-1.0 floats.
func parseAlphaComponent(s string) (uint8, error) {
	if strings.Contains(s, ".") {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return clampToByte(val), nil
	}

	val, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(val), nil
}
