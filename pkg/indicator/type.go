package indicator

import (
	"errors"
	"fmt"
	"strings"
)

// Type identifies an indicator animation.
type Type int

const (
	// BlankType shows nothing.
	BlankType Type = iota
	// GradientCircleRotateType spins a conical gradient ring, pausing
	// briefly at the start of every turn.
	GradientCircleRotateType
)

// ErrUnknownType is returned by ParseType for names it does not know.
var ErrUnknownType = errors.New("unknown indicator type")

var typeNames = map[Type]string{
	BlankType:                "blank",
	GradientCircleRotateType: "gradient_circle_rotate",
}

// Types returns every known type in declaration order.
func Types() []Type {
	return []Type{BlankType, GradientCircleRotateType}
}

// String returns the configuration name of the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType resolves a configuration name. Matching ignores case and the
// separators '_', '-' and ' ', so "gradientCircleRotate" is accepted too.
func ParseType(name string) (Type, error) {
	key := normalizeTypeName(name)
	for t, n := range typeNames {
		if normalizeTypeName(n) == key {
			return t, nil
		}
	}
	return BlankType, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

func normalizeTypeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if _, ok := typeNames[t]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
