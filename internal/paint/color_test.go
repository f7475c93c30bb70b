package paint

import (
	"image/color"
	"math"
	"testing"
)

const epsilon = 1e-9

func colorsClose(a, b Color) bool {
	return math.Abs(a.R-b.R) < epsilon &&
		math.Abs(a.G-b.G) < epsilon &&
		math.Abs(a.B-b.B) < epsilon &&
		math.Abs(a.A-b.A) < epsilon
}

func TestSpectrum(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		want  Color
	}{
		{"zero is red", 0, RGB(1, 0, 0)},
		{"third turn is green", FullTurn / 3, RGB(0, 1, 0)},
		{"two thirds is blue", 2 * FullTurn / 3, RGB(0, 0, 1)},
		{"sixth turn is yellow", FullTurn / 6, RGB(1, 1, 0)},
		{"full turn wraps to red", FullTurn, RGB(1, 0, 0)},
		{"negative angle wraps", -FullTurn / 3, RGB(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Spectrum(tt.angle)
			if math.Abs(got.R-tt.want.R) > 1e-6 ||
				math.Abs(got.G-tt.want.G) > 1e-6 ||
				math.Abs(got.B-tt.want.B) > 1e-6 ||
				got.A != 1 {
				t.Errorf("Spectrum(%v) = %+v, want %+v", tt.angle, got, tt.want)
			}
		})
	}
}

func TestSpectrumNaN(t *testing.T) {
	got := Spectrum(math.NaN())
	for _, ch := range []float64{got.R, got.G, got.B, got.A} {
		if math.IsNaN(ch) || ch < 0 || ch > 1 {
			t.Fatalf("Spectrum(NaN) produced invalid channel: %+v", got)
		}
	}
}

func TestLerp(t *testing.T) {
	from := Color{R: 0, G: 0.2, B: 1, A: 0}
	to := Color{R: 1, G: 0.4, B: 0, A: 1}

	if got := Lerp(from, to, 0); !colorsClose(got, from) {
		t.Errorf("Lerp t=0 = %+v, want %+v", got, from)
	}
	if got := Lerp(from, to, 1); !colorsClose(got, to) {
		t.Errorf("Lerp t=1 = %+v, want %+v", got, to)
	}
	want := Color{R: 0.5, G: 0.3, B: 0.5, A: 0.5}
	if got := Lerp(from, to, 0.5); !colorsClose(got, want) {
		t.Errorf("Lerp t=0.5 = %+v, want %+v", got, want)
	}
}

func TestSanitize(t *testing.T) {
	got := Color{R: math.NaN(), G: -1, B: 2, A: 0.25}.Sanitize()
	want := Color{R: 0, G: 0, B: 1, A: 0.25}
	if got != want {
		t.Errorf("Sanitize = %+v, want %+v", got, want)
	}
}

func TestColorRGBARoundTrip(t *testing.T) {
	in := color.RGBA{R: 10, G: 128, B: 255, A: 77}
	if got := FromRGBA(in).RGBA(); got != in {
		t.Errorf("round trip = %v, want %v", got, in)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{input: "red", want: color.RGBA{R: 255, A: 255}},
		{input: "  White ", want: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{input: "#f60", want: color.RGBA{R: 255, G: 102, A: 255}},
		{input: "#f608", want: color.RGBA{R: 255, G: 102, A: 136}},
		{input: "#FF6600", want: color.RGBA{R: 255, G: 102, A: 255}},
		{input: "ff660080", want: color.RGBA{R: 255, G: 102, A: 128}},
		{input: "rgb(1, 2, 3)", want: color.RGBA{R: 1, G: 2, B: 3, A: 255}},
		{input: "rgba(1, 2, 3, 0.5)", want: color.RGBA{R: 1, G: 2, B: 3, A: 128}},
		{input: "RGBA(1, 2, 3, 64)", want: color.RGBA{R: 1, G: 2, B: 3, A: 64}},
		{input: "", wantErr: true},
		{input: "#12345", wantErr: true},
		{input: "#gggggg", wantErr: true},
		{input: "rgb(1, 2)", wantErr: true},
		{input: "rgb(1, 2, 300)", wantErr: true},
		{input: "not-a-color", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseColor(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToHex(t *testing.T) {
	if got := ToHex(color.RGBA{R: 255, G: 102, A: 255}); got != "#FF6600" {
		t.Errorf("ToHex opaque = %s", got)
	}
	if got := ToHex(color.RGBA{R: 255, G: 102, A: 128}); got != "#FF660080" {
		t.Errorf("ToHex translucent = %s", got)
	}
}
