package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	ifs "github.com/marben/chaosgame"
)

func TestHSBPrimaries(t *testing.T) {
	tests := []struct {
		h    float64
		want color.RGBA
	}{
		{0, color.RGBA{0xff, 0, 0, 0xff}},
		{1.0 / 3, color.RGBA{0, 0xff, 0, 0xff}},
		{2.0 / 3, color.RGBA{0, 0, 0xff, 0xff}},
		{1, color.RGBA{0xff, 0, 0, 0xff}},
		{-1.0 / 3, color.RGBA{0, 0, 0xff, 0xff}},
	}
	for _, tt := range tests {
		if got := hsb(tt.h, 1, 1); got != tt.want {
			t.Errorf("hsb(%v, 1, 1) = %v, want %v", tt.h, got, tt.want)
		}
	}
}

func TestToHSBInvertsHSB(t *testing.T) {
	for _, c := range []color.RGBA{
		{0xff, 0, 0, 0xff},
		{0x20, 0x80, 0xc0, 0xff},
		{0x10, 0x10, 0x10, 0xff},
	} {
		h, s, v := toHSB(c)
		if got := hsb(h, s, v); got != c {
			t.Errorf("hsb(toHSB(%v)) = %v", c, got)
		}
	}
}

func TestClamp01(t *testing.T) {
	for _, tt := range []struct{ in, want float64 }{
		{-1, 0}, {0.25, 0.25}, {2, 1}, {math.NaN(), 0},
	} {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColourFor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{1, 2, 3, 0xff})
	red, blue := color.RGBA{0xff, 0, 0, 0xff}, color.RGBA{0, 0, 0xff, 0xff}

	tests := []struct {
		name string
		cfg  Config
		j, n int
		lag  ifs.Point
		want color.RGBA
	}{
		{"gray", Config{Mode: ModeGray}, 1, 3, ifs.Point{}, white},
		{"gray inverse", Config{Mode: ModeGray, Variant: LogDensityInverse}, 1, 3, ifs.Point{}, black},
		{"palette wraps", Config{Mode: ModePalette, Palette: []color.RGBA{red, blue}}, 3, 4, ifs.Point{}, blue},
		{"gradient start", Config{Mode: ModeGradient, Start: red, End: blue}, 0, 3, ifs.Point{}, red},
		{"gradient end", Config{Mode: ModeGradient, Start: red, End: blue}, 2, 3, ifs.Point{}, blue},
		{"stealing", Config{Mode: ModeStealing, Source: src}, 0, 1, ifs.Point{X: 1, Y: 1}, color.RGBA{1, 2, 3, 0xff}},
		{"ifs hue from lag", Config{Mode: ModeIFS}, 0, 1, ifs.Point{X: 1.0 / 3, Y: 1}, color.RGBA{0, 0xff, 0, 0xff}},
		{"colour by index", Config{Mode: ModeColour}, 1, 3, ifs.Point{}, color.RGBA{0, 0xff, 0, 0xff}},
		{"empty palette falls back", Config{Mode: ModePalette}, 0, 2, ifs.Point{}, red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colourFor(&tt.cfg, tt.j, tt.n, tt.lag); got != tt.want {
				t.Errorf("colourFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShadeGamma(t *testing.T) {
	c := color.RGBA{0x80, 0, 0, 0xff}
	if got := shade(c, 1, 1); got != c {
		t.Errorf("shade with unit gamma = %v, want %v", got, c)
	}
	if got := shade(c, 2, 1); got.R >= c.R {
		t.Errorf("gamma 2 should darken: got red %d from %d", got.R, c.R)
	}
	if got := shade(color.RGBA{0x80, 0x40, 0x40, 0xff}, 1, 0); got.R != got.G || got.G != got.B {
		t.Errorf("zero vibrancy should desaturate, got %v", got)
	}
}
