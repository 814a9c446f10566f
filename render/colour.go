package render

import (
	"image/color"
	"math"

	ifs "github.com/marben/chaosgame"
)

// paintAlpha is the opacity of one direct paint; repeated hits build up.
const paintAlpha = 0.5

// colourFor picks the colour of a drawn function j of n, with lag the lag
// point normalised to the unit square.
func colourFor(cfg *Config, j, n int, lag ifs.Point) color.RGBA {
	switch cfg.Mode {
	case ModeGray:
		if cfg.Variant.IsInverse() {
			return color.RGBA{A: 0xff}
		}
		return color.RGBA{0xff, 0xff, 0xff, 0xff}
	case ModePalette:
		if len(cfg.Palette) > 0 {
			return cfg.Palette[j%len(cfg.Palette)]
		}
	case ModeGradient:
		t := 0.0
		if n > 1 {
			t = float64(j) / float64(n-1)
		}
		return lerpRGBA(cfg.Start, cfg.End, t)
	case ModeStealing:
		if cfg.Source != nil {
			b := cfg.Source.Bounds()
			x := b.Min.X + int(clamp01(lag.X)*float64(b.Dx()-1))
			y := b.Min.Y + int(clamp01(lag.Y)*float64(b.Dy()-1))
			return color.RGBAModel.Convert(cfg.Source.At(x, y)).(color.RGBA)
		}
	case ModeIFS:
		h := lag.X - math.Floor(lag.X)
		return hsb(h, clamp01(lag.Y), 1)
	}
	if n == 0 {
		return hsb(0, 1, 1)
	}
	return hsb(float64(j)/float64(n), 1, 1)
}

// shade applies gamma to the brightness and vibrancy to the saturation.
func shade(c color.RGBA, gamma, vibrancy float64) color.RGBA {
	h, s, v := toHSB(c)
	return hsb(h, clamp01(s*vibrancy), math.Pow(v, gamma))
}

// hsb converts hue, saturation and brightness in [0,1] to RGB.
func hsb(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{to8(r), to8(g), to8(b), 0xff}
}

// toHSB is the inverse of hsb.
func toHSB(c color.RGBA) (h, s, v float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	v = hi
	if hi == 0 {
		return 0, 0, 0
	}
	d := hi - lo
	s = d / hi
	if d == 0 {
		return 0, s, v
	}
	switch hi {
	case r:
		h = (g - b) / d
		if h < 0 {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, v
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	l := func(x, y uint8) uint8 { return to8((float64(x) + (float64(y)-float64(x))*t) / 255) }
	return color.RGBA{l(a.R, b.R), l(a.G, b.G), l(a.B, b.B), 0xff}
}

// blend draws src over dst with the given opacity.
func blend(dst, src color.RGBA, alpha float64) color.RGBA {
	return lerpRGBA(dst, src, alpha)
}

func to8(x float64) uint8 {
	return uint8(math.Round(clamp01(x) * 255))
}

func clamp01(x float64) float64 {
	switch {
	case x < 0 || math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	}
	return x
}
