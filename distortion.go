package ifs

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// Distortion is a coordinate distortion applied after every map. The
// underlying formula works in centred coordinates where the canvas spans
// [-1,1] on both axes.
type Distortion struct {
	Name string

	fn   func(x, y float64) (float64, float64)
	size image.Point
}

var distortions = map[string]func(x, y float64) (float64, float64){
	"linear": func(x, y float64) (float64, float64) { return x, y },
	"sinusoidal": func(x, y float64) (float64, float64) {
		return math.Sin(x), math.Sin(y)
	},
	"spherical": func(x, y float64) (float64, float64) {
		r2 := x*x + y*y
		if r2 == 0 {
			return x, y
		}
		return x / r2, y / r2
	},
	"swirl": func(x, y float64) (float64, float64) {
		r2 := x*x + y*y
		sin, cos := math.Sin(r2), math.Cos(r2)
		return x*sin - y*cos, x*cos + y*sin
	},
	"horseshoe": func(x, y float64) (float64, float64) {
		r := math.Hypot(x, y)
		if r == 0 {
			return x, y
		}
		return (x - y) * (x + y) / r, 2 * x * y / r
	},
	"polar": func(x, y float64) (float64, float64) {
		return math.Atan2(x, y) / math.Pi, math.Hypot(x, y) - 1
	},
	"handkerchief": func(x, y float64) (float64, float64) {
		r := math.Hypot(x, y)
		theta := math.Atan2(x, y)
		return r * math.Sin(theta+r), r * math.Cos(theta-r)
	},
}

// DistortionNames lists the known distortions in sorted order.
func DistortionNames() []string {
	names := make([]string, 0, len(distortions))
	for name := range distortions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DistortionByName returns a fresh distortion; the empty name means linear.
func DistortionByName(name string) (*Distortion, error) {
	if name == "" {
		name = "linear"
	}
	fn, ok := distortions[name]
	if !ok {
		return nil, fmt.Errorf("unknown distortion %q: %w", name, ErrInvalidSystem)
	}
	return &Distortion{Name: name, fn: fn}, nil
}

// Linear is the identity distortion.
func Linear() *Distortion {
	d, _ := DistortionByName("linear")
	return d
}

// IsLinear reports whether d leaves points untouched.
func (d *Distortion) IsLinear() bool {
	return d == nil || d.fn == nil || d.Name == "linear"
}

func (d *Distortion) Apply(p Point) Point {
	if d.IsLinear() {
		return p
	}
	w, h := float64(d.size.X), float64(d.size.Y)
	if w == 0 || h == 0 {
		w, h = 2, 2
	}
	x, y := d.fn(2*p.X/w-1, 2*p.Y/h-1)
	return Point{X: (x + 1) * w / 2, Y: (y + 1) * h / 2}
}

func (d *Distortion) Size() image.Point        { return d.size }
func (d *Distortion) SetSize(size image.Point) { d.size = size }
