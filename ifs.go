package ifs

import (
	"image"
	"maps"
	"math"
	"slices"
)

// Point in canvas or unit space.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point          { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point          { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point        { return Point{p.X * k, p.Y * k} }
func (p Point) IsFinite() bool             { return !math.IsNaN(p.X+p.Y) && !math.IsInf(p.X+p.Y, 0) }
func (p Point) Div(size image.Point) Point { return Point{p.X / float64(size.X), p.Y / float64(size.Y)} }

// Scaled maps a unit-space point onto a canvas of the given size.
func (p Point) Scaled(size image.Point) Point {
	return Point{p.X * float64(size.X), p.Y * float64(size.Y)}
}

// Affine is a 2x3 row-major affine matrix:
//
//	| a  b  c |
//	| d  e  f |
type Affine struct {
	A, B, C float64
	D, E, F float64
}

func Identity() Affine { return Affine{A: 1, E: 1} }

func Translate(x, y float64) Affine { return Affine{A: 1, C: x, E: 1, F: y} }

func Scale(x, y float64) Affine { return Affine{A: x, E: y} }

// Rotate returns a rotation by angle radians.
func Rotate(angle float64) Affine {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return Affine{A: cos, B: -sin, D: sin, E: cos}
}

func Shear(x, y float64) Affine { return Affine{A: 1, B: x, D: y, E: 1} }

// Multiply returns m * o, i.e. o is applied first.
func (m Affine) Multiply(o Affine) Affine {
	return Affine{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

func (m Affine) Det() float64 { return m.A*m.E - m.B*m.D }

// Invert returns the inverse map; ok is false for singular matrices.
func (m Affine) Invert() (inv Affine, ok bool) {
	det := m.Det()
	if det == 0 {
		return Affine{}, false
	}
	inv = Affine{
		A: m.E / det, B: -m.B / det,
		D: -m.D / det, E: m.A / det,
	}
	inv.C = -(inv.A*m.C + inv.B*m.F)
	inv.F = -(inv.D*m.C + inv.E*m.F)
	return inv, true
}

func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Transform is a weighted affine map defined on the unit square.
// A zero Explicit weight means the weight is derived from the determinant.
type Transform struct {
	Affine   Affine
	Explicit float64

	size image.Point
}

func NewTransform(m Affine) *Transform { return &Transform{Affine: m} }

// WithWeight sets an explicit selection weight.
func (t *Transform) WithWeight(w float64) *Transform {
	t.Explicit = w
	return t
}

func (t *Transform) Weight() float64 {
	if t.Explicit > 0 {
		return t.Explicit
	}
	return math.Abs(t.Affine.Det())
}

func (t *Transform) Apply(p Point) Point {
	if t.size.X == 0 || t.size.Y == 0 {
		return t.Affine.Apply(p)
	}
	return t.Affine.Apply(p.Div(t.size)).Scaled(t.size)
}

func (t *Transform) Size() image.Point        { return t.size }
func (t *Transform) SetSize(size image.Point) { t.size = size }

// Reflection mirrors points across the line through Centre at Angle radians.
// Reflections are never weighted.
type Reflection struct {
	Centre Point
	Angle  float64

	size image.Point
}

func NewReflection(centre Point, angle float64) *Reflection {
	return &Reflection{Centre: centre, Angle: angle}
}

func (r *Reflection) Apply(p Point) Point {
	c := r.Centre
	if r.size.X != 0 && r.size.Y != 0 {
		c = c.Scaled(r.size)
	}
	cos, sin := math.Cos(2*r.Angle), math.Sin(2*r.Angle)
	d := p.Sub(c)
	return Point{
		X: c.X + d.X*cos + d.Y*sin,
		Y: c.Y + d.X*sin - d.Y*cos,
	}
}

func (r *Reflection) Size() image.Point        { return r.size }
func (r *Reflection) SetSize(size image.Point) { r.size = size }

// System is the model of an IFS: ordered transforms and reflections plus the
// single distortion applied after every map.
type System struct {
	Name        string
	Transforms  []*Transform
	Reflections []*Reflection
	Distortion  *Distortion
}

// Functions returns the ordered maps, transforms first.
func (s *System) Functions() []Function {
	fs := make([]Function, 0, len(s.Transforms)+len(s.Reflections))
	for _, t := range s.Transforms {
		fs = append(fs, t)
	}
	for _, r := range s.Reflections {
		fs = append(fs, r)
	}
	return fs
}

// SetSize scales every function of the system to the canvas.
func (s *System) SetSize(size image.Point) {
	for _, f := range s.Functions() {
		f.SetSize(size)
	}
	if s.Distortion != nil {
		s.Distortion.SetSize(size)
	}
}

// Classic attractors
var (
	// Sierpinski triangle – three half-scale copies
	Sierpinski = func() *System {
		return &System{
			Name: "sierpinski",
			Transforms: []*Transform{
				NewTransform(Translate(0.25, 0.5).Multiply(Scale(0.5, 0.5))),
				NewTransform(Translate(0.5, 0).Multiply(Scale(0.5, 0.5))),
				NewTransform(Scale(0.5, 0.5)),
			},
		}
	}

	// Barnsley fern – four maps with the classic 1/85/7/7 weights
	BarnsleyFern = func() *System {
		return &System{
			Name: "fern",
			Transforms: []*Transform{
				NewTransform(unitFrame(Affine{A: 0, B: 0, C: 0, D: 0, E: 0.16, F: 0})).WithWeight(0.01),
				NewTransform(unitFrame(Affine{A: 0.85, B: 0.04, C: 0, D: -0.04, E: 0.85, F: 1.6})).WithWeight(0.85),
				NewTransform(unitFrame(Affine{A: 0.2, B: -0.26, C: 0, D: 0.23, E: 0.22, F: 1.6})).WithWeight(0.07),
				NewTransform(unitFrame(Affine{A: -0.15, B: 0.28, C: 0, D: 0.26, E: 0.24, F: 0.44})).WithWeight(0.07),
			},
		}
	}

	// Heighway dragon – two rotated copies scaled by 1/sqrt(2)
	Dragon = func() *System {
		frame := Translate(0.3, 0.5).Multiply(Scale(0.6, 0.6))
		return &System{
			Name: "dragon",
			Transforms: []*Transform{
				NewTransform(conjugate(frame, Affine{A: 0.5, B: -0.5, D: 0.5, E: 0.5})),
				NewTransform(conjugate(frame, Affine{A: -0.5, B: -0.5, C: 1, D: 0.5, E: -0.5})),
			},
		}
	}

	// Maple leaf – four overlapping contractions
	Maple = func() *System {
		return &System{
			Name: "maple",
			Transforms: []*Transform{
				NewTransform(Affine{A: 0.14, B: 0.01, C: 0.43, D: 0, E: 0.51, F: 0.45}),
				NewTransform(Affine{A: 0.43, B: 0.52, C: 0.18, D: -0.45, E: 0.50, F: 0.45}),
				NewTransform(Affine{A: 0.45, B: -0.49, C: 0.41, D: 0.47, E: 0.47, F: 0.03}),
				NewTransform(Affine{A: 0.49, B: 0, C: 0.25, D: 0, E: 0.51, F: 0.02}),
			},
		}
	}

	// Spiral – a rotating contraction about the centre plus a small satellite
	Spiral = func() *System {
		return &System{
			Name: "spiral",
			Transforms: []*Transform{
				NewTransform(about(Point{0.5, 0.5}, Rotate(0.3).Multiply(Scale(0.9, 0.9)))).WithWeight(0.9),
				NewTransform(about(Point{0.8, 0.5}, Scale(0.15, 0.15))).WithWeight(0.1),
			},
			Reflections: []*Reflection{NewReflection(Point{0.5, 0.5}, math.Pi/2)},
		}
	}

	// Koch curve – four third-scale copies
	Koch = func() *System {
		third := Scale(1.0/3, 1.0/3)
		return &System{
			Name: "koch",
			Transforms: []*Transform{
				NewTransform(Translate(0, 2.0/3).Multiply(third)),
				NewTransform(Translate(1.0/3, 2.0/3).Multiply(Rotate(-math.Pi / 3)).Multiply(third)),
				NewTransform(Translate(0.5, 2.0/3-math.Sqrt(3)/6).Multiply(Rotate(math.Pi / 3)).Multiply(third)),
				NewTransform(Translate(2.0/3, 2.0/3).Multiply(third)),
			},
		}
	}
)

// Presets by name.
var Presets = map[string]func() *System{
	"sierpinski": Sierpinski,
	"fern":       BarnsleyFern,
	"dragon":     Dragon,
	"maple":      Maple,
	"spiral":     Spiral,
	"koch":       Koch,
}

// unitFrame moves a map written for the fern's [-2.5,2.5]x[0,10] frame onto
// the unit square, flipping y so the fern grows upwards.
func unitFrame(m Affine) Affine {
	return conjugate(Translate(0.5, 1).Multiply(Scale(0.1, -0.1)), m)
}

// about conjugates m so that it acts around c.
func about(c Point, m Affine) Affine {
	return conjugate(Translate(c.X, c.Y), m)
}

// conjugate returns frame * m * frame^-1.
func conjugate(frame, m Affine) Affine {
	inv, _ := frame.Invert()
	return frame.Multiply(m).Multiply(inv)
}

// PresetNames lists the built-in systems in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(Presets))
}
