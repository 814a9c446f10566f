package ifs

import (
	"image"
	"math"
	"testing"
)

const eps = 1e-9

func near(p, q Point) bool {
	return math.Abs(p.X-q.X) < eps && math.Abs(p.Y-q.Y) < eps
}

func TestAffineApply(t *testing.T) {
	tests := []struct {
		name string
		m    Affine
		in   Point
		want Point
	}{
		{"identity", Identity(), Point{3, 4}, Point{3, 4}},
		{"translate", Translate(1, -2), Point{3, 4}, Point{4, 2}},
		{"scale", Scale(0.5, 2), Point{3, 4}, Point{1.5, 8}},
		{"rotate quarter", Rotate(math.Pi / 2), Point{1, 0}, Point{0, 1}},
		{"shear", Shear(1, 0), Point{1, 1}, Point{2, 1}},
		{"translate after scale", Translate(1, 1).Multiply(Scale(2, 2)), Point{1, 1}, Point{3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Apply(tt.in); !near(got, tt.want) {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAffineInvert(t *testing.T) {
	m := Translate(0.3, -1).Multiply(Rotate(0.7)).Multiply(Scale(2, 0.5))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() reported a singular matrix")
	}
	p := Point{0.25, 0.75}
	if got := inv.Apply(m.Apply(p)); !near(got, p) {
		t.Errorf("inv(m(p)) = %v, want %v", got, p)
	}
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("singular matrix inverted")
	}
}

func TestTransformWeight(t *testing.T) {
	tests := []struct {
		name string
		tr   *Transform
		want float64
	}{
		{"determinant", NewTransform(Scale(0.5, 0.5)), 0.25},
		{"mirrored determinant", NewTransform(Scale(-0.5, 0.5)), 0.25},
		{"explicit", NewTransform(Scale(0.5, 0.5)).WithWeight(0.9), 0.9},
		{"singular", NewTransform(Scale(0, 1)), 0},
	}
	for _, tt := range tests {
		if got := tt.tr.Weight(); math.Abs(got-tt.want) > eps {
			t.Errorf("%s: Weight() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTransformScalesToCanvas(t *testing.T) {
	tr := NewTransform(Translate(0.5, 0).Multiply(Scale(0.5, 0.5)))
	if got := tr.Apply(Point{1, 1}); !near(got, Point{1, 0.5}) {
		t.Errorf("unit space Apply = %v", got)
	}
	tr.SetSize(image.Pt(200, 100))
	if got := tr.Apply(Point{200, 100}); !near(got, Point{200, 50}) {
		t.Errorf("canvas Apply = %v, want {200 50}", got)
	}
}

func TestReflection(t *testing.T) {
	r := NewReflection(Point{0.5, 0.5}, 0)
	if got := r.Apply(Point{0.2, 0.9}); !near(got, Point{0.2, 0.1}) {
		t.Errorf("horizontal mirror = %v, want {0.2 0.1}", got)
	}
	r = NewReflection(Point{0.5, 0.5}, math.Pi/2)
	r.SetSize(image.Pt(100, 100))
	if got := r.Apply(Point{10, 30}); !near(got, Point{90, 30}) {
		t.Errorf("vertical mirror = %v, want {90 30}", got)
	}
	if got := r.Apply(r.Apply(Point{13, 77})); !near(got, Point{13, 77}) {
		t.Errorf("reflection is not an involution: %v", got)
	}
}

func TestPresetsContract(t *testing.T) {
	for name, preset := range Presets {
		t.Run(name, func(t *testing.T) {
			s := preset()
			if s.Name != name {
				t.Errorf("Name = %q", s.Name)
			}
			for i, tr := range s.Transforms {
				if tr.Weight() <= 0 {
					t.Errorf("transform %d has weight %v", i, tr.Weight())
				}
				// Each map must pull the unit square's centre somewhere finite.
				if p := tr.Apply(Point{0.5, 0.5}); !p.IsFinite() {
					t.Errorf("transform %d maps the centre to %v", i, p)
				}
			}
			s.SetSize(image.Pt(64, 48))
			for _, f := range s.Functions() {
				if f.Size() != image.Pt(64, 48) {
					t.Errorf("function size %v after SetSize", f.Size())
				}
			}
		})
	}
}

func TestPointIsFinite(t *testing.T) {
	for _, tt := range []struct {
		p    Point
		want bool
	}{
		{Point{1, 2}, true},
		{Point{math.NaN(), 0}, false},
		{Point{0, math.Inf(-1)}, false},
	} {
		if got := tt.p.IsFinite(); got != tt.want {
			t.Errorf("IsFinite(%v) = %v", tt.p, got)
		}
	}
}

func TestPresetNamesSorted(t *testing.T) {
	names := PresetNames()
	if len(names) != len(Presets) {
		t.Fatalf("got %d names for %d presets", len(names), len(Presets))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
