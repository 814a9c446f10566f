package render

import (
	"image"
	"math"
	"math/rand/v2"
	"testing"

	ifs "github.com/marben/chaosgame"
)

func TestPackRoundTrip(t *testing.T) {
	for _, p := range []ifs.Point{
		{},
		{X: 1.5, Y: -2.25},
		{X: 1920, Y: 1080},
		{X: -0.125, Y: 1e6},
	} {
		if got := unpack(pack(p)); got != p {
			t.Errorf("unpack(pack(%v)) = %v", p, got)
		}
	}
}

func TestAdvanceReturnsPriorLag(t *testing.T) {
	var o Orbit
	o.current.Store(pack(ifs.Point{X: 1, Y: 2}))
	o.lag.Store(pack(ifs.Point{X: 10, Y: 20}))

	fs := NewFunctionSet(nil, nil)
	step := ifs.NewTransform(ifs.Translate(1, 1))

	cur, lag := o.Advance(step, fs)
	if want := (ifs.Point{X: 2, Y: 3}); cur != want {
		t.Errorf("current = %v, want %v", cur, want)
	}
	if want := (ifs.Point{X: 10, Y: 20}); lag != want {
		t.Errorf("lag = %v, want the value before the step %v", lag, want)
	}
	if got, want := unpack(o.lag.Load()), (ifs.Point{X: 11, Y: 21}); got != want {
		t.Errorf("lag slot = %v, want %v", got, want)
	}
}

func TestAdvanceAppliesDistortion(t *testing.T) {
	var o Orbit
	o.current.Store(pack(ifs.Point{X: 25, Y: 50}))

	d, err := ifs.DistortionByName("sinusoidal")
	if err != nil {
		t.Fatal(err)
	}
	d.SetSize(image.Pt(100, 100))
	fs := NewFunctionSet(nil, d)

	cur, _ := o.Advance(ifs.NewTransform(ifs.Identity()), fs)
	if want := d.Apply(ifs.Point{X: 25, Y: 50}); cur != want {
		t.Errorf("current = %v, want distorted %v", cur, want)
	}
}

func TestSeedInsideCanvas(t *testing.T) {
	var o Orbit
	size := image.Pt(64, 32)
	rnd := rand.New(rand.NewPCG(7, 8))
	for range 100 {
		o.Seed(rnd, size)
		for _, p := range []ifs.Point{o.Current(), unpack(o.lag.Load())} {
			if p.X < 0 || p.Y < 0 || p.X > 64 || p.Y > 32 {
				t.Fatalf("seed %v outside %v", p, size)
			}
		}
	}
}

func TestReseedReplacesNonFinite(t *testing.T) {
	var o Orbit
	o.current.Store(pack(ifs.Point{X: math.Inf(1), Y: 0}))
	o.lag.Store(pack(ifs.Point{X: 3, Y: 4}))

	o.Reseed(rand.New(rand.NewPCG(1, 1)), image.Pt(10, 10))
	if !o.Current().IsFinite() {
		t.Errorf("current still %v", o.Current())
	}
	if got := unpack(o.lag.Load()); got != (ifs.Point{X: 3, Y: 4}) {
		t.Errorf("finite lag changed to %v", got)
	}
}
