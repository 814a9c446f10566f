package render

import (
	"image"
	"math"
	"math/rand/v2"
	"sync/atomic"

	ifs "github.com/marben/chaosgame"
)

// Orbit is the single chaos-game orbit shared by every ITERATE task. Slot 0
// holds the current position, slot 1 a lagging position used only to pick
// colours. Each slot packs two float32 coordinates into one 64-bit word so an
// update is a plain compare-and-swap; interleaved updates from several tasks
// still form a valid orbit of the same system.
type Orbit struct {
	current atomic.Uint64
	lag     atomic.Uint64
}

func pack(p ifs.Point) uint64 {
	return uint64(math.Float32bits(float32(p.X)))<<32 | uint64(math.Float32bits(float32(p.Y)))
}

func unpack(v uint64) ifs.Point {
	return ifs.Point{
		X: float64(math.Float32frombits(uint32(v >> 32))),
		Y: float64(math.Float32frombits(uint32(v))),
	}
}

// Seed places both slots at random points of a canvas of the given size.
func (o *Orbit) Seed(rnd *rand.Rand, size image.Point) {
	o.current.Store(pack(randomPoint(rnd, size)))
	o.lag.Store(pack(randomPoint(rnd, size)))
}

func randomPoint(rnd *rand.Rand, size image.Point) ifs.Point {
	return ifs.Point{X: rnd.Float64() * float64(size.X), Y: rnd.Float64() * float64(size.Y)}
}

// Current returns the current position.
func (o *Orbit) Current() ifs.Point { return unpack(o.current.Load()) }

// Advance moves both slots through f followed by the distortion and returns
// the new current position together with the lag position as it was before
// this step.
func (o *Orbit) Advance(f ifs.Function, fs *FunctionSet) (cur, lag ifs.Point) {
	for {
		old := o.current.Load()
		cur = fs.Distort(f.Apply(unpack(old)))
		if o.current.CompareAndSwap(old, pack(cur)) {
			break
		}
	}
	for {
		old := o.lag.Load()
		lag = unpack(old)
		if o.lag.CompareAndSwap(old, pack(fs.Distort(f.Apply(lag)))) {
			break
		}
	}
	return cur, lag
}

// Reseed replaces slots that escaped to NaN or infinity.
func (o *Orbit) Reseed(rnd *rand.Rand, size image.Point) {
	if old := o.current.Load(); !unpack(old).IsFinite() {
		o.current.CompareAndSwap(old, pack(randomPoint(rnd, size)))
	}
	if old := o.lag.Load(); !unpack(old).IsFinite() {
		o.lag.CompareAndSwap(old, pack(randomPoint(rnd, size)))
	}
}
