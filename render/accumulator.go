package render

import (
	"image"
	"image/color"
	"math"
	"sync/atomic"
)

// Accumulator holds the per-pixel statistics of one render. All buffers are
// updated without locks; lost colour writes between tasks are accepted, hit
// counts use compare-and-swap so they never decrease.
type Accumulator struct {
	width, height int
	kernel        int
	bw, bh        int

	top     []atomic.Int32
	density []atomic.Uint32
	blur    []atomic.Uint32
	colour  []atomic.Uint32 // packed RGBA running average
	canvas  []atomic.Uint32 // packed RGBA of the directly painted image

	max       atomic.Uint32
	overflows atomic.Uint64
}

// NewAccumulator allocates buffers for a canvas of the given size, with the
// painted canvas cleared to bg.
func NewAccumulator(size image.Point, kernel int, bg color.RGBA) *Accumulator {
	kernel = max(kernel, 1)
	w, h := max(size.X, 0), max(size.Y, 0)
	bw, bh := (w+kernel-1)/kernel, (h+kernel-1)/kernel
	a := &Accumulator{
		width:   w,
		height:  h,
		kernel:  kernel,
		bw:      bw,
		bh:      bh,
		top:     make([]atomic.Int32, w*h),
		density: make([]atomic.Uint32, w*h),
		blur:    make([]atomic.Uint32, bw*bh),
		colour:  make([]atomic.Uint32, w*h),
		canvas:  make([]atomic.Uint32, w*h),
	}
	a.max.Store(1)
	bgv := packRGBA(bg)
	for i := range a.canvas {
		a.canvas[i].Store(bgv)
	}
	return a
}

func (a *Accumulator) Size() image.Point { return image.Pt(a.width, a.height) }
func (a *Accumulator) Kernel() int       { return a.kernel }
func (a *Accumulator) Len() int          { return len(a.density) }
func (a *Accumulator) BlurLen() int      { return len(a.blur) }
func (a *Accumulator) Max() uint32       { return a.max.Load() }
func (a *Accumulator) Overflows() uint64 { return a.overflows.Load() }

func (a *Accumulator) Density(p int) uint32 { return a.density[p].Load() }
func (a *Accumulator) Top(p int) int32      { return a.top[p].Load() }

// Index returns the pixel and blur bucket indices of (x, y); ok is false for
// points outside the canvas, which are dropped.
func (a *Accumulator) Index(x, y int) (p, q int, ok bool) {
	if x < 0 || y < 0 || x >= a.width || y >= a.height {
		return 0, 0, false
	}
	return y*a.width + x, (y/a.kernel)*a.bw + x/a.kernel, true
}

// addChecked returns a+b and whether the sum did not wrap.
func addChecked(a, b uint32) (uint32, bool) {
	s := a + b
	return s, s >= a
}

// mulChecked scales a by k, rounding up so the value always grows.
func mulChecked(a uint32, k float64) (uint32, bool) {
	if a == 0 {
		return 1, true
	}
	f := math.Ceil(float64(a) * k)
	if f > math.MaxUint32 {
		return a, false
	}
	return uint32(f), true
}

// Hit records one visit of pixel p (blur bucket q). Power variants multiply
// the count by 1.01 instead of adding one. On overflow the increment is
// skipped, the previous value kept and ok is false.
func (a *Accumulator) Hit(p, q int, blur, power bool) (count uint32, ok bool) {
	var next uint32
	for {
		old := a.density[p].Load()
		if power {
			next, ok = mulChecked(old, 1.01)
		} else {
			next, ok = addChecked(old, 1)
		}
		if !ok {
			a.overflows.Add(1)
			return old, false
		}
		if a.density[p].CompareAndSwap(old, next) {
			break
		}
	}
	if blur {
		for {
			old := a.blur[q].Load()
			b, fits := addChecked(old, 1)
			if !fits {
				a.overflows.Add(1)
				break
			}
			if a.blur[q].CompareAndSwap(old, b) {
				break
			}
		}
	}
	for {
		m := a.max.Load()
		if next <= m || a.max.CompareAndSwap(m, next) {
			break
		}
	}
	return next, true
}

// RaiseTop stores j at p if it is greater than the recorded index and returns
// the index now held.
func (a *Accumulator) RaiseTop(p int, j int32) int32 {
	for {
		old := a.top[p].Load()
		if j <= old || a.top[p].CompareAndSwap(old, j) {
			return max(old, j)
		}
	}
}

// MixColour folds c into the running colour of p as a two-sample average.
func (a *Accumulator) MixColour(p int, c color.RGBA) {
	old := a.colour[p].Load()
	if old == 0 {
		a.colour[p].Store(packRGBA(c))
		return
	}
	o := unpackRGBA(old)
	a.colour[p].Store(packRGBA(color.RGBA{
		R: uint8((uint16(o.R) + uint16(c.R)) / 2),
		G: uint8((uint16(o.G) + uint16(c.G)) / 2),
		B: uint8((uint16(o.B) + uint16(c.B)) / 2),
		A: 0xff,
	}))
}

// Colour returns the running colour of p; ok is false if p was never coloured.
func (a *Accumulator) Colour(p int) (c color.RGBA, ok bool) {
	v := a.colour[p].Load()
	return unpackRGBA(v), v != 0
}

// Paint alpha-blends c over the painted canvas at p.
func (a *Accumulator) Paint(p int, c color.RGBA, alpha float64) {
	dst := unpackRGBA(a.canvas[p].Load())
	a.canvas[p].Store(packRGBA(blend(dst, c, alpha)))
}

// SetPixel overwrites the painted canvas at p.
func (a *Accumulator) SetPixel(p int, c color.RGBA) {
	a.canvas[p].Store(packRGBA(c))
}

// Canvas copies the painted canvas into a new image. The copy is not an atomic
// snapshot; pixels may come from different moments of the render.
func (a *Accumulator) Canvas() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, a.width, a.height))
	for p := range a.canvas {
		c := unpackRGBA(a.canvas[p].Load())
		i := p * 4
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// Load fills the painted canvas from img, scaled to the canvas beforehand.
func (a *Accumulator) Load(img *image.RGBA) {
	b := img.Bounds()
	for y := 0; y < min(a.height, b.Dy()); y++ {
		for x := 0; x < min(a.width, b.Dx()); x++ {
			a.canvas[y*a.width+x].Store(packRGBA(img.RGBAAt(b.Min.X+x, b.Min.Y+y)))
		}
	}
}

func packRGBA(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

func unpackRGBA(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
