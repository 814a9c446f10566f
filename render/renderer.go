// Package render runs the chaos game for an iterated function system across
// concurrent tasks and turns the visited points into an image.
package render

import (
	"context"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	ifs "github.com/marben/chaosgame"
	xdraw "golang.org/x/image/draw"
)

const (
	// unitSize is the number of raw iterations in one unit of work.
	unitSize = 1000
	// burnIn is the number of units discarded after a reset.
	burnIn = 10
)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	sink     ErrorSink
	metrics  *Metrics
	progress func(count uint64)
}

// WithErrorSink routes panics raised inside render tasks to sink.
func WithErrorSink(sink ErrorSink) Option {
	return func(o *options) { o.sink = sink }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithProgress calls fn with the iteration count after every unit of work.
// fn runs on a render task and must not call Stop, Reset or Rescale.
func WithProgress(fn func(count uint64)) Option {
	return func(o *options) { o.progress = fn }
}

// view projects orbit points to pixels: pixel = centre + (p - centre) * scale.
type view struct {
	scale  float64
	centre ifs.Point
}

func defaultView(size image.Point) *view {
	return &view{scale: 1, centre: ifs.Point{X: float64(size.X) / 2, Y: float64(size.Y) / 2}}
}

func (v *view) apply(p ifs.Point) ifs.Point {
	return v.centre.Add(p.Sub(v.centre).Mul(v.scale))
}

// invert maps a pixel back to orbit space.
func (v *view) invert(p ifs.Point) ifs.Point {
	return v.centre.Add(p.Sub(v.centre).Mul(1 / v.scale))
}

func (v *view) project(p ifs.Point, size image.Point) (x, y int, ok bool) {
	q := v.apply(p)
	if !(q.X >= 0 && q.Y >= 0 && q.X < float64(size.X) && q.Y < float64(size.Y)) {
		return 0, 0, false
	}
	return int(q.X), int(q.Y), true
}

// Renderer is the rendering engine. All methods are safe for concurrent use,
// except that Stop, Reset, Rescale and SetConfig must not be called from a
// progress callback.
type Renderer struct {
	cfg       atomic.Pointer[Config]
	functions atomic.Pointer[FunctionSet]
	acc       atomic.Pointer[Accumulator]
	view      atomic.Pointer[view]
	image     atomic.Pointer[image.RGBA]
	orbit     Orbit
	count     atomic.Uint64

	sched    *Scheduler
	metrics  *Metrics
	progress func(uint64)

	// lifecycle serialises transitions that stop, rebuild and restart.
	lifecycle sync.Mutex
}

// New creates a stopped renderer for a canvas of the given size with an empty
// function set.
func New(size image.Point, cfg Config, opts ...Option) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{metrics: o.metrics, progress: o.progress}
	r.sched = newScheduler(map[Kind]unitFunc{
		Iterate:     r.iterate,
		PlotDensity: r.plotUnit,
	}, o.sink, o.metrics)
	r.cfg.Store(&cfg)
	r.functions.Store(NewFunctionSet(nil, nil))
	r.reset(size)
	return r, nil
}

// Reset reallocates every buffer for a canvas of the given size, zeroes the
// count and reseeds the orbit. A running render is restarted.
func (r *Renderer) Reset(size image.Point) {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	was := r.sched.Stop()
	r.reset(size)
	if was {
		r.start()
	}
}

func (r *Renderer) reset(size image.Point) {
	cfg := r.cfg.Load()
	if acc := r.acc.Load(); acc == nil || acc.Size() != size {
		r.view.Store(defaultView(size))
		r.functions.Load().SetSize(size)
	}
	acc := NewAccumulator(size, cfg.Kernel, background(cfg.Variant))
	r.acc.Store(acc)
	r.count.Store(0)
	r.image.Store(acc.Canvas())
	r.orbit.Seed(newRand(), size)

	Logger().Info("render reset", "width", size.X, "height", size.Y, "kernel", acc.Kernel())
}

// SetTransforms swaps in a new function set; nil clears it.
func (r *Renderer) SetTransforms(fs *FunctionSet) {
	if fs == nil {
		fs = NewFunctionSet(nil, nil)
	}
	r.functions.Store(fs)
}

// Config returns the current configuration snapshot.
func (r *Renderer) Config() Config { return *r.cfg.Load() }

// SetConfig swaps in a new configuration. Changing the variant or the kernel
// rebuilds the buffers and restarts a running render; a changed thread count
// resizes the running task set.
func (r *Renderer) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	old := r.cfg.Swap(&cfg)
	if old.Variant != cfg.Variant || old.Kernel != cfg.Kernel {
		was := r.sched.Stop()
		r.reset(r.acc.Load().Size())
		if was {
			r.start()
		}
		return nil
	}
	if old.Threads != cfg.Threads {
		r.sched.Resize(cfg.iterateTasks())
	}
	return nil
}

// Start spawns the render tasks. It returns false if already running.
func (r *Renderer) Start() bool {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	return r.start()
}

func (r *Renderer) start() bool {
	cfg := r.cfg.Load()
	plot := 0
	if cfg.Variant.IsDensity() {
		plot = 1
	}
	if !r.sched.Start(cfg.iterateTasks(), plot) {
		return false
	}
	r.metrics.renderStarted()
	return true
}

// Stop cancels the render and blocks until every task has returned. It
// returns false if the renderer was not running.
func (r *Renderer) Stop() bool {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()
	return r.sched.Stop()
}

func (r *Renderer) IsRunning() bool { return r.sched.IsRunning() }

func (r *Renderer) State() State { return r.sched.State() }

// Count returns the number of units of work done since the last reset.
func (r *Renderer) Count() uint64 { return r.count.Load() }

// Unproject maps a canvas pixel back to orbit coordinates under the current
// projection.
func (r *Renderer) Unproject(px ifs.Point) ifs.Point { return r.view.Load().invert(px) }

// Accumulator returns the current statistics buffers.
func (r *Renderer) Accumulator() *Accumulator { return r.acc.Load() }

// UpdateTasks moves the number of ITERATE tasks towards the configured thread
// count.
func (r *Renderer) UpdateTasks() {
	r.sched.Resize(r.cfg.Load().iterateTasks())
}

// TaskSnapshot lists the registered render tasks.
func (r *Renderer) TaskSnapshot() []TaskInfo { return r.sched.Snapshot() }

// Image returns the visible image. For density variants this is the latest
// plot; otherwise the painted canvas, which may be caught mid-update.
func (r *Renderer) Image() image.Image {
	if r.cfg.Load().Variant.IsDensity() {
		return r.image.Load()
	}
	return r.acc.Load().Canvas()
}

// PlotDensity materialises the accumulator into a new image and makes it the
// visible one.
func (r *Renderer) PlotDensity() *image.RGBA {
	start := time.Now()
	img := plotDensity(r.cfg.Load(), r.acc.Load())
	r.image.Store(img)
	r.metrics.plotted(time.Since(start))
	return img
}

// Rescale multiplies the projection scale by scale and makes centre, in orbit
// coordinates, the fixed point of the projection. The visible frame is
// rescaled to match so the preview stays continuous, then the statistics
// start over.
func (r *Renderer) Rescale(scale float64, centre ifs.Point) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return
	}

	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	was := r.sched.Stop()
	cfg := r.cfg.Load()
	var prev *image.RGBA
	if cfg.Variant.IsDensity() {
		prev = r.image.Load()
	} else {
		prev = r.acc.Load().Canvas()
	}

	old := r.view.Load()
	next := &view{scale: old.scale * scale, centre: centre}
	r.view.Store(next)

	r.reset(prev.Bounds().Size())
	frame := rescaleFrame(prev, old, next, background(cfg.Variant))
	r.acc.Load().Load(frame)
	r.image.Store(frame)
	Logger().Info("render rescaled", "scale", next.scale, "x", centre.X, "y", centre.Y)

	if was {
		r.start()
	}
}

// rescaleFrame draws the part of prev that remains visible under the new view.
func rescaleFrame(prev *image.RGBA, from, to *view, bg color.Color) *image.RGBA {
	b := prev.Bounds()
	dst := image.NewRGBA(b)
	xdraw.Draw(dst, b, image.NewUniform(bg), image.Point{}, xdraw.Src)

	// Pixel rectangle of prev covering the new canvas.
	lo := from.apply(to.invert(ifs.Point{X: float64(b.Min.X), Y: float64(b.Min.Y)}))
	hi := from.apply(to.invert(ifs.Point{X: float64(b.Max.X), Y: float64(b.Max.Y)}))
	sr := image.Rect(int(math.Floor(lo.X)), int(math.Floor(lo.Y)), int(math.Ceil(hi.X)), int(math.Ceil(hi.Y))).Intersect(b)
	if sr.Empty() {
		return dst
	}
	dlo := to.apply(from.invert(ifs.Point{X: float64(sr.Min.X), Y: float64(sr.Min.Y)}))
	dhi := to.apply(from.invert(ifs.Point{X: float64(sr.Max.X), Y: float64(sr.Max.Y)}))
	dr := image.Rect(int(math.Round(dlo.X)), int(math.Round(dlo.Y)), int(math.Round(dhi.X)), int(math.Round(dhi.Y)))
	if dr.Empty() {
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dr, prev, sr, xdraw.Src, nil)
	return dst
}

func (r *Renderer) iterate(_ context.Context, t *task) bool {
	cfg := r.cfg.Load()
	fs := r.functions.Load()
	acc := r.acc.Load()
	v := r.view.Load()

	if cfg.Limit > 0 && r.count.Load() >= cfg.Limit {
		return false
	}
	if fs.Len() == 0 {
		// Nothing to iterate; keep counting without spinning.
		time.Sleep(time.Millisecond)
		return r.unitDone(cfg, 0, 0)
	}

	burning := r.count.Load() < burnIn
	size := acc.Size()
	n := fs.Len()
	rejected, overflows := 0, 0
	for range unitSize {
		j, f, ok := fs.Sample(t.rnd)
		if !ok {
			rejected++
			continue
		}
		cur, lag := r.orbit.Advance(f, fs)
		if !cur.IsFinite() || !lag.IsFinite() {
			r.orbit.Reseed(t.rnd, size)
			continue
		}
		if burning {
			continue
		}
		x, y, ok := v.project(cur, size)
		if !ok {
			continue
		}
		p, q, ok := acc.Index(x, y)
		if !ok {
			continue
		}
		if !r.plot(cfg, acc, j, n, p, q, lag.Div(size)) {
			overflows++
		}
	}
	r.metrics.overflowed(uint64(overflows))
	return r.unitDone(cfg, unitSize, rejected)
}

func (r *Renderer) unitDone(cfg *Config, iterations, rejected int) bool {
	c := r.count.Add(1)
	r.metrics.unitDone(iterations, rejected)
	if r.progress != nil {
		r.progress(c)
	}
	return cfg.Limit == 0 || c < cfg.Limit
}

// plot records one accepted point at pixel p; it returns false if a density
// increment was skipped on overflow.
func (r *Renderer) plot(cfg *Config, acc *Accumulator, j, n, p, q int, lag ifs.Point) bool {
	switch v := cfg.Variant; {
	case v == Top:
		top := acc.RaiseTop(p, int32(j))
		acc.SetPixel(p, shade(colourFor(cfg, int(top), n, lag), cfg.Gamma, cfg.Vibrancy))
	case v.IsDensity():
		if _, ok := acc.Hit(p, q, v.IsBlur(), v.IsPower()); !ok {
			return false
		}
		if cfg.Mode.IsColour() {
			acc.MixColour(p, colourFor(cfg, j, n, lag))
		}
	default:
		acc.Paint(p, shade(colourFor(cfg, j, n, lag), cfg.Gamma, cfg.Vibrancy), paintAlpha)
	}
	return true
}

// plotUnit waits one plot interval, then plots. It gives up without plotting
// once the render is stopped.
func (r *Renderer) plotUnit(ctx context.Context, _ *task) bool {
	timer := time.NewTimer(r.cfg.Load().PlotInterval)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return false
	}
	r.PlotDensity()
	return true
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
