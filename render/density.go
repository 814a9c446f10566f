package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

var (
	black = color.RGBA{A: 0xff}
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// background is black for light-on-dark variants and white for inverse ones.
func background(v Variant) color.RGBA {
	if v.IsInverse() {
		return white
	}
	return black
}

// plotter turns the accumulator of a density variant into a visible image.
type plotter struct {
	cfg *Config
	acc *Accumulator
	max float64
	bg  color.RGBA
	fg  color.RGBA
}

func newPlotter(cfg *Config, acc *Accumulator) *plotter {
	bg := background(cfg.Variant)
	fg := white
	if bg == white {
		fg = black
	}
	return &plotter{cfg: cfg, acc: acc, max: float64(acc.Max()), bg: bg, fg: fg}
}

// plotDensity renders acc into a fresh image, tile by tile in parallel.
func plotDensity(cfg *Config, acc *Accumulator) *image.RGBA {
	pl := newPlotter(cfg, acc)
	img := image.NewRGBA(image.Rectangle{Max: acc.Size()})
	draw.Draw(img, img.Bounds(), image.NewUniform(pl.bg), image.Point{}, draw.Src)

	ts := tileSize(acc.Kernel())
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, tile := range splitRectNoClip(img.Bounds(), ts, ts) {
		g.Go(func() error {
			pl.tile(img, tile)
			return nil
		})
	}
	_ = g.Wait()
	return img
}

// ratio maps a hit count to [0,1] relative to the maximum count.
func (pl *plotter) ratio(d uint32) float64 {
	if d == 0 {
		return 0
	}
	if !pl.cfg.Variant.IsLog() {
		return clamp01(float64(d) / pl.max)
	}
	if pl.max <= 1 {
		return 1
	}
	return clamp01(math.Log(float64(d)) / math.Log(pl.max))
}

// coarseRatio is ratio for a blur bucket, which can gather kernel² times the
// hits of a single pixel.
func (pl *plotter) coarseRatio(b uint32) float64 {
	if b == 0 {
		return 0
	}
	k := float64(pl.acc.Kernel())
	limit := pl.max * k * k
	if limit <= 1 {
		return 1
	}
	return clamp01(math.Log(float64(b)) / math.Log(limit))
}

func (pl *plotter) gray(ratio float64) float64 {
	if pl.cfg.Variant.IsInverse() {
		return math.Pow(1-ratio, pl.cfg.Gamma)
	}
	return math.Pow(ratio, pl.cfg.Gamma)
}

func (pl *plotter) tile(img *image.RGBA, r image.Rectangle) {
	v := pl.cfg.Variant
	if v.IsBlur() {
		pl.cells(img, r)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p, q, _ := pl.acc.Index(x, y)
			d := pl.acc.Density(p)
			if d == 0 {
				continue
			}
			ratio := pl.ratio(d)
			if v.IsBlur() {
				ratio = (ratio + pl.coarseRatio(pl.acc.blur[q].Load())) / 2
			}
			img.SetRGBA(x, y, pl.pixel(p, d, ratio))
		}
	}
}

// cells fills every blur cell of r that saw hits with a faint halo at half
// its coarse ratio.
func (pl *plotter) cells(img *image.RGBA, r image.Rectangle) {
	k := pl.acc.Kernel()
	for cy := r.Min.Y; cy < r.Max.Y; cy += k {
		for cx := r.Min.X; cx < r.Max.X; cx += k {
			_, q, _ := pl.acc.Index(cx, cy)
			cr := pl.coarseRatio(pl.acc.blur[q].Load()) / 2
			if cr == 0 {
				continue
			}
			var c color.RGBA
			if pl.cfg.Mode.IsColour() {
				c = blend(pl.bg, pl.fg, math.Pow(cr, pl.cfg.Gamma))
			} else {
				g := to8(pl.gray(cr))
				c = color.RGBA{g, g, g, 0xff}
			}
			cell := image.Rect(cx, cy, cx+k, cy+k).Intersect(r)
			draw.Draw(img, cell, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
}

func (pl *plotter) pixel(p int, d uint32, ratio float64) color.RGBA {
	if !pl.cfg.Mode.IsColour() {
		g := to8(pl.gray(ratio))
		return color.RGBA{g, g, g, 0xff}
	}
	c, ok := pl.acc.Colour(p)
	if !ok {
		c = pl.fg
	}
	c = shade(c, 1, pl.cfg.Vibrancy)
	alpha := math.Pow(ratio, pl.cfg.Gamma)
	if pl.cfg.Variant.IsFlame() {
		alpha = math.Pow(math.Log(float64(d))/float64(d), pl.cfg.Gamma)
	}
	return blend(pl.bg, c, alpha)
}
