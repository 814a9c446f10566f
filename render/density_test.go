package render

import (
	"image"
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		max     uint32
		d       uint32
		want    float64
	}{
		{"zero", LogDensity, 100, 0, 0},
		{"log at max", LogDensity, 100, 100, 1},
		{"log middle", LogDensity, 100, 10, 0.5},
		{"log single hit", LogDensity, 100, 1, 0},
		{"log max one", LogDensity, 1, 1, 1},
		{"linear", Density, 200, 50, 0.25},
		{"clamped", Density, 10, 20, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Variant = tt.variant
			pl := &plotter{cfg: &cfg, max: float64(tt.max)}
			if got := pl.ratio(tt.d); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ratio(%d) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}
}

func TestTileSize(t *testing.T) {
	for _, tt := range []struct{ kernel, want int }{
		{1, 64}, {4, 64}, {5, 65}, {7, 70}, {100, 100}, {0, 64},
	} {
		if got := tileSize(tt.kernel); got != tt.want {
			t.Errorf("tileSize(%d) = %d, want %d", tt.kernel, got, tt.want)
		}
	}
}

func TestSplitRectNoClipCoversRect(t *testing.T) {
	r := image.Rect(0, 0, 130, 70)
	tiles := splitRectNoClip(r, 64, 64)
	if len(tiles) != 6 {
		t.Fatalf("got %d tiles, want 6", len(tiles))
	}
	area := 0
	for _, tile := range tiles {
		if !tile.In(r) {
			t.Errorf("tile %v outside %v", tile, r)
		}
		area += tile.Dx() * tile.Dy()
	}
	if area != r.Dx()*r.Dy() {
		t.Errorf("tiles cover %d pixels, want %d", area, r.Dx()*r.Dy())
	}
}

// fill hits every pixel of a diagonal band, the pixel at x getting x+1 hits.
func fill(acc *Accumulator, power bool) {
	size := acc.Size()
	for x := range size.X {
		p, q, _ := acc.Index(x, x%size.Y)
		for range x + 1 {
			acc.Hit(p, q, true, power)
		}
	}
}

func TestPlotDensityBackgroundAndHits(t *testing.T) {
	for _, v := range []Variant{
		Density, LogDensity, LogDensityInverse, LogDensityBlur, LogDensityBlurInverse,
		LogDensityPower, LogDensityPowerInverse, LogDensityFlame, LogDensityFlameInverse,
	} {
		t.Run(v.String(), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Mode = ModeGray
			cfg.Variant = v
			acc := NewAccumulator(image.Pt(80, 40), cfg.Kernel, background(v))
			fill(acc, v.IsPower())

			img := plotDensity(&cfg, acc)
			if img.Bounds().Size() != acc.Size() {
				t.Fatalf("image size %v, want %v", img.Bounds().Size(), acc.Size())
			}
			bg := background(v)
			// A pixel far from the band is in a blur cell with no hits.
			if c := img.RGBAAt(70, 5); c != bg {
				t.Errorf("empty pixel = %v, want background %v", c, bg)
			}
			// The most hit pixel is drawn at full strength.
			if c := img.RGBAAt(79, 79%40); c == bg {
				t.Errorf("densest pixel left at background %v", c)
			}
		})
	}
}

func TestPlotDensityRatiosInRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = LogDensity
	acc := NewAccumulator(image.Pt(50, 50), cfg.Kernel, black)
	fill(acc, false)

	pl := newPlotter(&cfg, acc)
	for p := range acc.Len() {
		d := acc.Density(p)
		if d == 0 {
			continue
		}
		if r := pl.ratio(d); r < 0 || r > 1 {
			t.Errorf("pixel %d: ratio %v outside [0,1]", p, r)
		}
	}
}
