// ifsview renders an iterated function system in a desktop window.
//
// Keys: space starts and stops, + and - rescale about the cursor, R resets,
// up and down change the number of render threads, V and M cycle the variant
// and the colour mode.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	ifs "github.com/marben/chaosgame"
	"github.com/marben/chaosgame/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	cfg := render.DefaultConfig()
	fs := flag.NewFlagSet("ifsview", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	preset := fs.String("preset", "fern", "built-in system: "+strings.Join(ifs.PresetNames(), ", "))
	sysFile := fs.String("system", "", "JSON system file, overrides -preset")
	width := fs.Int("width", 800, "canvas width")
	height := fs.Int("height", 800, "canvas height")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	sys, err := ifs.LoadSystem(*preset, *sysFile)
	if err != nil {
		return err
	}
	size := image.Pt(*width, *height)
	r, err := render.New(size, cfg)
	if err != nil {
		return fmt.Errorf("render.New: %w", err)
	}
	r.SetTransforms(render.FromSystem(sys, size))
	defer r.Stop()

	g := &viewer{r: r, name: sys.Name, size: size}
	r.Start()

	ebiten.SetWindowTitle("ifs: " + sys.Name)
	ebiten.SetWindowSize(size.X, size.Y)
	return ebiten.RunGame(g)
}

// viewer implements ebiten.Game on top of a renderer.
type viewer struct {
	r    *render.Renderer
	name string
	size image.Point

	frame *ebiten.Image
	rgba  *image.RGBA
}

func (g *viewer) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if !g.r.Stop() {
			g.r.Start()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		g.rescale(2)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		g.rescale(0.5)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.r.Reset(g.size)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.threads(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.threads(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		cfg := g.r.Config()
		cfg.Variant = (cfg.Variant + 1) % (render.LogDensityFlameInverse + 1)
		g.apply(cfg)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		cfg := g.r.Config()
		cfg.Mode = (cfg.Mode + 1) % (render.ModeIFS + 1)
		if cfg.Mode == render.ModeStealing && cfg.Source == nil {
			cfg.Mode++
		}
		g.apply(cfg)
	}
	return nil
}

// rescale zooms about the point under the cursor.
func (g *viewer) rescale(scale float64) {
	x, y := ebiten.CursorPosition()
	g.r.Rescale(scale, g.r.Unproject(ifs.Point{X: float64(x), Y: float64(y)}))
}

func (g *viewer) threads(delta int) {
	cfg := g.r.Config()
	cfg.Threads = max(cfg.Threads+delta, 1)
	g.apply(cfg)
	g.r.UpdateTasks()
}

func (g *viewer) apply(cfg render.Config) {
	if err := g.r.SetConfig(cfg); err != nil {
		slog.Warn("config rejected", "err", err)
	}
}

func (g *viewer) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = ebiten.NewImage(g.size.X, g.size.Y)
		g.rgba = image.NewRGBA(image.Rectangle{Max: g.size})
	}
	img := g.r.Image()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds() == g.rgba.Bounds() {
		g.frame.WritePixels(rgba.Pix)
	} else {
		draw.Draw(g.rgba, g.rgba.Bounds(), img, img.Bounds().Min, draw.Src)
		g.frame.WritePixels(g.rgba.Pix)
	}
	screen.DrawImage(g.frame, nil)

	cfg := g.r.Config()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s  %s  count %dk  tasks %d/%d  %s %s  TPS %.0f",
		g.name, g.r.State(), g.r.Count(), len(g.r.TaskSnapshot()), cfg.Threads, cfg.Variant, cfg.Mode, ebiten.ActualTPS()))
}

func (g *viewer) Layout(int, int) (int, int) {
	return g.size.X, g.size.Y
}
