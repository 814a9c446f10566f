// ifsrender renders an iterated function system locally up to an iteration
// limit and writes the result as a PNG file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	xdraw "golang.org/x/image/draw"

	ifs "github.com/marben/chaosgame"
	"github.com/marben/chaosgame/render"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

type options struct {
	cfg           render.Config
	preset        string
	system        string
	export        string
	width, height int
	supersample   int
	out           string
	verbose       bool
}

func parseFlags(args []string) (options, error) {
	o := options{cfg: render.DefaultConfig()}
	o.cfg.Limit = 2000
	fs := flag.NewFlagSet("ifsrender", flag.ContinueOnError)
	o.cfg.RegisterFlags(fs)
	fs.StringVar(&o.preset, "preset", "sierpinski", "built-in system: "+strings.Join(ifs.PresetNames(), ", "))
	fs.StringVar(&o.system, "system", "", "JSON system file, overrides -preset")
	fs.StringVar(&o.export, "export", "", "also write the system as JSON to this file")
	fs.IntVar(&o.width, "width", 1024, "output width")
	fs.IntVar(&o.height, "height", 1024, "output height")
	fs.IntVar(&o.supersample, "ss", 1, "supersampling factor")
	fs.StringVar(&o.out, "o", "ifs.png", "output PNG file")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	switch {
	case o.cfg.Limit == 0:
		return o, errors.New("-limit must be positive for an offline render")
	case o.width < 1 || o.height < 1:
		return o, fmt.Errorf("invalid size %dx%d", o.width, o.height)
	case o.supersample < 1:
		return o, fmt.Errorf("invalid supersampling factor %d", o.supersample)
	}
	return o, o.cfg.Validate()
}

func run(args []string) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	setupLogging(o.verbose)

	sys, err := ifs.LoadSystem(o.preset, o.system)
	if err != nil {
		return err
	}
	if o.export != "" {
		if err := export(o.export, sys); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	img, err := renderSystem(ctx, sys, o)
	if err != nil {
		return err
	}
	return writePNG(o.out, img)
}

// renderSystem renders sys at the supersampled size until the iteration limit
// is reached or ctx is cancelled, then scales the result down to the output
// size.
func renderSystem(ctx context.Context, sys *ifs.System, o options) (image.Image, error) {
	size := image.Pt(o.width*o.supersample, o.height*o.supersample)
	r, err := render.New(size, o.cfg)
	if err != nil {
		return nil, fmt.Errorf("render.New: %w", err)
	}
	r.SetTransforms(render.FromSystem(sys, size))

	start := time.Now()
	r.Start()
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for r.IsRunning() {
		select {
		case <-ctx.Done():
			slog.Warn("interrupted, saving partial render")
			r.Stop()
		case <-t.C:
			slog.Info("rendering", "count", r.Count(), "limit", o.cfg.Limit)
		case <-time.After(10 * time.Millisecond):
		}
	}
	slog.Info("render done", "count", r.Count(), "took", time.Since(start).Round(time.Millisecond),
		"max", r.Accumulator().Max(), "overflows", r.Accumulator().Overflows())

	var img image.Image
	if o.cfg.Variant.IsDensity() {
		img = r.PlotDensity()
	} else {
		img = r.Image()
	}
	if o.supersample == 1 {
		return img, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst, nil
}

func export(path string, sys *ifs.System) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create system file: %w", err)
	}
	defer f.Close()
	if err := ifs.EncodeSystem(f, sys); err != nil {
		return err
	}
	return f.Close()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	slog.Info("rendered file saved", "file", path)
	return f.Close()
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	render.SetLogger(l)
}
