package main

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"sync"

	"github.com/marben/irpc"

	ifs "github.com/marben/chaosgame"
	"github.com/marben/chaosgame/render"
)

// renderService backs both network services with one shared renderer, so
// every viewer sees and drives the same render.
type renderService struct {
	r *render.Renderer

	viewers int
	m       sync.Mutex
}

var (
	_ ifs.ImgProvider   = (*renderService)(nil)
	_ ifs.RenderControl = (*renderService)(nil)
)

func newRenderService(r *render.Renderer) *renderService {
	return &renderService{r: r}
}

// newServer returns the irpc server exposing s. Each connection counts as a
// viewer until its endpoint closes.
func (s *renderService) newServer() *irpc.Server {
	// OnConnect runs on the connection's own goroutine, so it may block
	srv := irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		s.incViewers(ep)
		<-ep.Context().Done()
		s.decViewers(ep)
	}))
	srv.AddService(ifs.NewImgProviderIrpcService(s), ifs.NewRenderControlIrpcService(s))
	return srv
}

func (s *renderService) incViewers(ep *irpc.Endpoint) {
	s.m.Lock()
	s.viewers++
	v := s.viewers
	s.m.Unlock()

	slog.Info("viewer connected", "remote", ep.RemoteAddr(), "viewers", v)
}

func (s *renderService) decViewers(ep *irpc.Endpoint) {
	s.m.Lock()
	s.viewers--
	v := s.viewers
	s.m.Unlock()

	slog.Info("viewer disconnected", "remote", ep.RemoteAddr(), "viewers", v)
}

func (s *renderService) viewerCount() int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.viewers
}

// GetImage implements ifs.ImgProvider.
func (s *renderService) GetImage() (image.RGBA, error) {
	return *toRGBA(s.r.Image()), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}

// Stats implements ifs.RenderControl.
func (s *renderService) Stats() (ifs.Stats, error) {
	size := s.r.Accumulator().Size()
	return ifs.Stats{
		Count:   s.r.Count(),
		Running: s.r.IsRunning(),
		Tasks:   len(s.r.TaskSnapshot()),
		Threads: s.r.Config().Threads,
		Width:   size.X,
		Height:  size.Y,
	}, nil
}

// GetFrame implements ifs.RenderControl.
func (s *renderService) GetFrame() ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, s.r.Image()); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// Command implements ifs.RenderControl.
func (s *renderService) Command(cmd ifs.Command) (ifs.Stats, error) {
	if err := applyCommand(s.r, cmd); err != nil {
		slog.Warn("viewer command failed", "op", cmd.Op, "err", err)
		st, _ := s.Stats()
		return st, err
	}
	return s.Stats()
}

// applyCommand drives the renderer from a viewer command.
func applyCommand(r *render.Renderer, cmd ifs.Command) error {
	slog.Debug("viewer command", "op", cmd.Op)
	switch cmd.Op {
	case "start":
		r.Start()
	case "stop":
		r.Stop()
	case "reset":
		r.Reset(r.Accumulator().Size())
	case "rescale":
		r.Rescale(cmd.Scale, r.Unproject(ifs.Point{X: cmd.X, Y: cmd.Y}))
	case "threads":
		cfg := r.Config()
		cfg.Threads = cmd.Threads
		return r.SetConfig(cfg)
	default:
		return fmt.Errorf("unknown op %q", cmd.Op)
	}
	return nil
}
