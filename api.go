package ifs

import (
	"image"
)

//go:generate go run github.com/marben/irpc/cmd/irpc@v0.0.0-20260109104542-2d3fde99869b

// Function is one map of an iterated function system. Functions work in
// canvas pixel space; Size is the canvas they are currently scaled to.
type Function interface {
	Apply(p Point) Point
	Size() image.Point
	SetSize(size image.Point)
}

// Weighted is implemented by functions that take part in weighted selection.
type Weighted interface {
	Weight() float64
}

// Stats is the renderer state reported to viewers.
type Stats struct {
	Count   uint64 // units of 1000 iterations
	Running bool
	Tasks   int
	Threads int
	Width   int
	Height  int
}

// Command drives a remote renderer.
// Op is one of start, stop, reset, rescale, threads. Rescale coordinates are
// canvas pixels.
type Command struct {
	Op      string
	Scale   float64
	X       float64
	Y       float64
	Threads int
}

// ImgProvider serves the current, possibly still progressing, image.
type ImgProvider interface {
	GetImage() (image.RGBA, error)
}

// RenderControl lets remote viewers watch and drive a renderer.
type RenderControl interface {
	Stats() (Stats, error)
	// GetFrame returns the current image PNG encoded.
	GetFrame() ([]byte, error)
	// Command applies cmd and returns the state that follows it.
	Command(cmd Command) (Stats, error)
}
