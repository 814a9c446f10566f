//go:build js && wasm

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"syscall/js"
)

// displayFrame decodes a PNG frame and puts it on the canvas, resizing the
// canvas to the frame.
func displayFrame(frame []byte, rgba *image.RGBA) (*image.RGBA, error) {
	img, err := png.Decode(bytes.NewReader(frame))
	if err != nil {
		return rgba, fmt.Errorf("decode frame: %w", err)
	}
	b := img.Bounds()
	if rgba == nil || rgba.Bounds() != b {
		rgba = image.NewRGBA(b)
		initCanvas(b.Dx(), b.Dy(), "#000000")
	}
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	displayImage(rgba)
	return rgba, nil
}

// displayImage copies img into the canvas.
func displayImage(img *image.RGBA) {
	ctx := canvas().Call("getContext", "2d")

	jsData := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(jsData, img.Pix)

	imageData := js.Global().Get("ImageData").New(jsData, img.Rect.Dx(), img.Rect.Dy())
	ctx.Call("putImageData", imageData, 0, 0)
}

func initCanvas(width, height int, color string) {
	c := canvas()
	c.Set("width", width)
	c.Set("height", height)

	ctx := c.Call("getContext", "2d")
	ctx.Set("fillStyle", color)
	ctx.Call("fillRect", 0, 0, width, height)
}

func canvas() js.Value {
	return js.Global().Get("document").Call("getElementById", "ifsCanvas")
}
