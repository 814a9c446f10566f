package render

import "image"

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	var tiles []image.Rectangle
	for y := r.Min.Y; y < r.Max.Y; y += tileH {
		for x := r.Min.X; x < r.Max.X; x += tileW {
			tiles = append(tiles, image.Rect(x, y, min(x+tileW, r.Max.X), min(y+tileH, r.Max.Y)))
		}
	}
	return tiles
}

// tileSize is the plotting tile edge: the smallest multiple of kernel not
// below 64, so blur cells never straddle two tiles.
func tileSize(kernel int) int {
	kernel = max(kernel, 1)
	return (64 + kernel - 1) / kernel * kernel
}
