//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter updates a single RGBA image from occupancy data.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads the occupancy data into the painter image and draws it.
func (gp *GridPainter) Blit(dst *ebiten.Image, data []int8, on, off, unknown color.Color, scale int) {
	if len(data) != gp.w*gp.h {
		return
	}
	fillOccupancyRGBA(gp.buf, data, on, off, unknown)
	gp.draw(dst, scale)
}

// BlitChanges draws births and deaths between two generations.
func (gp *GridPainter) BlitChanges(dst *ebiten.Image, prev, cur []int8, born, died color.Color, scale int) {
	if len(cur) != gp.w*gp.h {
		return
	}
	fillChangeRGBA(gp.buf, prev, cur, born, died)
	gp.draw(dst, scale)
}

func (gp *GridPainter) draw(dst *ebiten.Image, scale int) {
	gp.img.WritePixels(gp.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
