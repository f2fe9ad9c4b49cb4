//go:build ebiten

package ui

import (
	"image/color"

	"gol-node/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
)

// Overlay tints cells born (green) or died (red) since the previous
// snapshot.
type Overlay struct {
	visible bool
	painter *render.GridPainter
	born    color.Color
	died    color.Color
}

// NewOverlay constructs a hidden overlay for a w*h grid.
func NewOverlay(w, h int) *Overlay {
	return &Overlay{
		painter: render.NewGridPainter(w, h),
		born:    color.RGBA{R: 40, G: 220, B: 90, A: 170},
		died:    color.RGBA{R: 230, G: 50, B: 50, A: 170},
	}
}

// Toggle flips visibility.
func (o *Overlay) Toggle() { o.visible = !o.visible }

// Visible reports whether the overlay is drawn.
func (o *Overlay) Visible() bool { return o.visible }

// Draw paints the change mask between prev and cur.
func (o *Overlay) Draw(screen *ebiten.Image, prev, cur []int8, scale int) {
	if o == nil || !o.visible || prev == nil {
		return
	}
	o.painter.BlitChanges(screen, prev, cur, o.born, o.died, scale)
}
