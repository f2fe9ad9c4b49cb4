//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	hudLineHeight = 15
	hudPadding    = 6
)

// HUD renders the status panel in the top-left corner of the grid view.
type HUD struct {
	width int
	panel *ebiten.Image
	lines []string
}

// NewHUD constructs a HUD with the given panel width.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width}
}

// Update caches the lines to draw.
func (h *HUD) Update(s Status) {
	if h == nil {
		return
	}
	h.lines = s.Lines()
}

// Draw paints the panel onto screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil || h.width <= 0 || len(h.lines) == 0 {
		return
	}
	height := len(h.lines)*hudLineHeight + 2*hudPadding
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 200})
	for i, line := range h.lines {
		y := hudPadding + (i+1)*hudLineHeight - 3
		text.Draw(h.panel, line, basicfont.Face7x13, hudPadding, y, color.White)
	}
	screen.DrawImage(h.panel, &ebiten.DrawImageOptions{})
}
