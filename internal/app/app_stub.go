//go:build !ebiten

package app

import (
	"fmt"

	"gol-node/internal/bus"
)

// Viewer is a placeholder that satisfies the API expected by the GUI build.
type Viewer struct{}

// NewViewer reports that the ebiten build tag is required.
func NewViewer(*bus.Context, *Config) (*Viewer, error) {
	return nil, fmt.Errorf("app.NewViewer requires building with the 'ebiten' tag")
}

// Size returns zeros in the headless build.
func (v *Viewer) Size() (int, int) { return 0, 0 }
