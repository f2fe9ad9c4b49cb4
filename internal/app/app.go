//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"gol-node/internal/bus"
	"gol-node/internal/render"
	"gol-node/internal/ui"
	"gol-node/pkg/msgs"
	"gol-node/pkg/sims/life"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 200

// Viewer runs a Game of Life engine on one node and draws every grid it
// publishes, as received by a subscription on a second node.
type Viewer struct {
	simNode  *bus.Node
	viewNode *bus.Node
	engine   *life.Engine
	period   time.Duration
	sub      *bus.Subscription

	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	onColor      color.Color
	offColor     color.Color
	unknownColor color.Color
	scale        int

	mu     sync.Mutex
	latest *msgs.OccupancyGrid
	prior  *msgs.OccupancyGrid
	status ui.Status
}

// NewViewer wires the engine and the subscription onto bctx.
func NewViewer(bctx *bus.Context, c *Config) (*Viewer, error) {
	lc := life.FromMap(c.ProgramConfig("life"))
	simNode, err := bctx.NewNode("game_of_life_node", c.Namespace)
	if err != nil {
		return nil, err
	}
	viewNode, err := bctx.NewNode("viewer", c.Namespace)
	if err != nil {
		return nil, err
	}
	engine, err := life.Attach(simNode, lc)
	if err != nil {
		return nil, err
	}
	v := &Viewer{
		simNode:      simNode,
		viewNode:     viewNode,
		engine:       engine,
		period:       lc.Period,
		painter:      render.NewGridPainter(lc.Width, lc.Height),
		hud:          ui.NewHUD(hudWidth),
		overlay:      ui.NewOverlay(lc.Width, lc.Height),
		onColor:      color.White,
		offColor:     color.Black,
		unknownColor: color.RGBA{R: 60, G: 60, B: 60, A: 255},
		scale:        c.Scale,
	}
	sub, err := viewNode.NewSubscription(lc.Topic, msgs.TypeOccupancyGrid, v.receive)
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	v.sub = sub
	v.latest = engine.Snapshot()
	v.status.FrameID = lc.FrameID
	simNode.Post(v.start)
	return v, nil
}

// Size returns the grid dimensions in cells.
func (v *Viewer) Size() (int, int) { return v.painter.Size() }

func (v *Viewer) start() {
	v.engine.Start(v.period)
	v.refresh()
}

func (v *Viewer) toggle() {
	if v.engine.Running() {
		v.engine.Stop()
	} else {
		v.engine.Start(v.period)
	}
	v.refresh()
}

func (v *Viewer) reseed() {
	v.engine.Stop()
	v.engine.Reset(time.Now().UnixNano())
	snap := v.engine.Snapshot()
	v.mu.Lock()
	v.latest, v.prior = snap, nil
	v.mu.Unlock()
	v.engine.Start(v.period)
	v.refresh()
}

// refresh copies engine state for the HUD; it runs on the simulation node.
func (v *Viewer) refresh() {
	gen, alive, running := v.engine.Generation(), v.engine.AliveCount(), v.engine.Running()
	v.mu.Lock()
	v.status.Generation = gen
	v.status.Alive = alive
	v.status.Running = running
	v.mu.Unlock()
}

// receive runs on the viewer node for every published grid.
func (v *Viewer) receive(m any) {
	grid, ok := m.(*msgs.OccupancyGrid)
	if !ok {
		return
	}
	v.mu.Lock()
	v.prior, v.latest = v.latest, grid
	v.status.Stamp = grid.Header.Stamp.Std()
	v.status.FrameID = grid.Header.FrameID
	v.mu.Unlock()
}

// Update handles input and refreshes the HUD.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.simNode.Post(v.toggle)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.simNode.Post(v.reseed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		v.overlay.Toggle()
	}
	v.simNode.Post(v.refresh)

	v.mu.Lock()
	v.status.Received = v.sub.Received()
	v.status.Dropped = v.simNode.Dropped() + v.viewNode.Dropped()
	status := v.status
	v.mu.Unlock()
	v.hud.Update(status)
	return nil
}

// Draw renders the newest grid, the change overlay and the HUD.
func (v *Viewer) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	latest, prior := v.latest, v.prior
	v.mu.Unlock()
	if latest == nil {
		return
	}
	v.painter.Blit(screen, latest.Data, v.onColor, v.offColor, v.unknownColor, v.scale)
	if prior != nil {
		v.overlay.Draw(screen, prior.Data, latest.Data, v.scale)
	}
	v.hud.Draw(screen)
}

// Layout returns the logical screen size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := v.painter.Size()
	return w * v.scale, h * v.scale
}
