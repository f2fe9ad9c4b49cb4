package life

import (
	"fmt"
	"io"
	"log"
	"time"

	"gol-node/pkg/core"
	"gol-node/pkg/msgs"
)

// Cell values used in published occupancy grids.
const (
	Alive = msgs.Occupied
	Dead  = msgs.Free
)

// Deps carries the collaborators the engine reports through.
type Deps struct {
	Logger *log.Logger
	Clock  core.Clock
	Timers core.TimerFactory
	Sink   core.Sink
}

// Engine implements Conway's Game of Life on a hard-edged grid and publishes
// every generation as an occupancy grid.
//
// Two grids are kept: prev is read during a tick and cur is written. They
// swap roles after every tick, so after a tick prev holds the newest
// generation. All mutation happens inside Tick, Reset and Load, which the
// owner must not call concurrently.
type Engine struct {
	cfg  Config
	deps Deps
	log  *log.Logger

	prev *core.Grid
	cur  *core.Grid
	info msgs.MapMetaData

	generation int
	running    bool
	timer      core.Timer
	done       chan struct{}
	extinct    bool
}

// New returns an engine seeded according to cfg. Width and height must be
// positive.
func New(cfg Config, deps Deps) *Engine {
	if deps.Clock == nil {
		deps.Clock = core.SystemClock{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	e := &Engine{
		cfg:  cfg,
		deps: deps,
		log:  logger,
		prev: core.NewGrid(cfg.Width, cfg.Height),
		cur:  core.NewGrid(cfg.Width, cfg.Height),
		done: make(chan struct{}),
	}
	e.info = msgs.MapMetaData{
		MapLoadTime: msgs.TimeFrom(deps.Clock.Now()),
		Resolution:  float32(cfg.Resolution),
		Width:       uint32(cfg.Width),
		Height:      uint32(cfg.Height),
		Origin:      msgs.IdentityPose(),
	}
	e.Reset(cfg.Seed)
	return e
}

// Name returns the program identifier.
func (e *Engine) Name() string { return "life" }

// Size returns the grid dimensions.
func (e *Engine) Size() core.Size { return core.Size{W: e.cfg.Width, H: e.cfg.Height} }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Generation returns the number of completed generations.
func (e *Engine) Generation() int { return e.generation }

// Running reports whether the tick timer is armed.
func (e *Engine) Running() bool { return e.running }

// AliveCount returns the population of the newest generation.
func (e *Engine) AliveCount() int { return e.latest().Count() }

// Cells returns a copy of the newest generation.
func (e *Engine) Cells() []bool {
	return append([]bool(nil), e.latest().Cells()...)
}

// Done is closed once the population has died out.
func (e *Engine) Done() <-chan struct{} { return e.done }

// Reset reseeds the grid with the configured pattern and restarts the
// generation count. A zero seed is replaced by one derived from the clock.
func (e *Engine) Reset(seed int64) {
	if seed == 0 {
		seed = e.deps.Clock.Now().UnixNano()
	}
	seedGrid(e.prev, e.cfg.Pattern, seed)
	e.restart()
}

// Load replaces the grid with cells, laid out row-major, and restarts the
// generation count.
func (e *Engine) Load(cells []bool) error {
	if len(cells) != len(e.prev.Cells()) {
		return fmt.Errorf("life: load %d cells into %dx%d grid", len(cells), e.cfg.Width, e.cfg.Height)
	}
	copy(e.prev.Cells(), cells)
	e.restart()
	return nil
}

func (e *Engine) restart() {
	e.cur.CopyFrom(e.prev)
	e.generation = 0
	if e.extinct {
		e.extinct = false
		e.done = make(chan struct{})
	}
}

// Start arms a repeating timer that calls Tick every period. Starting a
// running engine does nothing.
func (e *Engine) Start(period time.Duration) {
	if e.running {
		return
	}
	if period <= 0 {
		panic(fmt.Sprintf("life: non-positive tick period %v", period))
	}
	e.running = true
	e.reportGeneration()
	e.timer = e.deps.Timers.CreateTimer(period, e.Tick)
}

// Stop cancels the tick timer. It is safe to call from inside Tick and on a
// stopped engine.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.timer.Cancel()
	e.timer = nil
	e.running = false
}

// Tick advances the simulation by one generation and publishes it. When the
// newest generation has no live cells the engine stops instead, leaving the
// generation count untouched and publishing nothing.
func (e *Engine) Tick() {
	if e.latest().Count() == 0 {
		e.log.Printf("population extinct at generation %d", e.generation)
		e.Stop()
		if !e.extinct {
			e.extinct = true
			close(e.done)
		}
		return
	}

	e.generation++
	e.step()

	snap := e.snapshot(e.cur)
	e.log.Printf("Generation %d, live count: %d", e.generation, e.cur.Count())
	if e.deps.Sink != nil {
		e.deps.Sink.Publish(snap)
	}

	e.prev, e.cur = e.cur, e.prev
}

// step evaluates the rules reading prev and writing cur.
func (e *Engine) step() {
	w, h := e.cfg.Width, e.cfg.Height
	next := e.cur.Cells()
	for row := 0; row < h; row++ {
		for column := 0; column < w; column++ {
			neighbors := e.prev.Neighbors(row, column)
			var alive bool
			if e.prev.Alive(row, column) {
				alive = neighbors == 2 || neighbors == 3
			} else {
				alive = neighbors == 3
			}
			next[row*w+column] = alive
		}
	}
}

// latest returns the grid holding the newest generation. Outside of Tick
// that is always prev; before the first tick cur holds an identical copy.
func (e *Engine) latest() *core.Grid { return e.prev }

// Snapshot builds an occupancy grid of the newest generation stamped with
// the current time.
func (e *Engine) Snapshot() *msgs.OccupancyGrid { return e.snapshot(e.latest()) }

func (e *Engine) snapshot(g *core.Grid) *msgs.OccupancyGrid {
	cells := g.Cells()
	data := make([]int8, len(cells))
	for i, alive := range cells {
		if alive {
			data[i] = Alive
			continue
		}
		data[i] = Dead
	}
	return &msgs.OccupancyGrid{
		Header: msgs.Header{
			Stamp:   msgs.TimeFrom(e.deps.Clock.Now()),
			FrameID: e.cfg.FrameID,
		},
		Info: e.info,
		Data: data,
	}
}

func (e *Engine) reportGeneration() {
	e.log.Printf("Generation %d, live count: %d", e.generation, e.AliveCount())
}

type program struct {
	*Engine
	period time.Duration
}

func (p *program) Start() { p.Engine.Start(p.period) }

// Attach creates an engine that publishes on host under c.Topic and ticks on
// host's timers.
func Attach(host core.Host, c Config) (*Engine, error) {
	pub, err := host.CreatePublisher(c.Topic, msgs.TypeOccupancyGrid)
	if err != nil {
		return nil, fmt.Errorf("life: %w", err)
	}
	return New(c, Deps{Logger: host.Logger(), Clock: host, Timers: host, Sink: pub}), nil
}

// Program wraps e so it starts with period when launched.
func Program(e *Engine, period time.Duration) core.Program {
	return &program{Engine: e, period: period}
}

func init() {
	core.Register("life", func(host core.Host, cfg map[string]string) (core.Program, error) {
		c := FromMap(cfg)
		e, err := Attach(host, c)
		if err != nil {
			return nil, err
		}
		return Program(e, c.Period), nil
	})
}
