package life

import (
	"bytes"
	"log"
	"slices"
	"strings"
	"testing"
	"time"

	"gol-node/pkg/core/coretest"
	"gol-node/pkg/msgs"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	engine *Engine
	timers *coretest.ManualTimers
	clock  *coretest.FixedClock
	sink   *coretest.RecordingSink
}

func newHarness(t *testing.T, w, h int, alive [][2]int) *harness {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Pattern = PatternEmpty
	hs := &harness{
		timers: &coretest.ManualTimers{},
		clock:  coretest.NewFixedClock(epoch),
		sink:   &coretest.RecordingSink{},
	}
	hs.engine = New(cfg, Deps{Clock: hs.clock, Timers: hs.timers, Sink: hs.sink})
	cells := make([]bool, w*h)
	for _, rc := range alive {
		cells[rc[0]*w+rc[1]] = true
	}
	if err := hs.engine.Load(cells); err != nil {
		t.Fatalf("load: %v", err)
	}
	return hs
}

func expectAlive(t *testing.T, e *Engine, want [][2]int, label string) {
	t.Helper()
	size := e.Size()
	set := map[[2]int]bool{}
	for _, rc := range want {
		set[rc] = true
	}
	cells := e.Cells()
	for row := 0; row < size.H; row++ {
		for col := 0; col < size.W; col++ {
			alive := cells[row*size.W+col]
			if alive != set[[2]int{row, col}] {
				t.Fatalf("%s: cell (%d,%d) alive=%v, expected %v", label, row, col, alive, !alive)
			}
		}
	}
}

func TestBlinkerOscillation(t *testing.T) {
	vertical := [][2]int{{1, 2}, {2, 2}, {3, 2}}
	horizontal := [][2]int{{2, 1}, {2, 2}, {2, 3}}
	hs := newHarness(t, 5, 5, horizontal)

	hs.engine.Tick()
	expectAlive(t, hs.engine, vertical, "after first tick")

	hs.engine.Tick()
	expectAlive(t, hs.engine, horizontal, "after second tick")

	if got := hs.engine.Generation(); got != 2 {
		t.Fatalf("generation = %d, want 2", got)
	}
}

func TestBlockIsStable(t *testing.T) {
	block := [][2]int{{4, 4}, {4, 5}, {5, 4}, {5, 5}}
	hs := newHarness(t, 10, 10, block)
	for i := 0; i < 5; i++ {
		hs.engine.Tick()
		expectAlive(t, hs.engine, block, "block")
	}
	if hs.sink.Len() != 5 {
		t.Fatalf("published %d snapshots, want 5", hs.sink.Len())
	}
}

func TestEdgesDoNotWrap(t *testing.T) {
	hs := newHarness(t, 5, 5, [][2]int{{1, 0}, {2, 0}, {3, 0}})
	hs.engine.Tick()
	expectAlive(t, hs.engine, [][2]int{{2, 0}, {2, 1}}, "left edge blinker")
}

func TestSingleCellGridDies(t *testing.T) {
	hs := newHarness(t, 1, 1, [][2]int{{0, 0}})
	hs.engine.Tick()
	if hs.engine.AliveCount() != 0 {
		t.Fatal("1x1 grid should be dead after one tick")
	}
	msg := hs.sink.Messages()[0].(*msgs.OccupancyGrid)
	if !slices.Equal(msg.Data, []int8{Dead}) {
		t.Fatalf("unexpected data %v", msg.Data)
	}
}

func TestRuleIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Seed = 24, 16, 99
	a := New(cfg, Deps{Timers: &coretest.ManualTimers{}})
	b := New(cfg, Deps{Timers: &coretest.ManualTimers{}})
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatal("same seed produced different initial grids")
	}
	seed := a.Cells()
	for i := 0; i < 4; i++ {
		a.Tick()
		b.Tick()
		if !slices.Equal(a.Cells(), b.Cells()) {
			t.Fatalf("tick %d diverged", i+1)
		}
	}

	// Replaying from the same seed must land on the same generation again.
	if err := a.Load(seed); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		a.Tick()
	}
	if !slices.Equal(a.Cells(), b.Cells()) {
		t.Fatal("replay from the same seed diverged")
	}
}

func TestRandomSeedUsesBothStates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	e := New(cfg, Deps{})
	alive := e.AliveCount()
	total := cfg.Width * cfg.Height
	if alive == 0 || alive == total {
		t.Fatalf("random seed produced %d/%d alive cells", alive, total)
	}
	// Roughly half; a PCG stream will not stray far on 10k cells.
	if alive < total/3 || alive > 2*total/3 {
		t.Fatalf("alive count %d is far from half of %d", alive, total)
	}
}

func TestAllDeadSeedStopsWithoutPublishing(t *testing.T) {
	hs := newHarness(t, 8, 8, nil)
	hs.engine.Start(time.Second)
	if !hs.engine.Running() {
		t.Fatal("engine should be running after Start")
	}

	if fired := hs.timers.Fire(); fired != 1 {
		t.Fatalf("fired %d timers, want 1", fired)
	}
	if hs.engine.Running() {
		t.Fatal("engine should stop itself when nothing is alive")
	}
	if hs.engine.Generation() != 0 {
		t.Fatalf("generation = %d, want 0", hs.engine.Generation())
	}
	if hs.sink.Len() != 0 {
		t.Fatalf("published %d snapshots, want 0", hs.sink.Len())
	}
	if len(hs.timers.Active()) != 0 {
		t.Fatal("timer should be cancelled")
	}
	select {
	case <-hs.engine.Done():
	default:
		t.Fatal("Done should be closed after extinction")
	}
}

func TestExtinctionStopsOnFollowingTick(t *testing.T) {
	hs := newHarness(t, 5, 5, [][2]int{{2, 2}})
	hs.engine.Start(time.Second)

	hs.timers.Fire()
	if !hs.engine.Running() || hs.engine.Generation() != 1 {
		t.Fatalf("first tick: running=%v generation=%d", hs.engine.Running(), hs.engine.Generation())
	}
	hs.timers.Fire()
	if hs.engine.Running() {
		t.Fatal("engine should stop once the newest generation is empty")
	}
	if hs.engine.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", hs.engine.Generation())
	}
	if hs.sink.Len() != 1 {
		t.Fatalf("published %d snapshots, want exactly the one empty generation", hs.sink.Len())
	}
	if hs.timers.Fire() != 0 {
		t.Fatal("no timer should remain armed")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	hs := newHarness(t, 10, 10, [][2]int{{4, 4}, {4, 5}, {5, 4}, {5, 5}})
	hs.engine.Start(250 * time.Millisecond)
	hs.engine.Start(time.Second)
	if got := hs.timers.Armed(); got != 1 {
		t.Fatalf("armed %d timers, want 1", got)
	}
	if p := hs.timers.Active()[0].Period; p != 250*time.Millisecond {
		t.Fatalf("timer period = %v, want 250ms", p)
	}

	hs.engine.Stop()
	hs.engine.Stop()
	if hs.engine.Running() {
		t.Fatal("engine should be stopped")
	}
	if len(hs.timers.Active()) != 0 {
		t.Fatal("timer should be cancelled")
	}

	hs.engine.Start(time.Second)
	if got := hs.timers.Armed(); got != 2 {
		t.Fatalf("restart armed %d timers in total, want 2", got)
	}
	hs.timers.Fire()
	if hs.engine.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", hs.engine.Generation())
	}
}

func TestStartRejectsNonPositivePeriod(t *testing.T) {
	hs := newHarness(t, 3, 3, nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	hs.engine.Start(0)
}

func TestNewPanicsOnInvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 5}, {5, 0}, {-1, 3}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for %dx%d", size[0], size[1])
				}
			}()
			cfg := DefaultConfig()
			cfg.Width, cfg.Height = size[0], size[1]
			New(cfg, Deps{})
		}()
	}
}

func TestSnapshotEncoding(t *testing.T) {
	block := [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}}
	hs := newHarness(t, 4, 4, block)
	hs.clock.Advance(1500 * time.Millisecond)
	hs.engine.Tick()

	msg, ok := hs.sink.Messages()[0].(*msgs.OccupancyGrid)
	if !ok {
		t.Fatalf("published %T, want *msgs.OccupancyGrid", hs.sink.Messages()[0])
	}
	want := []int8{
		0, 0, 0, 0,
		0, 100, 100, 0,
		0, 100, 100, 0,
		0, 0, 0, 0,
	}
	if !slices.Equal(msg.Data, want) {
		t.Fatalf("data = %v, want %v", msg.Data, want)
	}
	if msg.Header.FrameID != "game_of_life_frame" {
		t.Fatalf("frame = %q", msg.Header.FrameID)
	}
	if got := msg.Header.Stamp.Std(); !got.Equal(epoch.Add(1500 * time.Millisecond)) {
		t.Fatalf("stamp = %v", got)
	}
	if msg.Info.Width != 4 || msg.Info.Height != 4 || msg.Info.Resolution != 0.2 {
		t.Fatalf("unexpected info %+v", msg.Info)
	}
	if msg.Info.Origin != msgs.IdentityPose() {
		t.Fatalf("origin = %+v", msg.Info.Origin)
	}
	if !msg.Info.MapLoadTime.Std().Equal(epoch) {
		t.Fatalf("map load time = %v", msg.Info.MapLoadTime.Std())
	}
}

func TestPublishedSnapshotIsNotReused(t *testing.T) {
	hs := newHarness(t, 5, 5, [][2]int{{2, 1}, {2, 2}, {2, 3}})
	hs.engine.Tick()
	first := hs.sink.Messages()[0].(*msgs.OccupancyGrid)
	before := slices.Clone(first.Data)
	hs.engine.Tick()
	hs.engine.Tick()
	if !slices.Equal(first.Data, before) {
		t.Fatal("later ticks mutated an already published snapshot")
	}
}

func TestBuffersSwapWithoutReallocation(t *testing.T) {
	hs := newHarness(t, 5, 5, [][2]int{{2, 1}, {2, 2}, {2, 3}})
	prev, cur := hs.engine.prev, hs.engine.cur
	hs.engine.Tick()
	if hs.engine.prev != cur || hs.engine.cur != prev {
		t.Fatal("tick should swap the generation buffers")
	}
	hs.engine.Tick()
	if hs.engine.prev != prev || hs.engine.cur != cur {
		t.Fatal("second tick should swap the buffers back")
	}
}

func TestTickLogsGeneration(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Pattern = 6, 6, "block"
	e := New(cfg, Deps{Logger: log.New(&buf, "", 0), Timers: &coretest.ManualTimers{}})

	e.Start(time.Second)
	e.Tick()

	out := buf.String()
	for _, want := range []string{"Generation 0, live count: 4", "Generation 1, live count: 4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %q missing %q", out, want)
		}
	}
}

func TestLoadRejectsWrongSize(t *testing.T) {
	hs := newHarness(t, 3, 3, nil)
	if err := hs.engine.Load(make([]bool, 8)); err == nil {
		t.Fatal("expected error for mismatched cell count")
	}
}

func TestResetAfterExtinctionRearmsDone(t *testing.T) {
	hs := newHarness(t, 4, 4, nil)
	hs.engine.Tick()
	<-hs.engine.Done()

	if err := hs.engine.Load([]bool{
		false, false, false, false,
		false, true, true, false,
		false, true, true, false,
		false, false, false, false,
	}); err != nil {
		t.Fatal(err)
	}
	select {
	case <-hs.engine.Done():
		t.Fatal("Done should be open again after reloading")
	default:
	}
}

func TestPatternsAreCentred(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Pattern = 7, 7, "blinker"
	e := New(cfg, Deps{})
	expectAlive(t, e, [][2]int{{3, 2}, {3, 3}, {3, 4}}, "blinker seed")

	cfg.Pattern = "glider"
	e = New(cfg, Deps{})
	if e.AliveCount() != 5 {
		t.Fatalf("glider has %d cells, want 5", e.AliveCount())
	}
}

func TestParametersReportState(t *testing.T) {
	hs := newHarness(t, 6, 4, [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}})
	hs.engine.Tick()
	snap := hs.engine.Parameters()
	checks := map[string]string{
		"w":          "6",
		"h":          "4",
		"topic":      "game_of_life",
		"tick_ms":    "500",
		"generation": "1",
		"alive":      "4",
		"running":    "false",
	}
	for key, want := range checks {
		p, ok := snap.Lookup(key)
		if !ok {
			t.Fatalf("missing parameter %q", key)
		}
		if p.Value != want {
			t.Fatalf("%s = %q, want %q", key, p.Value, want)
		}
	}
}
