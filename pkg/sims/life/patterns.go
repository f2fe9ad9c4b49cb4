package life

import (
	"sort"

	"gol-node/pkg/core"
)

// Seed pattern names.
const (
	PatternRandom = "random"
	PatternEmpty  = "empty"
)

// Offsets are (row, column) pairs relative to the pattern's top-left corner.
var patterns = map[string][][2]int{
	"block":   {{0, 0}, {0, 1}, {1, 0}, {1, 1}},
	"blinker": {{0, 0}, {0, 1}, {0, 2}},
	"glider":  {{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}},
}

// Patterns lists every accepted seed pattern name.
func Patterns() []string {
	names := []string{PatternRandom, PatternEmpty}
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names[2:])
	return names
}

// KnownPattern reports whether name is an accepted seed pattern.
func KnownPattern(name string) bool {
	if name == PatternRandom || name == PatternEmpty {
		return true
	}
	_, ok := patterns[name]
	return ok
}

// seedGrid fills g according to the named pattern. Fixed patterns are
// centred; random fills each cell alive with probability one half.
func seedGrid(g *core.Grid, pattern string, seed int64) {
	g.Clear()
	switch pattern {
	case PatternEmpty:
		return
	case PatternRandom, "":
		core.FillAlive(core.NewRNG(seed).Source(), g.Cells())
		return
	}
	cells, ok := patterns[pattern]
	if !ok {
		core.FillAlive(core.NewRNG(seed).Source(), g.Cells())
		return
	}
	rows, cols := 0, 0
	for _, c := range cells {
		rows = max(rows, c[0]+1)
		cols = max(cols, c[1]+1)
	}
	top := (g.H - rows) / 2
	left := (g.W - cols) / 2
	for _, c := range cells {
		g.Set(top+c[0], left+c[1], true)
	}
}
