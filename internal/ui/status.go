package ui

import (
	"fmt"
	"time"
)

// Status is what the HUD shows about the simulation.
type Status struct {
	Generation int
	Alive      int
	Running    bool
	FrameID    string
	Stamp      time.Time
	Received   int64
	Dropped    int64
}

// Lines formats the status for display, one entry per line.
func (s Status) Lines() []string {
	state := "running"
	if !s.Running {
		state = "stopped"
	}
	lines := []string{
		fmt.Sprintf("generation %d (%s)", s.Generation, state),
		fmt.Sprintf("live cells %d", s.Alive),
		fmt.Sprintf("frame %s", s.FrameID),
	}
	if !s.Stamp.IsZero() {
		lines = append(lines, "stamp "+s.Stamp.Format("15:04:05.000"))
	}
	lines = append(lines, fmt.Sprintf("received %d dropped %d", s.Received, s.Dropped))
	return lines
}
