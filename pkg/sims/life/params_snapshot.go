package life

import (
	"strconv"

	"gol-node/pkg/core"
)

// Parameters reports the engine configuration and live state.
func (e *Engine) Parameters() core.ParameterSnapshot {
	c := e.cfg
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", c.Width),
				core.IntParam("h", "Height", c.Height),
				core.FloatParam("resolution", "Cell size (m)", c.Resolution),
				core.Int64Param("seed", "Seed", c.Seed),
				core.StringParam("pattern", "Seed pattern", c.Pattern),
			},
		},
		{
			Name: "Publishing",
			Params: []core.Parameter{
				core.StringParam("topic", "Topic", c.Topic),
				core.StringParam("frame", "Frame id", c.FrameID),
				core.DurationParam("tick_ms", "Tick period (ms)", c.Period),
			},
		},
		{
			Name: "State",
			Params: []core.Parameter{
				core.IntParam("generation", "Generation", e.generation),
				core.IntParam("alive", "Live cells", e.AliveCount()),
				core.StringParam("running", "Running", strconv.FormatBool(e.running)),
			},
		},
	}}
}
