// Package laserscan simulates a forward-facing planar lidar and publishes
// one sweep per interval.
package laserscan

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"gol-node/pkg/core"
	"gol-node/pkg/msgs"

	perlin "github.com/aquilax/go-perlin"
)

// Config controls the simulated sweep.
type Config struct {
	Topic    string
	FrameID  string
	Range    float64
	Samples  int
	Interval time.Duration

	// Noise is the peak deviation, in metres, added to Range by the noise
	// profile, at most 1. Zero produces a flat wall at Range.
	Noise float64
	Seed  int64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Topic:    "laserscan",
		FrameID:  "laserscan_frame",
		Range:    10,
		Samples:  180,
		Interval: time.Second,
		Noise:    0.5,
		Seed:     1,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["topic"]; ok && v != "" {
		c.Topic = v
	}
	if v, ok := cfg["frame"]; ok && v != "" {
		c.FrameID = v
	}
	if v, ok := cfg["range"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 1 {
			c.Range = parsed
		}
	}
	if v, ok := cfg["samples"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			c.Samples = parsed
		}
	}
	if v, ok := cfg["interval_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Interval = time.Duration(parsed) * time.Millisecond
		}
	}
	if v, ok := cfg["noise"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Noise = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	// Keep every reading inside [RangeMin, RangeMax].
	if c.Noise > 1 {
		c.Noise = 1
	}
	return c
}

// Scanner publishes simulated LaserScan sweeps.
type Scanner struct {
	cfg    Config
	host   core.Host
	sink   core.Sink
	noise  *perlin.Perlin
	logger *log.Logger

	timer core.Timer
	sweep int
}

// New creates a scanner publishing through sink.
func New(host core.Host, sink core.Sink, cfg Config) *Scanner {
	return &Scanner{
		cfg:    cfg,
		host:   host,
		sink:   sink,
		noise:  perlin.NewPerlin(2, 2, 3, cfg.Seed),
		logger: host.Logger(),
	}
}

// Name returns the program identifier.
func (s *Scanner) Name() string { return "laserscan" }

// Start arms the sweep timer. Starting twice does nothing.
func (s *Scanner) Start() {
	if s.timer != nil {
		return
	}
	s.timer = s.host.CreateTimer(s.cfg.Interval, s.Tick)
}

// Stop cancels the sweep timer.
func (s *Scanner) Stop() {
	if s.timer == nil {
		return
	}
	s.timer.Cancel()
	s.timer = nil
}

// Done never closes: the scanner runs until stopped.
func (s *Scanner) Done() <-chan struct{} { return nil }

// Tick builds and publishes one sweep.
func (s *Scanner) Tick() {
	msg := s.Scan()
	s.logger.Printf("publish msg at %d", msg.Header.Stamp.Sec)
	s.sink.Publish(msg)
	s.sweep++
}

// Scan builds the next sweep: Samples readings on a quarter arc starting at
// the x-axis, one degree apart.
func (s *Scanner) Scan() *msgs.LaserScan {
	n := s.cfg.Samples
	ranges := make([]float32, n)
	intensities := make([]float32, n)
	// The noise field drifts one unit per sweep so consecutive scans differ
	// smoothly.
	t := float64(s.sweep)
	for i := range ranges {
		r := s.cfg.Range
		if s.cfg.Noise > 0 {
			v := s.noise.Noise2D(float64(i)/float64(n)*4, t*0.25)
			r += clamp(v*2, -1, 1) * s.cfg.Noise
		}
		ranges[i] = float32(r)
		intensities[i] = 1
	}
	return &msgs.LaserScan{
		Header: msgs.Header{
			Stamp:   msgs.TimeFrom(s.host.Now()),
			FrameID: s.cfg.FrameID,
		},
		AngleMin:       0,
		AngleMax:       math.Pi / 2,
		AngleIncrement: math.Pi / 180,
		TimeIncrement:  float32(1.0 / float64(n)),
		ScanTime:       float32(s.cfg.Interval.Seconds()),
		RangeMin:       float32(s.cfg.Range - 1),
		RangeMax:       float32(s.cfg.Range + 1),
		Ranges:         ranges,
		Intensities:    intensities,
	}
}

// Parameters reports the scanner configuration.
func (s *Scanner) Parameters() core.ParameterSnapshot {
	c := s.cfg
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Sweep",
			Params: []core.Parameter{
				core.FloatParam("range", "Range (m)", c.Range),
				core.IntParam("samples", "Samples", c.Samples),
				core.FloatParam("noise", "Noise amplitude (m)", c.Noise),
				core.Int64Param("seed", "Noise seed", c.Seed),
			},
		},
		{
			Name: "Publishing",
			Params: []core.Parameter{
				core.StringParam("topic", "Topic", c.Topic),
				core.StringParam("frame", "Frame id", c.FrameID),
				core.DurationParam("interval_ms", "Interval (ms)", c.Interval),
			},
		},
	}}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func init() {
	core.Register("laserscan", func(host core.Host, cfg map[string]string) (core.Program, error) {
		c := FromMap(cfg)
		pub, err := host.CreatePublisher(c.Topic, msgs.TypeLaserScan)
		if err != nil {
			return nil, fmt.Errorf("laserscan: %w", err)
		}
		return New(host, pub, c), nil
	})
}
