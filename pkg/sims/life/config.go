package life

import (
	"strconv"
	"time"
)

// Config controls the Game of Life grid and how it is reported.
type Config struct {
	Width  int
	Height int

	// Resolution is the edge length of one cell in metres. It only travels
	// with the published map metadata.
	Resolution float64
	FrameID    string
	Topic      string
	Period     time.Duration

	// Seed drives the random initial grid; 0 derives one from the clock.
	Seed    int64
	Pattern string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:      100,
		Height:     100,
		Resolution: 0.2,
		FrameID:    "game_of_life_frame",
		Topic:      "game_of_life",
		Period:     500 * time.Millisecond,
		Pattern:    PatternRandom,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["resolution"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Resolution = parsed
		}
	}
	if v, ok := cfg["frame"]; ok && v != "" {
		c.FrameID = v
	}
	if v, ok := cfg["topic"]; ok && v != "" {
		c.Topic = v
	}
	if v, ok := cfg["tick_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Period = time.Duration(parsed) * time.Millisecond
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["pattern"]; ok && KnownPattern(v) {
		c.Pattern = v
	}
	return c
}
