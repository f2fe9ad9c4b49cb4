// Package chatter holds the two smallest programs: a talker that publishes a
// greeting every interval and a listener that logs whatever arrives.
package chatter

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"gol-node/pkg/core"
	"gol-node/pkg/msgs"
)

// Config controls both chatter programs.
type Config struct {
	Topic    string
	Interval time.Duration
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Topic: "msg", Interval: time.Second}
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
	if v, ok := cfg["interval_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Interval = time.Duration(parsed) * time.Millisecond
		}
	}
	return c
}

// Talker publishes "hello world at <time>" on every tick.
type Talker struct {
	cfg    Config
	host   core.Host
	sink   core.Sink
	timer  core.Timer
	sent   int
	logger *log.Logger
}

// NewTalker creates a talker publishing through sink.
func NewTalker(host core.Host, sink core.Sink, cfg Config) *Talker {
	return &Talker{cfg: cfg, host: host, sink: sink, logger: host.Logger()}
}

// Name returns the program identifier.
func (t *Talker) Name() string { return "talker" }

// Sent returns the number of published greetings.
func (t *Talker) Sent() int { return t.sent }

// Start arms the publish timer.
func (t *Talker) Start() {
	if t.timer != nil {
		return
	}
	t.timer = t.host.CreateTimer(t.cfg.Interval, t.Tick)
}

// Stop cancels the publish timer.
func (t *Talker) Stop() {
	if t.timer == nil {
		return
	}
	t.timer.Cancel()
	t.timer = nil
}

// Done never closes: the talker runs until stopped.
func (t *Talker) Done() <-chan struct{} { return nil }

// Tick publishes one greeting.
func (t *Talker) Tick() {
	msg := &msgs.String{Data: "hello world at " + t.host.Now().Format(time.RFC1123)}
	t.logger.Printf("publishing %q", msg.Data)
	t.sink.Publish(msg)
	t.sent++
}

// Parameters reports the talker configuration.
func (t *Talker) Parameters() core.ParameterSnapshot {
	return snapshot(t.cfg)
}

// Listener logs every String received on its topic.
type Listener struct {
	cfg      Config
	host     core.Host
	sub      core.Subscription
	received []string
	logger   *log.Logger
}

// NewListener creates a listener; it subscribes on Start.
func NewListener(host core.Host, cfg Config) *Listener {
	return &Listener{cfg: cfg, host: host, logger: host.Logger()}
}

// Name returns the program identifier.
func (l *Listener) Name() string { return "listener" }

// Start subscribes to the topic. Failures are logged; the bus only rejects
// a subscription when the topic already carries another type.
func (l *Listener) Start() {
	if l.sub != nil {
		return
	}
	sub, err := l.host.CreateSubscription(l.cfg.Topic, msgs.TypeString, l.handle)
	if err != nil {
		l.logger.Printf("subscribe %s: %v", l.cfg.Topic, err)
		return
	}
	l.sub = sub
	l.logger.Printf("waiting for messages on %s", sub.Topic())
}

// Stop drops the subscription.
func (l *Listener) Stop() {
	if l.sub == nil {
		return
	}
	l.sub.Close()
	l.sub = nil
}

// Done never closes: the listener runs until stopped.
func (l *Listener) Done() <-chan struct{} { return nil }

// Received returns the payloads seen so far.
func (l *Listener) Received() []string { return append([]string(nil), l.received...) }

// Parameters reports the listener configuration.
func (l *Listener) Parameters() core.ParameterSnapshot {
	return snapshot(l.cfg)
}

func (l *Listener) handle(m any) {
	s, ok := m.(*msgs.String)
	if !ok {
		return
	}
	l.received = append(l.received, s.Data)
	l.logger.Printf("msg: %s", s.Data)
}

func snapshot(c Config) core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Chatter",
		Params: []core.Parameter{
			core.StringParam("topic", "Topic", c.Topic),
			core.DurationParam("interval_ms", "Interval (ms)", c.Interval),
		},
	}}}
}

func init() {
	core.Register("talker", func(host core.Host, cfg map[string]string) (core.Program, error) {
		c := FromMap(cfg)
		pub, err := host.CreatePublisher(c.Topic, msgs.TypeString)
		if err != nil {
			return nil, fmt.Errorf("talker: %w", err)
		}
		return NewTalker(host, pub, c), nil
	})
	core.Register("listener", func(host core.Host, cfg map[string]string) (core.Program, error) {
		return NewListener(host, FromMap(cfg)), nil
	})
}
