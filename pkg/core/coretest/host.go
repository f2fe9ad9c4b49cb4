package coretest

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"gol-node/pkg/core"
)

// Host is a synchronous core.Host: timers fire on Fire, the clock moves on
// Advance, and Deliver calls subscription handlers directly.
type Host struct {
	*ManualTimers
	*FixedClock

	NodeName string
	Log      *log.Logger

	mu    sync.Mutex
	types map[string]string
	sinks map[string]*RecordingSink
	subs  map[string][]*hostSubscription
}

var _ core.Host = (*Host)(nil)

// NewHost returns a host whose clock reads now and whose logger discards.
func NewHost(name string, now time.Time) *Host {
	return &Host{
		ManualTimers: &ManualTimers{},
		FixedClock:   NewFixedClock(now),
		NodeName:     name,
		Log:          log.New(io.Discard, "", 0),
		types:        map[string]string{},
		sinks:        map[string]*RecordingSink{},
		subs:         map[string][]*hostSubscription{},
	}
}

// Name implements core.Host.
func (h *Host) Name() string { return h.NodeName }

// Logger implements core.Host.
func (h *Host) Logger() *log.Logger { return h.Log }

// CreatePublisher implements core.Host. Each topic gets one RecordingSink.
func (h *Host) CreatePublisher(topic, msgType string) (core.Sink, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.claim(topic, msgType); err != nil {
		return nil, err
	}
	sink, ok := h.sinks[topic]
	if !ok {
		sink = &RecordingSink{}
		h.sinks[topic] = sink
	}
	return sink, nil
}

// CreateSubscription implements core.Host.
func (h *Host) CreateSubscription(topic, msgType string, handler func(msg any)) (core.Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.claim(topic, msgType); err != nil {
		return nil, err
	}
	s := &hostSubscription{host: h, topic: topic, handler: handler}
	h.subs[topic] = append(h.subs[topic], s)
	return s, nil
}

// Sink returns the recorder behind topic's publishers, or nil.
func (h *Host) Sink(topic string) *RecordingSink {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sinks[topic]
}

// Deliver hands msg to every open subscription on topic and returns how
// many handlers ran.
func (h *Host) Deliver(topic string, msg any) int {
	h.mu.Lock()
	subs := append([]*hostSubscription(nil), h.subs[topic]...)
	h.mu.Unlock()
	for _, s := range subs {
		s.handler(msg)
	}
	return len(subs)
}

func (h *Host) claim(topic, msgType string) error {
	if existing, ok := h.types[topic]; ok && existing != msgType {
		return fmt.Errorf("coretest: %s carries %s, not %s", topic, existing, msgType)
	}
	h.types[topic] = msgType
	return nil
}

type hostSubscription struct {
	host    *Host
	topic   string
	handler func(msg any)
}

func (s *hostSubscription) Topic() string { return s.topic }

func (s *hostSubscription) Close() {
	s.host.mu.Lock()
	defer s.host.mu.Unlock()
	subs := s.host.subs[s.topic]
	for i, other := range subs {
		if other == s {
			s.host.subs[s.topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}
