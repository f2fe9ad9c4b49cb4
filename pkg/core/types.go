package core

import (
	"log"
	"sort"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sink accepts outbound messages. Publishing is fire-and-forget: delivery
// failures are the transport's concern.
type Sink interface {
	Publish(msg any)
}

// Subscription is the handle of a topic subscription.
type Subscription interface {
	Topic() string
	Close()
}

// Host is what a messaging node offers the programs attached to it.
type Host interface {
	Clock
	TimerFactory
	Name() string
	Logger() *log.Logger
	CreatePublisher(topic, msgType string) (Sink, error)
	CreateSubscription(topic, msgType string, handler func(msg any)) (Subscription, error)
}

// Program is a unit of behaviour attached to a node: a publisher loop, a
// subscriber, or a simulation.
type Program interface {
	Name() string
	Start()
	Stop()
	// Done is closed once the program will not do any more work.
	Done() <-chan struct{}
}

// Factory constructs a Program on host using an optional configuration map.
type Factory func(host Host, cfg map[string]string) (Program, error)

var programs = map[string]Factory{}

// Register adds a program factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	programs[name] = f
}

// Programs exposes the registry of available program factories.
func Programs() map[string]Factory {
	return programs
}

// ProgramNames lists the registered programs in lexical order.
func ProgramNames() []string {
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
