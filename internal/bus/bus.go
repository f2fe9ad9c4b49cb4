// Package bus is an in-process publish/subscribe transport. A Context holds
// the topic registry; Nodes attach publishers, subscriptions and timers to
// it. Every callback owned by a node runs on that node's executor goroutine
// (see Spin), so a node's callbacks never overlap.
package bus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gol-node/pkg/core"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrTypeMismatch reports a topic used with two different message types.
	ErrTypeMismatch = errors.New("bus: message type mismatch")
	// ErrShutdown reports an operation on a node that has been shut down.
	ErrShutdown = errors.New("bus: node is shut down")
	// ErrInvalidName reports an empty or malformed node or topic name.
	ErrInvalidName = errors.New("bus: invalid name")
	// ErrSpinning reports a second concurrent Spin on one node.
	ErrSpinning = errors.New("bus: node is already spinning")
)

// DefaultQueueSize bounds each node's pending callback queue.
const DefaultQueueSize = 64

// Options configures a Context. Zero values select defaults.
type Options struct {
	// Output receives node log lines; nil means os.Stderr.
	Output io.Writer
	// Clock stamps messages; nil means the system clock.
	Clock core.Clock
	// QueueSize bounds each node's callback queue.
	QueueSize int
}

// Context is a set of nodes sharing one topic namespace.
type Context struct {
	opts Options

	mu     sync.RWMutex
	topics map[string]*topic
	nodes  []*Node
}

type topic struct {
	name       string
	msgType    string
	publishers int
	subs       []*Subscription
}

// TopicInfo describes a registered topic.
type TopicInfo struct {
	Name        string
	Type        string
	Publishers  int
	Subscribers int
}

// NewContext creates an empty context.
func NewContext(opts Options) *Context {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.Clock == nil {
		opts.Clock = core.SystemClock{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	return &Context{opts: opts, topics: map[string]*topic{}}
}

// NewNode creates a node called name inside namespace. The namespace may be
// empty.
func (c *Context) NewNode(name, namespace string) (*Node, error) {
	if !validSegment(name) {
		return nil, fmt.Errorf("%w: node %q", ErrInvalidName, name)
	}
	namespace = strings.Trim(namespace, "/")
	if namespace != "" && !validPath(namespace) {
		return nil, fmt.Errorf("%w: namespace %q", ErrInvalidName, namespace)
	}
	n := newNode(c, name, namespace)
	c.mu.Lock()
	c.nodes = append(c.nodes, n)
	c.mu.Unlock()
	return n, nil
}

// Topics lists every registered topic in name order.
func (c *Context) Topics() []TopicInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]TopicInfo, 0, len(c.topics))
	for _, t := range c.topics {
		out = append(out, TopicInfo{Name: t.name, Type: t.msgType, Publishers: t.publishers, Subscribers: len(t.subs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Spin runs every node's executor until ctx is cancelled, then shuts the
// nodes down.
func (c *Context) Spin(ctx context.Context) error {
	c.mu.RLock()
	nodes := append([]*Node(nil), c.nodes...)
	c.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, n := range nodes {
		n := n
		g.Go(func() error {
			err := n.Spin(gctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		})
	}
	err := g.Wait()
	c.Shutdown()
	return err
}

// Shutdown shuts down every node.
func (c *Context) Shutdown() {
	c.mu.RLock()
	nodes := append([]*Node(nil), c.nodes...)
	c.mu.RUnlock()
	for _, n := range nodes {
		n.Shutdown()
	}
}

func (c *Context) addPublisher(name, msgType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.topics[name]
	if !ok {
		c.topics[name] = &topic{name: name, msgType: msgType, publishers: 1}
		return nil
	}
	if t.msgType != msgType {
		return fmt.Errorf("%w: %s carries %s, not %s", ErrTypeMismatch, name, t.msgType, msgType)
	}
	t.publishers++
	return nil
}

func (c *Context) addSubscription(s *Subscription, msgType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.topics[s.topic]
	if !ok {
		t = &topic{name: s.topic, msgType: msgType}
		c.topics[s.topic] = t
	}
	if t.msgType != msgType {
		return fmt.Errorf("%w: %s carries %s, not %s", ErrTypeMismatch, s.topic, t.msgType, msgType)
	}
	t.subs = append(t.subs, s)
	return nil
}

func (c *Context) removePublisher(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.topics[name]; ok && t.publishers > 0 {
		t.publishers--
	}
}

func (c *Context) removeSubscription(s *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.topics[s.topic]
	if !ok {
		return
	}
	for i, sub := range t.subs {
		if sub == s {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			return
		}
	}
}

func (c *Context) subscribers(name string) []*Subscription {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.topics[name]
	if !ok {
		return nil
	}
	return append([]*Subscription(nil), t.subs...)
}

// ResolveTopic expands a topic name relative to namespace. Names starting
// with "/" are absolute.
func ResolveTopic(namespace, name string) (string, error) {
	if strings.HasPrefix(name, "/") {
		trimmed := strings.Trim(name, "/")
		if !validPath(trimmed) {
			return "", fmt.Errorf("%w: topic %q", ErrInvalidName, name)
		}
		return "/" + trimmed, nil
	}
	if !validPath(strings.TrimRight(name, "/")) {
		return "", fmt.Errorf("%w: topic %q", ErrInvalidName, name)
	}
	name = strings.TrimRight(name, "/")
	if namespace == "" {
		return "/" + name, nil
	}
	return "/" + namespace + "/" + name, nil
}

func validPath(p string) bool {
	if p == "" {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if !validSegment(seg) {
			return false
		}
	}
	return true
}

// validSegment accepts letters, digits and underscores, not starting with a
// digit.
func validSegment(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
