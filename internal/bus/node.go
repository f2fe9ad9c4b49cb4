package bus

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"gol-node/pkg/core"
	"gol-node/pkg/msgs"
)

// Node owns publishers, subscriptions and timers, and runs their callbacks
// one at a time on its executor. Node implements core.Host.
type Node struct {
	bus       *Context
	name      string
	namespace string
	logger    *log.Logger

	queue    chan func()
	shutdown chan struct{}
	spinning atomic.Bool
	dropped  atomic.Int64

	mu     sync.Mutex
	closed bool
	timers map[*Timer]struct{}
	subs   map[*Subscription]struct{}
	pubs   map[*Publisher]struct{}
}

var _ core.Host = (*Node)(nil)

func newNode(c *Context, name, namespace string) *Node {
	n := &Node{
		bus:       c,
		name:      name,
		namespace: namespace,
		queue:     make(chan func(), c.opts.QueueSize),
		shutdown:  make(chan struct{}),
		timers:    map[*Timer]struct{}{},
		subs:      map[*Subscription]struct{}{},
		pubs:      map[*Publisher]struct{}{},
	}
	n.logger = log.New(c.opts.Output, "["+n.FullName()+"] ", log.LstdFlags)
	return n
}

// Name returns the node's own name.
func (n *Node) Name() string { return n.name }

// Namespace returns the namespace without surrounding slashes.
func (n *Node) Namespace() string { return n.namespace }

// FullName returns the fully qualified node name, e.g. "/examples/talker".
func (n *Node) FullName() string {
	if n.namespace == "" {
		return "/" + n.name
	}
	return "/" + n.namespace + "/" + n.name
}

// Logger returns the node's prefixed logger.
func (n *Node) Logger() *log.Logger { return n.logger }

// Now reads the context clock.
func (n *Node) Now() time.Time { return n.bus.opts.Clock.Now() }

// Dropped returns how many callbacks were discarded because the queue was
// full or a message did not match its publisher's type.
func (n *Node) Dropped() int64 { return n.dropped.Load() }

// CreatePublisher registers a publisher for msgType on topic. The topic is
// resolved against the node namespace.
func (n *Node) CreatePublisher(topic, msgType string) (core.Sink, error) {
	return n.NewPublisher(topic, msgType)
}

// NewPublisher is CreatePublisher returning the concrete publisher.
func (n *Node) NewPublisher(topic, msgType string) (*Publisher, error) {
	name, err := ResolveTopic(n.namespace, topic)
	if err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, ErrShutdown
	}
	if err := n.bus.addPublisher(name, msgType); err != nil {
		return nil, err
	}
	p := &Publisher{node: n, topic: name, msgType: msgType}
	n.pubs[p] = struct{}{}
	return p, nil
}

// CreateSubscription delivers every msgType message published on topic to
// handler, on this node's executor.
func (n *Node) CreateSubscription(topic, msgType string, handler func(msg any)) (core.Subscription, error) {
	return n.NewSubscription(topic, msgType, handler)
}

// NewSubscription is CreateSubscription returning the concrete subscription.
func (n *Node) NewSubscription(topic, msgType string, handler func(msg any)) (*Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("bus: nil handler for %s", topic)
	}
	name, err := ResolveTopic(n.namespace, topic)
	if err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, ErrShutdown
	}
	s := &Subscription{node: n, topic: name, handler: handler}
	if err := n.bus.addSubscription(s, msgType); err != nil {
		return nil, err
	}
	n.subs[s] = struct{}{}
	return s, nil
}

// CreateTimer fires callback on the executor every period until cancelled.
// A fire is skipped while the previous one is still queued or running. On a
// shut-down node the returned timer is already cancelled.
func (n *Node) CreateTimer(period time.Duration, callback func()) core.Timer {
	t := &Timer{node: n, period: period, callback: callback}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		t.cancelled.Store(true)
		return t
	}
	n.timers[t] = struct{}{}
	t.ticker = core.StartTicker(period, t.fire)
	return t
}

// Post queues fn for the executor. It reports false when the node is shut
// down or its queue is full.
func (n *Node) Post(fn func()) bool {
	return n.enqueue(fn)
}

// Spin runs queued callbacks until ctx is done or the node shuts down.
func (n *Node) Spin(ctx context.Context) error {
	if !n.spinning.CompareAndSwap(false, true) {
		return ErrSpinning
	}
	defer n.spinning.Store(false)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-n.shutdown:
			return nil
		case fn := <-n.queue:
			fn()
		}
	}
}

// Shutdown cancels every timer, closes every subscription and publisher,
// and stops Spin. It is idempotent.
func (n *Node) Shutdown() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.shutdown)
	timers := n.timers
	subs := n.subs
	pubs := n.pubs
	n.timers = map[*Timer]struct{}{}
	n.subs = map[*Subscription]struct{}{}
	n.pubs = map[*Publisher]struct{}{}
	n.mu.Unlock()

	for t := range timers {
		t.stop()
	}
	for s := range subs {
		s.detach()
	}
	for p := range pubs {
		p.detach()
	}
}

func (n *Node) enqueue(fn func()) bool {
	select {
	case <-n.shutdown:
		return false
	default:
	}
	select {
	case n.queue <- fn:
		return true
	default:
		n.dropped.Add(1)
		return false
	}
}

func (n *Node) forgetTimer(t *Timer) {
	n.mu.Lock()
	delete(n.timers, t)
	n.mu.Unlock()
}

func (n *Node) forgetSubscription(s *Subscription) {
	n.mu.Lock()
	delete(n.subs, s)
	n.mu.Unlock()
}

func (n *Node) forgetPublisher(p *Publisher) {
	n.mu.Lock()
	delete(n.pubs, p)
	n.mu.Unlock()
}

// Timer is a repeating timer whose callback runs on its node's executor.
type Timer struct {
	node     *Node
	period   time.Duration
	callback func()
	ticker   *core.Ticker

	pending   atomic.Bool
	cancelled atomic.Bool
}

// Period returns the timer interval.
func (t *Timer) Period() time.Duration { return t.period }

// Cancelled reports whether the timer has been cancelled.
func (t *Timer) Cancelled() bool { return t.cancelled.Load() }

// Cancel stops future fires. A callback already running is not interrupted,
// and calling Cancel from inside the callback is safe.
func (t *Timer) Cancel() {
	t.stop()
	t.node.forgetTimer(t)
}

func (t *Timer) stop() {
	t.cancelled.Store(true)
	if t.ticker != nil {
		t.ticker.Cancel()
	}
}

func (t *Timer) fire() {
	if t.cancelled.Load() || !t.pending.CompareAndSwap(false, true) {
		return
	}
	if !t.node.enqueue(t.run) {
		t.pending.Store(false)
	}
}

func (t *Timer) run() {
	defer t.pending.Store(false)
	if t.cancelled.Load() {
		return
	}
	t.callback()
}

// Publisher sends messages of one type to a topic.
type Publisher struct {
	node      *Node
	topic     string
	msgType   string
	published atomic.Int64
	closed    atomic.Bool
}

// Topic returns the resolved topic name.
func (p *Publisher) Topic() string { return p.topic }

// Type returns the message type name.
func (p *Publisher) Type() string { return p.msgType }

// Published returns the number of accepted messages.
func (p *Publisher) Published() int64 { return p.published.Load() }

// SubscriptionCount returns how many subscriptions currently listen on the
// topic.
func (p *Publisher) SubscriptionCount() int { return len(p.node.bus.subscribers(p.topic)) }

// Publish hands msg to every subscription on the topic without waiting for
// delivery. Messages of the wrong type, or sent after Close, are dropped.
func (p *Publisher) Publish(msg any) {
	if p.closed.Load() {
		return
	}
	if got := msgs.TypeOf(msg); got != p.msgType {
		p.node.dropped.Add(1)
		p.node.logger.Printf("dropping %T on %s: publisher carries %s", msg, p.topic, p.msgType)
		return
	}
	p.published.Add(1)
	for _, s := range p.node.bus.subscribers(p.topic) {
		s.deliver(msg)
	}
}

// Close unregisters the publisher.
func (p *Publisher) Close() {
	p.detach()
	p.node.forgetPublisher(p)
}

func (p *Publisher) detach() {
	if p.closed.CompareAndSwap(false, true) {
		p.node.bus.removePublisher(p.topic)
	}
}

// Subscription receives messages published on a topic.
type Subscription struct {
	node     *Node
	topic    string
	handler  func(msg any)
	received atomic.Int64
	closed   atomic.Bool
}

// Topic returns the resolved topic name.
func (s *Subscription) Topic() string { return s.topic }

// Received returns how many messages reached the handler.
func (s *Subscription) Received() int64 { return s.received.Load() }

// Close stops delivery. Messages already queued are discarded.
func (s *Subscription) Close() {
	s.detach()
	s.node.forgetSubscription(s)
}

func (s *Subscription) detach() {
	if s.closed.CompareAndSwap(false, true) {
		s.node.bus.removeSubscription(s)
	}
}

func (s *Subscription) deliver(msg any) {
	if s.closed.Load() {
		return
	}
	s.node.enqueue(func() {
		if s.closed.Load() {
			return
		}
		s.received.Add(1)
		s.handler(msg)
	})
}
