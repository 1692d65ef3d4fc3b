package frp

// State is the activation state of a node.
type State uint8

const (
	// Push nodes recompute and notify their children as soon as a parent changes.
	Push State = iota
	// Pull nodes are recomputed when sampled.
	Pull
	// OnlyPull nodes can never push, e.g. values read from the wall clock.
	OnlyPull
	// Inactive nodes have no listeners and hold no subscriptions.
	Inactive
	// Done futures have occurred and will never change again.
	Done
)

func (s State) String() string {
	switch s {
	case Push:
		return "push"
	case Pull:
		return "pull"
	case OnlyPull:
		return "only-pull"
	case Inactive:
		return "inactive"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// joinState combines the states of two parents. Pulling wins over pushing,
// inactive and done parents do not constrain their child.
func joinState(a, b State) State {
	switch {
	case a == Done || a == Inactive:
		return b
	case b == Done || b == Inactive:
		return a
	case a == Push && b == Push:
		return Push
	default:
		return Pull
	}
}

type class uint8

const (
	classBehavior class = iota
	classStream
	classFuture
)

// kind is the variant part of a node. Optional interfaces below override the
// default lifecycle of the node base.
type kind interface {
	name() string
}

type (
	// updater computes a behavior's value from its parents.
	updater interface {
		update(n *node, t Tick) any
	}
	// puller replaces the default timestamp-driven pull.
	puller interface {
		pull(n *node, t Tick)
	}
	// receiver handles values pushed by parents. Required for streams and futures.
	receiver interface {
		receive(n *node, v any, t Tick)
	}
	activator interface {
		activate(n *node, t Tick)
	}
	deactivator interface {
		deactivate(n *node)
	}
	// fixedStater pins the state a node takes once active.
	fixedStater interface {
		fixedState() State
	}
)

// node is shared by behaviors, streams and futures.
type node struct {
	sys   *System
	class class
	kind  kind
	state State

	parents       *cons[*node]
	listeners     child
	nrOfListeners int

	// behavior cache; futures keep their value in last
	last      any
	computed  bool
	changedAt Tick
	pulledAt  Tick
	updatedAt Tick
	pushedAt  Tick

	resolved   bool
	resolvedAt Tick
	// hot futures stay attached to their parents until they occur
	hot bool

	ph    *placeholder
	model func() any
}

func newNode(sys *System, cls class, k kind, parents ...*node) *node {
	sameSystem(sys, parents...)
	return &node{
		sys:     sys,
		class:   cls,
		kind:    k,
		state:   Inactive,
		parents: consOf(parents...),
	}
}

// addListener registers c and activates n on its first listener. A future
// that already occurred feeds c immediately instead of keeping it.
func (n *node) addListener(c child, t Tick) State {
	if n.class == classFuture && n.resolved {
		c.push(n.last, n.resolvedAt)
		return Done
	}
	n.addChild(c)
	if n.nrOfListeners == 1 && n.state == Inactive {
		n.activate(t)
	}
	return n.state
}

func (n *node) removeListener(c child) {
	if !n.removeChild(c) {
		return
	}
	if n.nrOfListeners == 0 && !n.hot && n.state != Inactive && n.state != Done {
		n.deactivate()
	}
}

func (n *node) activate(t Tick) {
	if a, ok := n.kind.(activator); ok {
		a.activate(n, t)
		return
	}
	n.attachParents(t)
}

// heat attaches a derived future to its parents for good, so it records its
// occurrence whether or not anything listens to it.
func (n *node) heat(t Tick) *node {
	n.hot = true
	if !n.resolved {
		n.attachParents(t)
	}
	return n
}

func (n *node) deactivate() {
	if d, ok := n.kind.(deactivator); ok {
		d.deactivate(n)
		return
	}
	n.detachParents()
}

// attachParents subscribes n to all of its parents and derives its state
// from theirs.
func (n *node) attachParents(t Tick) {
	n.state = Push
	st := Done
	for l := n.parents; l != nil; l = l.tail {
		if n.resolved {
			return
		}
		st = joinState(st, l.head.addListener(n, t))
	}
	switch n.class {
	case classStream:
		return
	case classFuture:
		if n.resolved {
			n.state = Done
		}
		return
	}
	if f, ok := n.kind.(fixedStater); ok {
		st = f.fixedState()
	} else if st == Done || st == Inactive {
		st = Push
	}
	n.state = st
	if st == Push {
		n.pull(t)
	}
}

func (n *node) detachParents() {
	if n.state != Done {
		n.state = Inactive
	}
	for l := n.parents; l != nil; l = l.tail {
		l.head.removeListener(n)
	}
}

// changeStateDown is called by a parent whose state changed.
func (n *node) changeStateDown(State) {
	if n.class != classBehavior || n.state == Inactive || n.state == Done {
		return
	}
	if _, ok := n.kind.(fixedStater); ok {
		return
	}
	n.updateState(n.sys.clock)
}

// updateState re-derives the state of an active behavior from its parents
// and tells the children when it changed.
func (n *node) updateState(t Tick) {
	if n.state == Inactive {
		return
	}
	st := Done
	for l := n.parents; l != nil; l = l.tail {
		st = joinState(st, l.head.state)
	}
	if st == Done || st == Inactive {
		st = Push
	}
	if st == n.state {
		return
	}
	n.state = st
	if st == Push && n.pulledAt < t {
		n.pull(t)
	}
	if n.listeners != nil {
		n.listeners.changeStateDown(st)
	}
}

// pull brings a behavior up to date for tick t. It runs at most once per tick
// and only recomputes when a parent changed after the last update.
func (n *node) pull(t Tick) {
	if n.class != classBehavior {
		panic(ErrNotPullable)
	}
	if p, ok := n.kind.(puller); ok {
		p.pull(n, t)
		return
	}
	n.pullParents(t)
}

func (n *node) pullParents(t Tick) {
	if n.computed && n.pulledAt >= t {
		return
	}
	n.pulledAt = t
	refresh := !n.computed
	for l := n.parents; l != nil; l = l.tail {
		p := l.head
		if p.class != classBehavior {
			continue
		}
		p.pull(t)
		if !p.computed {
			// waits on a placeholder
			return
		}
		if p.changedAt > n.updatedAt {
			refresh = true
		}
	}
	if refresh {
		n.refresh(t)
	}
}

// noValue is returned by update when an input is not available yet. The node
// keeps whatever it held before.
type noValue struct{}

func (n *node) refresh(t Tick) {
	v := n.kind.(updater).update(n, t)
	n.updatedAt = t
	if _, ok := v.(noValue); ok {
		return
	}
	if !n.computed || !same(n.last, v) {
		n.last = v
		n.changedAt = t
		n.computed = true
	}
}

// at returns the value of a behavior. Push nodes are always current; the
// others are pulled, at a fresh tick when t is zero. A behavior that still
// depends on an unreplaced placeholder has no value.
func (n *node) at(t Tick) any {
	if n.state != Push || !n.computed {
		if t == 0 {
			t = n.sys.tick()
		}
		n.pull(t)
	}
	if !n.computed {
		panic(&placeholderError{n: n})
	}
	return n.last
}

// push is called by a parent.
func (n *node) push(v any, t Tick) {
	if n.state == Inactive {
		return
	}
	if r, ok := n.kind.(receiver); ok {
		r.receive(n, v, t)
		return
	}
	if n.class == classBehavior {
		n.pushB(t)
	}
}

func (n *node) pushB(t Tick) {
	if n.state != Push {
		return
	}
	n.pull(t)
	n.forward(t)
}

// forward notifies the children of a behavior that changed at t, once.
func (n *node) forward(t Tick) {
	if n.changedAt != t || n.pushedAt == t || n.listeners == nil {
		return
	}
	n.pushedAt = t
	n.listeners.push(n.last, t)
}

// setValue stores a value that arrived from outside the graph at t.
func (n *node) setValue(v any, t Tick) {
	if n.computed && same(n.last, v) {
		return
	}
	n.last, n.computed = v, true
	n.changedAt, n.pulledAt, n.updatedAt = t, t, t
	n.forward(t)
}

// emit sends a stream occurrence to the current listeners.
func (n *node) emit(v any, t Tick) {
	if n.listeners != nil {
		n.listeners.push(v, t)
	}
}

// resolve makes a future occur. It lets go of its parents and flushes the
// pending listeners; later listeners are fed by addListener.
func (n *node) resolve(v any, t Tick) {
	if n.resolved {
		panic(ErrAlreadyResolved)
	}
	n.last, n.resolved, n.resolvedAt = v, true, t
	n.state = Done
	ls := n.listeners
	n.listeners, n.nrOfListeners = nil, 0
	n.detachParents()
	if ls != nil {
		ls.push(v, t)
	}
}

func (n *node) semantic() any {
	if n.model == nil {
		panic(ErrNoModel)
	}
	return n.model()
}

// same reports identity equality. Values that cannot be compared are never
// the same, so they always propagate.
func same(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}
