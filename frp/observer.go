package frp

import "slices"

// child is anything a node notifies: another node, an adapter or an observer.
type child interface {
	push(v any, t Tick)
	changeStateDown(s State)
}

// MultiObserver fans one notification out to several children. A node holds
// nothing, a single child, or a MultiObserver once a second child arrives.
type MultiObserver struct {
	children    []child
	dispatching int
}

func (m *MultiObserver) push(v any, t Tick) {
	m.dispatching++
	defer func() { m.dispatching-- }()
	for _, c := range m.children {
		c.push(v, t)
	}
}

func (m *MultiObserver) changeStateDown(s State) {
	m.dispatching++
	defer func() { m.dispatching-- }()
	for _, c := range m.children {
		c.changeStateDown(s)
	}
}

// remove swaps c with the last child. While a dispatch is iterating the slice
// it is copied first so the running loop keeps its view.
func (m *MultiObserver) remove(c child) bool {
	i := slices.Index(m.children, c)
	if i < 0 {
		return false
	}
	if m.dispatching > 0 {
		m.children = slices.Clone(m.children)
	}
	last := len(m.children) - 1
	m.children[i] = m.children[last]
	m.children[last] = nil
	m.children = m.children[:last]
	return true
}

func (n *node) addChild(c child) {
	n.nrOfListeners++
	switch l := n.listeners.(type) {
	case nil:
		n.listeners = c
	case *MultiObserver:
		l.children = append(l.children, c)
	default:
		n.listeners = &MultiObserver{children: []child{l, c}}
	}
}

func (n *node) removeChild(c child) bool {
	switch l := n.listeners.(type) {
	case nil:
		return false
	case *MultiObserver:
		if !l.remove(c) {
			return false
		}
		switch {
		case len(l.children) == 0:
			n.listeners = nil
		case len(l.children) == 1 && l.dispatching == 0:
			n.listeners = l.children[0]
		}
	default:
		if l != c {
			return false
		}
		n.listeners = nil
	}
	n.nrOfListeners--
	return true
}

// pushFunc adapts a function into a child. Used where a node listens to a
// second source that must be told apart from its regular parents.
type pushFunc struct {
	fn func(v any, t Tick)
}

func (p *pushFunc) push(v any, t Tick)    { p.fn(v, t) }
func (p *pushFunc) changeStateDown(State) {}

// observer is the end of a chain: user callbacks attached with Subscribe or
// Observe. While the source is pulling, handlePulling lets the host drive it.
type observer struct {
	n             *node
	onPush        func(v any)
	handlePulling func(pull func()) (stop func())
	stopPulling   func()
	seen          Tick
	delivered     bool
	link          *dlink[*observer]
	stopped       bool
}

func (o *observer) push(v any, t Tick) {
	if o.stopped {
		return
	}
	o.seen, o.delivered = t, true
	o.onPush(v)
}

func (o *observer) changeStateDown(s State) {
	if o.stopped || o.handlePulling == nil {
		return
	}
	switch s {
	case Pull, OnlyPull:
		if o.stopPulling == nil {
			o.stopPulling = o.handlePulling(o.pull)
		}
	case Push:
		o.endPulling()
	}
}

// pull samples the source at a fresh tick and delivers the value if it
// changed since the last delivery.
func (o *observer) pull() {
	if o.stopped {
		return
	}
	n := o.n
	t := n.sys.tick()
	n.pull(t)
	if n.computed && (!o.delivered || n.changedAt > o.seen) {
		o.push(n.last, t)
	}
}

func (o *observer) endPulling() {
	if stop := o.stopPulling; stop != nil {
		o.stopPulling = nil
		stop()
	}
}

func (o *observer) stop() {
	if o.stopped {
		return
	}
	o.stopped = true
	o.endPulling()
	o.n.removeListener(o)
	o.n.sys.observers.remove(o.link)
}

// observe attaches a user callback to n. Behaviors deliver their current value
// right away; futures that already occurred deliver their value synchronously.
func (sys *System) observe(n *node, onPush func(v any), handlePulling func(pull func()) (stop func())) *observer {
	if sys.closed {
		panic(ErrClosed)
	}
	o := &observer{n: n, onPush: onPush, handlePulling: handlePulling}
	o.link = sys.observers.pushBack(o)
	t := sys.tick()
	st := n.addListener(o, t)
	if n.class != classBehavior || o.stopped {
		return o
	}
	switch st {
	case Push:
		if n.computed {
			o.push(n.last, n.changedAt)
		}
	case Pull, OnlyPull:
		if handlePulling != nil {
			o.changeStateDown(st)
		}
		n.pull(t)
		if n.computed {
			o.push(n.last, t)
		}
	}
	return o
}
