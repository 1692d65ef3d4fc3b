package frp

// placeholder stands in for a node that is defined later. Until it is
// replaced, combinators built on it are recorded and replayed against the
// real source by replaceWith.
type placeholder struct {
	source  *node
	pending []replay
}

type replay struct {
	op    string
	build func(src *node) *node
	child *node
}

// proxyKind forwards everything its source does once it has one.
type proxyKind struct {
	ph *placeholder
}

func (proxyKind) name() string { return "placeholder" }

func (k proxyKind) update(*node, Tick) any { return k.ph.source.last }

func (k proxyKind) pull(n *node, t Tick) {
	if k.ph.source == nil {
		return
	}
	n.pullParents(t)
}

func (proxyKind) receive(n *node, v any, t Tick) {
	switch n.class {
	case classStream:
		n.emit(v, t)
	case classFuture:
		if !n.resolved {
			n.resolve(v, t)
		}
	default:
		n.pushB(t)
	}
}

func newPlaceholder(sys *System, cls class) *node {
	ph := &placeholder{}
	n := newNode(sys, cls, proxyKind{ph: ph})
	n.ph = ph
	n.model = func() any {
		if ph.source == nil {
			panic(ErrUnresolvedPlaceholder)
		}
		return ph.source.semantic()
	}
	return n
}

// deferNode applies build to src, or records it when src is a placeholder that
// has not been replaced yet. A replaced placeholder hands out its source.
func deferNode(src *node, op string, cls class, build func(src *node) *node) *node {
	if ph := src.ph; ph != nil {
		if ph.source == nil {
			c := newPlaceholder(src.sys, cls)
			ph.pending = append(ph.pending, replay{op: op, build: build, child: c})
			return c
		}
		src = ph.source
	}
	return build(src)
}

// replaceWith splices src in behind the placeholder n and replays the
// combinators recorded on it, depth first.
func (n *node) replaceWith(src *node, t Tick) {
	ph := n.ph
	if ph.source != nil {
		panic(ErrPlaceholderResolved)
	}
	sameSystem(n.sys, src)
	ph.source = src
	n.parents = consOf(src)
	if n.class == classFuture {
		n.heat(t)
	} else if n.state != Inactive && n.state != Done {
		src.addListener(n, t)
		if n.class == classBehavior {
			n.updateState(t)
			if n.state == Push {
				n.pull(t)
				n.forward(t)
			}
		}
	}
	pending := ph.pending
	ph.pending = nil
	for _, r := range pending {
		r.child.replaceWith(r.build(src), t)
	}
}

// BehaviorPlaceholder is a behavior whose definition is supplied later with
// ReplaceWith. Sampling it before that panics with ErrUnresolvedPlaceholder.
type BehaviorPlaceholder[A any] struct {
	Behavior[A]
}

func NewBehaviorPlaceholder[A any](sys *System) BehaviorPlaceholder[A] {
	return BehaviorPlaceholder[A]{Behavior[A]{newPlaceholder(sys, classBehavior)}}
}

func (p BehaviorPlaceholder[A]) ReplaceWith(b Behavior[A]) {
	p.n.replaceWith(b.n, p.n.sys.tick())
}

func (p BehaviorPlaceholder[A]) Replaced() bool { return p.n.ph.source != nil }

// Pending lists the combinators recorded on p, in order.
func (p BehaviorPlaceholder[A]) Pending() []string { return p.n.ph.ops() }

type StreamPlaceholder[A any] struct {
	Stream[A]
}

func NewStreamPlaceholder[A any](sys *System) StreamPlaceholder[A] {
	return StreamPlaceholder[A]{Stream[A]{newPlaceholder(sys, classStream)}}
}

func (p StreamPlaceholder[A]) ReplaceWith(s Stream[A]) {
	p.n.replaceWith(s.n, p.n.sys.tick())
}

func (p StreamPlaceholder[A]) Replaced() bool { return p.n.ph.source != nil }

type FuturePlaceholder[A any] struct {
	Future[A]
}

func NewFuturePlaceholder[A any](sys *System) FuturePlaceholder[A] {
	return FuturePlaceholder[A]{Future[A]{newPlaceholder(sys, classFuture)}}
}

func (p FuturePlaceholder[A]) ReplaceWith(f Future[A]) {
	p.n.replaceWith(f.n, p.n.sys.tick())
}

func (p FuturePlaceholder[A]) Replaced() bool { return p.n.ph.source != nil }

func (ph *placeholder) ops() []string {
	out := make([]string, len(ph.pending))
	for i, r := range ph.pending {
		out[i] = r.op
	}
	return out
}
