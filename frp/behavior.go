package frp

import (
	"time"
)

// Behavior is a value that is defined at every instant.
type Behavior[A any] struct {
	n *node
}

// At samples b at a fresh instant. A pushing behavior answers from its cache.
func (b Behavior[A]) At() A {
	return as[A](b.n.at(0))
}

// AtTick samples b as of tick t. Sampling twice at the same tick with no push
// in between returns the same value and recomputes nothing.
func (b Behavior[A]) AtTick(t Tick) A {
	return as[A](b.n.at(t))
}

func (b Behavior[A]) State() State { return b.n.state }

func (b Behavior[A]) System() *System { return b.n.sys }

// ChangedAt is the tick of the last change this behavior has seen.
func (b Behavior[A]) ChangedAt() Tick { return b.n.changedAt }

func (b Behavior[A]) Listeners() int { return b.n.nrOfListeners }

func (b Behavior[A]) String() string { return "behavior(" + b.n.kind.name() + ")" }

// Subscribe calls fn with the current value and then with every pushed change.
func (b Behavior[A]) Subscribe(fn func(A)) (stop func()) {
	o := b.n.sys.observe(b.n, func(v any) { fn(as[A](v)) }, nil)
	return o.stop
}

// Observe is Subscribe for behaviors that may be pulling. Whenever b enters a
// pulling state handlePulling is given a function that samples b and pushes
// changes; the function it returns is called when b starts pushing again or
// the observer stops.
func (b Behavior[A]) Observe(push func(A), handlePulling func(pull func()) (stop func())) (stop func()) {
	o := b.n.sys.observe(b.n, func(v any) { push(as[A](v)) }, handlePulling)
	return o.stop
}

// SinkBehavior is a behavior set from outside the graph.
type SinkBehavior[A any] struct {
	Behavior[A]
}

type sinkKind struct{}

func (sinkKind) name() string               { return "sink" }
func (sinkKind) update(n *node, _ Tick) any { return n.last }
func (sinkKind) pull(*node, Tick)           {}
func (sinkKind) fixedState() State          { return Push }

func NewSinkBehavior[A any](sys *System, initial A) SinkBehavior[A] {
	n := newNode(sys, classBehavior, sinkKind{})
	n.last, n.computed = initial, true
	return SinkBehavior[A]{Behavior[A]{n}}
}

// Push sets a new value at a fresh tick and propagates it when it differs
// from the current one.
func (s SinkBehavior[A]) Push(v A) {
	if _, ok := s.n.kind.(sinkKind); !ok {
		panic(ErrPushToDerived)
	}
	s.n.setValue(v, s.n.sys.tick())
}

type constantKind struct{}

func (constantKind) name() string               { return "constant" }
func (constantKind) update(n *node, _ Tick) any { return n.last }
func (constantKind) pull(*node, Tick)           {}
func (constantKind) fixedState() State          { return Push }

func Constant[A any](sys *System, v A) Behavior[A] {
	n := newNode(sys, classBehavior, constantKind{})
	n.last, n.computed = v, true
	n.model = func() any { return bmodel(func(float64) any { return v }) }
	return Behavior[A]{n}
}

// functionKind reads a value from outside the graph on every new tick.
type functionKind struct {
	f func() any
}

func (functionKind) name() string             { return "function" }
func (k functionKind) update(*node, Tick) any { return k.f() }
func (functionKind) fixedState() State        { return OnlyPull }

func (functionKind) pull(n *node, t Tick) {
	if n.computed && n.pulledAt >= t {
		return
	}
	n.pulledAt = t
	n.refresh(t)
}

// FromFunction is a behavior that is only ever pulled; f runs at most once
// per tick.
func FromFunction[A any](sys *System, f func() A) Behavior[A] {
	return Behavior[A]{newNode(sys, classBehavior, functionKind{f: func() any { return f() }})}
}

// Time is the wall clock of sys.
func Time(sys *System) Behavior[time.Time] {
	return FromFunction(sys, func() time.Time { return sys.wallClock() })
}

type mapKind struct {
	f func(any) any
}

func (mapKind) name() string                 { return "map" }
func (k mapKind) update(n *node, _ Tick) any { return k.f(n.parents.head.last) }

func mapB(src *node, f func(any) any) *node {
	n := newNode(src.sys, classBehavior, mapKind{f: f}, src)
	n.model = func() any {
		m := src.semantic().(bmodel)
		return bmodel(func(t float64) any { return f(m(t)) })
	}
	return n
}

// Map applies f to b at every instant.
func Map[A, B any](b Behavior[A], f func(A) B) Behavior[B] {
	return Behavior[B]{deferNode(b.n, "map", classBehavior, func(src *node) *node {
		return mapB(src, func(v any) any { return f(as[A](v)) })
	})}
}

func MapTo[A, B any](b Behavior[A], v B) Behavior[B] {
	return Map(b, func(A) B { return v })
}

// liftKind applies f to the values of all parents, in order.
type liftKind struct {
	f func([]any) any
}

func (liftKind) name() string { return "lift" }
func (k liftKind) update(n *node, _ Tick) any {
	vs := make([]any, 0, n.parents.len())
	for l := n.parents; l != nil; l = l.tail {
		vs = append(vs, l.head.last)
	}
	return k.f(vs)
}

func liftB(f func([]any) any, parents ...*node) *node {
	n := newNode(parents[0].sys, classBehavior, liftKind{f: f}, parents...)
	n.model = func() any {
		ms := make([]bmodel, len(parents))
		for i, p := range parents {
			ms[i] = p.semantic().(bmodel)
		}
		return bmodel(func(t float64) any {
			vs := make([]any, len(ms))
			for i, m := range ms {
				vs[i] = m(t)
			}
			return f(vs)
		})
	}
	return n
}

// Ap applies the function held by fb to the value of b.
func Ap[A, B any](fb Behavior[func(A) B], b Behavior[A]) Behavior[B] {
	return Behavior[B]{liftB(func(vs []any) any {
		return as[func(A) B](vs[0])(as[A](vs[1]))
	}, fb.n, b.n)}
}

// flatMapKind follows the behavior selected by the outer value. When the outer
// value changes the old inner behavior is detached before the new one is
// attached, so a stale branch can never push into this node again.
type flatMapKind struct {
	outer      *node
	f          func(any) *node
	inner      *node
	selectedAt Tick
}

func (*flatMapKind) name() string { return "flatMap" }

func (k *flatMapKind) update(*node, Tick) any { return k.inner.last }

func (k *flatMapKind) pull(n *node, t Tick) {
	if n.computed && n.pulledAt >= t {
		return
	}
	n.pulledAt = t
	k.outer.pull(t)
	if !k.outer.computed {
		return
	}
	if k.inner == nil || k.outer.changedAt > k.selectedAt {
		k.rebind(n, t)
	}
	k.inner.pull(t)
	if !k.inner.computed {
		return
	}
	if !n.computed || k.selectedAt > n.updatedAt || k.inner.changedAt > n.updatedAt {
		n.refresh(t)
	}
}

func (k *flatMapKind) rebind(n *node, t Tick) {
	next := k.f(k.outer.last)
	sameSystem(n.sys, next)
	prev := k.inner
	k.selectedAt = t
	if prev == next {
		return
	}
	k.inner = next
	n.parents = consOf(k.outer, next)
	if n.state == Inactive {
		return
	}
	if prev != nil {
		prev.removeListener(n)
	}
	next.addListener(n, t)
	n.updateState(t)
}

func flatMapB(outer *node, f func(any) *node) *node {
	k := &flatMapKind{outer: outer, f: f}
	n := newNode(outer.sys, classBehavior, k, outer)
	n.model = func() any {
		om := outer.semantic().(bmodel)
		return bmodel(func(t float64) any {
			return f(om(t)).semantic().(bmodel)(t)
		})
	}
	return n
}

// FlatMap follows the behavior f returns for the current value of b.
func FlatMap[A, B any](b Behavior[A], f func(A) Behavior[B]) Behavior[B] {
	return Behavior[B]{deferNode(b.n, "flatMap", classBehavior, func(src *node) *node {
		return flatMapB(src, func(v any) *node { return f(as[A](v)).n })
	})}
}

// Flatten collapses a behavior of behaviors to the currently held one.
func Flatten[A any](bb Behavior[Behavior[A]]) Behavior[A] {
	return FlatMap(bb, func(b Behavior[A]) Behavior[A] { return b })
}

// switchKind follows current until a new behavior arrives, either once from a
// future or on every occurrence of a stream.
type switchKind struct {
	current    *node
	toNode     func(any) *node
	switchedAt Tick

	next     *node
	listener *pushFunc
	switched bool
}

func (*switchKind) name() string { return "switcher" }

func (k *switchKind) update(*node, Tick) any { return k.current.last }

func (k *switchKind) pull(n *node, t Tick) {
	if n.computed && n.pulledAt >= t {
		return
	}
	n.pulledAt = t
	if k.next != nil && !k.switched && k.next.resolved && k.next.resolvedAt <= t {
		k.switchTo(n, k.next.last, t)
	}
	k.current.pull(t)
	if !k.current.computed {
		return
	}
	if !n.computed || k.switchedAt > n.updatedAt || k.current.changedAt > n.updatedAt {
		n.refresh(t)
	}
}

func (k *switchKind) activate(n *node, t Tick) {
	if k.next != nil && !k.switched && k.next.resolved {
		k.switchTo(n, k.next.last, t)
	}
	n.attachParents(t)
	if k.next != nil && !k.switched {
		k.next.addListener(k.listener, t)
	}
}

func (k *switchKind) deactivate(n *node) {
	if k.next != nil && !k.switched {
		k.next.removeListener(k.listener)
	}
	n.detachParents()
}

func (k *switchKind) switchTo(n *node, v any, t Tick) {
	if k.next != nil {
		k.switched = true
	}
	next := k.toNode(v)
	sameSystem(n.sys, next)
	prev := k.current
	k.current, k.switchedAt = next, t
	n.parents = consOf(next)
	if n.state == Inactive || prev == next {
		return
	}
	prev.removeListener(n)
	next.addListener(n, t)
	n.updateState(t)
}

// occur handles the arrival of a new behavior while n is listening. The new
// value is computed from the new source at once and pushed a single time.
func (k *switchKind) occur(n *node, v any, t Tick) {
	if k.switched || n.state == Inactive {
		return
	}
	k.switchTo(n, v, t)
	k.resample(n, t)
}

// resample recomputes an active switch from its new source at once.
func (k *switchKind) resample(n *node, t Tick) {
	if n.state == Inactive {
		return
	}
	k.current.pull(t)
	n.pulledAt = t
	if !k.current.computed {
		return
	}
	n.refresh(t)
	if n.state == Push {
		n.forward(t)
	}
}

func newSwitch(init, next *node, toNode func(any) *node) *node {
	k := &switchKind{current: init, toNode: toNode, next: next}
	n := newNode(init.sys, classBehavior, k, init)
	sameSystem(init.sys, next)
	k.listener = &pushFunc{fn: func(v any, t Tick) { k.occur(n, v, t) }}
	n.model = func() any {
		im := init.semantic().(bmodel)
		fm := next.semantic().(fmodel)
		return bmodel(func(t float64) any {
			if fm.ok && t >= fm.t {
				return toNode(fm.v).semantic().(bmodel)(t)
			}
			return im(t)
		})
	}
	return n
}

// Switcher acts as init until next occurs and as the behavior it delivers from
// that instant on.
func Switcher[A any](init Behavior[A], next Future[Behavior[A]]) Behavior[A] {
	return Behavior[A]{newSwitch(init.n, next.n, func(v any) *node {
		return as[Behavior[A]](v).n
	})}
}

// switchStream builds the live node behind SwitchStream. It listens to the
// stream from the moment it is created.
func switchStream(init, s *node, toNode func(any) *node, t Tick) *node {
	k := &switchKind{current: init, toNode: toNode}
	n := newNode(init.sys, classBehavior, k, init)
	sameSystem(init.sys, s)
	k.listener = &pushFunc{fn: func(v any, t Tick) {
		k.switchTo(n, v, t)
		k.resample(n, t)
	}}
	s.addListener(k.listener, t)
	return n
}

// SwitchStream returns, for each instant it is sampled at, a behavior that
// starts as init and switches to every behavior s delivers afterwards.
func SwitchStream[A any](init Behavior[A], s Stream[Behavior[A]]) Behavior[Behavior[A]] {
	toNode := func(v any) *node { return as[Behavior[A]](v).n }
	return Behavior[Behavior[A]]{freshB(init.n.sys, func(t Tick) any {
		return Behavior[A]{switchStream(init.n, s.n, toNode, t)}
	})}
}

// freshKind makes a new value each time it is pulled at a new tick. It backs
// the behaviors whose value is itself a stateful behavior started at the
// sampling instant.
type freshKind struct {
	build func(t Tick) any
}

func (freshKind) name() string                 { return "fresh" }
func (k freshKind) update(_ *node, t Tick) any { return k.build(t) }
func (freshKind) fixedState() State            { return OnlyPull }

func (freshKind) pull(n *node, t Tick) {
	if n.computed && n.pulledAt >= t {
		return
	}
	n.pulledAt = t
	n.refresh(t)
}

func freshB(sys *System, build func(t Tick) any) *node {
	return newNode(sys, classBehavior, freshKind{build: build})
}

// accumKind folds the occurrences of a stream. It subscribes as soon as it is
// built and stays pushing for good: there is nothing to recompute on a pull.
type accumKind struct {
	f func(v, acc any) any
}

func (accumKind) name() string               { return "accum" }
func (accumKind) update(n *node, _ Tick) any { return n.last }
func (accumKind) pull(*node, Tick)           {}
func (accumKind) activate(*node, Tick)       {}
func (accumKind) deactivate(*node)           {}
func (accumKind) fixedState() State          { return Push }

func (k accumKind) receive(n *node, v any, t Tick) {
	n.setValue(k.f(v, n.last), t)
}

func newAccum(src *node, f func(v, acc any) any, initial any, t Tick) *node {
	n := newNode(src.sys, classBehavior, accumKind{f: f}, src)
	n.last, n.computed = initial, true
	n.changedAt, n.pulledAt, n.updatedAt = t, t, t
	n.state = Push
	src.addListener(n, t)
	return n
}

// Scan returns, for each instant it is sampled at, a new running fold of s
// seeded with initial. Accumulations started at different instants never
// share state.
func Scan[A, B any](f func(A, B) B, initial B, s Stream[A]) Behavior[Behavior[B]] {
	fold := func(v, acc any) any { return f(as[A](v), as[B](acc)) }
	n := freshB(s.n.sys, func(t Tick) any {
		return Behavior[B]{newAccum(s.n, fold, initial, t)}
	})
	n.model = func() any {
		occs := s.n.semantic().(smodel)
		return bmodel(func(from float64) any {
			m := bmodel(func(to float64) any {
				acc := any(initial)
				for _, o := range occs {
					if o.t > from && o.t <= to {
						acc = fold(o.v, acc)
					}
				}
				return acc
			})
			return Behavior[B]{modelNode(s.n.sys, classBehavior, m)}
		})
	}
	return Behavior[Behavior[B]]{n}
}

// Stepper holds the latest occurrence of s, starting from initial at the
// sampling instant.
func Stepper[A any](initial A, s Stream[A]) Behavior[Behavior[A]] {
	return Scan(func(v, _ A) A { return v }, initial, s)
}

// producerKind is a behavior fed by an external source while observed and
// read through get while it is not.
type producerKind struct {
	get      func() any
	producer anyProducer
}

func (producerKind) name() string { return "producer" }

func (k producerKind) update(n *node, _ Tick) any {
	if n.state == Push {
		return n.last
	}
	return k.get()
}

func (producerKind) pull(n *node, t Tick) {
	if n.state == Push || (n.computed && n.pulledAt >= t) {
		return
	}
	n.pulledAt = t
	n.refresh(t)
}

func (k producerKind) activate(n *node, t Tick) {
	n.state = Push
	if v := k.get(); !n.computed || !same(n.last, v) {
		n.last, n.computed, n.changedAt = v, true, t
	}
	n.pulledAt, n.updatedAt = t, t
	k.producer.activate(func(v any) {
		if n.state == Inactive {
			return
		}
		n.setValue(v, n.sys.tick())
	})
}

func (k producerKind) deactivate(n *node) {
	n.state = Inactive
	k.producer.deactivate()
}

// NewProducerBehavior wraps an external source. Activate and Deactivate are
// called once per transition between having listeners and having none; in
// between the producer may push at will. get is read while nobody listens.
func NewProducerBehavior[A any](sys *System, get func() A, p Producer[A]) Behavior[A] {
	return Behavior[A]{newNode(sys, classBehavior, producerKind{
		get:      func() any { return get() },
		producer: producerAdapter[A]{p},
	})}
}

