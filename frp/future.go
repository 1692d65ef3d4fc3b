package frp

import (
	"math"
)

// Future is a value that occurs at most once.
type Future[A any] struct {
	n *node
}

// Subscribe calls fn once the future occurs. A future that already occurred
// calls fn before Subscribe returns.
func (f Future[A]) Subscribe(fn func(A)) (stop func()) {
	o := f.n.sys.observe(f.n, func(v any) { fn(as[A](v)) }, nil)
	return o.stop
}

// Value returns the value of f and whether it has occurred.
func (f Future[A]) Value() (A, bool) {
	if !f.n.resolved {
		var zero A
		return zero, false
	}
	return as[A](f.n.last), true
}

func (f Future[A]) Resolved() bool { return f.n.resolved }

// ResolvedAt is the tick f occurred at.
func (f Future[A]) ResolvedAt() Tick { return f.n.resolvedAt }

func (f Future[A]) State() State { return f.n.state }

func (f Future[A]) System() *System { return f.n.sys }

func (f Future[A]) String() string { return "future(" + f.n.kind.name() + ")" }

// SinkFuture is a future resolved from outside the graph.
type SinkFuture[A any] struct {
	Future[A]
}

type sinkFutureKind struct{}

func (sinkFutureKind) name() string { return "sink" }

func NewSinkFuture[A any](sys *System) SinkFuture[A] {
	return SinkFuture[A]{Future[A]{newNode(sys, classFuture, sinkFutureKind{})}}
}

// Resolve makes the future occur at a fresh tick. Resolving twice panics with
// ErrAlreadyResolved.
func (f SinkFuture[A]) Resolve(v A) {
	if _, ok := f.n.kind.(sinkFutureKind); !ok {
		panic(ErrPushToDerived)
	}
	f.n.resolve(v, f.n.sys.tick())
}

type ofKind struct{}

func (ofKind) name() string { return "of" }

// FutureOf is a future that has always occurred.
func FutureOf[A any](sys *System, v A) Future[A] {
	n := newNode(sys, classFuture, ofKind{})
	n.last, n.resolved, n.state = v, true, Done
	n.model = func() any { return fmodel{t: math.Inf(-1), v: v, ok: true} }
	return Future[A]{n}
}

type neverKind struct{}

func (neverKind) name() string { return "never" }

// Never is a future that does not occur.
func Never[A any](sys *System) Future[A] {
	n := newNode(sys, classFuture, neverKind{})
	n.model = func() any { return fmodel{} }
	return Future[A]{n}
}

type mapFutureKind struct {
	f func(any) any
}

func (mapFutureKind) name() string                     { return "map" }
func (k mapFutureKind) receive(n *node, v any, t Tick) { n.resolve(k.f(v), t) }

func MapFuture[A, B any](fut Future[A], f func(A) B) Future[B] {
	return Future[B]{deferNode(fut.n, "map", classFuture, func(src *node) *node {
		fn := func(v any) any { return f(as[A](v)) }
		n := newNode(src.sys, classFuture, mapFutureKind{f: fn}, src)
		n.model = func() any {
			m := src.semantic().(fmodel)
			if m.ok {
				m.v = fn(m.v)
			}
			return m
		}
		return n.heat(src.sys.clock)
	})}
}

func MapToFuture[A, B any](fut Future[A], v B) Future[B] {
	return MapFuture(fut, func(A) B { return v })
}

// earliest returns the parent that occurred first, the first one on ties.
func earliest(parents []*node) *node {
	var first *node
	for _, p := range parents {
		if p.resolved && (first == nil || p.resolvedAt < first.resolvedAt) {
			first = p
		}
	}
	return first
}

type combineFutureKind struct{}

func (combineFutureKind) name() string { return "combine" }

func (combineFutureKind) receive(n *node, v any, t Tick) {
	if !n.resolved {
		n.resolve(v, t)
	}
}

// CombineFutures occurs with whichever future occurs first. If some have
// occurred already the earliest of those wins right away, ties going to the
// first in argument order.
func CombineFutures[A any](futures ...Future[A]) Future[A] {
	if len(futures) == 0 {
		panic("frp: CombineFutures needs at least one future")
	}
	parents := make([]*node, len(futures))
	for i, f := range futures {
		parents[i] = f.n
	}
	n := newNode(parents[0].sys, classFuture, combineFutureKind{}, parents...)
	n.model = func() any {
		var out fmodel
		for _, p := range parents {
			if m := p.semantic().(fmodel); m.ok && (!out.ok || m.t < out.t) {
				out = m
			}
		}
		return out
	}
	if first := earliest(parents); first != nil {
		n.last, n.resolved, n.resolvedAt, n.state = first.last, true, first.resolvedAt, Done
		n.parents = nil
		return Future[A]{n}
	}
	return Future[A]{n.heat(n.sys.clock)}
}

// flatMapFutureKind waits for the outer future, then for the future f makes of
// its value.
type flatMapFutureKind struct {
	f       func(any) *node
	inner   *node
	outerAt Tick
}

func (*flatMapFutureKind) name() string { return "flatMap" }

func (k *flatMapFutureKind) receive(n *node, v any, t Tick) {
	if k.inner != nil {
		n.resolve(v, max(t, k.outerAt))
		return
	}
	k.inner, k.outerAt = k.f(v), t
	sameSystem(n.sys, k.inner)
	n.parents = consOf(k.inner)
	k.inner.addListener(n, n.sys.clock)
}

func FlatMapFuture[A, B any](fut Future[A], f func(A) Future[B]) Future[B] {
	return Future[B]{deferNode(fut.n, "flatMap", classFuture, func(src *node) *node {
		fn := func(v any) *node { return f(as[A](v)).n }
		n := newNode(src.sys, classFuture, &flatMapFutureKind{f: fn}, src)
		n.model = func() any {
			om := src.semantic().(fmodel)
			if !om.ok {
				return fmodel{}
			}
			im := fn(om.v).semantic().(fmodel)
			if !im.ok {
				return fmodel{}
			}
			return fmodel{t: math.Max(om.t, im.t), v: im.v, ok: true}
		}
		return n.heat(src.sys.clock)
	})}
}

// liftFutureKind occurs once every parent has occurred.
type liftFutureKind struct {
	f func([]any) any
}

func (liftFutureKind) name() string { return "lift" }

func (k liftFutureKind) receive(n *node, _ any, t Tick) {
	if n.resolved {
		return
	}
	vs := make([]any, 0, n.parents.len())
	for l := n.parents; l != nil; l = l.tail {
		if !l.head.resolved {
			return
		}
		vs = append(vs, l.head.last)
		t = max(t, l.head.resolvedAt)
	}
	n.resolve(k.f(vs), t)
}

func liftF(f func([]any) any, parents ...*node) *node {
	n := newNode(parents[0].sys, classFuture, liftFutureKind{f: f}, parents...)
	n.model = func() any {
		out := fmodel{t: math.Inf(-1), ok: true}
		mvs := make([]any, len(parents))
		for i, p := range parents {
			m := p.semantic().(fmodel)
			if !m.ok {
				return fmodel{}
			}
			out.t = math.Max(out.t, m.t)
			mvs[i] = m.v
		}
		out.v = f(mvs)
		return out
	}
	return n.heat(n.sys.clock)
}
