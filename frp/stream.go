package frp

import (
	"slices"
)

// Stream is a sequence of discrete occurrences.
type Stream[A any] struct {
	n *node
}

// Subscribe calls fn for every occurrence until stop is called.
func (s Stream[A]) Subscribe(fn func(A)) (stop func()) {
	o := s.n.sys.observe(s.n, func(v any) { fn(as[A](v)) }, nil)
	return o.stop
}

func (s Stream[A]) State() State { return s.n.state }

func (s Stream[A]) System() *System { return s.n.sys }

func (s Stream[A]) Listeners() int { return s.n.nrOfListeners }

func (s Stream[A]) String() string { return "stream(" + s.n.kind.name() + ")" }

// SinkStream is a stream fed from outside the graph.
type SinkStream[A any] struct {
	Stream[A]
}

type sinkStreamKind struct{}

func (sinkStreamKind) name() string { return "sink" }

func NewSinkStream[A any](sys *System) SinkStream[A] {
	return SinkStream[A]{Stream[A]{newNode(sys, classStream, sinkStreamKind{})}}
}

// Push makes v occur at a fresh tick.
func (s SinkStream[A]) Push(v A) {
	if _, ok := s.n.kind.(sinkStreamKind); !ok {
		panic(ErrPushToDerived)
	}
	s.n.emit(v, s.n.sys.tick())
}

type producerStreamKind struct {
	producer anyProducer
}

func (producerStreamKind) name() string { return "producer" }

func (k producerStreamKind) activate(n *node, _ Tick) {
	n.state = Push
	k.producer.activate(func(v any) {
		if n.state == Inactive {
			return
		}
		n.emit(v, n.sys.tick())
	})
}

func (k producerStreamKind) deactivate(n *node) {
	n.state = Inactive
	k.producer.deactivate()
}

// NewProducerStream wraps an external event source. p is activated on the
// first listener and deactivated when the last one leaves.
func NewProducerStream[A any](sys *System, p Producer[A]) Stream[A] {
	return Stream[A]{newNode(sys, classStream, producerStreamKind{producer: producerAdapter[A]{p}})}
}

type mapStreamKind struct {
	f func(any) any
}

func (mapStreamKind) name() string                     { return "map" }
func (k mapStreamKind) receive(n *node, v any, t Tick) { n.emit(k.f(v), t) }

func mapS(src *node, f func(any) any) *node {
	n := newNode(src.sys, classStream, mapStreamKind{f: f}, src)
	n.model = func() any {
		occs := src.semantic().(smodel)
		out := make(smodel, len(occs))
		for i, o := range occs {
			out[i] = occ{t: o.t, v: f(o.v)}
		}
		return out
	}
	return n
}

func MapStream[A, B any](s Stream[A], f func(A) B) Stream[B] {
	return Stream[B]{deferNode(s.n, "map", classStream, func(src *node) *node {
		return mapS(src, func(v any) any { return f(as[A](v)) })
	})}
}

func MapToStream[A, B any](s Stream[A], v B) Stream[B] {
	return MapStream(s, func(A) B { return v })
}

type filterStreamKind struct {
	keep func(any) bool
}

func (filterStreamKind) name() string { return "filter" }

func (k filterStreamKind) receive(n *node, v any, t Tick) {
	if k.keep(v) {
		n.emit(v, t)
	}
}

// FilterStream drops the occurrences of s for which keep is false.
func FilterStream[A any](s Stream[A], keep func(A) bool) Stream[A] {
	return Stream[A]{deferNode(s.n, "filter", classStream, func(src *node) *node {
		pred := func(v any) bool { return keep(as[A](v)) }
		n := newNode(src.sys, classStream, filterStreamKind{keep: pred}, src)
		n.model = func() any {
			var out smodel
			for _, o := range src.semantic().(smodel) {
				if pred(o.v) {
					out = append(out, o)
				}
			}
			return out
		}
		return n
	})}
}

type combineKind struct{}

func (combineKind) name() string                   { return "combine" }
func (combineKind) receive(n *node, v any, t Tick) { n.emit(v, t) }

// Combine merges streams. Occurrences are forwarded as they happen; at equal
// times the earlier argument comes first.
func Combine[A any](streams ...Stream[A]) Stream[A] {
	if len(streams) == 0 {
		panic("frp: Combine needs at least one stream")
	}
	parents := make([]*node, len(streams))
	for i, s := range streams {
		parents[i] = s.n
	}
	n := newNode(parents[0].sys, classStream, combineKind{}, parents...)
	n.model = func() any {
		var out smodel
		for _, p := range parents {
			out = append(out, p.semantic().(smodel)...)
		}
		slices.SortStableFunc(out, byTime)
		return out
	}
	return Stream[A]{n}
}

// changesKind turns the pushes of a behavior into occurrences.
type changesKind struct{}

func (changesKind) name() string                   { return "changes" }
func (changesKind) receive(n *node, v any, t Tick) { n.emit(v, t) }

func (changesKind) activate(n *node, t Tick) {
	n.attachParents(t)
	if n.parents.head.state != Push {
		n.detachParents()
		panic(ErrNotPushing)
	}
}

// Changes occurs whenever b pushes a new value. b has to be able to push: a
// behavior that is only known when sampled has no changes to report.
func Changes[A any](b Behavior[A]) Stream[A] {
	return Stream[A]{deferNode(b.n, "changes", classStream, func(src *node) *node {
		return newNode(src.sys, classStream, changesKind{}, src)
	})}
}

// snapshotKind samples b at every occurrence of its parent stream.
type snapshotKind struct {
	b *node
	f func(v, bv any) any
}

func (snapshotKind) name() string { return "snapshot" }

func (k snapshotKind) receive(n *node, v any, t Tick) {
	k.b.pull(t)
	if !k.b.computed {
		panic(&placeholderError{n: k.b})
	}
	n.emit(k.f(v, k.b.last), t)
}

func snapshotS(b, s *node, f func(v, bv any) any) *node {
	n := newNode(s.sys, classStream, snapshotKind{b: b, f: f}, s)
	sameSystem(s.sys, b)
	n.model = func() any {
		bm := b.semantic().(bmodel)
		occs := s.semantic().(smodel)
		out := make(smodel, len(occs))
		for i, o := range occs {
			out[i] = occ{t: o.t, v: f(o.v, bm(o.t))}
		}
		return out
	}
	return n
}

// Snapshot occurs with the value of b whenever s occurs.
func Snapshot[A, B any](b Behavior[B], s Stream[A]) Stream[B] {
	return Stream[B]{snapshotS(b.n, s.n, func(_, bv any) any { return bv })}
}

// SnapshotWith combines each occurrence of s with the value of b at that time.
func SnapshotWith[A, B, C any](f func(A, B) C, b Behavior[B], s Stream[A]) Stream[C] {
	return Stream[C]{snapshotS(b.n, s.n, func(v, bv any) any {
		return f(as[A](v), as[B](bv))
	})}
}

// nextKind is a future waiting for the next occurrence of a stream. It listens
// from the moment it is made, regardless of its own listeners.
type nextKind struct{}

func (nextKind) name() string                   { return "next" }
func (nextKind) receive(n *node, v any, t Tick) { n.resolve(v, t) }
func (nextKind) activate(*node, Tick)           {}
func (nextKind) deactivate(*node)               {}

func nextOccurrence(s *node, t Tick) *node {
	n := newNode(s.sys, classFuture, nextKind{}, s)
	n.state = Push
	s.addListener(n, t)
	return n
}

// NextOccurrence returns, for each instant it is sampled at, the future of the
// first occurrence of s after that instant.
func NextOccurrence[A any](s Stream[A]) Behavior[Future[A]] {
	n := freshB(s.n.sys, func(t Tick) any {
		return Future[A]{nextOccurrence(s.n, t)}
	})
	n.model = func() any {
		occs := s.n.semantic().(smodel)
		return bmodel(func(from float64) any {
			for _, o := range occs {
				if o.t > from {
					return Future[A]{modelNode(s.n.sys, classFuture, fmodel{t: o.t, v: o.v, ok: true})}
				}
			}
			return Future[A]{modelNode(s.n.sys, classFuture, fmodel{})}
		})
	}
	return Behavior[Future[A]]{n}
}
