package frp

import (
	"cmp"
	"slices"
)

// Denotational models. Every combinator that has one composes the models of
// its inputs, so two definitions can be compared without running the graph.
type (
	// bmodel is a behavior as a function of time.
	bmodel func(t float64) any
	// smodel is a stream as its occurrences, sorted by time.
	smodel []occ
	// fmodel is a future as its single occurrence, if any.
	fmodel struct {
		t  float64
		v  any
		ok bool
	}
	occ struct {
		t float64
		v any
	}
)

func byTime(a, b occ) int { return cmp.Compare(a.t, b.t) }

// Occurrence is a value at a point of model time.
type Occurrence[A any] struct {
	Time  float64
	Value A
}

// modelKind backs nodes that only exist as models.
type modelKind struct{}

func (modelKind) name() string               { return "model" }
func (modelKind) update(n *node, _ Tick) any { return n.last }
func (modelKind) pull(*node, Tick)           {}

func modelNode(sys *System, cls class, m any) *node {
	n := newNode(sys, cls, modelKind{})
	n.model = func() any { return m }
	return n
}

// TestBehavior is a behavior given by its model. Sampled live it evaluates f
// at the current tick.
func TestBehavior[A any](sys *System, f func(t float64) A) Behavior[A] {
	b := FromFunction(sys, func() A { return f(float64(sys.Now())) })
	b.n.model = func() any { return bmodel(func(t float64) any { return f(t) }) }
	return b
}

// TestStream is a stream given by its occurrences. It never occurs live.
func TestStream[A any](sys *System, occs ...Occurrence[A]) Stream[A] {
	m := make(smodel, len(occs))
	for i, o := range occs {
		m[i] = occ{t: o.Time, v: o.Value}
	}
	slices.SortStableFunc(m, byTime)
	return Stream[A]{modelNode(sys, classStream, m)}
}

// TestFuture is a future occurring with v at time t in its model. It never
// occurs live.
func TestFuture[A any](sys *System, t float64, v A) Future[A] {
	return Future[A]{modelNode(sys, classFuture, fmodel{t: t, v: v, ok: true})}
}

// BehaviorModel returns the model of b. It panics with ErrNoModel when b or
// one of its inputs has none.
func BehaviorModel[A any](b Behavior[A]) func(t float64) A {
	m := b.n.semantic().(bmodel)
	return func(t float64) A { return as[A](m(t)) }
}

func StreamModel[A any](s Stream[A]) []Occurrence[A] {
	m := s.n.semantic().(smodel)
	out := make([]Occurrence[A], len(m))
	for i, o := range m {
		out[i] = Occurrence[A]{Time: o.t, Value: as[A](o.v)}
	}
	return out
}

// FutureModel returns the occurrence of f in its model and whether there is one.
func FutureModel[A any](f Future[A]) (Occurrence[A], bool) {
	m := f.n.semantic().(fmodel)
	if !m.ok {
		return Occurrence[A]{}, false
	}
	return Occurrence[A]{Time: m.t, Value: as[A](m.v)}, true
}
