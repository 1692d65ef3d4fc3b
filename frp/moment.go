package frp

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// MomentScope is handed to the function of a Moment behavior. Behaviors read
// through At become its dependencies for that evaluation.
type MomentScope struct {
	k *momentKind
	t Tick
}

// At samples b inside a moment.
func At[A any](m *MomentScope, b Behavior[A]) A {
	return as[A](m.sample(b.n))
}

// Tick is the instant the moment is evaluated at.
func (m *MomentScope) Tick() Tick {
	return m.t
}

func (m *MomentScope) sample(n *node) any {
	sameSystem(m.k.sys, n)
	if n.class != classBehavior {
		panic(ErrNotPullable)
	}
	if m.k.deps.Add(n) {
		m.k.order = append(m.k.order, n)
	}
	n.pull(m.t)
	if !n.computed {
		panic(&placeholderError{n: n})
	}
	return n.last
}

// momentKind recomputes f whenever one of the behaviors it sampled last time
// changes. Its parents are replaced on every evaluation, in the order they
// were first sampled.
type momentKind struct {
	sys   *System
	f     func(*MomentScope) any
	deps  mapset.Set[*node]
	order []*node
}

func (*momentKind) name() string { return "moment" }

func (k *momentKind) update(n *node, t Tick) any {
	prev, prevOrder := k.deps, k.order
	k.deps, k.order = mapset.NewThreadUnsafeSet[*node](), nil
	v := k.eval(&MomentScope{k: k, t: t})
	k.rewire(n, prev, prevOrder, t)
	return v
}

// eval runs f. When a dependency still waits on a placeholder the moment
// keeps its previous value; the dependency stays a parent and triggers a new
// evaluation once it can be sampled.
func (k *momentKind) eval(m *MomentScope) (v any) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*placeholderError); !ok {
				panic(r)
			}
			v = noValue{}
		}
	}()
	return k.f(m)
}

func (k *momentKind) rewire(n *node, prev mapset.Set[*node], prevOrder []*node, t Tick) {
	n.parents = consOf(k.order...)
	if n.state == Inactive {
		return
	}
	for _, p := range prevOrder {
		if !k.deps.Contains(p) {
			p.removeListener(n)
		}
	}
	for _, p := range k.order {
		if !prev.Contains(p) {
			p.addListener(n, t)
		}
	}
	n.updateState(t)
}

// Moment is a behavior computed by f, which samples any number of behaviors
// with At. The set of behaviors read may differ from one evaluation to the
// next.
func Moment[A any](sys *System, f func(m *MomentScope) A) Behavior[A] {
	k := &momentKind{
		sys:  sys,
		f:    func(m *MomentScope) any { return f(m) },
		deps: mapset.NewThreadUnsafeSet[*node](),
	}
	return Behavior[A]{newNode(sys, classBehavior, k)}
}
