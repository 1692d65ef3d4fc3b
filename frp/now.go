package frp

import (
	"context"
)

// Now describes sampling and effects that happen within one instant. It does
// nothing until it is run with RunNow.
type Now[A any] struct {
	s step
}

// step is one instruction of a Now program.
type step interface {
	isStep()
}

type (
	pureStep struct {
		v any
	}
	sampleStep struct {
		b *node
	}
	ioStep struct {
		run  func(ctx context.Context) (any, error)
		wrap func(*node) any
	}
	planStep struct {
		fut    *node
		toStep func(any) step
		wrap   func(*node) any
	}
	chainStep struct {
		first step
		f     func(any) step
	}
)

func (pureStep) isStep()   {}
func (sampleStep) isStep() {}
func (ioStep) isStep()     {}
func (planStep) isStep()   {}
func (chainStep) isStep()  {}

// IO is an effect run outside the logical clock. ctx is cancelled when the
// System is closed.
type IO[A any] func(ctx context.Context) (A, error)

// NowOf yields v.
func NowOf[A any](v A) Now[A] {
	return Now[A]{pureStep{v: v}}
}

// SampleNow yields the value of b at the instant the program runs.
func SampleNow[A any](b Behavior[A]) Now[A] {
	return Now[A]{sampleStep{b: b.n}}
}

// PerformIO starts io and yields a future of its result. A failed effect
// leaves the future pending and is reported to the System's OnErrorFunc.
func PerformIO[A any](io IO[A]) Now[Future[A]] {
	return Now[Future[A]]{ioStep{
		run:  func(ctx context.Context) (any, error) { return io(ctx) },
		wrap: func(n *node) any { return Future[A]{n} },
	}}
}

// Plan runs the program fut delivers as soon as it occurs. The returned future
// occurs with the result of that program.
func Plan[A any](fut Future[Now[A]]) Now[Future[A]] {
	return Now[Future[A]]{planStep{
		fut:    fut.n,
		toStep: func(v any) step { return as[Now[A]](v).s },
		wrap:   func(n *node) any { return Future[A]{n} },
	}}
}

// ChainNow runs n, then the program f makes of its result.
func ChainNow[A, B any](n Now[A], f func(A) Now[B]) Now[B] {
	return Now[B]{chainStep{
		first: n.s,
		f:     func(v any) step { return f(as[A](v)).s },
	}}
}

func MapNow[A, B any](n Now[A], f func(A) B) Now[B] {
	return ChainNow(n, func(v A) Now[B] { return NowOf(f(v)) })
}

// RunNow interprets n. Every sample it takes observes the same instant.
func RunNow[A any](sys *System, n Now[A]) A {
	if sys.closed {
		panic(ErrClosed)
	}
	return as[A](sys.interpret(n.s, sys.tick()))
}

type ioKind struct{}

func (ioKind) name() string { return "io" }

type planKind struct{}

func (planKind) name() string { return "plan" }

// interpret runs s at tick t. Chains are unrolled onto an explicit stack so
// long programs do not grow the Go stack.
func (sys *System) interpret(s step, t Tick) any {
	var conts []func(any) step
	for {
		var v any
		switch st := s.(type) {
		case nil:
			panic(ErrEmptyNow)
		case chainStep:
			conts = append(conts, st.f)
			s = st.first
			continue
		case pureStep:
			v = st.v
		case sampleStep:
			sameSystem(sys, st.b)
			v = st.b.at(t)
		case ioStep:
			n := newNode(sys, classFuture, ioKind{})
			sys.spawn(st.run, func(v any) {
				if !n.resolved {
					n.resolve(v, sys.tick())
				}
			})
			v = st.wrap(n)
		case planStep:
			v = st.wrap(sys.plan(st, t))
		}
		if len(conts) == 0 {
			return v
		}
		f := conts[len(conts)-1]
		conts = conts[:len(conts)-1]
		s = f(v)
	}
}

// plan listens to the future of a program for as long as it takes to occur.
// The program runs at the instant the future occurs, or at t if it already
// has.
func (sys *System) plan(st planStep, t Tick) *node {
	sameSystem(sys, st.fut)
	n := newNode(sys, classFuture, planKind{})
	st.fut.addListener(&pushFunc{fn: func(v any, at Tick) {
		at = max(at, t)
		n.resolve(sys.interpret(st.toStep(v), at), at)
	}}, t)
	return n
}
