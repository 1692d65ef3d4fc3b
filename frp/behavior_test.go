package frp_test

import (
	"testing"
	"time"

	"github.com/delaneyj/pushpull/frp"
	"github.com/stretchr/testify/assert"
)

func TestSinkBehaviorPushesThroughMap(t *testing.T) {
	sys := frp.NewSystem()
	b := frp.NewSinkBehavior(sys, 0)
	doubled := frp.Map(b.Behavior, func(x int) int { return x * 2 })

	var seen []int
	stop := doubled.Subscribe(func(v int) { seen = append(seen, v) })
	defer stop()

	b.Push(1)
	b.Push(2)
	b.Push(3)

	assert.Equal(t, 3, b.At())
	assert.Equal(t, []int{0, 2, 4, 6}, seen)
}

func TestSinkBehaviorSkipsEqualValues(t *testing.T) {
	sys := frp.NewSystem()
	b := frp.NewSinkBehavior(sys, "a")

	var seen []string
	defer b.Subscribe(func(v string) { seen = append(seen, v) })()

	b.Push("a")
	b.Push("b")
	b.Push("b")
	assert.Equal(t, []string{"a", "b"}, seen)
}

//	    a
//	   / \
//	  b   c
//	   \ /
//	    d
func TestDiamondIsGlitchFree(t *testing.T) {
	sys := frp.NewSystem()
	a := frp.NewSinkBehavior(sys, 1)
	b := frp.Map(a.Behavior, func(x int) int { return x + 1 })
	c := frp.Map(a.Behavior, func(x int) int { return x * 10 })

	dCalls := 0
	d := frp.Lift2(func(x, y int) int {
		dCalls++
		return x + y
	}, b, c)

	var seen []int
	defer d.Subscribe(func(v int) { seen = append(seen, v) })()

	a.Push(2)
	a.Push(3)

	// every value seen is built from a single generation of a
	assert.Equal(t, []int{12, 23, 34}, seen)
	assert.Equal(t, 3, dCalls)
}

func TestPullingIsIdempotentWithinATick(t *testing.T) {
	sys := frp.NewSystem()
	calls, mapCalls := 0, 0
	src := frp.FromFunction(sys, func() int {
		calls++
		return calls
	})
	m := frp.Map(src, func(x int) int {
		mapCalls++
		return x * 100
	})

	twice := frp.ChainNow(frp.SampleNow(m), func(first int) frp.Now[[2]int] {
		return frp.MapNow(frp.SampleNow(m), func(second int) [2]int {
			return [2]int{first, second}
		})
	})
	got := frp.RunNow(sys, twice)
	assert.Equal(t, [2]int{100, 100}, got)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, mapCalls)

	tick := sys.Now()
	assert.Equal(t, 100, m.AtTick(tick))
	assert.Equal(t, 1, calls)

	assert.Equal(t, 200, m.At())
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, mapCalls)
}

func TestObserveDrivesPullingBehaviors(t *testing.T) {
	now := time.Unix(0, 0)
	sys := frp.NewSystem(frp.WithWallClock(func() time.Time { return now }))
	secs := frp.Map(frp.Time(sys), func(t time.Time) int64 { return t.Unix() })

	var (
		got  []int64
		pull func()
	)
	stop := secs.Observe(func(v int64) {
		got = append(got, v)
	}, func(p func()) func() {
		pull = p
		return func() { pull = nil }
	})

	assert.NotEqual(t, frp.Push, secs.State())
	if assert.NotNil(t, pull) {
		now = time.Unix(5, 0)
		pull()
		pull()
	}
	assert.Equal(t, []int64{0, 5}, got)

	stop()
	assert.Nil(t, pull)
	assert.Equal(t, frp.Inactive, secs.State())
}

func TestConstantAndMapTo(t *testing.T) {
	sys := frp.NewSystem()
	c := frp.Constant(sys, 7)
	assert.Equal(t, 7, c.At())
	assert.Equal(t, "seven", frp.MapTo(c, "seven").At())
}

func TestApAndLift(t *testing.T) {
	sys := frp.NewSystem()
	fb := frp.NewSinkBehavior(sys, func(x int) int { return x + 1 })
	x := frp.NewSinkBehavior(sys, 1)
	applied := frp.Ap(fb.Behavior, x.Behavior)
	assert.Equal(t, 2, applied.At())

	x.Push(10)
	assert.Equal(t, 11, applied.At())

	fb.Push(func(x int) int { return x * 3 })
	assert.Equal(t, 30, applied.At())

	y := frp.Constant(sys, 2)
	z := frp.Constant(sys, 3)
	sum := frp.Lift3(func(a, b, c int) int { return a + b + c }, x.Behavior, y, z)
	assert.Equal(t, 15, sum.At())

	w := frp.Constant(sys, "!")
	joined := frp.Lift4(func(a, b, c int, d string) string {
		return string(rune('0'+a+b+c)) + d
	}, frp.Constant(sys, 1), y, z, w)
	assert.Equal(t, "6!", joined.At())
}

// stale inner branches must not reach a flatMap after the outer value moved on
func TestFlatMapDetachesStaleInner(t *testing.T) {
	sys := frp.NewSystem()
	useLeft := frp.NewSinkBehavior(sys, true)
	left := frp.NewSinkBehavior(sys, "l0")
	right := frp.NewSinkBehavior(sys, "r0")

	chosen := frp.FlatMap(useLeft.Behavior, func(l bool) frp.Behavior[string] {
		if l {
			return left.Behavior
		}
		return right.Behavior
	})

	var seen []string
	stop := chosen.Subscribe(func(v string) { seen = append(seen, v) })

	left.Push("l1")
	useLeft.Push(false)
	assert.Zero(t, left.Listeners())
	assert.Equal(t, 1, right.Listeners())

	left.Push("l2")
	right.Push("r1")
	useLeft.Push(true)

	assert.Equal(t, []string{"l0", "l1", "r0", "r1", "l2"}, seen)

	stop()
	assert.Zero(t, left.Listeners())
	assert.Zero(t, right.Listeners())
	assert.Zero(t, useLeft.Listeners())
}

func TestFlatMapPulledWhileInactive(t *testing.T) {
	sys := frp.NewSystem()
	n := frp.NewSinkBehavior(sys, 2)
	scaled := frp.FlatMap(n.Behavior, func(x int) frp.Behavior[int] {
		return frp.Constant(sys, x*x)
	})
	assert.Equal(t, 4, scaled.At())
	n.Push(3)
	assert.Equal(t, 9, scaled.At())

	nested := frp.Flatten(frp.Constant(sys, n.Behavior))
	assert.Equal(t, 3, nested.At())
}

func TestSwitcherSampled(t *testing.T) {
	sys := frp.NewSystem()
	b1 := frp.NewSinkBehavior(sys, 1)
	next := frp.NewSinkFuture[frp.Behavior[int]](sys)
	switching := frp.Switcher(b1.Behavior, next.Future)

	assert.Equal(t, 1, switching.At())

	b2 := frp.NewSinkBehavior(sys, 9)
	next.Resolve(b2.Behavior)
	assert.Equal(t, 9, switching.At())

	b2.Push(10)
	assert.Equal(t, 10, switching.At())
}

func TestSwitcherPushesOnceOnSwitch(t *testing.T) {
	sys := frp.NewSystem()
	b1 := frp.NewSinkBehavior(sys, 1)
	b2 := frp.NewSinkBehavior(sys, 9)
	next := frp.NewSinkFuture[frp.Behavior[int]](sys)
	switching := frp.Switcher(b1.Behavior, next.Future)

	var seen []int
	defer switching.Subscribe(func(v int) { seen = append(seen, v) })()

	next.Resolve(b2.Behavior)
	b1.Push(5)
	b2.Push(10)

	assert.Equal(t, []int{1, 9, 10}, seen)
	assert.Zero(t, b1.Listeners())
}

func TestSwitcherWithOccurredFuture(t *testing.T) {
	sys := frp.NewSystem()
	b2 := frp.NewSinkBehavior(sys, "new")
	switching := frp.Switcher(frp.Constant(sys, "old"), frp.FutureOf(sys, b2.Behavior))

	var seen []string
	defer switching.Subscribe(func(v string) { seen = append(seen, v) })()
	b2.Push("newer")
	assert.Equal(t, []string{"new", "newer"}, seen)
}

// a switch triggered by a derived future is seen by sampling alone
func TestSwitcherOnDerivedFutureSampled(t *testing.T) {
	sys := frp.NewSystem()
	b1 := frp.NewSinkBehavior(sys, 1)
	b2 := frp.NewSinkBehavior(sys, 9)
	trigger := frp.NewSinkFuture[int](sys)
	switching := frp.Switcher(b1.Behavior, frp.MapFuture(trigger.Future, func(int) frp.Behavior[int] {
		return b2.Behavior
	}))

	assert.Equal(t, 1, switching.At())
	trigger.Resolve(0)
	assert.Equal(t, 9, switching.At())
	assert.Equal(t, 9, frp.RunNow(sys, frp.SampleNow(switching)))

	ph := frp.NewFuturePlaceholder[frp.Behavior[int]](sys)
	viaPlaceholder := frp.Switcher(b1.Behavior, ph.Future)
	assert.Equal(t, 1, viaPlaceholder.At())

	late := frp.NewSinkFuture[frp.Behavior[int]](sys)
	ph.ReplaceWith(late.Future)
	assert.Equal(t, 1, viaPlaceholder.At())
	late.Resolve(b2.Behavior)
	assert.Equal(t, 9, viaPlaceholder.At())
}

func TestSwitchStream(t *testing.T) {
	sys := frp.NewSystem()
	s := frp.NewSinkStream[frp.Behavior[int]](sys)
	other := frp.NewSinkBehavior(sys, 5)
	switching := frp.SwitchStream(frp.Constant(sys, 0), s.Stream).At()

	var seen []int
	defer switching.Subscribe(func(v int) { seen = append(seen, v) })()

	s.Push(other.Behavior)
	other.Push(6)
	s.Push(frp.Constant(sys, 7))
	other.Push(8)

	assert.Equal(t, []int{0, 5, 6, 7}, seen)
}

func TestScanAccumulates(t *testing.T) {
	sys := frp.NewSystem()
	s := frp.NewSinkStream[int](sys)
	sum := frp.Scan(func(v, acc int) int { return v + acc }, 0, s.Stream)

	acc := sum.At()
	var seen []int
	defer acc.Subscribe(func(v int) { seen = append(seen, v) })()

	for i := 1; i <= 4; i++ {
		s.Push(i)
	}
	assert.Equal(t, []int{0, 1, 3, 6, 10}, seen)
	assert.Equal(t, frp.Push, acc.State())
}

// every sample of a scan starts its own accumulation
func TestScanSamplesDiverge(t *testing.T) {
	sys := frp.NewSystem()
	s := frp.NewSinkStream[int](sys)
	sum := frp.Scan(func(v, acc int) int { return v + acc }, 0, s.Stream)

	early := sum.At()
	s.Push(10)
	late := sum.At()
	s.Push(5)

	assert.Equal(t, 15, early.At())
	assert.Equal(t, 5, late.At())
}

func TestStepper(t *testing.T) {
	sys := frp.NewSystem()
	s := frp.NewSinkStream[string](sys)
	held := frp.Stepper("none", s.Stream).At()
	assert.Equal(t, "none", held.At())
	s.Push("a")
	s.Push("b")
	assert.Equal(t, "b", held.At())
}

func TestMomentTracksSampledBehaviors(t *testing.T) {
	sys := frp.NewSystem()
	a := frp.NewSinkBehavior(sys, 1)
	b := frp.NewSinkBehavior(sys, 10)
	useB := frp.NewSinkBehavior(sys, false)

	calls := 0
	m := frp.Moment(sys, func(m *frp.MomentScope) int {
		calls++
		if frp.At(m, useB.Behavior) {
			return frp.At(m, b.Behavior)
		}
		return frp.At(m, a.Behavior)
	})

	var seen []int
	defer m.Subscribe(func(v int) { seen = append(seen, v) })()

	b.Push(11)
	assert.Equal(t, 1, calls)

	useB.Push(true)
	assert.Zero(t, a.Listeners())
	a.Push(2)
	b.Push(12)

	assert.Equal(t, []int{1, 11, 12}, seen)
	assert.Equal(t, 3, calls)
}

func TestMomentSampledWhileInactive(t *testing.T) {
	sys := frp.NewSystem()
	x := frp.NewSinkBehavior(sys, 2)
	y := frp.NewSinkBehavior(sys, 3)
	product := frp.Moment(sys, func(m *frp.MomentScope) int {
		return frp.At(m, x.Behavior) * frp.At(m, y.Behavior)
	})
	assert.Equal(t, 6, product.At())
	y.Push(4)
	assert.Equal(t, 8, product.At())
	assert.Zero(t, x.Listeners())
}

type namedProducer struct {
	name    string
	started *[]string
}

func (p namedProducer) Activate(func(int)) { *p.started = append(*p.started, p.name) }
func (p namedProducer) Deactivate()        {}

// should subscribe to what a moment reads in the order it reads it, every time
func TestMomentSubscribesInSampleOrder(t *testing.T) {
	for range 50 {
		sys := frp.NewSystem()
		var started []string
		inputs := make([]frp.Behavior[int], 0, 4)
		for i, name := range []string{"a", "b", "c", "d"} {
			inputs = append(inputs, frp.NewProducerBehavior(sys, func() int { return i }, namedProducer{name: name, started: &started}))
		}
		sum := frp.Moment(sys, func(m *frp.MomentScope) int {
			total := 0
			for _, b := range inputs {
				total += frp.At(m, b)
			}
			return total
		})

		sum.Subscribe(func(int) {})()
		sum.Subscribe(func(int) {})()
		assert.Equal(t, []string{"a", "b", "c", "d", "a", "b", "c", "d"}, started)
		assert.Equal(t, 6, sum.At())
	}
}

type countingProducer struct {
	active int
	push   func(int)
}

func (p *countingProducer) Activate(push func(int)) {
	p.active++
	p.push = push
}

func (p *countingProducer) Deactivate() {
	p.active--
	p.push = nil
}

func TestProducerBehaviorActivatesOnce(t *testing.T) {
	sys := frp.NewSystem()
	value := 3
	p := &countingProducer{}
	b := frp.NewProducerBehavior(sys, func() int { return value }, p)

	assert.Equal(t, 3, b.At())
	assert.Zero(t, p.active)

	var first, second []int
	stop1 := b.Subscribe(func(v int) { first = append(first, v) })
	stop2 := b.Subscribe(func(v int) { second = append(second, v) })
	assert.Equal(t, 1, p.active)

	p.push(4)
	stop1()
	assert.Equal(t, 1, p.active)
	p.push(5)
	stop2()
	assert.Zero(t, p.active)

	assert.Equal(t, []int{3, 4}, first)
	assert.Equal(t, []int{3, 4, 5}, second)

	value = 6
	assert.Equal(t, 6, b.At())
}

func TestPushToDerivedPanics(t *testing.T) {
	sys := frp.NewSystem()
	derived := frp.Map(frp.Constant(sys, 1), func(x int) int { return x })
	assert.PanicsWithValue(t, frp.ErrPushToDerived, func() {
		frp.SinkBehavior[int]{Behavior: derived}.Push(2)
	})
}

func TestMixingSystemsPanics(t *testing.T) {
	a := frp.Constant(frp.NewSystem(), 1)
	b := frp.Constant(frp.NewSystem(), 2)
	assert.PanicsWithValue(t, frp.ErrSystemMismatch, func() {
		frp.Lift2(func(x, y int) int { return x + y }, a, b)
	})
}
