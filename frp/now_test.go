package frp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/delaneyj/pushpull/frp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunNowDoesNotAdvanceTimeWhileSampling(t *testing.T) {
	sys := frp.NewSystem()
	b := frp.NewSinkBehavior(sys, 4)

	before := sys.Now()
	got := frp.RunNow(sys, frp.ChainNow(frp.SampleNow(b.Behavior), func(x int) frp.Now[int] {
		return frp.MapNow(frp.SampleNow(b.Behavior), func(y int) int { return x + y })
	}))
	assert.Equal(t, 8, got)
	assert.Equal(t, before+1, sys.Now())
}

func TestRunNowUnrollsLongChains(t *testing.T) {
	sys := frp.NewSystem()
	n := frp.NowOf(0)
	for range 100_000 {
		n = frp.MapNow(n, func(v int) int { return v + 1 })
	}
	assert.Equal(t, 100_000, frp.RunNow(sys, n))
}

func TestPerformIO(t *testing.T) {
	sys := frp.NewSystem()
	defer sys.Close()

	fut := frp.RunNow(sys, frp.PerformIO(func(ctx context.Context) (int, error) {
		return 42, nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := frp.AwaitFuture(ctx, fut)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestPerformIOFailureLeavesFuturePending(t *testing.T) {
	boom := errors.New("boom")
	var errs []error
	sys := frp.NewSystem(frp.WithOnError(func(err error) { errs = append(errs, err) }))
	defer sys.Close()

	fut := frp.RunNow(sys, frp.PerformIO(func(ctx context.Context) (string, error) {
		return "", boom
	}))

	require.Eventually(t, func() bool {
		sys.Flush()
		return len(errs) == 1
	}, time.Second, time.Millisecond)
	assert.ErrorIs(t, errs[0], boom)
	assert.False(t, fut.Resolved())
}

// plan runs a program once the future carrying it occurs
func TestPlan(t *testing.T) {
	sys := frp.NewSystem()
	b := frp.NewSinkBehavior(sys, 3)
	trigger := frp.NewSinkFuture[frp.Now[int]](sys)

	res := frp.RunNow(sys, frp.Plan(trigger.Future))
	assert.False(t, res.Resolved())

	b.Push(4)
	trigger.Resolve(frp.SampleNow(b.Behavior))
	v, ok := res.Value()
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	ready := frp.RunNow(sys, frp.Plan(frp.FutureOf(sys, frp.NowOf(7))))
	v, ok = ready.Value()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

// an effect whose result schedules the next piece of the graph
func TestPlanAfterIO(t *testing.T) {
	sys := frp.NewSystem()
	defer sys.Close()
	scale := frp.NewSinkBehavior(sys, 10)

	program := frp.ChainNow(frp.PerformIO(func(context.Context) (int, error) {
		return 5, nil
	}), func(f frp.Future[int]) frp.Now[frp.Future[int]] {
		return frp.Plan(frp.MapFuture(f, func(x int) frp.Now[int] {
			return frp.MapNow(frp.SampleNow(scale.Behavior), func(s int) int { return s * x })
		}))
	})
	fut := frp.RunNow(sys, program)
	scale.Push(100)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := frp.AwaitFuture(ctx, fut)
	require.NoError(t, err)
	assert.Equal(t, 500, v)
}

func TestEmptyNowPanics(t *testing.T) {
	sys := frp.NewSystem()
	assert.PanicsWithValue(t, frp.ErrEmptyNow, func() {
		frp.RunNow(sys, frp.Now[int]{})
	})
}
