package frp_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/delaneyj/pushpull/frp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsPerGoroutine(t *testing.T) {
	sys := frp.Default()
	assert.Same(t, sys, frp.Default())

	var other *frp.System
	done := make(chan struct{})
	go func() {
		defer close(done)
		other = frp.Default()
	}()
	<-done
	assert.NotSame(t, sys, other)
}

func TestCloseReleasesDefault(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		sys := frp.Default()
		assert.NoError(t, sys.Close())
		assert.NotSame(t, sys, frp.Default())
	}()
	<-done
}

func TestClockAdvancesOncePerPush(t *testing.T) {
	sys := frp.NewSystem()
	b := frp.NewSinkBehavior(sys, 0)
	defer frp.Map(b.Behavior, func(x int) int { return x }).Subscribe(func(int) {})()

	before := sys.Now()
	b.Push(1)
	assert.Equal(t, before+1, sys.Now())
	assert.Equal(t, sys.Now(), b.ChangedAt())
}

func TestPostAndFlush(t *testing.T) {
	sys := frp.NewSystem()
	b := frp.NewSinkBehavior(sys, 0)

	var wg sync.WaitGroup
	for i := 1; i <= 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sys.Post(func() { b.Push(b.At() + i) })
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, sys.Flush())
	assert.Equal(t, 6, b.At())
	assert.Zero(t, sys.Flush())
}

func TestRunAppliesCompletions(t *testing.T) {
	sys := frp.NewSystem()
	defer sys.Close()

	fut := frp.RunNow(sys, frp.PerformIO(func(context.Context) (string, error) {
		return "ok", nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var got string
	fut.Subscribe(func(v string) {
		got = v
		cancel()
	})
	err := sys.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "ok", got)
}

func TestCloseStopsObserversAndEffects(t *testing.T) {
	sys := frp.NewSystem()
	b := frp.NewSinkBehavior(sys, 0)

	var seen []int
	b.Subscribe(func(v int) { seen = append(seen, v) })
	assert.Equal(t, 1, b.Listeners())

	started := make(chan struct{})
	fut := frp.RunNow(sys, frp.PerformIO(func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	}))
	<-started

	require.NoError(t, sys.Close())
	assert.Zero(t, b.Listeners())
	b.Push(1)
	assert.Equal(t, []int{0}, seen)
	assert.False(t, fut.Resolved())

	assert.PanicsWithValue(t, frp.ErrClosed, func() {
		frp.RunNow(sys, frp.NowOf(1))
	})
	assert.PanicsWithValue(t, frp.ErrClosed, func() {
		b.Subscribe(func(int) {})
	})
	assert.NoError(t, sys.Close())
}

func TestWithContextCancelsEffects(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	var errs []error
	sys := frp.NewSystem(
		frp.WithContext(parent),
		frp.WithOnError(func(err error) { errs = append(errs, err) }),
	)
	defer sys.Close()

	fut := frp.RunNow(sys, frp.PerformIO(func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}))
	cancel()

	require.Eventually(t, func() bool {
		sys.Flush()
		return len(errs) == 1
	}, time.Second, time.Millisecond)
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.False(t, fut.Resolved())
}
