package eventloop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_FiresInDeadlineOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string
	var at []time.Duration

	record := func(name string) func() {
		return func() {
			order = append(order, name)
			at = append(at, m.Now().Sub(epoch))
		}
	}

	m.AfterFunc(300*time.Millisecond, record("c"))
	m.AfterFunc(100*time.Millisecond, record("a"))
	m.AfterFunc(200*time.Millisecond, record("b1"))
	m.AfterFunc(200*time.Millisecond, record("b2"))

	assert.Equal(t, 4, m.Pending())
	next, ok := m.NextDeadline()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(100*time.Millisecond), next)

	assert.Equal(t, 3, m.Advance(250*time.Millisecond))
	assert.Equal(t, []string{"a", "b1", "b2"}, order)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 200 * time.Millisecond}, at)
	assert.Equal(t, epoch.Add(250*time.Millisecond), m.Now())

	assert.Equal(t, 1, m.Advance(time.Second))
	assert.Equal(t, "c", order[3])
	assert.Zero(t, m.Pending())
	_, ok = m.NextDeadline()
	assert.False(t, ok)
}

func TestManual_Stop(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	timer := m.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	m.Advance(2 * time.Second)
	assert.False(t, fired)

	timer = m.AfterFunc(time.Second, func() {})
	m.Advance(time.Second)
	assert.False(t, timer.Stop(), "stopping a fired timer reports false")
}

func TestManual_TimerArmedDuringAdvance(t *testing.T) {
	m := NewManual(epoch)
	var fired []time.Duration
	m.AfterFunc(time.Second, func() {
		fired = append(fired, m.Now().Sub(epoch))
		m.AfterFunc(time.Second, func() {
			fired = append(fired, m.Now().Sub(epoch))
		})
	})

	m.Advance(5 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, fired)
}

func TestManual_Post(t *testing.T) {
	m := NewManual(epoch)
	var order []int
	m.Post(func() {
		order = append(order, 1)
		m.Post(func() { order = append(order, 3) })
	})
	m.Post(func() { order = append(order, 2) })

	assert.Equal(t, 3, m.Flush())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Zero(t, m.Flush())
}

func TestLoop_RunsPostedWorkInOrder(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var mu sync.Mutex
	var got []int
	for i := range 10 {
		require.True(t, l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	l.Post(l.Stop)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("loop did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
	assert.False(t, l.Post(func() {}))
	<-l.Done()
}

func TestLoop_AfterFunc(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go l.Run(ctx) //nolint:errcheck

	fired := make(chan struct{})
	l.AfterFunc(10*time.Millisecond, func() { close(fired) })

	stopped := l.AfterFunc(10*time.Millisecond, func() { t.Error("stopped timer fired") })
	assert.True(t, stopped.Stop())

	select {
	case <-fired:
	case <-ctx.Done():
		t.Fatal("timer did not fire")
	}
	l.Stop()
	<-l.Done()
}

func TestLoop_ContextCancel(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
}

func TestLoop_RecoversPanics(t *testing.T) {
	l := NewLoop(nil)
	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })
	l.Stop()

	require.NoError(t, l.Run(context.Background()))
	assert.True(t, ran)
}
