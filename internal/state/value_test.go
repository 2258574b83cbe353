package state

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_SubscribeAndCancel(t *testing.T) {
	t.Parallel()

	v := NewValue(1)
	var seen []int
	cancel := v.Subscribe(func(n int) { seen = append(seen, n) })

	v.Set(2)
	v.Update(func(n int) int { return n * 10 })
	cancel()
	cancel()
	v.Set(99)

	assert.Equal(t, []int{2, 20}, seen)
	assert.Equal(t, 99, v.Get())
}

func TestValue_Concurrent(t *testing.T) {
	t.Parallel()

	v := NewValue(0)
	var calls atomic.Int64
	v.Subscribe(func(int) { calls.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, v.Get())
	assert.EqualValues(t, 50, calls.Load())
}

func TestToasts_ShowRemove(t *testing.T) {
	t.Parallel()

	q := NewToasts(time.Hour)
	t.Cleanup(q.Close)

	a := q.Show("Deck saved successfully!", ToastSuccess)
	b := q.Show("Max 30 cards", ToastError)
	require.Len(t, q.List(), 2)
	assert.NotEqual(t, a, b)

	q.Remove(a)
	list := q.List()
	require.Len(t, list, 1)
	assert.Equal(t, Toast{ID: b, Message: "Max 30 cards", Kind: ToastError}, list[0])

	q.Remove("unknown")
	assert.Len(t, q.List(), 1)
}

func TestToasts_Expire(t *testing.T) {
	t.Parallel()

	q := NewToasts(20 * time.Millisecond)
	t.Cleanup(q.Close)

	q.Show("bye", ToastInfo)
	require.Len(t, q.List(), 1)
	assert.Eventually(t, func() bool { return len(q.List()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestToasts_Close(t *testing.T) {
	t.Parallel()

	q := NewToasts(time.Hour)
	q.Show("a", ToastInfo)
	q.Show("b", ToastInfo)
	q.Close()
	assert.Empty(t, q.List())
}
