package state

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchRecorder struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[string]bool
}

func (f *fetchRecorder) fetch(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[url]++
	if f.fail[url] {
		return errors.New("load failed")
	}
	return nil
}

func TestPreloader_Dedupes(t *testing.T) {
	t.Parallel()

	rec := &fetchRecorder{calls: map[string]int{}, fail: map[string]bool{"b": true}}
	p := NewPreloader(rec.fetch, 2)

	err := p.Preload(context.Background(), []string{"a", "b", "", "a", "c"})
	assert.Error(t, err)
	require.NoError(t, p.Preload(context.Background(), []string{"a", "b", "c"}))

	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, rec.calls)
	assert.True(t, p.Loaded("a"))
	assert.True(t, p.Loaded("b"))
	assert.False(t, p.Loaded("d"))
}

func TestPreloader_Progress(t *testing.T) {
	t.Parallel()

	rec := &fetchRecorder{calls: map[string]int{}, fail: map[string]bool{}}
	p := NewPreloader(rec.fetch, 0)

	assert.Equal(t, 100, p.Progress(nil))
	assert.Equal(t, 0, p.Progress([]string{"a", "b", "c"}))

	var last atomic.Int64
	p.Subscribe(func(n int) { last.Store(int64(n)) })
	require.NoError(t, p.Preload(context.Background(), []string{"a"}))
	assert.Equal(t, 33, p.Progress([]string{"a", "b", "c"}))
	assert.Equal(t, int64(1), last.Load())

	require.NoError(t, p.Preload(context.Background(), []string{"b", "c"}))
	assert.Equal(t, 100, p.Progress([]string{"a", "b", "c"}))
	assert.Equal(t, int64(3), last.Load())
}

func TestPreloader_CountsArriveInOrder(t *testing.T) {
	t.Parallel()

	p := NewPreloader(func(context.Context, string) error { return nil }, 16)

	var mu sync.Mutex
	var seen []int
	p.Subscribe(func(n int) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	})

	urls := make([]string, 200)
	for i := range urls {
		urls[i] = "https://cdn.example/card-" + strconv.Itoa(i) + ".png"
	}
	require.NoError(t, p.Preload(context.Background(), urls))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, len(urls))
	for i, n := range seen {
		assert.Equal(t, i+1, n)
	}
}
