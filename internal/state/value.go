// Package state holds the containers views read from: the dashboard
// snapshot, the toast queue and the preloaded asset registry. Each
// container notifies subscribers when it changes.
package state

import "sync"

// Value is a goroutine-safe observable value.
type Value[T any] struct {
	mu   sync.RWMutex
	v    T
	subs map[int]func(T)
	next int
}

func NewValue[T any](v T) *Value[T] {
	return &Value[T]{v: v, subs: map[int]func(T){}}
}

func (x *Value[T]) Get() T {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.v
}

func (x *Value[T]) Set(v T) {
	x.Update(func(T) T { return v })
}

// Update replaces the value with fn(current). fn runs under the write
// lock and must not call back into x.
func (x *Value[T]) Update(fn func(T) T) {
	x.mu.Lock()
	x.v = fn(x.v)
	v := x.v
	subs := make([]func(T), 0, len(x.subs))
	for _, s := range x.subs {
		subs = append(subs, s)
	}
	x.mu.Unlock()

	for _, s := range subs {
		s(v)
	}
}

// Subscribe registers fn to be called with the new value after every
// change. The returned func removes the subscription.
func (x *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	x.mu.Lock()
	id := x.next
	x.next++
	x.subs[id] = fn
	x.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			x.mu.Lock()
			delete(x.subs, id)
			x.mu.Unlock()
		})
	}
}
