package state

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

const DefaultToastTTL = 4 * time.Second

type Toast struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Kind    ToastKind `json:"type"`
}

// Toasts is the queue of transient notices. Each toast removes itself
// after the TTL.
type Toasts struct {
	list *Value[[]Toast]
	ttl  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewToasts(ttl time.Duration) *Toasts {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &Toasts{
		list:   NewValue[[]Toast](nil),
		ttl:    ttl,
		timers: map[string]*time.Timer{},
	}
}

// Show queues a toast and returns its id.
func (q *Toasts) Show(message string, kind ToastKind) string {
	t := Toast{ID: uuid.NewString(), Message: message, Kind: kind}
	q.list.Update(func(cur []Toast) []Toast {
		return append(slices.Clone(cur), t)
	})

	q.mu.Lock()
	q.timers[t.ID] = time.AfterFunc(q.ttl, func() { q.Remove(t.ID) })
	q.mu.Unlock()
	return t.ID
}

func (q *Toasts) Remove(id string) {
	q.mu.Lock()
	if tm, ok := q.timers[id]; ok {
		tm.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()

	q.list.Update(func(cur []Toast) []Toast {
		return slices.DeleteFunc(slices.Clone(cur), func(t Toast) bool { return t.ID == id })
	})
}

func (q *Toasts) List() []Toast {
	return slices.Clone(q.list.Get())
}

func (q *Toasts) Subscribe(fn func([]Toast)) func() {
	return q.list.Subscribe(fn)
}

// Close drops every pending toast and stops their timers.
func (q *Toasts) Close() {
	q.mu.Lock()
	for id, tm := range q.timers {
		tm.Stop()
		delete(q.timers, id)
	}
	q.mu.Unlock()
	q.list.Set(nil)
}
