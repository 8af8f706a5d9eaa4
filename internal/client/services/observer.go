package services

import "sync"

// observers is a set of callbacks receiving state snapshots. Callbacks run
// outside the owning store's lock, in subscription order.
type observers[T any] struct {
	mu    sync.Mutex
	next  int
	items []observer[T]
}

type observer[T any] struct {
	id int
	fn func(T)
}

func (o *observers[T]) add(fn func(T)) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.next
	o.next++
	o.items = append(o.items, observer[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			for i, it := range o.items {
				if it.id == id {
					o.items = append(o.items[:i:i], o.items[i+1:]...)
					return
				}
			}
		})
	}
}

func (o *observers[T]) notify(v T) {
	o.mu.Lock()
	fns := make([]func(T), len(o.items))
	for i, it := range o.items {
		fns[i] = it.fn
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
