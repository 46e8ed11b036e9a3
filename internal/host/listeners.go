package host

import "slices"

type listener[T any] struct {
	id int
	fn func(T)
}

// Listeners is an ordered set of callbacks. Not safe for concurrent use;
// hosts call it from their event loop.
type Listeners[T any] struct {
	next  int
	items []listener[T]
}

// Add registers fn. Disposing the result removes it.
func (l *Listeners[T]) Add(fn func(T)) Disposable {
	id := l.next
	l.next++
	l.items = append(l.items, listener[T]{id: id, fn: fn})
	return DisposableFunc(func() {
		l.items = slices.DeleteFunc(l.items, func(x listener[T]) bool { return x.id == id })
	})
}

// Emit calls every listener registered at the time of the call.
func (l *Listeners[T]) Emit(v T) {
	for _, x := range slices.Clone(l.items) {
		x.fn(v)
	}
}

// Len returns the number of registered listeners.
func (l *Listeners[T]) Len() int {
	return len(l.items)
}
