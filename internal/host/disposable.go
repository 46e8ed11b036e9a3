package host

import "sync"

// Disposable releases a subscription.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a function to Disposable. The function runs at most once.
func DisposableFunc(fn func()) Disposable {
	return &funcDisposable{fn: fn}
}

type funcDisposable struct {
	once sync.Once
	fn   func()
}

func (d *funcDisposable) Dispose() {
	d.once.Do(func() {
		if d.fn != nil {
			d.fn()
		}
	})
}

// CompositeDisposable owns a set of disposables and releases them together.
// After Dispose, anything added is disposed immediately.
type CompositeDisposable struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// NewCompositeDisposable creates a CompositeDisposable holding ds.
func NewCompositeDisposable(ds ...Disposable) *CompositeDisposable {
	c := &CompositeDisposable{}
	c.Add(ds...)
	return c
}

// Add takes ownership of ds.
func (c *CompositeDisposable) Add(ds ...Disposable) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		for _, d := range ds {
			if d != nil {
				d.Dispose()
			}
		}
		return
	}
	for _, d := range ds {
		if d != nil {
			c.items = append(c.items, d)
		}
	}
	c.mu.Unlock()
}

// Remove releases ownership of d without disposing it.
func (c *CompositeDisposable) Remove(d Disposable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item == d {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of owned disposables.
func (c *CompositeDisposable) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Disposed reports whether Dispose has been called.
func (c *CompositeDisposable) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Dispose disposes every owned disposable in reverse order of addition. Idempotent.
func (c *CompositeDisposable) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	items := c.items
	c.items = nil
	c.mu.Unlock()

	for i := len(items) - 1; i >= 0; i-- {
		items[i].Dispose()
	}
}
