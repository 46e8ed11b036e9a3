package settings

import (
	"sync"

	"github.com/danieljhkim/autoproject/internal/host"
)

type subscription struct {
	key Key
	fn  func(Change)
}

// notifier fans change events out to per-key subscribers.
type notifier struct {
	mu   sync.Mutex
	subs []*subscription
}

func (n *notifier) subscribe(key Key, fn func(Change)) host.Disposable {
	sub := &subscription{key: key, fn: fn}
	n.mu.Lock()
	n.subs = append(n.subs, sub)
	n.mu.Unlock()

	return host.DisposableFunc(func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, s := range n.subs {
			if s == sub {
				n.subs = append(n.subs[:i], n.subs[i+1:]...)
				return
			}
		}
	})
}

// emit notifies subscribers of every key that differs between old and next.
// Must be called without holding the store lock.
func (n *notifier) emit(old, next Settings) {
	for _, key := range Keys {
		if old.Equal(key, next) {
			continue
		}
		n.mu.Lock()
		subs := make([]*subscription, 0, len(n.subs))
		for _, s := range n.subs {
			if s.key == key {
				subs = append(subs, s)
			}
		}
		n.mu.Unlock()

		change := Change{Key: key, Old: old.Clone(), New: next.Clone()}
		for _, s := range subs {
			s.fn(change)
		}
	}
}
