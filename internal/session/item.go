package session

import "github.com/danieljhkim/autoproject/internal/host"

// basicItem is an item without a path.
type basicItem struct {
	id string
}

func (b *basicItem) ItemID() string { return b.id }

// staticItem has a path but no notifications.
type staticItem struct {
	id   string
	path string
}

func (s *staticItem) ItemID() string { return s.id }
func (s *staticItem) Path() string   { return s.path }

// fileItem is a text editor.
type fileItem struct {
	id        string
	path      string
	changed   host.Listeners[struct{}]
	destroyed host.Listeners[struct{}]
}

func (f *fileItem) ItemID() string { return f.id }
func (f *fileItem) Path() string   { return f.path }

func (f *fileItem) OnDidChangePath(fn func()) host.Disposable {
	return f.changed.Add(func(struct{}) { fn() })
}

func (f *fileItem) OnDidDestroy(fn func()) host.Disposable {
	return f.destroyed.Add(func(struct{}) { fn() })
}

func newItem(id, path string, kind Kind) host.Item {
	switch kind {
	case KindBasic:
		return &basicItem{id: id}
	case KindStatic:
		return &staticItem{id: id, path: path}
	default:
		return &fileItem{id: id, path: path}
	}
}
