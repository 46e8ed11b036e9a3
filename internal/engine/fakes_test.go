package engine

import (
	"errors"
	"slices"

	"github.com/danieljhkim/autoproject/internal/host"
)

// fileItem is a watchable text editor.
type fileItem struct {
	id        string
	path      string
	onChange  host.Listeners[struct{}]
	onDestroy host.Listeners[struct{}]
}

func newFileItem(id, path string) *fileItem {
	return &fileItem{id: id, path: path}
}

func (f *fileItem) ItemID() string { return f.id }
func (f *fileItem) Path() string   { return f.path }

func (f *fileItem) OnDidChangePath(fn func()) host.Disposable {
	return f.onChange.Add(func(struct{}) { fn() })
}

func (f *fileItem) OnDidDestroy(fn func()) host.Disposable {
	return f.onDestroy.Add(func(struct{}) { fn() })
}

func (f *fileItem) rename(path string) {
	f.path = path
	f.onChange.Emit(struct{}{})
}

// pathItem has a path but no events, like an image viewer.
type pathItem struct {
	id   string
	path string
}

func (p pathItem) ItemID() string { return p.id }
func (p pathItem) Path() string   { return p.path }

// basicItem has neither, like a settings view.
type basicItem struct{ id string }

func (s basicItem) ItemID() string { return s.id }

type fakeWorkspace struct {
	items  []host.Item
	active host.Item

	observers host.Listeners[host.Item]
	destroyed host.Listeners[host.Item]
	activated host.Listeners[host.Item]
}

func (w *fakeWorkspace) PaneItems() []host.Item    { return slices.Clone(w.items) }
func (w *fakeWorkspace) ActivePaneItem() host.Item { return w.active }

func (w *fakeWorkspace) ObservePaneItems(fn func(host.Item)) host.Disposable {
	for _, item := range w.items {
		fn(item)
	}
	return w.observers.Add(fn)
}

func (w *fakeWorkspace) OnDidDestroyPaneItem(fn func(host.Item)) host.Disposable {
	return w.destroyed.Add(fn)
}

func (w *fakeWorkspace) OnDidChangeActivePaneItem(fn func(host.Item)) host.Disposable {
	return w.activated.Add(fn)
}

func (w *fakeWorkspace) open(item host.Item) {
	w.items = append(w.items, item)
	w.observers.Emit(item)
	w.activate(item)
}

func (w *fakeWorkspace) activate(item host.Item) {
	w.active = item
	w.activated.Emit(item)
}

func (w *fakeWorkspace) close(item host.Item) {
	w.items = slices.DeleteFunc(w.items, func(x host.Item) bool { return x == item })
	if w.active == item {
		w.activate(nil)
	}
	if f, ok := item.(*fileItem); ok {
		f.onDestroy.Emit(struct{}{})
	}
	w.destroyed.Emit(item)
}

type fakeProject struct {
	paths []string
	sets  int
	err   error
}

func (p *fakeProject) Paths() []string { return slices.Clone(p.paths) }

func (p *fakeProject) SetPaths(paths []string) error {
	if p.err != nil {
		return p.err
	}
	p.sets++
	p.paths = slices.Clone(paths)
	return nil
}

type fakeRevealer struct{ calls int }

func (r *fakeRevealer) RevealActiveFile() { r.calls++ }

var errSetPaths = errors.New("set paths failed")
