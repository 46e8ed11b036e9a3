package session

import (
	"fmt"
	"slices"

	"github.com/danieljhkim/autoproject/internal/host"
)

// Workspace implements host.Workspace from bridge events.
// All methods must run on the event loop.
type Workspace struct {
	items  []host.Item
	byID   map[string]host.Item
	active host.Item

	opened    host.Listeners[host.Item]
	destroyed host.Listeners[host.Item]
	activated host.Listeners[host.Item]
}

// NewWorkspace creates an empty Workspace.
func NewWorkspace() *Workspace {
	return &Workspace{byID: make(map[string]host.Item)}
}

// PaneItems returns all open items in the order they were opened.
func (w *Workspace) PaneItems() []host.Item {
	return slices.Clone(w.items)
}

// ActivePaneItem returns the focused item, or nil.
func (w *Workspace) ActivePaneItem() host.Item {
	return w.active
}

// ActivePath returns the path of the focused item, or "".
func (w *Workspace) ActivePath() string {
	if w.active == nil {
		return ""
	}
	path, _ := host.ItemPath(w.active)
	return path
}

// ObservePaneItems calls fn for every open item now and for every item opened later.
func (w *Workspace) ObservePaneItems(fn func(host.Item)) host.Disposable {
	for _, item := range slices.Clone(w.items) {
		fn(item)
	}
	return w.opened.Add(fn)
}

func (w *Workspace) OnDidDestroyPaneItem(fn func(host.Item)) host.Disposable {
	return w.destroyed.Add(fn)
}

func (w *Workspace) OnDidChangeActivePaneItem(fn func(host.Item)) host.Disposable {
	return w.activated.Add(fn)
}

// Open adds an item.
func (w *Workspace) Open(id, path string, kind Kind) error {
	if _, ok := w.byID[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateItem, id)
	}

	item := newItem(id, path, kind)
	w.items = append(w.items, item)
	w.byID[id] = item
	w.opened.Emit(item)
	return nil
}

// Rename changes an item's path. Only file items notify about it.
func (w *Workspace) Rename(id, path string) error {
	item, ok := w.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	switch it := item.(type) {
	case *fileItem:
		if it.path == path {
			return nil
		}
		it.path = path
		it.changed.Emit(struct{}{})
	case *staticItem:
		it.path = path
	default:
		return fmt.Errorf("%w: %s", ErrNoPath, id)
	}
	return nil
}

// Close removes an item. Closing the active item clears the active item first.
func (w *Workspace) Close(id string) error {
	item, ok := w.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	w.items = slices.DeleteFunc(w.items, func(x host.Item) bool { return x == item })
	delete(w.byID, id)

	if w.active == item {
		w.active = nil
		w.activated.Emit(nil)
	}
	if f, ok := item.(*fileItem); ok {
		f.destroyed.Emit(struct{}{})
	}
	w.destroyed.Emit(item)
	return nil
}

// Activate focuses an item; an empty id means no item is focused.
func (w *Workspace) Activate(id string) error {
	var item host.Item
	if id != "" {
		var ok bool
		if item, ok = w.byID[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownItem, id)
		}
	}

	if item == w.active {
		return nil
	}
	w.active = item
	w.activated.Emit(item)
	return nil
}
