package host

// Item is any pane item.
type Item interface {
	ItemID() string
}

// PathItem is an item that can report the file it shows.
type PathItem interface {
	Item

	// Path returns the absolute file path, or "" when the item has none yet.
	Path() string
}

// WatchableItem is a PathItem that notifies about path changes and destruction.
type WatchableItem interface {
	PathItem

	OnDidChangePath(fn func()) Disposable
	OnDidDestroy(fn func()) Disposable
}

// ItemPath returns the path of item and whether item exposes one at all.
// A PathItem with an unsaved buffer returns ("", true).
func ItemPath(item Item) (string, bool) {
	pi, ok := item.(PathItem)
	if !ok {
		return "", false
	}
	return pi.Path(), true
}

// Workspace exposes the editor's pane items.
type Workspace interface {
	// PaneItems returns all open items in pane order.
	PaneItems() []Item

	// ActivePaneItem returns the focused item, or nil.
	ActivePaneItem() Item

	// ObservePaneItems calls fn for every current item and every item opened later.
	ObservePaneItems(fn func(Item)) Disposable

	OnDidDestroyPaneItem(fn func(Item)) Disposable
	OnDidChangeActivePaneItem(fn func(Item)) Disposable
}

// Project is the editor's ordered list of project root folders.
type Project interface {
	Paths() []string
	SetPaths(paths []string) error
}

// Revealer selects the active file in the editor's tree view.
type Revealer interface {
	RevealActiveFile()
}
