// Package host defines the capabilities autoproject needs from an editor.
//
// The editor owns the pane items, the active item and the project root list.
// autoproject only observes items and rewrites the root list, so everything
// here is an interface the editor integration implements.
//
// Items are modelled as a capability ladder checked with type assertions:
//   - Item: any pane item (settings pages, images, terminals)
//   - PathItem: an item backed by a file; Path may be empty while unsaved
//   - WatchableItem: a PathItem that reports renames and its own destruction
package host
