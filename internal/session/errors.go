package session

import "errors"

var (
	// ErrUnknownItem indicates an event referenced an item that is not open.
	ErrUnknownItem = errors.New("unknown item")

	// ErrDuplicateItem indicates an open event reused the ID of an open item.
	ErrDuplicateItem = errors.New("item already open")

	// ErrMalformedEvent indicates an inbound line could not be decoded or is incomplete.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrNoPath indicates a rename targeted an item without a path.
	ErrNoPath = errors.New("item has no path")
)
