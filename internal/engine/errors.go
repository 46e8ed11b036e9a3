package engine

import "errors"

var (
	// ErrNotFolderKey indicates a folder command was given a non-list settings key.
	ErrNotFolderKey = errors.New("not a folder settings key")

	// ErrUnknownCommand indicates Run was given a name it does not know.
	ErrUnknownCommand = errors.New("unknown command")
)
