// Package state manages persisted project state per session.
//
// A session is one running editor bridge. Its project path list is written
// here after every commit so that commands running in another process (status,
// save-project-as-first-folders, ...) can read it. State is persisted as JSON
// files in the <root>/sessions directory.
//
// Key concepts:
//   - ProjectState: The project path list of a session and when it was written
//   - SessionID: Unique file name derived from the session name
//   - StateStore: Interface for persisting and loading project state
package state
