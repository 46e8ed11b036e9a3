// Package session is a concrete host for editors that cannot embed Go.
//
// The editor writes newline-delimited JSON events describing its pane items
// (open, rename, close, activate) and the project's folders; the bridge turns
// them into host.Workspace notifications on the event loop and writes every
// project update back as a JSON line. Project paths are persisted per session
// so other commands can read them while the bridge runs.
package session
