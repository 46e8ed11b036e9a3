package state

import "time"

// ProjectState is the last committed project path list of a session.
type ProjectState struct {
	// Session is the human-readable session name
	Session string `json:"session"`

	// Paths is the ordered list of project root folders
	Paths []string `json:"paths"`

	// UpdatedAt is when Paths was last written
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewProjectState creates an empty ProjectState for session.
func NewProjectState(session string) *ProjectState {
	return &ProjectState{
		Session: session,
		Paths:   []string{},
	}
}
