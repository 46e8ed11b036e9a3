package session

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Inbound event types.
const (
	EventOpen     = "open"
	EventRename   = "rename"
	EventClose    = "close"
	EventActivate = "activate"
	EventCommand  = "command"
	EventPaths    = "paths"
)

// Outbound event types.
const (
	EventProjectPaths = "projectPaths"
	EventReveal       = "reveal"
	EventError        = "error"
)

// Kind is the capability set of an opened item.
type Kind string

const (
	// KindFile is a text editor: it has a path and reports renames and destruction.
	KindFile Kind = "file"
	// KindStatic has a path but never reports changes, like an image viewer.
	KindStatic Kind = "static"
	// KindBasic has no path, like a settings view.
	KindBasic Kind = "basic"
)

// Event is an inbound message from the editor.
type Event struct {
	Type  string   `json:"type"`
	ID    string   `json:"id,omitempty"`
	Path  string   `json:"path,omitempty"`
	Kind  Kind     `json:"kind,omitempty"`
	Name  string   `json:"name,omitempty"`
	Paths []string `json:"paths,omitempty"`
}

// Decode parses and validates one inbound line.
func Decode(line []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	switch ev.Type {
	case EventOpen:
		if ev.Kind == "" {
			ev.Kind = KindFile
		}
		switch ev.Kind {
		case KindFile, KindStatic, KindBasic:
		default:
			return Event{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedEvent, ev.Kind)
		}
		if ev.ID == "" {
			return Event{}, fmt.Errorf("%w: %s requires an id", ErrMalformedEvent, ev.Type)
		}
	case EventRename, EventClose:
		if ev.ID == "" {
			return Event{}, fmt.Errorf("%w: %s requires an id", ErrMalformedEvent, ev.Type)
		}
	case EventCommand:
		if ev.Name == "" {
			return Event{}, fmt.Errorf("%w: command requires a name", ErrMalformedEvent)
		}
	case EventActivate, EventPaths:
	case "":
		return Event{}, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	default:
		return Event{}, fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, ev.Type)
	}
	return ev, nil
}

// Message is an outbound message to the editor.
type Message struct {
	Type    string   `json:"type"`
	Paths   []string `json:"paths,omitempty"`
	Path    string   `json:"path,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Emitter writes messages as JSON lines. It is safe for concurrent use.
type Emitter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewEmitter creates an Emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{enc: json.NewEncoder(w)}
}

// Emit writes msg followed by a newline.
func (e *Emitter) Emit(msg Message) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(msg); err != nil {
		return fmt.Errorf("failed to write %s message: %w", msg.Type, err)
	}
	return nil
}
