// Package settings is the user configuration store.
//
// Settings are a handful of keys edited by the user at any time. Consumers
// subscribe per key and are notified only when that key's value changed,
// mirroring how editors deliver configuration change events.
package settings

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/danieljhkim/autoproject/internal/host"
)

// ErrUnknownKey is returned by Set for keys that are not recognized.
var ErrUnknownKey = errors.New("unknown settings key")

// Key names a setting.
type Key string

const (
	// KeyOnlyActive restricts the dynamic folders to the active item's directory.
	KeyOnlyActive Key = "onlyActive"
	// KeyFirstFolders lists folders always placed first in the project.
	KeyFirstFolders Key = "firstFolders"
	// KeyLastFolders lists folders always placed last in the project.
	KeyLastFolders Key = "lastFolders"
	// KeyRevealActiveFile reveals the active file in the tree view after each update.
	KeyRevealActiveFile Key = "revealActiveFile"
)

// Keys lists every recognized key in notification order.
var Keys = []Key{KeyOnlyActive, KeyFirstFolders, KeyLastFolders, KeyRevealActiveFile}

// Settings is a snapshot of all settings.
type Settings struct {
	OnlyActive       bool     `yaml:"onlyActive" json:"onlyActive"`
	FirstFolders     []string `yaml:"firstFolders,omitempty" json:"firstFolders"`
	LastFolders      []string `yaml:"lastFolders,omitempty" json:"lastFolders"`
	RevealActiveFile bool     `yaml:"revealActiveFile" json:"revealActiveFile"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	s.FirstFolders = slices.Clone(s.FirstFolders)
	s.LastFolders = slices.Clone(s.LastFolders)
	return s
}

// Equal reports whether key has the same value in s and other.
// Nil and empty folder lists are equal.
func (s Settings) Equal(key Key, other Settings) bool {
	switch key {
	case KeyOnlyActive:
		return s.OnlyActive == other.OnlyActive
	case KeyFirstFolders:
		return slices.Equal(s.FirstFolders, other.FirstFolders)
	case KeyLastFolders:
		return slices.Equal(s.LastFolders, other.LastFolders)
	case KeyRevealActiveFile:
		return s.RevealActiveFile == other.RevealActiveFile
	}
	return true
}

// Folders returns the folder list stored under key, or nil for non-list keys.
func (s Settings) Folders(key Key) []string {
	switch key {
	case KeyFirstFolders:
		return s.FirstFolders
	case KeyLastFolders:
		return s.LastFolders
	}
	return nil
}

// apply parses raw into the value of key.
// Booleans accept strconv.ParseBool forms plus on/off; lists are comma separated.
func (s *Settings) apply(key Key, raw string) error {
	switch key {
	case KeyOnlyActive, KeyRevealActiveFile:
		v, err := parseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		if key == KeyOnlyActive {
			s.OnlyActive = v
		} else {
			s.RevealActiveFile = v
		}
	case KeyFirstFolders:
		s.FirstFolders = parseList(raw)
	case KeyLastFolders:
		s.LastFolders = parseList(raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(raw))
}

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Change describes a single key transition.
type Change struct {
	Key Key
	Old Settings
	New Settings
}

// Store is the configuration store consumed by the engine and the CLI.
type Store interface {
	// Get returns a snapshot of the current settings.
	Get() Settings

	SetOnlyActive(v bool) error
	SetFirstFolders(paths []string) error
	SetLastFolders(paths []string) error
	SetRevealActiveFile(v bool) error

	// Set parses raw and stores it under key.
	Set(key Key, raw string) error

	// OnDidChange subscribes fn to changes of key.
	OnDidChange(key Key, fn func(Change)) host.Disposable
}
