package engine

import (
	"fmt"

	"github.com/danieljhkim/autoproject/internal/host"
	"github.com/danieljhkim/autoproject/internal/settings"
)

// ClearFolders empties the folder list stored under key.
func ClearFolders(store settings.Store, key settings.Key) error {
	switch key {
	case settings.KeyFirstFolders:
		return store.SetFirstFolders(nil)
	case settings.KeyLastFolders:
		return store.SetLastFolders(nil)
	}
	return fmt.Errorf("%w: %s", ErrNotFolderKey, key)
}

// SaveProjectAsFolders stores the project's current paths under key.
func SaveProjectAsFolders(store settings.Store, project host.Project, key settings.Key) error {
	paths := project.Paths()
	switch key {
	case settings.KeyFirstFolders:
		return store.SetFirstFolders(paths)
	case settings.KeyLastFolders:
		return store.SetLastFolders(paths)
	}
	return fmt.Errorf("%w: %s", ErrNotFolderKey, key)
}

// ClearFirstFolders empties the firstFolders setting.
func (e *Engine) ClearFirstFolders() error {
	return ClearFolders(e.settings, settings.KeyFirstFolders)
}

// ClearLastFolders empties the lastFolders setting.
func (e *Engine) ClearLastFolders() error {
	return ClearFolders(e.settings, settings.KeyLastFolders)
}

// SaveProjectAsFirstFolders stores the current project paths as firstFolders.
func (e *Engine) SaveProjectAsFirstFolders() error {
	return SaveProjectAsFolders(e.settings, e.project, settings.KeyFirstFolders)
}

// SaveProjectAsLastFolders stores the current project paths as lastFolders.
func (e *Engine) SaveProjectAsLastFolders() error {
	return SaveProjectAsFolders(e.settings, e.project, settings.KeyLastFolders)
}

// Command names accepted by Run.
const (
	CommandClearFirstFolders         = "clear-first-folders"
	CommandClearLastFolders          = "clear-last-folders"
	CommandSaveProjectAsFirstFolders = "save-project-as-first-folders"
	CommandSaveProjectAsLastFolders  = "save-project-as-last-folders"
)

// Run dispatches a named command.
func (e *Engine) Run(name string) error {
	switch name {
	case CommandClearFirstFolders:
		return e.ClearFirstFolders()
	case CommandClearLastFolders:
		return e.ClearLastFolders()
	case CommandSaveProjectAsFirstFolders:
		return e.SaveProjectAsFirstFolders()
	case CommandSaveProjectAsLastFolders:
		return e.SaveProjectAsLastFolders()
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}
