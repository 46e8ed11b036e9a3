package engine

import (
	"github.com/danieljhkim/autoproject/internal/host"
	"github.com/danieljhkim/autoproject/internal/settings"
)

// Activate subscribes to host events, loads the configured folders and
// schedules the first update. Calling it on an active engine is a no-op.
func (e *Engine) Activate() {
	if e.active {
		return
	}
	e.active = true
	e.disposables = host.NewCompositeDisposable()

	e.disposables.Add(
		e.workspace.ObservePaneItems(e.observeItem),
		e.workspace.OnDidDestroyPaneItem(func(host.Item) { e.ScheduleUpdate() }),
		e.settings.OnDidChange(settings.KeyOnlyActive, func(c settings.Change) {
			e.setOnlyActive(c.New.OnlyActive)
		}),
	)
	for _, key := range []settings.Key{settings.KeyFirstFolders, settings.KeyLastFolders} {
		e.disposables.Add(e.settings.OnDidChange(key, func(c settings.Change) {
			e.observePathConfig(c.Key, c.New.Folders(c.Key))
		}))
	}

	e.setOnlyActive(e.settings.Get().OnlyActive)
	e.updatePathConfig()
}

// Deactivate disposes every subscription. Idempotent; a pending update is dropped.
func (e *Engine) Deactivate() {
	if !e.active {
		return
	}
	e.active = false
	e.onlyActiveSub = nil
	e.disposables.Dispose()
}

// Subscriptions returns the number of live host subscriptions.
func (e *Engine) Subscriptions() int {
	if e.disposables == nil {
		return 0
	}
	return e.disposables.Len()
}

func (e *Engine) setOnlyActive(onlyActive bool) {
	if e.onlyActiveSub != nil {
		e.disposables.Remove(e.onlyActiveSub)
		e.onlyActiveSub.Dispose()
		e.onlyActiveSub = nil
	}

	if onlyActive {
		e.onlyActiveSub = e.workspace.OnDidChangeActivePaneItem(func(host.Item) { e.ScheduleUpdate() })
		e.disposables.Add(e.onlyActiveSub)
	}
	e.ScheduleUpdate()
}

func (e *Engine) observePathConfig(key settings.Key, raw []string) {
	if !e.folders.ShouldRefresh(raw) {
		e.logger.Debug().Str("key", string(key)).Strs("folders", raw).Msg("ignoring folder setting with invalid entries")
		return
	}
	e.updatePathConfig()
}

func (e *Engine) updatePathConfig() {
	s := e.settings.Get()
	e.folders.Refresh(s.FirstFolders, s.LastFolders)

	if s.OnlyActive {
		e.commitEdges()
		return
	}
	e.ScheduleUpdate()
}

// observeItem wires path-change and destroy listeners for file-backed items.
func (e *Engine) observeItem(item host.Item) {
	if _, ok := item.(host.PathItem); !ok {
		return
	}

	if w, ok := item.(host.WatchableItem); ok {
		var onChange, onDestroy host.Disposable
		onChange = w.OnDidChangePath(e.ScheduleUpdate)
		onDestroy = w.OnDidDestroy(func() {
			e.disposables.Remove(onChange)
			e.disposables.Remove(onDestroy)
			onChange.Dispose()
			onDestroy.Dispose()
		})
		e.disposables.Add(onChange, onDestroy)
	}

	e.ScheduleUpdate()
}
