package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arthome/graphpress/errors"
	"github.com/arthome/graphpress/logger"
)

// ReloadCallback receives the freshly loaded config after a file change.
type ReloadCallback func(*Config) error

// Watcher watches the config file and triggers reload callbacks. Only
// runtime-tunable settings (currently the mutation rate limit) should be
// applied from callbacks; structural settings like the store driver
// require a restart.
type Watcher struct {
	configPath string
	watcher    *fsnotify.Watcher

	mu            sync.RWMutex
	callbacks     []ReloadCallback
	debounceTimer *time.Timer

	done chan struct{}
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(configPath string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	if err := fsw.Add(configPath); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "watch config file %s", configPath)
	}
	return &Watcher{
		configPath: configPath,
		watcher:    fsw,
		done:       make(chan struct{}),
	}, nil
}

// OnReload registers a callback invoked after each successful reload.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching for config file changes.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop ends watching. Safe to call once.
func (w *Watcher) Stop() {
	close(w.done)
	w.watcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Editors fire bursts of events per save; debounce them.
			w.mu.Lock()
			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.debounceTimer = time.AfterFunc(500*time.Millisecond, w.reload)
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Logger.Warnw("Config watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := LoadFromFile(w.configPath)
	if err != nil {
		logger.Logger.Warnw("Config reload failed, keeping previous config",
			logger.FieldError, err,
			"path", w.configPath,
		)
		return
	}
	if err := cfg.Validate(); err != nil {
		logger.Logger.Warnw("Reloaded config invalid, keeping previous config",
			logger.FieldError, err,
		)
		return
	}

	w.mu.RLock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		if err := cb(cfg); err != nil {
			logger.Logger.Warnw("Config reload callback failed", logger.FieldError, err)
		}
	}
	logger.Logger.Infow("Config reloaded", "path", w.configPath)
}
