package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/modassist/pkg/adapters/memory"
)

// SceneWatcher reloads a scene from its fixture file whenever the file changes on disk.
// It watches the parent directory so editors that replace the file on save still trigger.
type SceneWatcher struct {
	path     string
	scene    *memory.Scene
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(error)

	mu      sync.Mutex
	reloads int
	done    chan struct{}
}

// NewSceneWatcher prepares a watcher for path. onReload, when set, is called after
// every reload attempt with its error.
func NewSceneWatcher(path string, scene *memory.Scene, logger *slog.Logger, onReload func(error)) (*SceneWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return &SceneWatcher{
		path:     abs,
		scene:    scene,
		logger:   logger,
		watcher:  w,
		debounce: 100 * time.Millisecond,
		onReload: onReload,
		done:     make(chan struct{}),
	}, nil
}

// Start runs the event loop until ctx is cancelled or Stop is called.
func (sw *SceneWatcher) Start(ctx context.Context) {
	go sw.run(ctx)
}

// Stop closes the watcher and waits for the event loop to exit.
func (sw *SceneWatcher) Stop() {
	sw.watcher.Close()
	<-sw.done
}

// Reloads returns the number of successful reloads.
func (sw *SceneWatcher) Reloads() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.reloads
}

func (sw *SceneWatcher) run(ctx context.Context) {
	defer close(sw.done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != sw.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(sw.debounce)
			} else {
				timer.Reset(sw.debounce)
			}
			fire = timer.C
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Error("scene watcher error", "err", err)
		case <-fire:
			fire = nil
			sw.reload()
		}
	}
}

func (sw *SceneWatcher) reload() {
	err := sw.load()
	if err != nil {
		sw.logger.Warn("scene reload failed", "path", sw.path, "err", err)
	} else {
		sw.mu.Lock()
		sw.reloads++
		sw.mu.Unlock()
		sw.logger.Info("scene reloaded", "path", sw.path)
	}
	if sw.onReload != nil {
		sw.onReload(err)
	}
}

func (sw *SceneWatcher) load() error {
	f, err := os.Open(sw.path)
	if err != nil {
		return err
	}
	defer f.Close()
	file, err := memory.Decode(f)
	if err != nil {
		return err
	}
	return sw.scene.Reset(file)
}
