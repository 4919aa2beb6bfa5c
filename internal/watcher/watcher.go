// Package watcher reloads configuration artifacts when their files change.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"resumeai/internal/errors"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = time.Second

// Watcher watches a fixed set of files and invokes a callback, debounced,
// after any of them changes on disk.
type Watcher struct {
	mu sync.RWMutex

	name  string
	files []string

	lastModTime map[string]time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}
	done       chan struct{}

	onChange func()
	logger   *errors.Logger

	running bool
}

// New creates a watcher for files. Empty paths are ignored; name labels the
// watcher in logs.
func New(name string, files []string, debounce time.Duration, onChange func(), logger *errors.Logger) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("%s watcher: change callback is required", name)
	}
	files = slices.DeleteFunc(slices.Clone(files), func(f string) bool { return f == "" })
	if len(files) == 0 {
		return nil, fmt.Errorf("%s watcher: no files to watch", name)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &Watcher{
		name:          name,
		files:         files,
		lastModTime:   make(map[string]time.Time),
		debounceDelay: debounce,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		done:          make(chan struct{}),
		onChange:      onChange,
		logger:        logger,
	}, nil
}

// Start begins watching. A stopped watcher cannot be restarted.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("%s watcher is already running", w.name)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsWatcher = fsw

	if err := w.updateModTimes(); err != nil {
		w.closeFS()
		return fmt.Errorf("failed to get initial file modification times: %w", err)
	}

	for _, file := range w.files {
		if err := w.add(file); err != nil && w.logger != nil {
			w.logger.Warn("Failed to watch file", "watcher", w.name, "file", file, "error", err)
		}
	}

	w.running = true
	go w.loop()

	if w.logger != nil {
		w.logger.Info("File watcher started",
			"watcher", w.name,
			"files", w.files,
			"debounce_delay", w.debounceDelay)
	}
	return nil
}

// Stop stops the watcher and waits for its event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false
	w.mu.Unlock()

	<-w.done
	err := w.fsWatcher.Close()
	if w.logger != nil {
		if err != nil {
			w.logger.LogError(err, "Failed to close file system watcher", "watcher", w.name)
		} else {
			w.logger.Info("File watcher stopped", "watcher", w.name)
		}
	}
	return err
}

// IsRunning returns whether the watcher is currently running
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Files returns the watched paths
func (w *Watcher) Files() []string {
	return slices.Clone(w.files)
}

func (w *Watcher) closeFS() {
	if closeErr := w.fsWatcher.Close(); closeErr != nil && w.logger != nil {
		w.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
	}
}

// add watches the file and its directory so atomic renames are seen. A file
// that does not exist yet is picked up through its directory.
func (w *Watcher) add(file string) error {
	dir := filepath.Dir(file)
	if err := w.fsWatcher.Add(file); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to watch file %s: %w", file, err)
		}
		if w.logger != nil {
			w.logger.Info("Watching directory for missing file", "file", file, "directory", dir)
		}
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	return nil
}

func (w *Watcher) updateModTimes() error {
	for _, file := range w.files {
		stat, err := os.Stat(file)
		if err == nil {
			w.lastModTime[file] = stat.ModTime()
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat file %s: %w", file, err)
		}
	}
	return nil
}

// changed reports whether file was modified, created or deleted since the
// last check. Only the event loop calls it.
func (w *Watcher) changed(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if _, exists := w.lastModTime[file]; exists && os.IsNotExist(err) {
			delete(w.lastModTime, file)
			return true
		}
		return false
	}

	lastMod, exists := w.lastModTime[file]
	if !exists || !stat.ModTime().Equal(lastMod) {
		w.lastModTime[file] = stat.ModTime()
		return true
	}
	return false
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.LogError(err, "File watcher error", "watcher", w.name)
			}

		case <-w.reloadChan:
			// evaluate every file so all modification times are refreshed
			changed := false
			for _, file := range w.files {
				if w.changed(file) {
					changed = true
				}
			}
			if changed {
				if w.logger != nil {
					w.logger.Info("Watched files changed, triggering reload", "watcher", w.name)
				}
				w.onChange()
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	return slices.ContainsFunc(w.files, func(file string) bool {
		return name == filepath.Clean(file) || filepath.Base(name) == filepath.Base(file)
	})
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
			// reload already pending
		}
	})
}
