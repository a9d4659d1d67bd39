// Package watcher reports batches of changed source files under a directory tree.
package watcher

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/sourcelens/internal/discovery"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a watcher.
type Options struct {
	// Root is watched recursively.
	Root string
	// Extensions to monitor, with or without the leading dot. Empty means every file.
	Extensions []string
	// IgnorePatterns are added to the discovery defaults; ignored directories are not watched.
	IgnorePatterns []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	Logger   logrus.FieldLogger
}

// Watcher implements FileWatcher on top of fsnotify.
type Watcher struct {
	watcher       *fsnotify.Watcher
	filter        *discovery.FileDiscovery
	extensions    map[string]bool
	debounceTime  time.Duration
	logger        logrus.FieldLogger
	callback      func(files []string)
	ctx           context.Context
	cancel        context.CancelFunc
	paused        bool
	pausedMu      sync.RWMutex
	accumulated   map[string]bool
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
}

var _ FileWatcher = (*Watcher)(nil)

// New creates a watcher for opts.Root. The root must exist.
func New(opts Options) (*Watcher, error) {
	filter, err := discovery.NewFileDiscovery(opts.Root, opts.IgnorePatterns, 0)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	extMap := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extMap[strings.TrimPrefix(ext, ".")] = true
	}

	logger := opts.Logger
	if logger == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		logger = quiet
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:      fsw,
		filter:       filter,
		extensions:   extMap,
		debounceTime: debounce,
		logger:       logger.WithField("component", "watcher"),
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(filter.Root()); err != nil {
		fsw.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	w.callback = callback
	w.ctx, w.cancel = context.WithCancel(ctx)

	go w.watch()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.watcher.Close()
	})
	return err
}

// Pause stops firing callbacks but continues accumulating events.
func (w *Watcher) Pause() {
	w.pausedMu.Lock()
	defer w.pausedMu.Unlock()
	w.paused = true
}

// Resume resumes firing callbacks and flushes anything accumulated while paused.
func (w *Watcher) Resume() {
	w.pausedMu.Lock()
	wasPaused := w.paused
	w.paused = false
	w.pausedMu.Unlock()

	if wasPaused {
		w.flush()
	}
}

func (w *Watcher) watch() {
	defer close(w.doneCh)

	flushCh := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			w.stopDebounceTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addDirectoriesRecursively(event.Name); err != nil {
						w.logger.WithError(err).WithField("dir", event.Name).Warn("failed to watch new directory")
					}
					continue
				}
			}

			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).Debug("change detected")

			w.accumulatedMu.Lock()
			w.accumulated[event.Name] = true
			w.accumulatedMu.Unlock()

			w.resetDebounceTimer(flushCh)

		case <-flushCh:
			w.pausedMu.RLock()
			paused := w.paused
			w.pausedMu.RUnlock()
			if !paused {
				w.flush()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("file watcher error")
		}
	}
}

// flush hands the accumulated files, sorted, to the callback.
func (w *Watcher) flush() {
	w.accumulatedMu.Lock()
	if len(w.accumulated) == 0 {
		w.accumulatedMu.Unlock()
		return
	}
	files := make([]string, 0, len(w.accumulated))
	for file := range w.accumulated {
		files = append(files, file)
	}
	w.accumulated = make(map[string]bool)
	w.accumulatedMu.Unlock()

	sort.Strings(files)
	if w.callback != nil {
		w.callback(files)
	}
}

func (w *Watcher) resetDebounceTimer(flushCh chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.debounceTime, func() {
		select {
		case flushCh <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopDebounceTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
}

// shouldProcessEvent keeps writes, creates, removes and renames of monitored,
// non-ignored files.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if rel, err := filepath.Rel(w.filter.Root(), event.Name); err == nil && w.filter.ShouldIgnore(rel) {
		return false
	}

	if len(w.extensions) == 0 {
		return true
	}
	return w.extensions[strings.TrimPrefix(filepath.Ext(event.Name), ".")]
}

// addDirectoriesRecursively watches rootPath and every non-ignored directory below it.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			w.logger.WithError(err).WithField("path", path).Warn("error accessing path")
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if path != w.filter.Root() {
			if rel, err := filepath.Rel(w.filter.Root(), path); err == nil && w.filter.ShouldIgnore(rel) {
				return filepath.SkipDir
			}
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.WithError(err).WithField("dir", path).Warn("failed to watch directory")
		}
		return nil
	})
}
