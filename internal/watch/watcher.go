// Package watch re-runs a handler when HTML sources change on disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/htmlprep/internal/foundation/errors"
	"git.home.luguber.info/inful/htmlprep/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one run.
const DefaultDebounce = 200 * time.Millisecond

// Handler processes the files changed since the last run.
type Handler func(ctx context.Context, paths []string) error

// Watcher monitors a source tree and hands debounced batches of changed
// files to a Handler.
type Watcher struct {
	root     string
	match    func(path string) bool
	handler  Handler
	debounce time.Duration
	resync   time.Duration
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	closed  bool
	runs    sync.WaitGroup
	exec    sync.Mutex
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before the handler runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithMatcher selects which paths trigger the handler. The default matches
// .html and .htm files.
func WithMatcher(fn func(path string) bool) Option {
	return func(w *Watcher) { w.match = fn }
}

// WithResync schedules a full pass over every matching file at the given
// interval, catching changes the file system did not report. Zero disables it.
func WithResync(d time.Duration) Option {
	return func(w *Watcher) { w.resync = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// New creates a watcher for root and every directory below it.
func New(root string, handler Handler, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		_ = fw.Close()
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch root").
			WithContext("path", root).
			Build()
	}

	w := &Watcher{
		root:     absRoot,
		match:    IsHTML,
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		watcher:  fw,
		pending:  map[string]struct{}{},
	}
	for _, o := range opts {
		o(w)
	}
	return w, nil
}

// Close releases the file system watcher. Run closes it on return; Close is
// for watchers that are never run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// IsHTML reports whether path has an HTML extension.
func IsHTML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// Run watches until ctx is canceled. Handler errors are logged and do not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		w.runs.Wait()
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	if w.resync > 0 {
		stop, err := w.scheduleResync(ctx)
		if err != nil {
			return err
		}
		defer stop()
	}
	w.logger.Info("Watching for changes", logfields.File(w.root))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := statDir(event.Name); err == nil && info {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", logfields.File(event.Name), logfields.Error(err))
			}
			return
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	if !w.match(event.Name) {
		return
	}
	w.logger.Debug("Source change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
	w.schedule(ctx, event.Name)
}

// schedule records path and restarts the debounce timer.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = map[string]struct{}{}
	w.runs.Add(1)
	w.mu.Unlock()
	defer w.runs.Done()

	w.run(ctx, paths)
}

func (w *Watcher) run(ctx context.Context, paths []string) {
	if len(paths) == 0 || ctx.Err() != nil {
		return
	}
	w.exec.Lock()
	defer w.exec.Unlock()

	slices.Sort(paths)
	if err := w.handler(ctx, paths); err != nil {
		w.logger.Error("Failed to process changes", logfields.Matches(len(paths)), logfields.Error(err))
	}
}

func (w *Watcher) scheduleResync(ctx context.Context) (func(), error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to create resync scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.resync),
		gocron.NewTask(w.resyncAll, ctx),
		gocron.WithName("resync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to schedule resync").
			WithContext("interval", w.resync.String()).
			Build()
	}
	s.Start()
	return func() {
		if err := s.Shutdown(); err != nil {
			w.logger.Error("Error stopping resync scheduler", logfields.Error(err))
		}
	}, nil
}

// resyncAll hands every matching file below the root to the handler.
func (w *Watcher) resyncAll(ctx context.Context) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.runs.Add(1)
	w.mu.Unlock()
	defer w.runs.Done()

	paths, err := w.Files()
	if err != nil {
		w.logger.Error("Resync scan failed", logfields.Error(err))
		return
	}
	w.logger.Debug("Resync", logfields.Matches(len(paths)))
	w.run(ctx, paths)
}

// Files lists every file below the root accepted by the matcher, skipping
// hidden directories.
func (w *Watcher) Files() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if w.match(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to scan watch root").
			WithContext("path", w.root).
			Build()
	}
	return paths, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
				WithContext("path", path).
				Build()
		}
		return nil
	})
}
