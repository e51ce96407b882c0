// Package watch re-runs a job when its source files change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/dd0wney/cluso-diagramviews/pkg/logging"
	"github.com/dd0wney/cluso-diagramviews/pkg/validation"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes fires.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce is how long to wait for more changes before calling the
	// handler. Zero selects DefaultDebounce.
	Debounce time.Duration

	// Extensions limits events to files with these suffixes (".mmd").
	// Empty accepts every file.
	Extensions []string
}

// Handler is called with the sorted, deduplicated paths that changed
// during one quiet period.
type Handler func(ctx context.Context, changed []string)

// Watcher watches files or directories and batches their change events.
//
// A file target is watched through its parent directory so editors that
// replace the file on save keep producing events.
type Watcher struct {
	dirs       []string
	dirTargets map[string]bool
	files      map[string]bool
	debounce   time.Duration
	exts       []string
	logger     logging.Logger
}

// New validates opts and prepares a watcher over paths. Nothing is
// watched until Run.
func New(paths []string, opts Options, logger logging.Logger) (*Watcher, error) {
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	err := validation.NewConfigValidator("watch").
		Custom("paths", func() error {
			if len(paths) == 0 {
				return fmt.Errorf("at least one path is required")
			}
			return nil
		}).
		RangeDuration("debounce", opts.Debounce, time.Millisecond, time.Minute).
		Validate()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	w := &Watcher{
		dirTargets: make(map[string]bool),
		files:      make(map[string]bool),
		debounce:   opts.Debounce,
		exts:       opts.Extensions,
		logger:     logger.With(logging.Component("watch")),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		dir := abs
		if info.IsDir() {
			w.dirTargets[abs] = true
		} else {
			dir = filepath.Dir(abs)
			w.files[abs] = true
		}
		if !slices.Contains(w.dirs, dir) {
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Run blocks, calling handler once per quiet period, until ctx is done.
// A pending batch is dropped on cancellation.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching for changes", logging.Strings("dirs", w.dirs), logging.Duration("debounce", w.debounce))

	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer, timerC = nil, nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			w.logger.Debug("change batch ready", logging.Count(len(changed)))
			handler(ctx, changed)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
		return false
	}
	if !w.files[event.Name] && !w.dirTargets[filepath.Dir(event.Name)] {
		return false
	}
	if len(w.exts) == 0 {
		return true
	}
	return slices.Contains(w.exts, strings.ToLower(filepath.Ext(event.Name)))
}
