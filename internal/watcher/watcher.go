// Package watcher emits change events for documents on disk. It backs
// watch mode: every write to a watched file triggers a re-process, and
// the fingerprint check upstream makes redundant events cheap.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeType describes what happened to a watched file.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is one file event after filtering.
type Change struct {
	// Path is the affected file.
	Path string

	// Type is the kind of change.
	Type ChangeType
}

// Watcher watches a set of files and directories. Directories are
// watched non-recursively; hidden files and directories are ignored.
type Watcher struct {
	paths []string

	mu     sync.Mutex
	fsw    *fsnotify.Watcher
	closed bool

	// only restricts events to exact paths. Empty means every file in
	// the watched directories is of interest.
	only map[string]bool
}

// New creates a watcher for the given files or directories.
func New(paths ...string) *Watcher {
	return &Watcher{
		paths: paths,
		only:  make(map[string]bool),
	}
}

// Watch starts watching and returns a channel of changes. The channel
// closes when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, fmt.Errorf("watcher is closed")
	}
	if len(w.paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Individual files are watched through their parent directory so
	// editor save strategies (rename-over, truncate-write) still
	// produce events.
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch path error: %w", err)
		}
		if info.IsDir() {
			dirs[p] = true
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch path error: %w", err)
		}
		w.only[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.fsw = fsw

	changes := make(chan Change, 16)
	go w.run(ctx, fsw, changes)
	return changes, nil
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- Change) {
	defer close(changes)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			change := w.handleFsEvent(event)
			if change == nil {
				continue
			}
			select {
			case changes <- *change:
			case <-ctx.Done():
				return
			}
		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; keep going.
		}
	}
}

// handleFsEvent converts one fsnotify event into a Change, or nil for
// events of no interest: chmod, directories, hidden files and files
// outside the watched set.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	path := event.Name
	if isHidden(path) {
		return nil
	}
	if len(w.only) > 0 {
		abs, err := filepath.Abs(path)
		if err != nil || !w.only[abs] {
			return nil
		}
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return nil
		}
		return &Change{Path: path, Type: ChangeCreated}
	case event.Op.Has(fsnotify.Write):
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return nil
		}
		return &Change{Path: path, Type: ChangeUpdated}
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return &Change{Path: path, Type: ChangeDeleted}
	default:
		return nil
	}
}

// isHidden reports whether any element of the path starts with a dot.
// "." and ".." are not considered hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
