package workspace

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher rescans decks in the workspace when they change on disk.
type Watcher struct {
	workspace *Workspace
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	onChange  func(*File)
	onRemove  func(string)

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending sync.WaitGroup
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	stopped bool
}

// ErrWatcherStopped is returned by Start on a watcher that already ran.
var ErrWatcherStopped = errors.New("watcher stopped")

type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for a file to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// OnChange is called with the new state after a deck was rescanned.
func OnChange(fn func(*File)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// OnRemove is called with the path of a deck that disappeared.
func OnRemove(fn func(string)) WatcherOption {
	return func(w *Watcher) {
		w.onRemove = fn
	}
}

func NewWatcher(ws *Workspace, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		workspace: ws,
		watcher:   fw,
		debounce:  200 * time.Millisecond,
		timers:    make(map[string]*time.Timer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the workspace root and its subdirectories. It returns
// once the watches are in place. A watcher cannot be restarted after Stop.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	if w.stopped {
		w.mu.Unlock()
		return ErrWatcherStopped
	}
	w.running = true
	w.mu.Unlock()

	err := filepath.WalkDir(w.workspace.RootDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != w.workspace.RootDir() && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		w.mu.Lock()
		w.running = false
		w.stopped = true
		w.mu.Unlock()
		w.watcher.Close()
		close(w.doneCh)
		return err
	}

	log.Infof("watching %s", w.workspace.RootDir())
	go w.run(ctx)
	return nil
}

// Stop ends watching and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		if !w.stopped {
			// Never started: release the fsnotify watcher.
			w.stopped = true
			w.watcher.Close()
		}
		w.mu.Unlock()
		return
	}
	w.running = false
	w.stopped = true
	for path, t := range w.timers {
		if t.Stop() {
			w.pending.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.pending.Wait()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				log.Warningf("watch %s: %v", event.Name, err)
			}
			return
		}
	}
	if !w.workspace.Config().IsDeck(event.Name) {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.schedule(event.Name)
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if t, ok := w.timers[path]; ok && t.Stop() {
		w.pending.Done()
	}
	w.pending.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.pending.Done()
		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		running := w.running
		w.mu.Unlock()
		if running {
			w.rescan(path)
		}
	})
	w.timers[path] = t
}

func (w *Watcher) rescan(path string) {
	defer func() {
		for _, parent := range w.workspace.IncludedBy(path) {
			if err := w.workspace.ScanFile(parent); err != nil {
				log.Warningf("rescan %s: %v", parent, err)
				continue
			}
			if w.onChange != nil {
				w.onChange(w.workspace.GetFile(parent))
			}
		}
	}()

	err := w.workspace.ScanFile(path)
	switch {
	case err == nil:
		if w.onChange != nil {
			w.onChange(w.workspace.GetFile(path))
		}
	case errors.Is(err, fs.ErrNotExist):
		w.workspace.RemoveFile(path)
		log.Infof("removed %s", path)
		if w.onRemove != nil {
			w.onRemove(path)
		}
	default:
		log.Warningf("rescan %s: %v", path, err)
	}
}
