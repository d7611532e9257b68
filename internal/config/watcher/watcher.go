// Package watcher reports changes to individual files.
//
// Files are watched through their parent directory with fsnotify, so
// editors that save by writing a temporary file and renaming it over the
// original are seen as a single change. Bursts of events for the same
// file are debounced into one.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/inkwell/internal/logging"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 100 * time.Millisecond

// Errors returned by the watcher.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrNotWatching   = errors.New("path is not being watched")
	ErrPathNotExist  = errors.New("path does not exist")
)

// Op is a set of file operations.
type Op uint8

// File operations.
const (
	OpWrite Op = 1 << iota
	OpCreate
	OpRemove
	OpRename
)

// Has reports whether every operation in o is set.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// String returns the operation names joined by "|".
func (op Op) String() string {
	var names []string
	for _, o := range []struct {
		op   Op
		name string
	}{{OpWrite, "write"}, {OpCreate, "create"}, {OpRemove, "remove"}, {OpRename, "rename"}} {
		if op.Has(o.op) {
			names = append(names, o.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Event is a debounced change to one file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op holds every operation seen during the debounce window.
	Op Op

	Time time.Time
}

// Handler is called when a file changes. Handlers run on the watcher's
// timer goroutine.
type Handler func(Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

type pending struct {
	op    Op
	timer *time.Timer
}

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	handlers []Handler
	pending  map[string]*pending
	debounce time.Duration
	logger   *logging.Logger

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		pending:  make(map[string]*pending),
		debounce: DefaultDebounce,
		logger:   logging.Nop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("watcher")

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Resolve returns the absolute path of a file with symlinks in its
// directory resolved. The directory must exist; the file need not.
func Resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir, err := filepath.EvalSymlinks(filepath.Dir(abs))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrPathNotExist
		}
		return "", err
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}

// Watch starts reporting changes to the file at path. The file may not
// exist yet; its directory must.
func (w *Watcher) Watch(path string) error {
	abs, err := Resolve(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	w.logger.Debug("watching", "path", abs)
	return nil
}

// Unwatch stops reporting changes to path.
func (w *Watcher) Unwatch(path string) error {
	abs, err := Resolve(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}
	if !w.files[abs] {
		return ErrNotWatching
	}
	delete(w.files, abs)
	if p, ok := w.pending[abs]; ok {
		p.timer.Stop()
		delete(w.pending, abs)
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir]--; w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		return w.fsw.Remove(dir)
	}
	return nil
}

// OnChange registers a handler for every reported change.
func (w *Watcher) OnChange(h Handler) {
	if h == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// WatchedFiles returns the watched paths, sorted.
func (w *Watcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Close stops the watcher. Pending changes are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.queue(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func convert(op fsnotify.Op) Op {
	var out Op
	if op.Has(fsnotify.Write) {
		out |= OpWrite
	}
	if op.Has(fsnotify.Create) {
		out |= OpCreate
	}
	if op.Has(fsnotify.Remove) {
		out |= OpRemove
	}
	if op.Has(fsnotify.Rename) {
		out |= OpRename
	}
	return out
}

// queue records ev and restarts the file's debounce timer.
func (w *Watcher) queue(ev fsnotify.Event) {
	op := convert(ev.Op)
	if op == 0 {
		return
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[path] {
		return
	}
	if p, ok := w.pending[path]; ok {
		p.op |= op
		p.timer.Reset(w.debounce)
		return
	}
	w.pending[path] = &pending{
		op:    op,
		timer: time.AfterFunc(w.debounce, func() { w.fire(path) }),
	}
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	handlers := slices.Clone(w.handlers)
	w.mu.Unlock()

	ev := Event{Path: path, Op: p.op, Time: time.Now()}
	w.logger.Debug("changed", "path", path, "op", ev.Op.String())
	for _, h := range handlers {
		w.call(h, ev)
	}
}

// call runs h, keeping the watcher alive if it panics.
func (w *Watcher) call(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("change handler panicked", "path", ev.Path, "panic", r)
		}
	}()
	h(ev)
}
