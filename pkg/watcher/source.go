package watcher

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// fsSource watches the directory holding a file and forwards the events
// that name it. Watching the directory keeps notifications flowing when the
// file is replaced.
type fsSource struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan Change
	errs    chan error
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewSource watches the host file at path
func NewSource(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch path %s: %w", abs, err)
	}

	s := &fsSource{
		watcher: w,
		path:    abs,
		changes: make(chan Change, 16),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	s.wg.Add(1)
	go s.pump()
	return s, nil
}

func (s *fsSource) Changes() <-chan Change { return s.changes }
func (s *fsSource) Errors() <-chan error   { return s.errs }

func (s *fsSource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.watcher.Close()
		s.wg.Wait()
	})
	return err
}

func (s *fsSource) pump() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			change := Change{Name: s.path, Op: Modified}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				change.Op = Removed
			} else if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			select {
			case s.changes <- change:
			case <-s.done:
				return
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			select {
			case s.errs <- err:
			default:
				// a pending error is already waiting to be read
			}
		}
	}
}
