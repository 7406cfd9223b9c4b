// Package service exposes file handles to in-process callers by ID. Calls
// on one handle are serialized; calls on different handles run in parallel.
package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/butter-bot-machines/cfile/pkg/errno"
	"github.com/butter-bot-machines/cfile/pkg/errors"
	"github.com/butter-bot-machines/cfile/pkg/fs"
	"github.com/butter-bot-machines/cfile/pkg/logging"
)

const (
	// DefaultMaxHandles bounds the handle table when Options leaves it unset
	DefaultMaxHandles = 64
	// MaxReadSize is the largest count a single Read accepts
	MaxReadSize = 1 << 20
)

// HandleID identifies an open handle
type HandleID int64

// HandleInfo describes an open handle
type HandleInfo struct {
	ID         HandleID
	Name       string
	Cursor     uint64
	Opened     time.Time
	LastAccess time.Time
}

// Options configures a Server
type Options struct {
	MaxHandles int
	Logger     logging.Logger
	Clock      clock.Clock
}

// Server owns a table of open handles on one provider
type Server struct {
	provider fs.Provider
	max      int
	logger   logging.Logger
	clock    clock.Clock

	mu       sync.Mutex
	handles  map[HandleID]*entry
	reserved int
	nextID   HandleID
}

type entry struct {
	mu         sync.Mutex
	file       fs.File
	opened     time.Time
	lastAccess time.Time
}

// New creates a server over provider
func New(provider fs.Provider, opts *Options) *Server {
	s := &Server{
		provider: provider,
		max:      DefaultMaxHandles,
		clock:    clock.New(),
		handles:  make(map[HandleID]*entry),
		nextID:   1,
	}
	if opts != nil {
		if opts.MaxHandles > 0 {
			s.max = opts.MaxHandles
		}
		if opts.Clock != nil {
			s.clock = opts.Clock
		}
		s.logger = opts.Logger
	}
	return s
}

// Open opens an existing file and returns its handle ID
func (s *Server) Open(name string) (HandleID, error) {
	return s.add("open", name, s.provider.Open)
}

// Create creates or truncates a file and returns its handle ID
func (s *Server) Create(name string) (HandleID, error) {
	return s.add("create", name, s.provider.Create)
}

func (s *Server) add(op, name string, open func(string) (fs.File, error)) (HandleID, error) {
	s.mu.Lock()
	if len(s.handles)+s.reserved >= s.max {
		s.mu.Unlock()
		st := &Status{
			Kind:    errors.FileExceptionKind.String(),
			Code:    errno.EMFILE,
			Message: fmt.Sprintf("%s %s: %d handles already open", op, name, s.max),
		}
		s.warn(op, st, "name", name)
		return 0, st
	}
	s.reserved++
	s.mu.Unlock()

	f, err := open(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reserved--
	if err != nil {
		st := StatusOf(err)
		s.warn(op, st, "name", name)
		return 0, st
	}

	id := s.nextID
	s.nextID++
	now := s.clock.Now()
	s.handles[id] = &entry{file: f, opened: now, lastAccess: now}
	s.debug(op, "handle", id, "name", name)
	return id, nil
}

// with runs fn on the handle while holding its lock
func (s *Server) with(op string, id HandleID, fn func(f fs.File) error) error {
	s.mu.Lock()
	e, ok := s.handles[id]
	s.mu.Unlock()
	if !ok {
		return badHandle(op, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file == nil {
		return badHandle(op, id)
	}
	e.lastAccess = s.clock.Now()

	if err := fn(e.file); err != nil {
		st := StatusOf(err)
		s.warn(op, st, "handle", id)
		return st
	}
	return nil
}

// Read returns up to count bytes from the handle's cursor. An empty result
// means end of file. On a transfer fault the bytes read before it are
// returned with the error.
func (s *Server) Read(id HandleID, count int) ([]byte, error) {
	if count < 0 || count > MaxReadSize {
		return nil, &Status{
			Kind:    errors.IOExceptionKind.String(),
			Code:    errno.EINVAL,
			Message: fmt.Sprintf("read: count %d outside [0, %d]", count, MaxReadSize),
		}
	}

	var data []byte
	err := s.with("read", id, func(f fs.File) error {
		buf := make([]byte, count)
		n, err := f.Read(buf)
		data = buf[:n]
		return err
	})
	return data, err
}

// Write writes all of data at the handle's cursor and returns the count
// written, which is short only when an error is returned.
func (s *Server) Write(id HandleID, data []byte) (int, error) {
	var n int
	err := s.with("write", id, func(f fs.File) error {
		var err error
		n, err = f.Write(data)
		return err
	})
	return n, err
}

// SetFilePointer moves the handle's cursor
func (s *Server) SetFilePointer(id HandleID, pos uint64) error {
	return s.with("seek", id, func(f fs.File) error {
		return f.SetCursor(pos)
	})
}

// FilePointer returns the handle's cursor
func (s *Server) FilePointer(id HandleID) (uint64, error) {
	var pos uint64
	err := s.with("pos", id, func(f fs.File) error {
		pos = f.Cursor()
		return nil
	})
	return pos, err
}

// SizeOf returns the current size of the handle's file
func (s *Server) SizeOf(id HandleID) (uint64, error) {
	var size uint64
	err := s.with("size", id, func(f fs.File) error {
		var err error
		size, err = f.SizeOf()
		return err
	})
	return size, err
}

// Close releases the handle. Closing an unknown or already closed ID
// succeeds.
func (s *Server) Close(id HandleID) error {
	s.mu.Lock()
	e, ok := s.handles[id]
	delete(s.handles, id)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.file != nil {
		e.file.Close()
		e.file = nil
		s.debug("close", "handle", id)
	}
	return nil
}

// CloseAll releases every handle
func (s *Server) CloseAll() {
	for _, info := range s.Handles() {
		s.Close(info.ID)
	}
}

// Handles lists the open handles ordered by ID
func (s *Server) Handles() []HandleInfo {
	s.mu.Lock()
	entries := make(map[HandleID]*entry, len(s.handles))
	for id, e := range s.handles {
		entries[id] = e
	}
	s.mu.Unlock()

	infos := make([]HandleInfo, 0, len(entries))
	for id, e := range entries {
		e.mu.Lock()
		if e.file != nil {
			infos = append(infos, HandleInfo{
				ID:         id,
				Name:       e.file.Name(),
				Cursor:     e.file.Cursor(),
				Opened:     e.opened,
				LastAccess: e.lastAccess,
			})
		}
		e.mu.Unlock()
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (s *Server) debug(op string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(op, args...)
	}
}

func (s *Server) warn(op string, st *Status, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(op+" failed", append(args, "kind", st.Kind, "code", st.Code.String(), "message", st.Message)...)
	}
}
