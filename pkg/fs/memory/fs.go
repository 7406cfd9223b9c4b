// Package memory is an in-memory file provider for tests. Its primitive
// transfers can be limited and failed on demand, which drives the partial
// write and mid-transfer failure paths of the File contract.
package memory

import (
	stderrors "errors"
	iofs "io/fs"
	"sort"
	"sync"

	"github.com/butter-bot-machines/cfile/pkg/errno"
	"github.com/butter-bot-machines/cfile/pkg/errors"
	"github.com/butter-bot-machines/cfile/pkg/fs"
)

// Op names a primitive transfer a FaultFunc can fail.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
	OpSeek  Op = "seek"
	OpSize  Op = "size"
)

// FaultFunc runs before every primitive transfer with the file name and the
// offset the transfer starts at. A non-nil error fails the transfer.
type FaultFunc func(op Op, name string, off uint64) error

// ErrStall makes a primitive write accept zero bytes without failing.
var ErrStall = stderrors.New("memory: stalled")

// Option configures an FS.
type Option func(*FS)

// WithChunkSize caps the bytes a single primitive write accepts. Zero means
// no cap.
func WithChunkSize(n int) Option {
	return func(f *FS) {
		if n > 0 {
			f.chunk = n
		}
	}
}

// WithFault installs fn.
func WithFault(fn FaultFunc) Option {
	return func(f *FS) {
		f.fault = fn
	}
}

// FS implements fs.Provider over a map of named byte buffers. Handles on the
// same name share the buffer.
type FS struct {
	mu    sync.RWMutex
	nodes map[string]*node
	chunk int
	fault FaultFunc
}

type node struct {
	mu      sync.RWMutex
	data    []byte
	removed bool
}

// New creates an empty filesystem
func New(opts ...Option) *FS {
	f := &FS{nodes: make(map[string]*node)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Open implements fs.Provider
func (f *FS) Open(name string) (fs.File, error) {
	if err := validName("open", name); err != nil {
		return nil, err
	}

	f.mu.RLock()
	n, ok := f.nodes[name]
	f.mu.RUnlock()
	if !ok {
		return nil, errors.WrapFileException(iofs.ErrNotExist, "open %s", name)
	}
	return &File{fsys: f, name: name, node: n}, nil
}

// Create implements fs.Provider
func (f *FS) Create(name string) (fs.File, error) {
	if err := validName("create", name); err != nil {
		return nil, err
	}

	f.mu.Lock()
	n, ok := f.nodes[name]
	if !ok {
		n = &node{}
		f.nodes[name] = n
	}
	f.mu.Unlock()

	n.mu.Lock()
	n.data = n.data[:0]
	n.mu.Unlock()

	return &File{fsys: f, name: name, node: n}, nil
}

// WriteFile replaces the contents of name, creating it if needed
func (f *FS) WriteFile(name string, data []byte) error {
	if err := validName("write", name); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if n, ok := f.nodes[name]; ok {
		n.mu.Lock()
		n.data = append(n.data[:0], data...)
		n.mu.Unlock()
		return nil
	}
	f.nodes[name] = &node{data: append([]byte{}, data...)}
	return nil
}

// ReadFile returns a copy of the contents of name
func (f *FS) ReadFile(name string) ([]byte, error) {
	f.mu.RLock()
	n, ok := f.nodes[name]
	f.mu.RUnlock()
	if !ok {
		return nil, errors.WrapFileException(iofs.ErrNotExist, "read %s", name)
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]byte{}, n.data...), nil
}

// Remove unlinks name. Open handles keep their bytes, but their size queries
// fail from then on.
func (f *FS) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.nodes[name]
	if !ok {
		return errors.WrapFileException(iofs.ErrNotExist, "remove %s", name)
	}
	n.mu.Lock()
	n.removed = true
	n.mu.Unlock()
	delete(f.nodes, name)
	return nil
}

// Names returns the stored names in order
func (f *FS) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.nodes))
	for name := range f.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *FS) inject(op Op, name string, off uint64) error {
	if f.fault == nil {
		return nil
	}
	return f.fault(op, name, off)
}

func validName(op, name string) error {
	if !iofs.ValidPath(name) || name == "." {
		return errors.NewFileException(errno.EINVAL, "%s %s: invalid file name", op, name)
	}
	return nil
}

var _ fs.Provider = (*FS)(nil)
