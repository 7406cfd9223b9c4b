// Package billy serves files from any go-billy filesystem.
package billy

import (
	stderrors "errors"
	"os"
	"syscall"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/butter-bot-machines/cfile/pkg/errno"
	"github.com/butter-bot-machines/cfile/pkg/errors"
	"github.com/butter-bot-machines/cfile/pkg/fs"
)

// DefaultPerm is the mode given to files created by Create.
const DefaultPerm os.FileMode = 0644

// Provider opens files on a billy.Filesystem.
type Provider struct {
	fsys billy.Filesystem
	perm os.FileMode
}

// Option configures a Provider.
type Option func(*Provider)

// WithPerm sets the mode used when Create makes a new file.
func WithPerm(perm os.FileMode) Option {
	return func(p *Provider) {
		p.perm = perm & os.ModePerm
	}
}

// NewProvider wraps fsys.
func NewProvider(fsys billy.Filesystem, opts ...Option) *Provider {
	p := &Provider{fsys: fsys, perm: DefaultPerm}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewOSProvider serves the host directory root. Names cannot resolve
// outside it.
func NewOSProvider(root string, opts ...Option) *Provider {
	return NewProvider(osfs.New(root, osfs.WithBoundOS()), opts...)
}

// NewMemoryProvider serves an empty in-memory filesystem.
func NewMemoryProvider(opts ...Option) *Provider {
	return NewProvider(memfs.New(), opts...)
}

// Filesystem returns the underlying filesystem.
func (p *Provider) Filesystem() billy.Filesystem { return p.fsys }

func (p *Provider) Open(name string) (fs.File, error) {
	return p.open("open", name, os.O_RDWR, 0)
}

// OpenReadOnly opens an existing file without write access
func (p *Provider) OpenReadOnly(name string) (fs.File, error) {
	return p.open("open", name, os.O_RDONLY, 0)
}

func (p *Provider) Create(name string) (fs.File, error) {
	return p.open("create", name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, p.perm)
}

func (p *Provider) open(op, name string, flag int, perm os.FileMode) (fs.File, error) {
	if name == "" {
		return nil, errors.NewFileException(errno.EINVAL, "%s: empty file name", op)
	}

	f, err := p.fsys.OpenFile(name, flag, perm)
	if err != nil {
		return nil, errors.WrapFileException(translate(err), "%s %s", op, name)
	}
	return fs.NewHandle(name, &file{File: f, fsys: p.fsys, name: name}), nil
}

// file adapts billy.File to fs.Native. billy.File has no Stat, so the size
// is read from the filesystem by name.
type file struct {
	billy.File
	fsys billy.Filesystem
	name string
}

func (f *file) Read(p []byte) (int, error) {
	n, err := f.File.Read(p)
	return n, translate(err)
}

func (f *file) Write(p []byte) (int, error) {
	n, err := f.File.Write(p)
	return n, translate(err)
}

func (f *file) Seek(offset int64, whence int) (int64, error) {
	n, err := f.File.Seek(offset, whence)
	return n, translate(err)
}

func (f *file) Size() (int64, error) {
	fi, err := f.fsys.Stat(f.name)
	if err != nil {
		return 0, translate(err)
	}
	return fi.Size(), nil
}

// translate gives go-billy's sentinels an errno so they classify. Other
// errors pass through.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, billy.ErrReadOnly):
		return syscall.EROFS
	case stderrors.Is(err, billy.ErrNotSupported):
		return syscall.ENOTSUP
	case stderrors.Is(err, billy.ErrCrossedBoundary):
		return syscall.EACCES
	default:
		return fs.StripPath(err)
	}
}

var (
	_ fs.Provider       = (*Provider)(nil)
	_ fs.ReadOnlyOpener = (*Provider)(nil)
)
