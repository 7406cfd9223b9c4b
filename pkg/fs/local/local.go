// Package local opens files on the host file system, resolving every name
// under a root directory.
package local

import (
	"os"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/butter-bot-machines/cfile/pkg/errno"
	"github.com/butter-bot-machines/cfile/pkg/errors"
	"github.com/butter-bot-machines/cfile/pkg/fs"
)

// Open opens the existing file name under root. The cursor starts at 0.
func Open(name, root string, opts ...Option) (*fs.Handle, error) {
	o := newOptions(opts)

	flag := os.O_RDWR
	if o.readOnly {
		flag = os.O_RDONLY
	}
	return openFile("open", name, root, flag, 0)
}

// Create creates name under root, truncating it if it already exists.
func Create(name, root string, opts ...Option) (*fs.Handle, error) {
	o := newOptions(opts)
	if o.readOnly {
		return nil, errors.NewFileException(errno.EROFS, "create %s: read-only provider", name)
	}
	return openFile("create", name, root, os.O_RDWR|os.O_CREATE|os.O_TRUNC, o.perm)
}

func openFile(op, name, root string, flag int, perm os.FileMode) (*fs.Handle, error) {
	if name == "" {
		return nil, errors.NewFileException(errno.EINVAL, "%s: empty file name", op)
	}

	path, err := securejoin.SecureJoin(root, name)
	if err != nil {
		return nil, errors.WrapFileException(fs.StripPath(err), "%s %s", op, name)
	}

	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, errors.WrapFileException(fs.StripPath(err), "%s %s", op, name)
	}
	return fs.NewHandle(name, osFile{f}), nil
}

type osFile struct {
	*os.File
}

func (f osFile) Size() (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Provider opens files under a fixed root.
type Provider struct {
	root string
	opts []Option
}

// NewProvider returns a Provider rooted at root.
func NewProvider(root string, opts ...Option) *Provider {
	return &Provider{root: root, opts: opts}
}

// Root returns the directory names are resolved under.
func (p *Provider) Root() string { return p.root }

func (p *Provider) Open(name string) (fs.File, error) {
	h, err := Open(name, p.root, p.opts...)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// OpenReadOnly opens an existing file without write access, whatever the
// provider's own options say.
func (p *Provider) OpenReadOnly(name string) (fs.File, error) {
	opts := append(append([]Option(nil), p.opts...), ReadOnly())
	h, err := Open(name, p.root, opts...)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (p *Provider) Create(name string) (fs.File, error) {
	h, err := Create(name, p.root, p.opts...)
	if err != nil {
		return nil, err
	}
	return h, nil
}

var (
	_ fs.Provider       = (*Provider)(nil)
	_ fs.ReadOnlyOpener = (*Provider)(nil)
)
