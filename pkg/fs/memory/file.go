package memory

import (
	"io"
	iofs "io/fs"

	"github.com/butter-bot-machines/cfile/pkg/errors"
	"github.com/butter-bot-machines/cfile/pkg/fs"
)

// File is a handle on one node of an FS.
type File struct {
	fsys   *FS
	name   string
	node   *node // nil once closed
	cursor uint64
}

func (f *File) Name() string   { return f.name }
func (f *File) Cursor() uint64 { return f.cursor }

func (f *File) Read(p []byte) (int, error) {
	if f.node == nil {
		return 0, errors.NotOpen("read", f.name)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := f.fsys.inject(OpRead, f.name, f.cursor); err != nil {
		return 0, errors.WrapIOException(err, "read %s", f.name)
	}

	f.node.mu.RLock()
	var n int
	if f.cursor < uint64(len(f.node.data)) {
		n = copy(p, f.node.data[f.cursor:])
	}
	f.node.mu.RUnlock()

	f.cursor += uint64(n)
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	if f.node == nil {
		return 0, errors.NotOpen("write", f.name)
	}

	n, err := fs.WriteFull(primitive{f}, p)
	if err != nil {
		return n, errors.WrapIOException(err, "write %s", f.name)
	}
	return n, nil
}

func (f *File) SizeOf() (uint64, error) {
	if f.node == nil {
		return 0, errors.NotOpen("size", f.name)
	}
	if err := f.fsys.inject(OpSize, f.name, f.cursor); err != nil {
		return 0, errors.WrapFileException(err, "size %s", f.name)
	}

	f.node.mu.RLock()
	defer f.node.mu.RUnlock()
	if f.node.removed {
		return 0, errors.WrapFileException(iofs.ErrNotExist, "size %s", f.name)
	}
	return uint64(len(f.node.data)), nil
}

func (f *File) SetCursor(pos uint64) error {
	if f.node == nil {
		return errors.NotOpen("seek", f.name)
	}

	size, err := f.SizeOf()
	if err != nil {
		return err
	}
	if pos > size {
		return errors.ErrInvalidFilePointer
	}
	if err := f.fsys.inject(OpSeek, f.name, pos); err != nil {
		return errors.WrapFileException(err, "seek %s", f.name)
	}
	f.cursor = pos
	return nil
}

func (f *File) Close() error {
	f.node = nil
	return nil
}

// primitive is the single-transfer write the handle's loop drives. It honours
// the chunk cap and fault hook and advances the cursor itself.
type primitive struct {
	f *File
}

func (w primitive) Write(p []byte) (int, error) {
	f := w.f
	if err := f.fsys.inject(OpWrite, f.name, f.cursor); err != nil {
		if err == ErrStall {
			return 0, nil
		}
		return 0, err
	}
	if f.fsys.chunk > 0 && len(p) > f.fsys.chunk {
		p = p[:f.fsys.chunk]
	}

	f.node.mu.Lock()
	end := f.cursor + uint64(len(p))
	if end > uint64(len(f.node.data)) {
		f.node.data = append(f.node.data, make([]byte, end-uint64(len(f.node.data)))...)
	}
	copy(f.node.data[f.cursor:], p)
	f.node.mu.Unlock()

	f.cursor = end
	return len(p), nil
}

var (
	_ fs.File   = (*File)(nil)
	_ io.Writer = primitive{}
)
