package fs

import (
	stderrors "errors"
	"io"
	iofs "io/fs"

	"github.com/butter-bot-machines/cfile/pkg/errors"
)

// Native is the open resource a Handle drives. Providers adapt their own file
// types to it; Size reports the current length of the resource.
type Native interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	Size() (int64, error)
}

// Handle implements File over a Native resource. The zero value is a closed
// handle.
type Handle struct {
	name   string
	native Native // nil once closed
	cursor uint64
}

// NewHandle takes ownership of native. The cursor starts at 0.
func NewHandle(name string, native Native) *Handle {
	return &Handle{name: name, native: native}
}

func (h *Handle) Name() string   { return h.name }
func (h *Handle) Cursor() uint64 { return h.cursor }

// Read fills p from the cursor until p is full or the resource ends.
func (h *Handle) Read(p []byte) (int, error) {
	if h.native == nil {
		return 0, errors.NotOpen("read", h.name)
	}

	var total int
	for total < len(p) {
		n, err := h.native.Read(p[total:])
		if n < 0 || n > len(p)-total {
			return total, errors.WrapIOException(io.ErrNoProgress, "read %s", h.name)
		}
		total += n
		h.cursor += uint64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, errors.WrapIOException(StripPath(err), "read %s", h.name)
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// Write transfers all of p, retrying partial writes. The cursor advances by
// the bytes the resource accepted even when the transfer fails.
func (h *Handle) Write(p []byte) (int, error) {
	if h.native == nil {
		return 0, errors.NotOpen("write", h.name)
	}

	n, err := WriteFull(h.native, p)
	h.cursor += uint64(n)
	if err != nil {
		return n, errors.WrapIOException(StripPath(err), "write %s", h.name)
	}
	return n, nil
}

func (h *Handle) SizeOf() (uint64, error) {
	if h.native == nil {
		return 0, errors.NotOpen("size", h.name)
	}

	size, err := h.native.Size()
	if err != nil {
		return 0, errors.WrapFileException(StripPath(err), "size %s", h.name)
	}
	if size < 0 {
		return 0, errors.WrapFileException(iofs.ErrInvalid, "size %s", h.name)
	}
	return uint64(size), nil
}

// SetCursor repositions within [0, SizeOf]. A position past the end fails
// with InvalidFilePointer and the cursor is left alone.
func (h *Handle) SetCursor(pos uint64) error {
	if h.native == nil {
		return errors.NotOpen("seek", h.name)
	}

	size, err := h.SizeOf()
	if err != nil {
		return err
	}
	if pos > size {
		return errors.ErrInvalidFilePointer
	}

	if _, err := h.native.Seek(int64(pos), io.SeekStart); err != nil {
		return errors.WrapFileException(StripPath(err), "seek %s", h.name)
	}
	h.cursor = pos
	return nil
}

// Close releases the resource. A failure from the native close is dropped
// and the handle is closed regardless.
func (h *Handle) Close() error {
	if h.native == nil {
		return nil
	}
	_ = h.native.Close()
	h.native = nil
	return nil
}

// StripPath removes the *fs.PathError layer from err so messages name the
// logical file rather than the resolved path.
func StripPath(err error) error {
	var pe *iofs.PathError
	if stderrors.As(err, &pe) {
		return pe.Err
	}
	return err
}
