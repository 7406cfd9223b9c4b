// Package fs defines the file capability: a sequence of octets with an
// explicit cursor describing where the next read or write happens.
//
// Providers (local disk, go-billy, in-memory) implement File independently.
// Every failure they return is a value from pkg/errors.
package fs

// File is an open file handle.
//
// A handle is owned by a single caller; concurrent use of one handle must be
// serialized by the caller. After Close every operation except Close fails
// with a FileException carrying CF_EBADF.
type File interface {
	// Name returns the name the handle was opened or created with
	Name() string

	// Cursor returns the offset of the next read or write
	Cursor() uint64

	// Read transfers up to len(p) bytes starting at the cursor and advances the
	// cursor by the number of bytes transferred. Reaching end of file is not a
	// failure: Read returns fewer bytes, or 0 with a nil error once the cursor
	// is at the end. A transfer fault is an IOException; n still counts the
	// bytes transferred before it.
	Read(p []byte) (n int, err error)

	// Write transfers all of p starting at the cursor. It returns len(p) and a
	// nil error, or the count actually written and an IOException. The cursor
	// advances by n in both cases.
	Write(p []byte) (n int, err error)

	// SizeOf returns the current length of the file
	SizeOf() (uint64, error)

	// SetCursor moves the cursor to pos. It fails with InvalidFilePointer,
	// leaving the cursor unchanged, if pos is greater than SizeOf.
	SetCursor(pos uint64) error

	// Close releases the native resource. It never reports an error and may
	// be called more than once.
	Close() error
}

// Provider opens and creates files under a fixed root.
type Provider interface {
	// Open opens an existing file
	Open(name string) (File, error)

	// Create creates a file, truncating it if it already exists
	Create(name string) (File, error)
}

// ReadOnlyOpener is implemented by providers that can open a file without
// requesting write access.
type ReadOnlyOpener interface {
	OpenReadOnly(name string) (File, error)
}

// OpenReadOnly opens name without write access when p supports it, and
// falls back to p.Open otherwise.
func OpenReadOnly(p Provider, name string) (File, error) {
	if ro, ok := p.(ReadOnlyOpener); ok {
		return ro.OpenReadOnly(name)
	}
	return p.Open(name)
}
