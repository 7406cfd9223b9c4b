// Package errors defines the closed set of failures a file operation can
// produce: FileException, IOException and InvalidFilePointer.
//
// Every value carries its classification and message by value; none of them
// keeps a reference to the failure it was built from.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/butter-bot-machines/cfile/pkg/errno"
)

// Kind discriminates the failure shapes.
type Kind int

const (
	// FileExceptionKind is a file identity or lifecycle failure (open, create,
	// size query, reposition, use after close).
	FileExceptionKind Kind = iota + 1
	// IOExceptionKind is a failure during a read or write transfer.
	IOExceptionKind
	// InvalidFilePointerKind is a seek beyond the current file size.
	InvalidFilePointerKind
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case FileExceptionKind:
		return "FileException"
	case IOExceptionKind:
		return "IOException"
	case InvalidFilePointerKind:
		return "InvalidFilePointer"
	default:
		return "Unknown"
	}
}

// Error is implemented only by the three failure types in this package.
type Error interface {
	error
	fmt.Formatter

	// Kind returns the discriminant
	Kind() Kind

	// ErrorNumber returns the classified error number
	ErrorNumber() errno.Number

	sealed()
}

// FileException reports a file identity or lifecycle failure.
type FileException struct {
	Number  errno.Number
	Message string
}

// IOException reports a failure while transferring bytes.
type IOException struct {
	Number  errno.Number
	Message string
}

// InvalidFilePointer reports a seek past the current end of file.
type InvalidFilePointer struct{}

// ErrInvalidFilePointer is the value returned by SetCursor implementations.
var ErrInvalidFilePointer Error = &InvalidFilePointer{}

// NewFileException creates a FileException with an explicit number.
func NewFileException(n errno.Number, msg string, args ...interface{}) *FileException {
	return &FileException{Number: n, Message: fmt.Sprintf(msg, args...)}
}

// WrapFileException classifies err and records its text after the given
// context. It returns nil for a nil err.
func WrapFileException(err error, msg string, args ...interface{}) Error {
	if err == nil {
		return nil
	}
	return &FileException{
		Number:  errno.Classify(err),
		Message: fmt.Sprintf(msg, args...) + ": " + err.Error(),
	}
}

// NewIOException creates an IOException with an explicit number.
func NewIOException(n errno.Number, msg string, args ...interface{}) *IOException {
	return &IOException{Number: n, Message: fmt.Sprintf(msg, args...)}
}

// WrapIOException classifies err and records its text after the given
// context. It returns nil for a nil err.
func WrapIOException(err error, msg string, args ...interface{}) Error {
	if err == nil {
		return nil
	}
	return &IOException{
		Number:  errno.Classify(err),
		Message: fmt.Sprintf(msg, args...) + ": " + err.Error(),
	}
}

// NotOpen is the failure for any operation on a handle whose native resource
// has been released.
func NotOpen(op, name string) *FileException {
	return NewFileException(errno.EBADF, "%s %s: no valid file resource", op, name)
}

func (e *FileException) Error() string {
	if e == nil {
		return ""
	}
	return render(FileExceptionKind, e.Number, e.Message)
}

func (e *FileException) Kind() Kind                { return FileExceptionKind }
func (e *FileException) ErrorNumber() errno.Number { return e.Number }
func (e *FileException) sealed()                   {}

// Is matches another FileException with the same number.
func (e *FileException) Is(target error) bool {
	t, ok := target.(*FileException)
	return ok && t.Number == e.Number
}

func (e *FileException) Format(f fmt.State, c rune) {
	format(f, c, e, e.Number)
}

func (e *IOException) Error() string {
	if e == nil {
		return ""
	}
	return render(IOExceptionKind, e.Number, e.Message)
}

func (e *IOException) Kind() Kind                { return IOExceptionKind }
func (e *IOException) ErrorNumber() errno.Number { return e.Number }
func (e *IOException) sealed()                   {}

// Is matches another IOException with the same number.
func (e *IOException) Is(target error) bool {
	t, ok := target.(*IOException)
	return ok && t.Number == e.Number
}

func (e *IOException) Format(f fmt.State, c rune) {
	format(f, c, e, e.Number)
}

func (e *InvalidFilePointer) Error() string {
	return InvalidFilePointerKind.String()
}

func (e *InvalidFilePointer) Kind() Kind                { return InvalidFilePointerKind }
func (e *InvalidFilePointer) ErrorNumber() errno.Number { return errno.NotSet }
func (e *InvalidFilePointer) sealed()                   {}

// Is matches any InvalidFilePointer.
func (e *InvalidFilePointer) Is(target error) bool {
	_, ok := target.(*InvalidFilePointer)
	return ok
}

func (e *InvalidFilePointer) Format(f fmt.State, c rune) {
	fmt.Fprint(f, e.Error())
}

func render(k Kind, n errno.Number, msg string) string {
	if msg == "" {
		return fmt.Sprintf("%s(%s)", k, n)
	}
	return fmt.Sprintf("%s(%s): %s", k, n, msg)
}

func format(f fmt.State, c rune, e Error, n errno.Number) {
	switch c {
	case 'v':
		if f.Flag('+') {
			// Detailed format with the code description
			fmt.Fprintf(f, "%s\nkind: %s\ncode: %s (%s)", e.Error(), e.Kind(), n, n.Description())
			return
		}
		fmt.Fprint(f, e.Error())
	case 'q':
		fmt.Fprintf(f, "%q", e.Error())
	default:
		fmt.Fprint(f, e.Error())
	}
}

// As and Is are re-exported so callers need a single errors import.
var (
	As = stderrors.As
	Is = stderrors.Is
)
