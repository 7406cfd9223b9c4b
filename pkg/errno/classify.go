package errno

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
)

// numbered is implemented by errors that already carry a classification.
type numbered interface {
	ErrorNumber() Number
}

// sentinels is consulted, in order, when no platform error number is present
// in the chain.
var sentinels = []struct {
	err    error
	number Number
}{
	{fs.ErrNotExist, ENOENT},
	{fs.ErrPermission, EACCES},
	{fs.ErrExist, EEXIST},
	{fs.ErrClosed, EBADF},
	{fs.ErrInvalid, EINVAL},
	{os.ErrDeadlineExceeded, ETIMEDOUT},
	{context.DeadlineExceeded, ETIMEDOUT},
	{context.Canceled, ECANCELED},
	{errors.ErrUnsupported, ENOTSUP},
	{io.ErrShortWrite, EIO},
	{io.ErrUnexpectedEOF, EIO},
	{io.ErrNoProgress, EIO},
}

// Classify maps an I/O failure to exactly one Number. It never fails: a nil
// error and any failure it does not recognise both yield NotSet.
func Classify(err error) Number {
	if err == nil {
		return NotSet
	}

	var n numbered
	if errors.As(err, &n) {
		return n.ErrorNumber()
	}

	if number, ok := classifyPlatform(err); ok {
		return number
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.number
		}
	}
	return NotSet
}
