package fs

import (
	"io"
)

// WriteFull writes all of p to dst, retrying after partial writes. A write
// that makes no progress while bytes remain stops the loop with
// io.ErrShortWrite. The returned count is the number of bytes dst accepted.
func WriteFull(dst io.Writer, p []byte) (int, error) {
	var written int
	for written < len(p) {
		n, err := dst.Write(p[written:])
		if n < 0 || n > len(p)-written {
			return written, io.ErrShortWrite
		}
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// Reader adapts f to io.Reader: a zero-length transfer into a non-empty
// buffer becomes io.EOF.
func Reader(f File) io.Reader {
	return &reader{f: f}
}

type reader struct {
	f File
}

func (r *reader) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if err != nil {
		return n, err
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}
