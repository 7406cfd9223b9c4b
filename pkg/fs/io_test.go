package fs

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// chunkWriter accepts at most limit bytes per call and fails once fail calls
// have been made (fail < 0 never fails).
type chunkWriter struct {
	buf   bytes.Buffer
	limit int
	fail  int
	calls int
}

var errDisk = errors.New("disk fault")

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.fail >= 0 && w.calls > w.fail {
		return 0, errDisk
	}
	if len(p) > w.limit {
		p = p[:w.limit]
	}
	return w.buf.Write(p)
}

func TestWriteFull(t *testing.T) {
	data := []byte("0123456789")

	t.Run("retries partial chunks", func(t *testing.T) {
		w := &chunkWriter{limit: 3, fail: -1}
		n, err := WriteFull(w, data)
		if err != nil {
			t.Fatalf("WriteFull failed: %v", err)
		}
		if n != len(data) {
			t.Errorf("WriteFull wrote %d bytes, want %d", n, len(data))
		}
		if w.calls != 4 {
			t.Errorf("WriteFull made %d calls, want 4", w.calls)
		}
		if !bytes.Equal(w.buf.Bytes(), data) {
			t.Errorf("got %q, want %q", w.buf.Bytes(), data)
		}
	})

	t.Run("reports prefix before failure", func(t *testing.T) {
		w := &chunkWriter{limit: 4, fail: 2}
		n, err := WriteFull(w, data)
		if !errors.Is(err, errDisk) {
			t.Fatalf("WriteFull error = %v, want %v", err, errDisk)
		}
		if n != 8 {
			t.Errorf("WriteFull wrote %d bytes, want 8", n)
		}
	})

	t.Run("zero progress is an error", func(t *testing.T) {
		w := &chunkWriter{limit: 0, fail: -1}
		n, err := WriteFull(w, data)
		if !errors.Is(err, io.ErrShortWrite) {
			t.Fatalf("WriteFull error = %v, want %v", err, io.ErrShortWrite)
		}
		if n != 0 {
			t.Errorf("WriteFull wrote %d bytes, want 0", n)
		}
		if w.calls != 1 {
			t.Errorf("WriteFull made %d calls, want 1", w.calls)
		}
	})

	t.Run("empty buffer", func(t *testing.T) {
		w := &chunkWriter{limit: 1, fail: 0}
		n, err := WriteFull(w, nil)
		if err != nil || n != 0 {
			t.Errorf("WriteFull(nil) = %d, %v; want 0, nil", n, err)
		}
		if w.calls != 0 {
			t.Errorf("WriteFull(nil) made %d calls, want 0", w.calls)
		}
	})
}

// sliceFile is the smallest File needed to exercise Reader.
type sliceFile struct {
	data   []byte
	cursor uint64
}

func (f *sliceFile) Name() string   { return "slice" }
func (f *sliceFile) Cursor() uint64 { return f.cursor }
func (f *sliceFile) Read(p []byte) (int, error) {
	n := copy(p, f.data[f.cursor:])
	f.cursor += uint64(n)
	return n, nil
}
func (f *sliceFile) Write(p []byte) (int, error) { return 0, errDisk }
func (f *sliceFile) SizeOf() (uint64, error)     { return uint64(len(f.data)), nil }
func (f *sliceFile) SetCursor(pos uint64) error  { f.cursor = pos; return nil }
func (f *sliceFile) Close() error                { return nil }

func TestReader(t *testing.T) {
	f := &sliceFile{data: []byte("hello world")}

	got, err := io.ReadAll(Reader(f))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != "hello world" {
		t.Errorf("ReadAll = %q, want %q", got, "hello world")
	}

	n, err := Reader(f).Read(nil)
	if n != 0 || err != nil {
		t.Errorf("Read(nil) = %d, %v; want 0, nil", n, err)
	}
}
