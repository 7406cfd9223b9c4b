// Package fstest checks that a fs.Provider honours the File contract.
//
// Provider packages call Run from their own tests:
//
//	func TestConformance(t *testing.T) {
//		fstest.Run(t, func(t *testing.T) fs.Provider {
//			return local.NewProvider(t.TempDir())
//		})
//	}
package fstest

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/butter-bot-machines/cfile/pkg/errno"
	"github.com/butter-bot-machines/cfile/pkg/errors"
	"github.com/butter-bot-machines/cfile/pkg/fs"
)

// Factory returns an empty provider for one subtest.
type Factory func(t *testing.T) fs.Provider

// Run executes every conformance check as a subtest of t.
func Run(t *testing.T, newProvider Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, p fs.Provider)
	}{
		{"CreateWriteSeekRead", testRoundTrip},
		{"OpenMissing", testOpenMissing},
		{"SeekPastEnd", testSeekPastEnd},
		{"SeekWithinBounds", testSeekWithinBounds},
		{"UseAfterClose", testUseAfterClose},
		{"ReadAtEOF", testReadAtEOF},
		{"ShortReadAtEnd", testShortReadAtEnd},
		{"CreateTruncates", testCreateTruncates},
		{"OpenExisting", testOpenExisting},
		{"OverwriteInPlace", testOverwriteInPlace},
		{"WriteAtEndExtends", testWriteAtEndExtends},
		{"LargeWrite", testLargeWrite},
		{"ReaderAdapter", testReaderAdapter},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newProvider(t))
		})
	}
}

func create(t *testing.T, p fs.Provider, name string, data []byte) fs.File {
	t.Helper()
	f, err := p.Create(name)
	require.NoError(t, err, "Create %s", name)
	t.Cleanup(func() { _ = f.Close() })
	if len(data) > 0 {
		n, err := f.Write(data)
		require.NoError(t, err, "Write %s", name)
		require.Equal(t, len(data), n)
	}
	return f
}

func testRoundTrip(t *testing.T, p fs.Provider) {
	f := create(t, p, "a.bin", nil)
	assert.Equal(t, "a.bin", f.Name())
	assert.Equal(t, uint64(0), f.Cursor())

	n, err := f.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, uint64(4), f.Cursor())

	require.NoError(t, f.SetCursor(0))
	assert.Equal(t, uint64(0), f.Cursor())

	buf := make([]byte, 4)
	n, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
	assert.Equal(t, uint64(4), f.Cursor())
}

func testOpenMissing(t *testing.T, p fs.Provider) {
	f, err := p.Open("missing.bin")
	require.Error(t, err)
	assert.Nil(t, f)
	assert.True(t, errors.IsKind(err, errors.FileExceptionKind), "want FileException, got %v", err)
	assert.Equal(t, errno.ENOENT, errors.NumberOf(err))
}

func testSeekPastEnd(t *testing.T, p fs.Provider) {
	f := create(t, p, "ten.bin", make([]byte, 10))
	require.NoError(t, f.SetCursor(3))

	err := f.SetCursor(11)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidFilePointer), "want InvalidFilePointer, got %v", err)
	assert.Equal(t, errors.InvalidFilePointerKind, errors.KindOf(err))
	assert.Equal(t, uint64(3), f.Cursor())
}

func testSeekWithinBounds(t *testing.T, p fs.Provider) {
	f := create(t, p, "ten.bin", []byte("0123456789"))

	for _, pos := range []uint64{0, 5, 9, 10} {
		require.NoError(t, f.SetCursor(pos), "SetCursor(%d)", pos)
		assert.Equal(t, pos, f.Cursor())
	}

	require.NoError(t, f.SetCursor(7))
	buf := make([]byte, 2)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "78", string(buf[:n]))
}

func testUseAfterClose(t *testing.T, p fs.Provider) {
	create(t, p, "f.bin", []byte("data")).Close()

	f, err := p.Open("f.bin")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close(), "second Close")

	assertBadF := func(op string, err error) {
		t.Helper()
		assert.True(t, errors.IsKind(err, errors.FileExceptionKind), "%s: want FileException, got %v", op, err)
		assert.Equal(t, errno.EBADF, errors.NumberOf(err), "%s", op)
	}

	n, err := f.Read(make([]byte, 4))
	assert.Zero(t, n)
	assertBadF("read", err)

	n, err = f.Write([]byte("x"))
	assert.Zero(t, n)
	assertBadF("write", err)

	_, err = f.SizeOf()
	assertBadF("size", err)

	assertBadF("seek", f.SetCursor(0))
	assert.Equal(t, "f.bin", f.Name())
}

func testReadAtEOF(t *testing.T, p fs.Provider) {
	f := create(t, p, "eof.bin", []byte("abc"))

	n, err := f.Read(make([]byte, 8))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, uint64(3), f.Cursor())

	n, err = f.Read(make([]byte, 8))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testShortReadAtEnd(t *testing.T, p fs.Provider) {
	f := create(t, p, "short.bin", []byte("hello"))
	require.NoError(t, f.SetCursor(2))

	buf := make([]byte, 10)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "llo", string(buf[:n]))
	assert.Equal(t, uint64(5), f.Cursor())
}

func testCreateTruncates(t *testing.T, p fs.Provider) {
	require.NoError(t, create(t, p, "t.bin", []byte("long contents")).Close())

	f := create(t, p, "t.bin", nil)
	size, err := f.SizeOf()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func testOpenExisting(t *testing.T, p fs.Provider) {
	require.NoError(t, create(t, p, "e.bin", []byte("existing")).Close())

	f, err := p.Open("e.bin")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, uint64(0), f.Cursor())
	size, err := f.SizeOf()
	require.NoError(t, err)
	assert.Equal(t, uint64(8), size)

	got, err := io.ReadAll(fs.Reader(f))
	require.NoError(t, err)
	assert.Equal(t, "existing", string(got))
}

func testOverwriteInPlace(t *testing.T, p fs.Provider) {
	f := create(t, p, "o.bin", []byte("abcdef"))
	require.NoError(t, f.SetCursor(2))

	_, err := f.Write([]byte("XY"))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), f.Cursor())

	size, err := f.SizeOf()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), size)

	require.NoError(t, f.SetCursor(0))
	buf := make([]byte, 6)
	_, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abXYef", string(buf))
}

func testWriteAtEndExtends(t *testing.T, p fs.Provider) {
	f := create(t, p, "x.bin", []byte("abc"))
	require.NoError(t, f.SetCursor(3))

	_, err := f.Write([]byte("def"))
	require.NoError(t, err)

	size, err := f.SizeOf()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), size)
}

func testLargeWrite(t *testing.T, p fs.Provider) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 64*1024)
	f := create(t, p, "large.bin", data)
	assert.Equal(t, uint64(len(data)), f.Cursor())

	require.NoError(t, f.SetCursor(0))
	got := make([]byte, len(data))
	n, err := f.Read(got)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.True(t, bytes.Equal(data, got), "round trip mismatch")
}

func testReaderAdapter(t *testing.T, p fs.Provider) {
	f := create(t, p, "r.bin", []byte("through io.Copy"))
	require.NoError(t, f.SetCursor(0))

	var buf bytes.Buffer
	n, err := io.Copy(&buf, fs.Reader(f))
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)
	assert.Equal(t, "through io.Copy", buf.String())
}
