package local

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/butter-bot-machines/cfile/pkg/errno"
	"github.com/butter-bot-machines/cfile/pkg/errors"
	"github.com/butter-bot-machines/cfile/pkg/fs"
	"github.com/butter-bot-machines/cfile/pkg/fs/fstest"
)

func TestConformance(t *testing.T) {
	fstest.Run(t, func(t *testing.T) fs.Provider {
		return NewProvider(t.TempDir())
	})
}

func TestOpen_Missing(t *testing.T) {
	root := t.TempDir()

	_, err := Open("missing.bin", root)
	require.Error(t, err)
	assert.Equal(t, "FileException(CF_ENOENT): open missing.bin: no such file or directory", err.Error())
}

func TestOpen_StaysUnderRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	require.NoError(t, os.Mkdir(root, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0644))

	_, err := Open("../secret.txt", root)
	assert.Equal(t, errno.ENOENT, errors.NumberOf(err))

	h, err := Create("../escaped.txt", root)
	require.NoError(t, err)
	h.Close()

	_, err = os.Stat(filepath.Join(root, "escaped.txt"))
	assert.NoError(t, err, "file should be created inside root")
	_, err = os.Stat(filepath.Join(parent, "escaped.txt"))
	assert.True(t, os.IsNotExist(err), "file must not escape root")
}

func TestOpen_Directory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0755))

	_, err := Open("dir", root)
	assert.True(t, errors.IsKind(err, errors.FileExceptionKind))
	assert.Equal(t, errno.EISDIR, errors.NumberOf(err))
}

func TestOpen_EmptyName(t *testing.T) {
	_, err := Open("", t.TempDir())
	assert.Equal(t, errno.EINVAL, errors.NumberOf(err))
}

func TestOpen_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}
	root := t.TempDir()
	path := filepath.Join(root, "locked.bin")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0000))

	_, err := Open("locked.bin", root)
	assert.True(t, errors.IsKind(err, errors.FileExceptionKind))
	assert.Equal(t, errno.EACCES, errors.NumberOf(err))
}

func TestReadOnly(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "ro.bin"), []byte("abc"), 0644))

	h, err := Open("ro.bin", root, ReadOnly())
	require.NoError(t, err)
	defer h.Close()

	buf := make([]byte, 3)
	n, err := h.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))

	n, err = h.Write([]byte("d"))
	assert.Zero(t, n)
	assert.True(t, errors.IsKind(err, errors.IOExceptionKind), "want IOException, got %v", err)
	assert.Equal(t, errno.EBADF, errors.NumberOf(err))
	assert.Equal(t, uint64(3), h.Cursor())

	_, err = Create("new.bin", root, ReadOnly())
	assert.Equal(t, errno.EROFS, errors.NumberOf(err))
}

func TestCreate_Perm(t *testing.T) {
	root := t.TempDir()

	h, err := Create("p.bin", root, WithPerm(0600))
	require.NoError(t, err)
	h.Close()

	fi, err := os.Stat(filepath.Join(root, "p.bin"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())
}

func TestProvider_Root(t *testing.T) {
	root := t.TempDir()
	p := NewProvider(root)
	assert.Equal(t, root, p.Root())

	f, err := p.Create("seen.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("on disk"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(root, "seen.txt"))
	require.NoError(t, err)
	assert.Equal(t, "on disk", string(data))
}

func TestProvider_OpenReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "locked.txt"), []byte("abc"), 0444))
	p := NewProvider(root)

	_, err := p.Open("locked.txt")
	assert.Equal(t, errno.EACCES, errors.NumberOf(err))

	f, err := fs.OpenReadOnly(p, "locked.txt")
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 8)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))

	_, err = f.Write([]byte("x"))
	assert.True(t, errors.IsKind(err, errors.IOExceptionKind))
}
