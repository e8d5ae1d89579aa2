package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "root"), "code.py")
	require.NoError(t, err)
	return fs
}

func TestFileStore_SaveLoad(t *testing.T) {
	fs := newTestStore(t)

	require.NoError(t, fs.Save("main.py", "print('hi')\n"))
	content, err := fs.Load("/main.py")
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", content)
}

func TestFileStore_LoadMissing(t *testing.T) {
	fs := newTestStore(t)
	_, err := fs.Load("nope.py")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStore_Validation(t *testing.T) {
	fs := newTestStore(t)

	assert.ErrorIs(t, fs.Save("  ", "x"), ErrFilenameRequired)
	assert.ErrorIs(t, fs.Save("../escape.py", "x"), ErrInvalidName)
	assert.ErrorIs(t, fs.Save("lib/../../escape.py", "x"), ErrInvalidName)
	assert.ErrorIs(t, fs.Save("lib/..", "x"), ErrInvalidName)
	assert.ErrorIs(t, fs.Save("./", "x"), ErrInvalidName)
}

func TestFileStore_DotSegmentsNameTheBootFile(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Save("code.py", "x"))

	for _, name := range []string{"./code.py", "lib/../code.py", "/./CODE.py", " ./lib/./../code.py "} {
		assert.True(t, fs.IsBootFile(name), name)
		assert.ErrorIs(t, fs.Delete(name), ErrProtected, name)
	}

	_, err := os.Stat(filepath.Join(fs.Root(), "code.py"))
	assert.NoError(t, err, "boot file must survive")
}

func TestFileStore_CreateWritesTemplate(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Create("new.py"))

	content, err := fs.Load("new.py")
	require.NoError(t, err)
	assert.Equal(t, NewFileContent, content)
}

func TestFileStore_DeleteProtectsBootFile(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Save("code.py", "x"))

	assert.ErrorIs(t, fs.Delete("CODE.PY"), ErrProtected)
	assert.ErrorIs(t, fs.Delete("missing.py"), os.ErrNotExist)

	require.NoError(t, fs.Save("other.py", "x"))
	assert.NoError(t, fs.Delete("other.py"))
}

func TestFileStore_ListSkipsDirectoriesAndSorts(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Save("b.py", "12345"))
	require.NoError(t, fs.Save("a.txt", "1"))
	require.NoError(t, fs.Save("lib/helper.py", "x"))

	files, err := fs.List()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.txt", files[0].Name)
	assert.Equal(t, int64(1), files[0].Size)
	assert.Equal(t, "b.py", files[1].Name)
	assert.Equal(t, int64(5), files[1].Size)
}
