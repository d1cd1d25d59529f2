package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestWriteAtomic(t *testing.T) {
	systems := map[string]func(t *testing.T) (FileSystem, string){
		"os": func(t *testing.T) (FileSystem, string) {
			return OSFileSystem{}, filepath.Join(t.TempDir(), "frame.png")
		},
		"memory": func(t *testing.T) (FileSystem, string) {
			return NewMemoryFileSystem(), "/frames/frame.png"
		},
	}
	for name, setup := range systems {
		t.Run(name, func(t *testing.T) {
			fsys, path := setup(t)

			require.NoError(t, WriteAtomic(fsys, path, writeString("first")))
			require.NoError(t, WriteAtomic(fsys, path, writeString("second")))

			got, err := fsys.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "second", string(got))

			_, err = fsys.ReadFile(path + ".tmp")
			assert.ErrorIs(t, err, fs.ErrNotExist)
		})
	}
}

func TestWriteAtomic_FailureKeepsOldFile(t *testing.T) {
	fsys := NewMemoryFileSystem()
	require.NoError(t, WriteAtomic(fsys, "frame.png", writeString("good")))

	boom := errors.New("encoder failed")
	err := WriteAtomic(fsys, "frame.png", func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := fsys.ReadFile("frame.png")
	require.NoError(t, err)
	assert.Equal(t, "good", string(got))
	assert.Equal(t, []string{"frame.png"}, fsys.Names())
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	fsys := NewMemoryFileSystem()
	assert.ErrorIs(t, fsys.Remove("nope"), fs.ErrNotExist)
	assert.ErrorIs(t, fsys.Rename("nope", "other"), fs.ErrNotExist)
	_, err := fsys.ReadFile("nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
