package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRasterImage(t *testing.T) {
	tests := map[string]bool{
		"a.jpg":       true,
		"a.JPG":       true,
		"b.jpeg":      true,
		"c.PnG":       true,
		"d.gif":       false,
		"e.tiff":      false,
		"noext":       false,
		"photos.json": false,
		".jpg":        true,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsRasterImage(name), name)
	}
}

func TestPhotoID(t *testing.T) {
	assert.Equal(t, "sunset_over-bay", PhotoID("sunset_over-bay.jpg"))
	assert.Equal(t, "IMG.0001", PhotoID("IMG.0001.JPEG"))
	assert.Equal(t, "plain", PhotoID("plain"))
}

func TestWriteFileAtomicCreatesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	require.NoError(t, WriteFileAtomic(path, []byte("second")))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "data.json", entries[0].Name())
}

func TestWriteFileAtomicFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, WriteFileAtomic(path, []byte("keep me")))

	// a directory in the way makes the rename fail
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.MkdirAll(filepath.Join(blocked, "child"), 0755))
	err := WriteFileAtomic(blocked, []byte("x"))
	require.Error(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
