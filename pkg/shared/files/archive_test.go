package files

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsArchive(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"source.zip", true},
		{"source.tar.gz", true},
		{"source.TGZ", true},
		{"source.tar", true},
		{"source.py", false},
		{"archive.rar", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsArchive(tt.path), tt.path)
	}
}

func writeZipArchive(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	writer := zip.NewWriter(file)
	for name, content := range entries {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
}

func writeTarGzArchive(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gz := gzip.NewWriter(file)
	tw := tar.NewWriter(gz)
	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}))
		_, err = tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "source.zip")
	writeZipArchive(t, archive, map[string]string{
		"app.py":        "x = 1\n",
		"pkg/module.py": "y = 2\n",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, ExtractArchive(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "app.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))

	data, err = os.ReadFile(filepath.Join(dest, "pkg", "module.py"))
	require.NoError(t, err)
	assert.Equal(t, "y = 2\n", string(data))
}

func TestExtractTarGz(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "source.tar.gz")
	writeTarGzArchive(t, archive, map[string]string{
		"project/app.py": "x = 1\n",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, ExtractArchive(archive, dest))

	data, err := os.ReadFile(filepath.Join(dest, "project", "app.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))
}

func TestExtractRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "source.tar.gz")
	writeTarGzArchive(t, archive, map[string]string{
		"../escape.py": "x = 1\n",
	})

	err := ExtractArchive(archive, filepath.Join(dir, "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")
}

func TestExtractUnsupportedFormat(t *testing.T) {
	err := ExtractArchive(filepath.Join(t.TempDir(), "source.rar"), t.TempDir())
	assert.Error(t, err)
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, ValidateDirectory(dir))

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.Error(t, ValidateDirectory(file))
	assert.Error(t, ValidateDirectory(filepath.Join(dir, "missing")))
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.NoError(t, ValidatePath(file))
	assert.Error(t, ValidatePath(dir))
	assert.Error(t, ValidatePath(filepath.Join(dir, "missing")))
}
