package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens-dev/repolens/internal/registry"
	"github.com/repolens-dev/repolens/pkg/shared/config"
	sharederrors "github.com/repolens-dev/repolens/pkg/shared/errors"
)

func testEngineConfig() config.Engine {
	return config.Engine{
		IgnoreGlobs: []string{".git", "node_modules", "*.egg-info"},
		MaxFileSize: 1 * 1024 * 1024,
		MaxFiles:    1000,
	}
}

func newTestIngestor(t *testing.T, cfg config.Engine) *Ingestor {
	t.Helper()
	reg, err := registry.Load("")
	require.NoError(t, err)
	return NewIngestor(cfg, reg, hclog.NewNullLogger())
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestIngestCataloguesFilesInOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"zz.py":      "x = 1",
		"a.py":       "y = 2\nz = 3",
		"b/inner.js": "console.log(1)",
	})

	result, err := newTestIngestor(t, testEngineConfig()).Ingest(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, 3, result.TotalFiles)
	paths := []string{}
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"a.py", "b/inner.js", "zz.py"}, paths)

	// one line for zz.py and inner.js, two for a.py
	assert.Equal(t, 4, result.TotalLines)
}

func TestIngestMissingRoot(t *testing.T) {
	_, err := newTestIngestor(t, testEngineConfig()).Ingest(context.Background(), "/does/not/exist")
	require.Error(t, err)

	var unsupported *sharederrors.UnsupportedSourceError
	assert.ErrorAs(t, err, &unsupported)
}

func TestIngestRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"file.py": "x = 1"})

	_, err := newTestIngestor(t, testEngineConfig()).Ingest(context.Background(), filepath.Join(root, "file.py"))
	require.Error(t, err)

	var unsupported *sharederrors.UnsupportedSourceError
	assert.ErrorAs(t, err, &unsupported)
}

func TestIngestSkipsIgnoredFolders(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.py":                "x = 1",
		".git/config":           "[core]",
		"node_modules/dep.js":   "module.exports = {}",
		"pkg.egg-info/PKG":      "Name: pkg",
		"src/node_modules/x.js": "ignored too",
	})

	result, err := newTestIngestor(t, testEngineConfig()).Ingest(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalFiles)
	assert.True(t, result.HasFile("app.py"))
}

func TestIngestBinaryDetection(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.py"), []byte{0x68, 0x69, 0x00, 0x01}, 0o644))
	writeTree(t, root, map[string]string{"plain.py": "x = 1"})

	result, err := newTestIngestor(t, testEngineConfig()).Ingest(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalFiles)

	byPath := map[string]SourceFile{}
	for _, f := range result.Files {
		byPath[f.Path] = f
	}
	assert.True(t, byPath["blob.py"].Binary)
	assert.False(t, byPath["blob.py"].Text)
	assert.False(t, byPath["plain.py"].Binary)
	assert.True(t, byPath["plain.py"].Text)
}

func TestIngestOversizeFileExcludedFromText(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"big.py":   "x = 1\ny = 2\n",
		"small.py": "z = 3",
	})

	cfg := testEngineConfig()
	cfg.MaxFileSize = 8

	result, err := newTestIngestor(t, cfg).Ingest(context.Background(), root)
	require.NoError(t, err)

	texts := result.TextFiles()
	require.Len(t, texts, 1)
	assert.Equal(t, "small.py", texts[0].Path)
	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, "big.py", result.Diagnostics[0].File)
}

func TestIngestMaxFilesTruncation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.py": "1",
		"b.py": "2",
		"c.py": "3",
	})

	cfg := testEngineConfig()
	cfg.MaxFiles = 2

	result, err := newTestIngestor(t, cfg).Ingest(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalFiles)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, result.Diagnostics[0].Message, "truncated")
}

func TestIngestDataFormatsAreNotText(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"data.json":  `{"a": 1}`,
		"README.md":  "# readme",
		"config.yml": "a: 1",
		"creds.env":  "SECRET=value",
	})

	result, err := newTestIngestor(t, testEngineConfig()).Ingest(context.Background(), root)
	require.NoError(t, err)

	texts := map[string]bool{}
	for _, f := range result.TextFiles() {
		texts[f.Path] = true
	}
	assert.False(t, texts["data.json"])
	assert.False(t, texts["README.md"])
	assert.True(t, texts["config.yml"])
	assert.True(t, texts["creds.env"])
}

func TestIngestCancelledContextReturnsPartial(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"app.py": "x = 1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestIngestor(t, testEngineConfig()).Ingest(ctx, root)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Incomplete)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, result.Diagnostics[0].Message, "deadline exceeded")
}

func TestCountLines(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"single line no newline", "x = 1", 1},
		{"single line with newline", "x = 1\n", 2},
		{"three lines", "a\nb\nc", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(root, tt.name+".py")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			lines, err := countLines(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines)
		})
	}
}
