package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repolens-dev/repolens/internal/registry"
	"github.com/repolens-dev/repolens/internal/snapshot"
	"github.com/repolens-dev/repolens/pkg/shared/config"
)

func testEngineConfig() config.Engine {
	return config.Engine{
		IgnoreGlobs: []string{".git", "node_modules"},
		MaxFileSize: 1 * 1024 * 1024,
		MaxFiles:    1000,
		Workers:     2,
	}
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	reg, err := registry.Load("")
	require.NoError(t, err)
	return New(testEngineConfig(), reg, hclog.NewNullLogger())
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func flaskProject(t *testing.T) string {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"requirements.txt": "flask==2.0.1\n",
		"main.py":          "from app import routes\n\nif __name__ == '__main__':\n    app.run()\n",
		"app/routes.py": "from flask import Flask\n" +
			"\n" +
			"@app.route('/api/items/<item_id>', methods=['GET', 'POST'])\n" +
			"def items(item_id):\n" +
			"    pass\n",
	})
	return root
}

func TestRunBuildsBackendProfile(t *testing.T) {
	root := flaskProject(t)
	result, err := newTestAnalyzer(t).Run(context.Background(), snapshot.FromPath(root))
	require.NoError(t, err)

	assert.Equal(t, "backend/api", result.Architecture)
	assert.Contains(t, result.Frameworks, "Flask")
	assert.Equal(t, 3, result.TotalFiles)
	assert.False(t, result.Incomplete)

	require.Len(t, result.APIEndpoints, 2)
	assert.Equal(t, "GET", result.APIEndpoints[0].Method)
	assert.Equal(t, "POST", result.APIEndpoints[1].Method)
	for _, ep := range result.APIEndpoints {
		assert.Equal(t, "/api/items/{param}", ep.Route)
		assert.Equal(t, "app/routes.py", ep.File)
		assert.Equal(t, "Flask", ep.Framework)
		assert.Equal(t, 3, ep.Line)
	}

	require.Len(t, result.EntryPoints, 1)
	assert.Equal(t, "main.py", result.EntryPoints[0].File)
	assert.Equal(t, "known entry point filename: main.py", result.EntryPoints[0].Reason)

	assert.Contains(t, result.Components["routes"], "app/routes.py")
	assert.Contains(t, result.Components["other"], "main.py")
}

func TestRunLanguageHistogram(t *testing.T) {
	root := flaskProject(t)
	result, err := newTestAnalyzer(t).Run(context.Background(), snapshot.FromPath(root))
	require.NoError(t, err)

	// main.py has 4 newlines -> 5 lines, routes.py 5 newlines -> 6 lines
	assert.Equal(t, 11, result.Languages["python"])
	// requirements.txt is catalogued but carries no text language
	assert.NotContains(t, result.Languages, "text")
}

func TestRunDependencyGraph(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/__init__.py": "",
		"app/service.py":  "import os\nfrom app.models import Item\n",
		"app/models.py":   "class Item:\n    pass\n",
	})

	result, err := newTestAnalyzer(t).Run(context.Background(), snapshot.FromPath(root))
	require.NoError(t, err)

	edges, ok := result.DependencyGraph["app/service.py"]
	require.True(t, ok)
	assert.Contains(t, edges.Resolved, "app/models.py")
	assert.Contains(t, edges.External, "os")
}

func TestRunIsDeterministic(t *testing.T) {
	root := flaskProject(t)
	snap := snapshot.FromPath(root)
	a := newTestAnalyzer(t)

	first, err := a.Run(context.Background(), snap)
	require.NoError(t, err)
	second, err := a.Run(context.Background(), snap)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunEmptyTree(t *testing.T) {
	result, err := newTestAnalyzer(t).Run(context.Background(), snapshot.FromPath(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, "unknown", result.Architecture)
	assert.Equal(t, 0, result.TotalFiles)
	assert.Empty(t, result.Frameworks)
	assert.Empty(t, result.APIEndpoints)
}

func TestRunLibraryClassification(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"setup.py":       "from setuptools import setup\nsetup(name='pkg')\n",
		"pkg/helpers.py": "def add(a, b):\n    return a + b\n",
	})

	result, err := newTestAnalyzer(t).Run(context.Background(), snapshot.FromPath(root))
	require.NoError(t, err)

	assert.Equal(t, "library", result.Architecture)
}

func TestRunFullstackClassification(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json": `{"dependencies": {"react": "^18.0.0", "express": "^4.18.0"}}`,
		"server.js":    "const app = express()\napp.get('/api/users', handler)\napp.listen(3000)\n",
	})

	result, err := newTestAnalyzer(t).Run(context.Background(), snapshot.FromPath(root))
	require.NoError(t, err)

	assert.Equal(t, "fullstack", result.Architecture)
	assert.Contains(t, result.Frameworks, "React")
	require.NotEmpty(t, result.APIEndpoints)
	assert.Equal(t, "/api/users", result.APIEndpoints[0].Route)
}

func TestRunCancelledContextReturnsPartial(t *testing.T) {
	root := flaskProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestAnalyzer(t).Run(ctx, snapshot.FromPath(root))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Incomplete)
	require.NotEmpty(t, result.Diagnostics)
	assert.Contains(t, result.Diagnostics[0].Message, "deadline exceeded")
}

func TestRunWaitsForTreeWriters(t *testing.T) {
	root := flaskProject(t)
	a := newTestAnalyzer(t)
	snap := snapshot.FromPath(root)

	lock := snapshot.TreeLock(root)
	lock.Lock()

	type outcome struct {
		result *AnalysisResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := a.Run(context.Background(), snap)
		done <- outcome{result, err}
	}()

	select {
	case <-done:
		lock.Unlock()
		t.Fatal("analysis ran while the tree write lock was held")
	case <-time.After(50 * time.Millisecond):
	}

	lock.Unlock()
	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, "backend/api", out.result.Architecture)
}

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/users/:id", "/users/{param}"},
		{"/users/{user_id}/posts/{post_id}", "/users/{param}/posts/{param}"},
		{"/users/<int:user_id>", "/users/{param}"},
		{"/static", "/static"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeRoute(tt.route))
	}
}
