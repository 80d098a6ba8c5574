package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadConfigReadsYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `repolens:
  home_folder: /opt/repolens
logger:
  level: debug
git_client:
  depth: 5
  timeout: 90s
engine:
  max_files: 100
  workers: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/repolens", cfg.RepoLens.HomeFolder)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 5, cfg.GitClient.Depth)
	assert.Equal(t, 90*time.Second, cfg.GitClient.Timeout)
	assert.Equal(t, 100, cfg.Engine.MaxFiles)
	assert.Equal(t, 4, cfg.Engine.Workers)
}

func TestLoadConfigMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateConfigAppliesDefaults(t *testing.T) {
	cfg := &Config{RepoLens: RepoLens{HomeFolder: "/opt/repolens"}}
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, filepath.Join("/opt/repolens", "projects"), cfg.RepoLens.ProjectsFolder)
	assert.Equal(t, filepath.Join("/opt/repolens", "results"), cfg.RepoLens.ResultsFolder)
	assert.Equal(t, filepath.Join("/opt/repolens", "tmp"), cfg.RepoLens.TempFolder)

	assert.Equal(t, 1, cfg.GitClient.Depth)
	assert.Equal(t, 2*time.Minute, cfg.GitClient.Timeout)

	assert.Equal(t, 3, cfg.HTTPClient.RetryCount)
	assert.Equal(t, 30*time.Second, cfg.HTTPClient.Timeout)

	assert.NotEmpty(t, cfg.Engine.IgnoreGlobs)
	assert.Contains(t, cfg.Engine.IgnoreGlobs, ".git")
	assert.Contains(t, cfg.Engine.IgnoreGlobs, "node_modules")
	assert.Equal(t, int64(1*1024*1024), cfg.Engine.MaxFileSize)
	assert.Equal(t, 20000, cfg.Engine.MaxFiles)
	assert.Equal(t, 5*time.Minute, cfg.Engine.ScanTimeout)
}

func TestValidateConfigKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		RepoLens: RepoLens{
			HomeFolder:     "/opt/repolens",
			ProjectsFolder: "/data/projects",
		},
		GitClient: GitClient{Depth: 10},
		Engine:    Engine{MaxFiles: 50, IgnoreGlobs: []string{".git"}},
	}
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "/data/projects", cfg.RepoLens.ProjectsFolder)
	assert.Equal(t, 10, cfg.GitClient.Depth)
	assert.Equal(t, 50, cfg.Engine.MaxFiles)
	assert.Equal(t, []string{".git"}, cfg.Engine.IgnoreGlobs)
}

func TestValidateConfigHomeFromEnvironment(t *testing.T) {
	t.Setenv("REPOLENS_HOME", "/env/home")
	t.Setenv("REPOLENS_RESULTS_FOLDER", "/env/results")

	cfg := &Config{}
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "/env/home", cfg.RepoLens.HomeFolder)
	assert.Equal(t, filepath.Join("/env/home", "projects"), cfg.RepoLens.ProjectsFolder)
	assert.Equal(t, "/env/results", cfg.RepoLens.ResultsFolder)
}

func TestValidateConfigRejectsNegativeWorkers(t *testing.T) {
	cfg := &Config{
		RepoLens: RepoLens{HomeFolder: "/opt/repolens"},
		Engine:   Engine{Workers: -1},
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestValidateConfigNil(t *testing.T) {
	assert.Error(t, ValidateConfig(nil))
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, 5, SetThen(0, 5))
	assert.Equal(t, 3, SetThen(3, 5))
	assert.Equal(t, "fallback", SetThen("", "fallback"))
	assert.Equal(t, time.Minute, SetThen(time.Duration(0), time.Minute))
}

func TestGetBoolPtr(t *testing.T) {
	value := true
	assert.True(t, GetBoolPtr(&value, false))
	assert.False(t, GetBoolPtr(nil, false))
	assert.True(t, GetBoolPtr(nil, true))
}
