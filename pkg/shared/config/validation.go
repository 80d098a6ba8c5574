package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Built-in engine defaults. Ignore globs cover version-control metadata and
// dependency caches that never carry project source.
var (
	defaultIgnoreGlobs = []string{
		".git", ".hg", ".svn",
		"node_modules", "vendor", "target", "dist", "build",
		"__pycache__", ".venv", "venv", "env", ".tox",
		".mypy_cache", ".pytest_cache", ".next", ".nuxt",
		".idea", ".vscode", "coverage", ".cache", "*.egg-info",
	}
	defaultMaxFileSize = int64(1 * 1024 * 1024)
	defaultMaxFiles    = 20000
	defaultScanTimeout = 5 * time.Minute
)

// ValidateConfig checks the loaded configuration and fills in defaults for
// every directive that was left unset.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := validateHomeConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: repolens directive is invalid: %w", err)
	}
	if err := validateGitConfig(&cfg.GitClient); err != nil {
		return fmt.Errorf("YAML global config: git_client directive is invalid: %w", err)
	}
	if err := validateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := validateEngineConfig(&cfg.Engine); err != nil {
		return fmt.Errorf("YAML global config: engine directive is invalid: %w", err)
	}
	return nil
}

// validateHomeConfig resolves the home folder and its subfolders, honoring
// environment overrides in the same priority order as the config file.
func validateHomeConfig(cfg *Config) error {
	if cfg.RepoLens.HomeFolder == "" {
		if env := os.Getenv("REPOLENS_HOME"); env != "" {
			cfg.RepoLens.HomeFolder = env
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to resolve user home directory: %w", err)
			}
			cfg.RepoLens.HomeFolder = filepath.Join(home, ".repolens")
		}
	}

	if err := updateFolder(&cfg.RepoLens.ProjectsFolder, "REPOLENS_PROJECTS_FOLDER", "projects", cfg); err != nil {
		return err
	}
	if err := updateFolder(&cfg.RepoLens.ResultsFolder, "REPOLENS_RESULTS_FOLDER", "results", cfg); err != nil {
		return err
	}
	if err := updateFolder(&cfg.RepoLens.TempFolder, "REPOLENS_TEMP_FOLDER", "tmp", cfg); err != nil {
		return err
	}
	return nil
}

// updateFolder resolves one subfolder location: explicit config value wins,
// then an environment variable, then a default below the home folder.
func updateFolder(target *string, envVar, defaultName string, cfg *Config) error {
	if *target != "" {
		return nil
	}
	if env := os.Getenv(envVar); env != "" {
		*target = env
		return nil
	}
	if cfg.RepoLens.HomeFolder == "" {
		return fmt.Errorf("home folder is not resolved, cannot derive %q", defaultName)
	}
	*target = filepath.Join(cfg.RepoLens.HomeFolder, defaultName)
	return nil
}

func validateGitConfig(gitConfig *GitClient) error {
	if gitConfig == nil {
		return fmt.Errorf("git configuration is nil")
	}
	gitConfig.Depth = SetThen(gitConfig.Depth, 1)
	gitConfig.Timeout = SetThen(gitConfig.Timeout, 2*time.Minute)
	return nil
}

func validateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("http configuration is nil")
	}
	httpConfig.RetryCount = SetThen(httpConfig.RetryCount, 3)
	httpConfig.RetryWaitTime = SetThen(httpConfig.RetryWaitTime, 1*time.Second)
	httpConfig.RetryMaxWaitTime = SetThen(httpConfig.RetryMaxWaitTime, 5*time.Second)
	httpConfig.Timeout = SetThen(httpConfig.Timeout, 30*time.Second)
	return nil
}

func validateEngineConfig(engine *Engine) error {
	if engine == nil {
		return fmt.Errorf("engine configuration is nil")
	}
	if len(engine.IgnoreGlobs) == 0 {
		engine.IgnoreGlobs = append([]string{}, defaultIgnoreGlobs...)
	}
	engine.MaxFileSize = SetThen(engine.MaxFileSize, defaultMaxFileSize)
	engine.MaxFiles = SetThen(engine.MaxFiles, defaultMaxFiles)
	engine.ScanTimeout = SetThen(engine.ScanTimeout, defaultScanTimeout)
	if engine.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", engine.Workers)
	}
	return nil
}

// GetProjectsHome returns the folder where fetched snapshots are materialized.
func GetProjectsHome(cfg *Config) string {
	return cfg.RepoLens.ProjectsFolder
}

// GetResultsHome returns the folder where analysis and scan results are kept.
func GetResultsHome(cfg *Config) string {
	return cfg.RepoLens.ResultsFolder
}

// GetTempHome returns the folder for transient downloads and extractions.
func GetTempHome(cfg *Config) string {
	return cfg.RepoLens.TempFolder
}
