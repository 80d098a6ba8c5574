package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config is the root configuration for the repolens core and its commands.
type Config struct {
	RepoLens   RepoLens   `yaml:"repolens"`
	Logger     Logger     `yaml:"logger"`
	GitClient  GitClient  `yaml:"git_client"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Engine     Engine     `yaml:"engine"`
}

// RepoLens holds folder locations used by commands and the engine.
type RepoLens struct {
	HomeFolder     string `yaml:"home_folder"`
	ProjectsFolder string `yaml:"projects_folder"`
	ResultsFolder  string `yaml:"results_folder"`
	TempFolder     string `yaml:"temp_folder"`
}

// Logger holds logging configuration.
type Logger struct {
	Level string `yaml:"level"`
}

// GitClient holds settings for repository fetch operations.
type GitClient struct {
	Depth       int           `yaml:"depth"`
	Timeout     time.Duration `yaml:"timeout"`
	InsecureTLS *bool         `yaml:"insecure_tls"`
}

// HTTPClient holds settings for the shared resty HTTP client.
type HTTPClient struct {
	Debug            bool          `yaml:"debug"`
	RetryCount       int           `yaml:"retry_count"`
	RetryWaitTime    time.Duration `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration `yaml:"retry_max_wait_time"`
	Timeout          time.Duration `yaml:"timeout"`
	TLSVerify        *bool         `yaml:"tls_verify"`
	Proxy            string        `yaml:"proxy"`
}

// Engine holds tunables for the analysis and security scanning engine.
type Engine struct {
	IgnoreGlobs      []string      `yaml:"ignore_globs"`
	MaxFileSize      int64         `yaml:"max_file_size"`
	MaxFiles         int           `yaml:"max_files"`
	ScanTimeout      time.Duration `yaml:"scan_timeout"`
	Workers          int           `yaml:"workers"`
	EnabledLanguages []string      `yaml:"enabled_languages"`
	RegistryPath     string        `yaml:"registry_path"`
}

// LoadConfig reads the YAML configuration file at the given path. A missing
// file is not an error: the defaults applied by ValidateConfig take over.
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to stat config file %q: %w", configPath, err)
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %q: %w", configPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %q: %w", configPath, err)
	}

	return cfg, nil
}
