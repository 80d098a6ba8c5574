package fetcher

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/repolens-dev/repolens/internal/snapshot"
	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/errors"
	"github.com/repolens-dev/repolens/pkg/shared/files"
)

// Options control how a remote source is fetched.
type Options struct {
	Branch         string
	AuthType       string
	SSHKeyPath     string
	SSHKeyPassword string
	Username       string
	Token          string
}

// Fetcher materializes a source tree for analysis: local directories are
// wrapped in place, archives are extracted, repository URLs are cloned.
type Fetcher struct {
	cfg    *config.Config
	logger hclog.Logger
}

// New creates a Fetcher.
func New(cfg *config.Config, logger hclog.Logger) *Fetcher {
	return &Fetcher{cfg: cfg, logger: logger}
}

// Fetch turns the source reference into a snapshot ready for analysis.
func (f *Fetcher) Fetch(ctx context.Context, source string, opts Options) (*snapshot.Snapshot, error) {
	expanded, err := files.ExpandPath(source)
	if err != nil {
		return nil, err
	}

	if info, statErr := os.Stat(expanded); statErr == nil {
		if info.IsDir() {
			f.logger.Debug("using local directory as snapshot root", "path", expanded)
			return snapshot.FromPath(expanded), nil
		}
		if files.IsArchive(expanded) {
			return f.extract(expanded)
		}
		return nil, errors.NewUnsupportedSourceError(source, "not a directory, archive or repository URL")
	}

	if isRemoteArchive(source) {
		archivePath, err := f.download(ctx, source)
		if err != nil {
			return nil, err
		}
		defer os.Remove(archivePath)
		return f.extract(archivePath)
	}

	return f.clone(ctx, source, opts)
}

// extract unpacks an archive into a fresh folder below the temp home.
func (f *Fetcher) extract(archivePath string) (*snapshot.Snapshot, error) {
	target := filepath.Join(config.GetTempHome(f.cfg), uuid.New().String())
	if err := files.CreateFolderIfNotExists(target); err != nil {
		return nil, err
	}
	if err := files.ExtractArchive(archivePath, target); err != nil {
		return nil, errors.NewUnsupportedSourceError(archivePath, err.Error())
	}

	root := flattenRoot(target)
	f.logger.Info("archive extracted", "archive", archivePath, "root", root)
	return snapshot.New(snapshot.SourceExtracted, root), nil
}

// flattenRoot descends into a lone top-level folder, the usual layout of
// repository tarballs, so analysis sees the project root directly.
func flattenRoot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return dir
	}
	return filepath.Join(dir, entries[0].Name())
}

func isRemoteArchive(source string) bool {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return false
	}
	parsed, err := url.Parse(source)
	if err != nil {
		return false
	}
	return files.IsArchive(parsed.Path)
}
