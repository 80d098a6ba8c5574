package fetcher

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gitsight/go-vcsurl"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/repolens-dev/repolens/internal/snapshot"
	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/errors"
	"github.com/repolens-dev/repolens/pkg/shared/files"
	log "github.com/repolens-dev/repolens/pkg/shared/logger"
)

// clone fetches a repository into the projects home and wraps the checkout
// as a cloned snapshot. The clone is shallow unless configured otherwise.
func (f *Fetcher) clone(ctx context.Context, cloneURL string, opts Options) (*snapshot.Snapshot, error) {
	info, err := vcsurl.Parse(cloneURL)
	if err != nil {
		f.logger.Error("failed to parse VCS URL", "url", cloneURL, "error", err)
		return nil, errors.NewUnsupportedSourceError(cloneURL, fmt.Sprintf("cannot parse repository URL: %v", err))
	}

	auth, err := setupAuth(opts, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up git authentication: %w", err)
	}

	branch := opts.Branch
	if branch == "" {
		branch = f.defaultBranch(ctx, info, opts)
	}

	target := filepath.Join(config.GetProjectsHome(f.cfg), filepath.FromSlash(info.ID))
	if err := files.RemoveAndRecreate(target); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.cfg.GitClient.Timeout)
	defer cancel()

	cloneOptions := &git.CloneOptions{
		Auth:            auth,
		URL:             cloneURL,
		Progress:        log.GetLoggerOutput(f.logger),
		Depth:           f.cfg.GitClient.Depth,
		InsecureSkipTLS: config.GetBoolPtr(f.cfg.GitClient.InsecureTLS, false),
	}
	if branch != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(branch)
	}

	f.logger.Debug("starting repository clone",
		"repository", info.Name, "branch", branch, "url", cloneURL, "target", target)
	if _, err := git.PlainCloneContext(ctx, target, false, cloneOptions); err != nil {
		f.logger.Error("error occurred during clone", "error", err, "target", target)
		return nil, fmt.Errorf("error occurred during clone: %w", err)
	}

	f.logger.Info("repository cloned", "repository", info.Name, "branch", branch, "target", target)
	return snapshot.New(snapshot.SourceCloned, target), nil
}
