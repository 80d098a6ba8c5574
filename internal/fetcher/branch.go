package fetcher

import (
	"context"

	"github.com/gitsight/go-vcsurl"
	"github.com/google/go-github/v47/github"
	"github.com/xanzy/go-gitlab"
)

// defaultBranch asks the hosting platform's API for the repository's default
// branch. Resolution is best effort: on any failure the clone falls back to
// the remote HEAD.
func (f *Fetcher) defaultBranch(ctx context.Context, info *vcsurl.VCS, opts Options) string {
	switch info.Host {
	case vcsurl.GitHub:
		return f.githubDefaultBranch(ctx, info)
	case vcsurl.GitLab:
		return f.gitlabDefaultBranch(info, opts)
	}
	return ""
}

func (f *Fetcher) githubDefaultBranch(ctx context.Context, info *vcsurl.VCS) string {
	client := github.NewClient(nil)
	repo, _, err := client.Repositories.Get(ctx, info.Username, info.Name)
	if err != nil {
		f.logger.Warn("failed to resolve default branch from GitHub", "repository", info.FullName, "error", err)
		return ""
	}
	return repo.GetDefaultBranch()
}

func (f *Fetcher) gitlabDefaultBranch(info *vcsurl.VCS, opts Options) string {
	client, err := gitlab.NewClient(opts.Token)
	if err != nil {
		f.logger.Warn("failed to create GitLab client", "error", err)
		return ""
	}
	project, _, err := client.Projects.GetProject(info.FullName, nil)
	if err != nil {
		f.logger.Warn("failed to resolve default branch from GitLab", "repository", info.FullName, "error", err)
		return ""
	}
	return project.DefaultBranch
}
