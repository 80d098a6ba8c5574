package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/repolens-dev/repolens/pkg/shared/config"
	"github.com/repolens-dev/repolens/pkg/shared/files"
	"github.com/repolens-dev/repolens/pkg/shared/httpclient"
)

// download pulls a remote archive into the temp home and returns its path.
// The caller removes the file once it is extracted.
func (f *Fetcher) download(ctx context.Context, sourceURL string) (string, error) {
	if err := files.CreateFolderIfNotExists(config.GetTempHome(f.cfg)); err != nil {
		return "", err
	}
	target := filepath.Join(config.GetTempHome(f.cfg), uuid.New().String()+archiveSuffix(sourceURL))

	client := httpclient.NewRestyClient(f.logger, f.cfg)
	f.logger.Debug("downloading archive", "url", sourceURL, "target", target)

	resp, err := client.R().
		SetContext(ctx).
		SetOutput(target).
		Get(sourceURL)
	if err != nil {
		return "", fmt.Errorf("failed to download archive from %q: %w", sourceURL, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to download archive from %q: status %s", sourceURL, resp.Status())
	}
	return target, nil
}

// archiveSuffix keeps the archive extension so extraction can pick the codec.
func archiveSuffix(sourceURL string) string {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	base := path.Base(parsed.Path)
	if idx := indexOfExtension(base); idx >= 0 {
		return base[idx:]
	}
	return ""
}

func indexOfExtension(base string) int {
	for _, ext := range []string{".tar.gz", ".tgz", ".tar", ".zip"} {
		if len(base) > len(ext) && base[len(base)-len(ext):] == ext {
			return len(base) - len(ext)
		}
	}
	return -1
}
