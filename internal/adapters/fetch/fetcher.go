// Package fetch acquires upstream sources from release archives and git repositories.
package fetch

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceFetcher = (*Fetcher)(nil)

const defaultTimeout = 10 * time.Minute

// Fetcher implements ports.SourceFetcher.
type Fetcher struct {
	logger ports.Logger
	client *http.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the client used for archive downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a new Fetcher.
func New(logger ports.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		logger: logger,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves src into dest.
func (f *Fetcher) Fetch(ctx context.Context, src domain.Source, dest, downloads string) (domain.FetchResult, error) {
	if err := os.RemoveAll(dest); err != nil {
		return domain.FetchResult{}, zerr.With(zerr.Wrap(err, domain.ErrWorkspaceFailed.Error()), "path", dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirPerm); err != nil {
		return domain.FetchResult{}, zerr.With(zerr.Wrap(err, domain.ErrWorkspaceFailed.Error()), "path", dest)
	}

	switch src.Kind {
	case domain.SourceArchive:
		return f.fetchArchive(ctx, src, dest, downloads)
	case domain.SourceGit:
		return f.clone(ctx, src, dest)
	default:
		return domain.FetchResult{}, zerr.With(zerr.Wrap(domain.ErrUnsupportedSource, "cannot fetch source"), "kind", string(src.Kind))
	}
}

func (f *Fetcher) fetchArchive(ctx context.Context, src domain.Source, dest, downloads string) (domain.FetchResult, error) {
	if len(src.URLs) == 0 {
		return domain.FetchResult{}, zerr.Wrap(domain.ErrSourceNotDeclared, "archive source has no url")
	}

	archive, url, sum, err := f.download(ctx, src, downloads)
	if err != nil {
		return domain.FetchResult{}, err
	}

	staging := dest + ".extract"
	if err := os.RemoveAll(staging); err != nil {
		return domain.FetchResult{}, zerr.With(zerr.Wrap(err, domain.ErrWorkspaceFailed.Error()), "path", staging)
	}
	defer os.RemoveAll(staging) //nolint:errcheck // Best effort cleanup

	if err := extract(archive, staging); err != nil {
		return domain.FetchResult{}, err
	}

	root, err := archiveRoot(staging, src.RootDir)
	if err != nil {
		return domain.FetchResult{}, zerr.With(err, "url", url)
	}
	if err := os.Rename(root, dest); err != nil {
		return domain.FetchResult{}, zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", dest)
	}

	return domain.FetchResult{Revision: sum, URL: url}, nil
}

// archiveRoot returns the directory inside staging that holds the sources.
// Without an expected root, a single top-level directory is unwrapped.
func archiveRoot(staging, rootDir string) (string, error) {
	if rootDir != "" {
		root := filepath.Join(staging, rootDir)
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return "", zerr.With(zerr.Wrap(domain.ErrUnexpectedLayout, "expected root directory missing"), "root_dir", rootDir)
		}
		return root, nil
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", staging)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(staging, entries[0].Name()), nil
	}
	return staging, nil
}
