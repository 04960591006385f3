package fetch

import (
	"context"
	"io"
	"os"
	"regexp"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var commitHash = regexp.MustCompile(`^[0-9a-f]{40}$`)

// clone checks out src into dest and returns the commit it resolved to.
func (f *Fetcher) clone(ctx context.Context, src domain.Source, dest string) (domain.FetchResult, error) {
	if len(src.URLs) == 0 {
		return domain.FetchResult{}, zerr.Wrap(domain.ErrSourceNotDeclared, "git source has no url")
	}
	url := src.URLs[0]

	var progress io.Writer
	if v, ok := ports.VertexFromContext(ctx); ok {
		progress = v.Stderr()
	}

	if !src.Pinned() {
		f.logger.Warn("cloning " + url + " at the upstream default branch, the source is not pinned")
	} else {
		f.logger.Info("cloning " + url + " at " + src.Ref)
	}

	repo, err := f.cloneAt(ctx, url, src.Ref, dest, progress)
	if err != nil {
		return domain.FetchResult{}, err
	}

	head, err := repo.Head()
	if err != nil {
		return domain.FetchResult{}, zerr.With(zerr.Wrap(err, domain.ErrCloneFailed.Error()), "url", url)
	}
	return domain.FetchResult{Revision: head.Hash().String(), URL: url}, nil
}

func (f *Fetcher) cloneAt(ctx context.Context, url, ref, dest string, progress io.Writer) (*git.Repository, error) {
	if ref == "" {
		repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:      url,
			Depth:    1,
			Progress: progress,
		})
		if err != nil {
			return nil, cloneError(err, url, ref)
		}
		return repo, nil
	}

	if commitHash.MatchString(ref) {
		repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:      url,
			Progress: progress,
		})
		if err != nil {
			return nil, cloneError(err, url, ref)
		}
		wt, err := repo.Worktree()
		if err != nil {
			return nil, cloneError(err, url, ref)
		}
		if err := wt.Checkout(&git.CheckoutOptions{Hash: plumbing.NewHash(ref), Force: true}); err != nil {
			return nil, cloneError(err, url, ref)
		}
		return repo, nil
	}

	var lastErr error
	for _, name := range []plumbing.ReferenceName{
		plumbing.NewTagReferenceName(ref),
		plumbing.NewBranchReferenceName(ref),
	} {
		repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:           url,
			ReferenceName: name,
			SingleBranch:  true,
			Depth:         1,
			Progress:      progress,
		})
		if err == nil {
			return repo, nil
		}
		lastErr = err
		_ = os.RemoveAll(dest)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, cloneError(lastErr, url, ref)
}

func cloneError(err error, url, ref string) error {
	wrapped := zerr.With(zerr.Wrap(err, domain.ErrCloneFailed.Error()), "url", url)
	if ref != "" {
		wrapped = zerr.With(wrapped, "ref", ref)
	}
	return wrapped
}
