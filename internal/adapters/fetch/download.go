package fetch

import (
	"context"
	_ "crypto/sha256" // registers the sha256 digest algorithm
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// download stores the archive of src in downloads. Mirrors are tried in order
// until one responds; a checksum mismatch is final.
func (f *Fetcher) download(ctx context.Context, src domain.Source, downloads string) (file, url, sum string, err error) {
	var expected digest.Digest
	if src.SHA256 != "" {
		expected = digest.NewDigestFromEncoded(digest.SHA256, strings.ToLower(src.SHA256))
		if err := expected.Validate(); err != nil {
			return "", "", "", zerr.With(zerr.Wrap(err, domain.ErrChecksumMismatch.Error()), "sha256", src.SHA256)
		}
	} else {
		f.logger.Warn("no sha256 declared for " + src.URLs[0] + ", archive is not verified")
	}

	if err := os.MkdirAll(downloads, domain.DirPerm); err != nil {
		return "", "", "", zerr.With(zerr.Wrap(err, domain.ErrWorkspaceFailed.Error()), "path", downloads)
	}

	for _, u := range src.URLs {
		target := filepath.Join(downloads, archiveName(u))
		if expected != "" && cached(target, expected) {
			f.logger.Info("using cached archive " + target)
			return target, u, expected.String(), nil
		}
	}

	var lastErr error
	for _, u := range src.URLs {
		target := filepath.Join(downloads, archiveName(u))
		f.logger.Info("downloading " + u)

		got, err := f.get(ctx, u, target)
		if err != nil {
			lastErr = err
			f.logger.Warn("download failed: " + u)
			continue
		}

		if expected != "" && got != expected {
			_ = os.Remove(target)
			err := zerr.Wrap(domain.ErrChecksumMismatch, "archive checksum does not match")
			err = zerr.With(err, "url", u)
			err = zerr.With(err, "expected", expected.Encoded())
			return "", "", "", zerr.With(err, "actual", got.Encoded())
		}
		return target, u, got.String(), nil
	}
	return "", "", "", lastErr
}

func (f *Fetcher) get(ctx context.Context, url, target string) (digest.Digest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body

	if resp.StatusCode != http.StatusOK {
		err := zerr.Wrap(domain.ErrDownloadFailed, "unexpected response status")
		return "", zerr.With(zerr.With(err, "url", url), "status", resp.StatusCode)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.PrivateFilePerm) //nolint:gosec // Path is built from the workspace
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", target)
	}

	digester := digest.SHA256.Digester()
	if _, err := io.Copy(io.MultiWriter(out, digester.Hash()), resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return "", zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", url)
	}
	if err := out.Close(); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", target)
	}
	return digester.Digest(), nil
}

// cached reports whether target exists and matches expected.
func cached(target string, expected digest.Digest) bool {
	file, err := os.Open(target) //nolint:gosec // Path is built from the workspace
	if err != nil {
		return false
	}
	defer file.Close() //nolint:errcheck // Read-only handle

	verifier := expected.Verifier()
	if _, err := io.Copy(verifier, file); err != nil {
		return false
	}
	return verifier.Verified()
}

// archiveName derives the local file name of a download from its url.
func archiveName(url string) string {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	name := path.Base(trimmed)
	if name == "" || name == "." || name == "/" {
		return "source.archive"
	}
	return name
}
