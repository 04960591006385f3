package fetch

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

type format int

const (
	formatUnknown format = iota
	formatTarGz
	formatTarXz
	formatTarZst
	formatTar
	formatZip
)

func detectFormat(name string) format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return formatTarGz
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return formatTarXz
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		return formatTarZst
	case strings.HasSuffix(lower, ".tar"):
		return formatTar
	case strings.HasSuffix(lower, ".zip"):
		return formatZip
	default:
		return formatUnknown
	}
}

// extract unpacks archive into dest according to its file extension.
func extract(archive, dest string) error {
	kind := detectFormat(archive)
	if kind == formatUnknown {
		return zerr.With(zerr.Wrap(domain.ErrUnsupportedArchive, "cannot detect archive format"), "archive", filepath.Base(archive))
	}
	if err := os.MkdirAll(dest, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", dest)
	}

	if kind == formatZip {
		return extractZip(archive, dest)
	}

	file, err := os.Open(archive) //nolint:gosec // Path is built from the workspace
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", archive)
	}
	defer file.Close() //nolint:errcheck // Read-only handle

	var r io.Reader = file
	switch kind {
	case formatTarGz:
		gz, err := gzip.NewReader(file)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "archive", archive)
		}
		defer gz.Close() //nolint:errcheck // Read-only stream
		r = gz
	case formatTarXz:
		xr, err := xz.NewReader(file)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "archive", archive)
		}
		r = xr
	case formatTarZst:
		zr, err := zstd.NewReader(file)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "archive", archive)
		}
		defer zr.Close()
		r = zr
	}

	if err := extractTar(tar.NewReader(r), dest); err != nil {
		return zerr.With(err, "archive", filepath.Base(archive))
	}
	return nil
}

func extractTar(tr *tar.Reader, dest string) error {
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, domain.ErrExtractFailed.Error())
		}

		target, ok, err := entryPath(dest, header.Name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", target)
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, os.FileMode(header.Mode).Perm()); err != nil { //nolint:gosec // Mode is masked to permission bits
				return err
			}
		case tar.TypeSymlink:
			if err := symlinkEntry(dest, target, header.Linkname); err != nil {
				return err
			}
		default:
			// pax headers, hard links and devices carry nothing a source tree needs
		}
	}
}

func extractZip(archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "archive", archive)
	}
	defer zr.Close() //nolint:errcheck // Read-only handle

	for _, f := range zr.File {
		target, ok, err := entryPath(dest, f.Name)
		if err != nil {
			return zerr.With(err, "archive", filepath.Base(archive))
		}
		if !ok {
			continue
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", target)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "entry", f.Name)
		}
		err = writeEntry(target, rc, f.Mode().Perm())
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// entryPath maps an archive entry name below dest. Entries that would land
// outside dest are rejected.
func entryPath(dest, name string) (string, bool, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(name), "./")
	if clean == "" || clean == "." {
		return "", false, nil
	}
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "/") {
		return "", false, zerr.With(zerr.Wrap(domain.ErrUnsafeArchivePath, "absolute entry path"), "entry", name)
	}

	target := filepath.Join(dest, filepath.FromSlash(clean))
	if !inside(dest, target) {
		return "", false, zerr.With(zerr.Wrap(domain.ErrUnsafeArchivePath, "entry escapes destination"), "entry", name)
	}
	return target, true, nil
}

func inside(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func writeEntry(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", target)
	}
	if perm == 0 {
		perm = domain.FilePerm
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm) //nolint:gosec // Path checked by entryPath
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", target)
	}
	if _, err := io.Copy(out, r); err != nil { //nolint:gosec // Upstream source archives are trusted in size
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", target)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", target)
	}
	return nil
}

func symlinkEntry(dest, target, link string) error {
	resolved := link
	if !filepath.IsAbs(link) {
		resolved = filepath.Join(filepath.Dir(target), link)
	}
	if filepath.IsAbs(link) || !inside(dest, resolved) {
		return zerr.With(zerr.Wrap(domain.ErrUnsafeArchivePath, "symlink escapes destination"), "link", link)
	}

	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", target)
	}
	_ = os.Remove(target)
	if err := os.Symlink(link, target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrExtractFailed.Error()), "path", target)
	}
	return nil
}
