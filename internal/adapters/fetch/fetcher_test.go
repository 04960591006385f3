package fetch_test

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"go.trai.ch/kiln/internal/adapters/fetch"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type entry struct {
	name    string
	content string
	link    string
}

var jinjaTree = []entry{
	{name: "Jinja2Cpp-1.1.0/CMakeLists.txt", content: "project(Jinja2Cpp)"},
	{name: "Jinja2Cpp-1.1.0/LICENSE", content: "MIT"},
	{name: "Jinja2Cpp-1.1.0/include/jinja2cpp/template.h", content: "#pragma once"},
}

func tarball(t *testing.T, entries []entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		if e.link != "" {
			require.NoError(t, tw.WriteHeader(&tar.Header{Name: e.name, Typeflag: tar.TypeSymlink, Linkname: e.link, Mode: 0o777}))
			continue
		}
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: e.name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(e.content))}))
		_, err := tw.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func serve(t *testing.T, files map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFetcher(t *testing.T, srv *httptest.Server) *fetch.Fetcher {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return fetch.New(log, fetch.WithHTTPClient(srv.Client()))
}

func TestFetch_ArchiveTarGz(t *testing.T) {
	t.Parallel()

	data := gzipped(t, tarball(t, jinjaTree))
	srv := serve(t, map[string][]byte{"/1.1.0.tar.gz": data})
	work := t.TempDir()
	dest := filepath.Join(work, "source_subfolder")

	sum := digest.SHA256.FromBytes(data)
	src := domain.Source{
		Kind:    domain.SourceArchive,
		URLs:    []string{srv.URL + "/1.1.0.tar.gz"},
		SHA256:  sum.Encoded(),
		RootDir: "Jinja2Cpp-1.1.0",
	}

	res, err := newFetcher(t, srv).Fetch(context.Background(), src, dest, filepath.Join(work, "downloads"))
	require.NoError(t, err)

	assert.Equal(t, sum.String(), res.Revision)
	assert.Equal(t, src.URLs[0], res.URL)
	content, err := os.ReadFile(filepath.Join(dest, "include", "jinja2cpp", "template.h"))
	require.NoError(t, err)
	assert.Equal(t, "#pragma once", string(content))
	assert.NoDirExists(t, dest+".extract")
	assert.FileExists(t, filepath.Join(work, "downloads", "1.1.0.tar.gz"))
}

func TestFetch_ChecksumMismatch(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string][]byte{"/1.1.0.tar.gz": gzipped(t, tarball(t, jinjaTree))})
	work := t.TempDir()

	src := domain.Source{
		Kind:    domain.SourceArchive,
		URLs:    []string{srv.URL + "/1.1.0.tar.gz"},
		SHA256:  digest.SHA256.FromString("something else").Encoded(),
		RootDir: "Jinja2Cpp-1.1.0",
	}

	_, err := newFetcher(t, srv).Fetch(context.Background(), src, filepath.Join(work, "src"), filepath.Join(work, "downloads"))
	require.ErrorIs(t, err, domain.ErrChecksumMismatch)
	assert.NoFileExists(t, filepath.Join(work, "downloads", "1.1.0.tar.gz"))
	assert.NoDirExists(t, filepath.Join(work, "src"))
}

func TestFetch_UsesCachedArchive(t *testing.T) {
	t.Parallel()

	data := gzipped(t, tarball(t, jinjaTree))
	work := t.TempDir()
	downloads := filepath.Join(work, "downloads")
	require.NoError(t, os.MkdirAll(downloads, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(downloads, "1.1.0.tar.gz"), data, 0o600))

	srv := serve(t, map[string][]byte{})
	src := domain.Source{
		Kind:    domain.SourceArchive,
		URLs:    []string{srv.URL + "/1.1.0.tar.gz"},
		SHA256:  digest.SHA256.FromBytes(data).Encoded(),
		RootDir: "Jinja2Cpp-1.1.0",
	}

	_, err := newFetcher(t, srv).Fetch(context.Background(), src, filepath.Join(work, "src"), downloads)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(work, "src", "LICENSE"))
}

func TestFetch_MirrorFallback(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string][]byte{"/mirror/1.1.0.tar.gz": gzipped(t, tarball(t, jinjaTree))})
	work := t.TempDir()

	src := domain.Source{
		Kind:    domain.SourceArchive,
		URLs:    []string{srv.URL + "/missing/1.1.0.tar.gz", srv.URL + "/mirror/1.1.0.tar.gz"},
		RootDir: "Jinja2Cpp-1.1.0",
	}

	res, err := newFetcher(t, srv).Fetch(context.Background(), src, filepath.Join(work, "src"), filepath.Join(work, "downloads"))
	require.NoError(t, err)
	assert.Equal(t, src.URLs[1], res.URL)
}

func TestFetch_DownloadFailed(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string][]byte{})
	work := t.TempDir()

	src := domain.Source{Kind: domain.SourceArchive, URLs: []string{srv.URL + "/1.1.0.tar.gz"}}

	_, err := newFetcher(t, srv).Fetch(context.Background(), src, filepath.Join(work, "src"), filepath.Join(work, "downloads"))
	require.ErrorIs(t, err, domain.ErrDownloadFailed)
}

func TestFetch_UnexpectedLayout(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string][]byte{"/1.1.0.tar.gz": gzipped(t, tarball(t, jinjaTree))})
	work := t.TempDir()

	src := domain.Source{
		Kind:    domain.SourceArchive,
		URLs:    []string{srv.URL + "/1.1.0.tar.gz"},
		RootDir: "jinja2cpp-1.1.0",
	}

	_, err := newFetcher(t, srv).Fetch(context.Background(), src, filepath.Join(work, "src"), filepath.Join(work, "downloads"))
	require.ErrorIs(t, err, domain.ErrUnexpectedLayout)
}

func TestFetch_UnsafeEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []entry
	}{
		{name: "parent traversal", entries: []entry{{name: "../evil", content: "x"}}},
		{name: "nested traversal", entries: []entry{{name: "root/../../evil", content: "x"}}},
		{name: "symlink escape", entries: []entry{{name: "root/link", link: "../../etc/passwd"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := serve(t, map[string][]byte{"/a.tar.gz": gzipped(t, tarball(t, tt.entries))})
			work := t.TempDir()
			src := domain.Source{Kind: domain.SourceArchive, URLs: []string{srv.URL + "/a.tar.gz"}}

			_, err := newFetcher(t, srv).Fetch(context.Background(), src, filepath.Join(work, "src"), filepath.Join(work, "downloads"))
			require.ErrorIs(t, err, domain.ErrUnsafeArchivePath)
			assert.NoFileExists(t, filepath.Join(work, "evil"))
		})
	}
}

func TestFetch_UnsupportedArchive(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string][]byte{"/source.rar": []byte("rar")})
	work := t.TempDir()
	src := domain.Source{Kind: domain.SourceArchive, URLs: []string{srv.URL + "/source.rar"}}

	_, err := newFetcher(t, srv).Fetch(context.Background(), src, filepath.Join(work, "src"), filepath.Join(work, "downloads"))
	require.ErrorIs(t, err, domain.ErrUnsupportedArchive)
}

func TestFetch_Formats(t *testing.T) {
	t.Parallel()

	raw := tarball(t, jinjaTree)

	var xzBuf bytes.Buffer
	xw, err := xz.NewWriter(&xzBuf)
	require.NoError(t, err)
	_, err = xw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, xw.Close())

	var zstBuf bytes.Buffer
	zw, err := zstd.NewWriter(&zstBuf)
	require.NoError(t, err)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var zipBuf bytes.Buffer
	archive := zip.NewWriter(&zipBuf)
	for _, e := range jinjaTree {
		w, err := archive.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, archive.Close())

	files := map[string][]byte{
		"/src.tar":     raw,
		"/src.tar.xz":  xzBuf.Bytes(),
		"/src.tar.zst": zstBuf.Bytes(),
		"/src.zip":     zipBuf.Bytes(),
	}
	srv := serve(t, files)

	for name := range files {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			work := t.TempDir()
			src := domain.Source{Kind: domain.SourceArchive, URLs: []string{srv.URL + name}}

			_, err := newFetcher(t, srv).Fetch(context.Background(), src, filepath.Join(work, "src"), filepath.Join(work, "downloads"))
			require.NoError(t, err)
			assert.FileExists(t, filepath.Join(work, "src", "CMakeLists.txt"))
		})
	}
}

func TestFetch_ReplacesExistingDest(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string][]byte{"/1.1.0.tar.gz": gzipped(t, tarball(t, jinjaTree))})
	work := t.TempDir()
	dest := filepath.Join(work, "src")
	require.NoError(t, os.MkdirAll(dest, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "stale"), []byte("x"), 0o600))

	src := domain.Source{Kind: domain.SourceArchive, URLs: []string{srv.URL + "/1.1.0.tar.gz"}, RootDir: "Jinja2Cpp-1.1.0"}

	_, err := newFetcher(t, srv).Fetch(context.Background(), src, dest, filepath.Join(work, "downloads"))
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dest, "stale"))
}

func TestFetch_UnsupportedSource(t *testing.T) {
	t.Parallel()

	srv := serve(t, nil)
	work := t.TempDir()

	_, err := newFetcher(t, srv).Fetch(context.Background(), domain.Source{Kind: "svn"}, filepath.Join(work, "src"), work)
	require.ErrorIs(t, err, domain.ErrUnsupportedSource)
}
