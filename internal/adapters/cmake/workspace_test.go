package cmake_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/cmake"
	"go.trai.ch/kiln/internal/adapters/shell"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeCMake fails unless every directory it is given exists as seen from its own
// working directory, which is the build folder.
const fakeCMake = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    -S|-B|--build|--install|--prefix)
      [ -d "$2" ] || { echo "$1 $2 not found from $(pwd)" >&2; exit 3; }
      shift 2 ;;
    -DCMAKE_INSTALL_PREFIX=*)
      [ -d "${1#-DCMAKE_INSTALL_PREFIX=}" ] || { echo "$1 not found from $(pwd)" >&2; exit 3; }
      shift ;;
    *) shift ;;
  esac
done
`

func TestGenerator_RelativeWorkspace(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as cmake")
	}

	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o750))
	//nolint:gosec // test executable
	require.NoError(t, os.WriteFile(filepath.Join(bin, cmake.Binary), []byte(fakeCMake), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Chdir(root)

	ref := domain.Ref{Name: "jinja2cpp", Version: "1.1.0"}
	ws := domain.NewWorkspace(domain.DefaultWorkPath(), domain.DefaultPackagesPath(), ref)
	for _, dir := range []string{ws.Source, ws.Build, ws.Staging} {
		require.NoError(t, os.MkdirAll(dir, 0o750))
	}

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	gen := cmake.NewGenerator(shell.NewExecutor(logger))
	req := request(t, "Ninja")
	req.SourceDir = ws.Source
	req.BuildDir = ws.Build
	req.PackageDir = ws.Staging

	ctx := context.Background()
	require.NoError(t, gen.Configure(ctx, req))
	require.FileExists(t, filepath.Join(root, ws.Build, cmake.BuildInfoFile))
	require.NoError(t, gen.Build(ctx, req))
	require.NoError(t, gen.Install(ctx, req))
}
