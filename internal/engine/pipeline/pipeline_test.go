package pipeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/recipes/jinja2cpp"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	fetcher   *mocks.MockSourceFetcher
	patcher   *mocks.MockPatcher
	generator *mocks.MockGenerator
	packager  *mocks.MockPackager
	hasher    *mocks.MockHasher
	store     *mocks.MockPackageStore
	logger    *mocks.MockLogger

	pipeline *pipeline.Pipeline
	paths    pipeline.Paths
	ref      domain.Ref
	ws       domain.Workspace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		fetcher:   mocks.NewMockSourceFetcher(ctrl),
		patcher:   mocks.NewMockPatcher(ctrl),
		generator: mocks.NewMockGenerator(ctrl),
		packager:  mocks.NewMockPackager(ctrl),
		hasher:    mocks.NewMockHasher(ctrl),
		store:     mocks.NewMockPackageStore(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
	}
	f.pipeline = pipeline.New(f.fetcher, f.patcher, f.generator, f.packager, f.hasher, f.store, f.logger)

	root := t.TempDir()
	f.paths = pipeline.Paths{
		Store:     filepath.Join(root, "store"),
		Work:      filepath.Join(root, "work"),
		Packages:  filepath.Join(root, "packages"),
		Downloads: filepath.Join(root, "downloads"),
	}
	f.ref = domain.Ref{Name: jinja2cpp.Name, Version: jinja2cpp.Version}
	f.ws = domain.NewWorkspace(f.paths.Work, f.paths.Packages, f.ref)

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	return f
}

func (f *fixture) request(t *testing.T, deps map[string]string) pipeline.Request {
	t.Helper()
	recipe, err := jinja2cpp.New()
	require.NoError(t, err)
	return pipeline.Request{
		Recipe: recipe,
		Settings: domain.Settings{
			OS:        domain.OSLinux,
			Arch:      "x86_64",
			Compiler:  domain.CompilerGCC,
			BuildType: domain.BuildRelease,
		},
		Dependencies: deps,
		Generator:    "Ninja",
		Jobs:         2,
		Paths:        f.paths,
	}
}

// expectBuild sets up a complete successful run and returns the stored info.
func (f *fixture) expectBuild(keepWork bool) *domain.PackageInfo {
	stored := &domain.PackageInfo{}

	calls := []any{
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), f.ws.Source, f.paths.Downloads).DoAndReturn(
			func(_ context.Context, src domain.Source, _, _ string) (domain.FetchResult, error) {
				if src.RootDir != "Jinja2Cpp-1.1.0" {
					return domain.FetchResult{}, errors.New("unexpected source")
				}
				return domain.FetchResult{Revision: "sha256:feed", URL: src.URLs[0]}, nil
			}),
		f.patcher.EXPECT().Apply(f.ws.Source, gomock.Len(0)).Return(nil),
		f.hasher.EXPECT().ComputeTreeHash(f.ws.Source).Return("5f1c2a7d9e0b3c48", nil),
		f.packager.EXPECT().Prune(f.ws.Root, []string{domain.BuildSubfolder, domain.PackageStaging}).Return(nil),
		f.generator.EXPECT().Configure(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req domain.GenerateRequest) error {
				if req.PackageDir != f.ws.Staging || req.Jobs != 2 || len(req.Dependencies) != 7 {
					return errors.New("unexpected configure request")
				}
				return nil
			}),
		f.generator.EXPECT().Build(gomock.Any(), gomock.Any()).Return(nil),
		f.generator.EXPECT().Install(gomock.Any(), gomock.Any()).Return(nil),
		f.packager.EXPECT().Copy(gomock.Any(), f.ws.Source, f.ws.Staging).Return([]string{"LICENSE"}, nil),
		f.packager.EXPECT().Prune(f.ws.Staging, []string{"lib/jinja2cpp", "share"}).Return(nil),
		f.packager.EXPECT().CollectLibs(f.ws.Staging).Return([]string{"jinja2cpp"}, nil),
		f.packager.EXPECT().Promote(f.ws.Staging, f.ws.Package).Return(nil),
		f.store.EXPECT().Put(f.paths.Store, gomock.Any()).DoAndReturn(func(_ string, info domain.PackageInfo) error {
			*stored = info
			return nil
		}),
	}
	if !keepWork {
		calls = append(calls, f.packager.EXPECT().Prune(f.paths.Work, []string{"jinja2cpp-1.1.0"}).Return(nil))
	}
	gomock.InOrder(calls...)
	return stored
}

func TestRun_IncompatibleFmtAbortsBeforeGenerator(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.logger.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := f.pipeline.Run(context.Background(), telemetry.NewNoOp(), f.request(t, map[string]string{"fmt": "7.0.0"}))
	require.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	var z *zerr.Error
	require.ErrorAs(t, err, &z)
	assert.Equal(t, pipeline.StageValidate, z.Metadata()["stage"])
}

func TestRun_CompatibleFmtProceeds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.hasher.EXPECT().ComputePackageID(gomock.Any()).Return("0123456789abcdef")
	f.store.EXPECT().Get(f.paths.Store, f.ref).Return(nil, nil)
	stored := f.expectBuild(false)

	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	pipeline.SetNow(f.pipeline, func() time.Time { return now })

	res, err := f.pipeline.Run(context.Background(), telemetry.NewNoOp(), f.request(t, map[string]string{"fmt": "6.2.1"}))
	require.NoError(t, err)

	assert.False(t, res.Cached)
	assert.Equal(t, f.ref, res.Ref)
	assert.Equal(t, *stored, res.Info)
	assert.Equal(t, "jinja2cpp/1.1.0", stored.Ref)
	assert.Equal(t, "0123456789abcdef", stored.PackageID)
	assert.Equal(t, []string{"jinja2cpp"}, stored.CppInfo.Libs)
	assert.Equal(t, "sha256:feed", stored.Revision)
	assert.Equal(t, "5f1c2a7d9e0b3c48", stored.SourceHash)
	assert.Equal(t, f.ws.Package, stored.Folder)
	assert.Equal(t, now, stored.Timestamp)
	assert.Contains(t, stored.Dependencies, "fmt/6.2.1")
	assert.Equal(t, map[string]string{"shared": "False", "fPIC": "True"}, stored.Options)
}

func TestRun_KeepWork(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.hasher.EXPECT().ComputePackageID(gomock.Any()).Return("id")
	f.store.EXPECT().Get(f.paths.Store, f.ref).Return(nil, nil)
	f.expectBuild(true)

	req := f.request(t, nil)
	req.KeepWork = true
	_, err := f.pipeline.Run(context.Background(), telemetry.NewNoOp(), req)
	require.NoError(t, err)
}

func TestRun_CacheHit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)

	info := &domain.PackageInfo{Ref: "jinja2cpp/1.1.0", PackageID: "id", Folder: t.TempDir()}
	f.hasher.EXPECT().ComputePackageID(gomock.Any()).Return("id")
	f.store.EXPECT().Get(f.paths.Store, f.ref).Return(info, nil)

	var names []string
	tel.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, name string) (context.Context, ports.Vertex) {
			names = append(names, name)
			return ctx, vertex
		}).Times(9)
	vertex.EXPECT().Complete(nil).Times(9)
	vertex.EXPECT().Cached().Times(5)

	res, err := f.pipeline.Run(context.Background(), tel, f.request(t, nil))
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, *info, res.Info)
	assert.Equal(t, []string{
		"jinja2cpp/1.1.0 metadata",
		"jinja2cpp/1.1.0 options",
		"jinja2cpp/1.1.0 requirements",
		"jinja2cpp/1.1.0 validate",
		"jinja2cpp/1.1.0 source",
		"jinja2cpp/1.1.0 configure",
		"jinja2cpp/1.1.0 build",
		"jinja2cpp/1.1.0 package",
		"jinja2cpp/1.1.0 package_info",
	}, names)
}

func TestRun_CacheMisses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		force bool
		info  func(t *testing.T) *domain.PackageInfo
	}{
		{name: "folder missing", info: func(t *testing.T) *domain.PackageInfo {
			return &domain.PackageInfo{PackageID: "id", Folder: filepath.Join(t.TempDir(), "gone")}
		}},
		{name: "different package id", info: func(t *testing.T) *domain.PackageInfo {
			return &domain.PackageInfo{PackageID: "other", Folder: t.TempDir()}
		}},
		{name: "force", force: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.hasher.EXPECT().ComputePackageID(gomock.Any()).Return("id")
			if !tt.force {
				f.store.EXPECT().Get(f.paths.Store, f.ref).Return(tt.info(t), nil)
			}
			f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return(domain.FetchResult{}, zerr.Wrap(domain.ErrDownloadFailed, "offline"))

			req := f.request(t, nil)
			req.Force = tt.force
			_, err := f.pipeline.Run(context.Background(), telemetry.NewNoOp(), req)
			require.ErrorIs(t, err, domain.ErrDownloadFailed)
			require.ErrorContains(t, err, "source stage failed")
		})
	}
}

func TestRun_StoreReadFailureIsACacheMiss(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.hasher.EXPECT().ComputePackageID(gomock.Any()).Return("id")
	f.store.EXPECT().Get(f.paths.Store, f.ref).Return(nil, zerr.Wrap(domain.ErrStoreUnmarshalFailed, "corrupt"))
	f.logger.EXPECT().Warn(gomock.Any())
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.FetchResult{}, zerr.Wrap(domain.ErrDownloadFailed, "offline"))

	_, err := f.pipeline.Run(context.Background(), telemetry.NewNoOp(), f.request(t, nil))
	require.ErrorIs(t, err, domain.ErrDownloadFailed)
}

func TestRun_BuildFailureNeverPackages(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.hasher.EXPECT().ComputePackageID(gomock.Any()).Return("id")
	f.store.EXPECT().Get(f.paths.Store, f.ref).Return(nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.FetchResult{}, nil)
	f.patcher.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil)
	f.hasher.EXPECT().ComputeTreeHash(f.ws.Source).Return("5f1c2a7d9e0b3c48", nil)
	f.packager.EXPECT().Prune(f.ws.Root, gomock.Any()).Return(nil)
	f.generator.EXPECT().Configure(gomock.Any(), gomock.Any()).Return(nil)
	f.generator.EXPECT().Build(gomock.Any(), gomock.Any()).
		Return(zerr.With(zerr.Wrap(domain.ErrBuildFailed, "cmake build failed"), "exit_code", 2))

	_, err := f.pipeline.Run(context.Background(), telemetry.NewNoOp(), f.request(t, nil))
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	require.ErrorContains(t, err, "build stage failed")
}

func TestRun_ResolvesRelativePaths(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	f := newFixture(t)
	req := f.request(t, nil)
	req.Paths = pipeline.DefaultPaths()
	ws := domain.NewWorkspace(filepath.Join(root, ".kiln", "work"), filepath.Join(root, ".kiln", "packages"), f.ref)

	f.hasher.EXPECT().ComputePackageID(gomock.Any()).Return("id")
	f.store.EXPECT().Get(filepath.Join(root, ".kiln", "store"), f.ref).Return(nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), ws.Source, filepath.Join(root, ".kiln", "downloads")).
		Return(domain.FetchResult{}, nil)
	f.patcher.EXPECT().Apply(ws.Source, gomock.Any()).Return(nil)
	f.hasher.EXPECT().ComputeTreeHash(ws.Source).Return("5f1c2a7d9e0b3c48", nil)
	f.packager.EXPECT().Prune(ws.Root, gomock.Any()).Return(nil)
	f.generator.EXPECT().Configure(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, gen domain.GenerateRequest) error {
			assert.Equal(t, ws.Source, gen.SourceDir)
			assert.Equal(t, ws.Build, gen.BuildDir)
			assert.Equal(t, ws.Staging, gen.PackageDir)
			return zerr.Wrap(domain.ErrConfigureFailed, "stop")
		})

	_, err := f.pipeline.Run(context.Background(), telemetry.NewNoOp(), req)
	require.ErrorIs(t, err, domain.ErrConfigureFailed)
}

func TestPaths_Abs(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	paths, err := pipeline.Paths{Store: "store", Work: filepath.Join("..", "work"), Packages: root}.Abs()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "store"), paths.Store)
	assert.Equal(t, filepath.Join(filepath.Dir(root), "work"), paths.Work)
	assert.Equal(t, root, paths.Packages)
	assert.Empty(t, paths.Downloads)
}

func TestRun_PatchFailureStopsBeforeConfigure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.hasher.EXPECT().ComputePackageID(gomock.Any()).Return("id")
	f.store.EXPECT().Get(f.paths.Store, f.ref).Return(nil, nil)
	f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.FetchResult{}, nil)
	f.patcher.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(zerr.Wrap(domain.ErrPatchAnchorNotFound, "anchor"))

	_, err := f.pipeline.Run(context.Background(), telemetry.NewNoOp(), f.request(t, nil))
	require.ErrorIs(t, err, domain.ErrPatchAnchorNotFound)
}

func TestPlan(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cfg, err := f.pipeline.Plan(context.Background(), telemetry.NewNoOp(), f.request(t, nil))
	require.NoError(t, err)

	assert.Equal(t, f.ref, cfg.Ref)
	assert.Equal(t, "Ninja", cfg.Generator)
	v, ok := cfg.Dependency("fmt")
	require.True(t, ok)
	assert.Equal(t, "6.2.1", v.String())
}

func TestPlan_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*pipeline.Request)
		want   error
		stage  string
	}{
		{
			name: "fPIC on windows",
			mutate: func(r *pipeline.Request) {
				r.Settings.OS = domain.OSWindows
				r.Settings.Compiler = domain.CompilerVisualStudio
				r.Options = map[string]string{"fPIC": "True"}
			},
			want:  domain.ErrOptionNotApplicable,
			stage: pipeline.StageOptions,
		},
		{
			name:   "fPIC with shared",
			mutate: func(r *pipeline.Request) { r.Options = map[string]string{"shared": "True", "fPIC": "True"} },
			want:   domain.ErrOptionNotApplicable,
			stage:  pipeline.StageOptions,
		},
		{
			name:   "unknown option",
			mutate: func(r *pipeline.Request) { r.Options = map[string]string{"ssl": "True"} },
			want:   domain.ErrUnknownOption,
			stage:  pipeline.StageOptions,
		},
		{
			name:   "old cppstd",
			mutate: func(r *pipeline.Request) { r.Settings.CppStd = "11" },
			want:   domain.ErrInvalidConfiguration,
			stage:  pipeline.StageValidate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			req := f.request(t, nil)
			tt.mutate(&req)

			_, err := f.pipeline.Plan(context.Background(), telemetry.NewNoOp(), req)
			require.ErrorIs(t, err, tt.want)

			var z *zerr.Error
			require.ErrorAs(t, err, &z)
			assert.Equal(t, tt.stage, z.Metadata()["stage"])
		})
	}
}

func TestPlan_InvalidMetadata(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctrl := gomock.NewController(t)
	recipe := mocks.NewMockRecipe(ctrl)
	recipe.EXPECT().Metadata().Return(domain.Metadata{Name: "broken", Version: "1.0"})

	req := f.request(t, nil)
	req.Recipe = recipe
	_, err := f.pipeline.Plan(context.Background(), telemetry.NewNoOp(), req)
	require.ErrorIs(t, err, domain.ErrInvalidMetadata)
}
