// Package pipeline runs a recipe through its build stages.
package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Stage names, in execution order.
const (
	StageMetadata     = "metadata"
	StageOptions      = "options"
	StageRequirements = "requirements"
	StageValidate     = "validate"
	StageSource       = "source"
	StageConfigure    = "configure"
	StageBuild        = "build"
	StagePackage      = "package"
	StagePackageInfo  = "package_info"
)

// buildStages are skipped when a stored package matches the configuration.
var buildStages = []string{StageSource, StageConfigure, StageBuild, StagePackage, StagePackageInfo}

// Paths are the roots of the store, the workspaces, the finished packages and the
// archive cache.
type Paths struct {
	Store     string
	Work      string
	Packages  string
	Downloads string
}

// DefaultPaths returns the paths below the .kiln directory of the working directory.
func DefaultPaths() Paths {
	return Paths{
		Store:     domain.DefaultStorePath(),
		Work:      domain.DefaultWorkPath(),
		Packages:  domain.DefaultPackagesPath(),
		Downloads: domain.DefaultDownloadsPath(),
	}
}

// Abs resolves every path against the process working directory. The generator
// runs inside the build folder, so relative paths would resolve against it.
func (p Paths) Abs() (Paths, error) {
	for _, path := range []*string{&p.Store, &p.Work, &p.Packages, &p.Downloads} {
		if *path == "" {
			continue
		}
		abs, err := filepath.Abs(*path)
		if err != nil {
			return Paths{}, zerr.With(zerr.Wrap(err, domain.ErrWorkspaceFailed.Error()), "path", *path)
		}
		*path = abs
	}
	return p, nil
}

// Request is one recipe invocation.
type Request struct {
	Recipe   ports.Recipe
	Settings domain.Settings

	// Options and Dependencies hold the overrides from the profile and the command line.
	Options      map[string]string
	Dependencies map[string]string

	Generator string
	Jobs      int

	Force    bool
	KeepWork bool
	Paths    Paths
}

// Result is the outcome of a successful run.
type Result struct {
	Ref    domain.Ref
	Info   domain.PackageInfo
	Cached bool
}

// Pipeline runs recipes stage by stage.
type Pipeline struct {
	fetcher   ports.SourceFetcher
	patcher   ports.Patcher
	generator ports.Generator
	packager  ports.Packager
	hasher    ports.Hasher
	store     ports.PackageStore
	logger    ports.Logger

	now func() time.Time
}

// New creates a new Pipeline.
func New(
	fetcher ports.SourceFetcher,
	patcher ports.Patcher,
	generator ports.Generator,
	packager ports.Packager,
	hasher ports.Hasher,
	store ports.PackageStore,
	logger ports.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		patcher:   patcher,
		generator: generator,
		packager:  packager,
		hasher:    hasher,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes every stage of req in order. A stored package with the same
// package id and an existing folder satisfies the build stages unless req.Force is set.
func (p *Pipeline) Run(ctx context.Context, tel ports.Telemetry, req Request) (Result, error) {
	cfg, err := p.Plan(ctx, tel, req)
	if err != nil {
		return Result{}, err
	}

	paths, err := req.Paths.Abs()
	if err != nil {
		return Result{Ref: cfg.Ref}, err
	}
	ws := domain.NewWorkspace(paths.Work, paths.Packages, cfg.Ref)
	packageID := p.hasher.ComputePackageID(cfg)

	if !req.Force {
		if info, ok := p.cached(cfg.Ref, packageID, paths.Store); ok {
			for _, name := range buildStages {
				_, v := tel.Record(ctx, vertexName(cfg.Ref, name))
				v.Cached()
				v.Complete(nil)
			}
			p.logger.Info(cfg.Ref.String() + ": package " + packageID + " is up to date")
			return Result{Ref: cfg.Ref, Info: *info, Cached: true}, nil
		}
	}

	state := &recipeRun{
		p:         p,
		recipe:    req.Recipe,
		cfg:       cfg,
		ws:        ws,
		packageID: packageID,
		storeRoot: paths.Store,
		downloads: paths.Downloads,
	}
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{StageSource, state.source},
		{StageConfigure, state.configure},
		{StageBuild, state.build},
		{StagePackage, state.pkg},
		{StagePackageInfo, state.packageInfo},
	}
	for _, step := range steps {
		if err := p.stage(ctx, tel, cfg.Ref, step.name, step.fn); err != nil {
			return Result{Ref: cfg.Ref}, err
		}
	}

	if !req.KeepWork {
		if err := p.packager.Prune(paths.Work, []string{filepath.Base(ws.Root)}); err != nil {
			p.logger.Warn(cfg.Ref.String() + ": workspace was not removed: " + err.Error())
		}
	}

	p.logger.Info(cfg.Ref.String() + ": packaged into " + ws.Package)
	return Result{Ref: cfg.Ref, Info: state.info}, nil
}

// cached returns the stored package info when it matches packageID and its folder exists.
func (p *Pipeline) cached(ref domain.Ref, packageID, storeRoot string) (*domain.PackageInfo, bool) {
	info, err := p.store.Get(storeRoot, ref)
	if err != nil {
		p.logger.Warn(ref.String() + ": ignoring stored package info: " + err.Error())
		return nil, false
	}
	if info == nil || info.PackageID != packageID {
		return nil, false
	}
	if _, err := os.Stat(info.Folder); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn(ref.String() + ": cannot inspect package folder: " + err.Error())
		}
		return nil, false
	}
	return info, true
}

// stage records fn as a vertex and wraps its error with the stage name.
func (p *Pipeline) stage(
	ctx context.Context,
	tel ports.Telemetry,
	ref domain.Ref,
	name string,
	fn func(context.Context) error,
) error {
	ctx, v := tel.Record(ctx, vertexName(ref, name))
	err := fn(ctx)
	v.Complete(err)
	if err != nil {
		err = zerr.Wrap(err, name+" stage failed")
		return zerr.With(zerr.With(err, "recipe", ref.String()), "stage", name)
	}
	return nil
}

func vertexName(ref domain.Ref, stage string) string {
	return ref.String() + " " + stage
}
