// Package app implements the application layer for kiln.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"go.trai.ch/kiln/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/ui/output"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	registry  ports.RecipeRegistry
	loader    ports.ProfileLoader
	pipeline  *pipeline.Pipeline
	store     ports.PackageStore
	logger    ports.Logger
	telemetry ports.Telemetry

	out   io.Writer
	paths pipeline.Paths
}

// New creates a new App instance.
func New(
	registry ports.RecipeRegistry,
	loader ports.ProfileLoader,
	pipe *pipeline.Pipeline,
	store ports.PackageStore,
	logger ports.Logger,
	tel ports.Telemetry,
) *App {
	return &App{
		registry:  registry,
		loader:    loader,
		pipeline:  pipe,
		store:     store,
		logger:    logger,
		telemetry: tel,
		out:       os.Stdout,
		paths:     pipeline.DefaultPaths(),
	}
}

// WithOutput sets the writer results are printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithPaths overrides the store, work and package roots.
func (a *App) WithPaths(paths pipeline.Paths) *App {
	a.paths = paths
	return a
}

// SetJSONLog switches the logger to JSON output when it supports it.
func (a *App) SetJSONLog(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// RunOptions configures build and check invocations.
type RunOptions struct {
	// Profile is the profile file; empty selects the default kiln.yaml if present.
	Profile string

	// Settings, Options and Dependencies hold the raw command line overrides.
	Settings     []string
	Options      []string
	Dependencies []string

	Generator string

	// Jobs is the parallelism of the generator build step; zero leaves it to the generator.
	Jobs int

	// Concurrency is the number of recipes built at once.
	Concurrency int

	Force    bool
	KeepWork bool

	// Verbose streams tool output to the logger instead of recording it.
	Verbose bool

	WorkDir   string
	OutputDir string
}

// Build runs the pipeline of every named recipe. Recipes are independent: a failure
// in one does not stop the others, and all failures are reported together.
func (a *App) Build(ctx context.Context, names []string, opts RunOptions) error {
	reqs, err := a.prepare(names, opts)
	if err != nil {
		return err
	}

	tel := a.telemetry
	if opts.Verbose {
		tel = telemetry.NewNoOp()
	}

	errs := make([]error, len(reqs))
	g := new(errgroup.Group)
	g.SetLimit(max(opts.Concurrency, 1))
	for i, req := range reqs {
		g.Go(func() error {
			if _, err := a.pipeline.Run(ctx, tel, req); err != nil {
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := tel.Close(); err != nil {
		a.logger.Warn("telemetry was not flushed: " + err.Error())
	}
	output.NewPrinter(a.out).Summary(tel.Results())

	if err := errors.Join(errs...); err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// Check resolves and validates the configuration of every named recipe without
// fetching or building anything.
func (a *App) Check(ctx context.Context, names []string, opts RunOptions) error {
	reqs, err := a.prepare(names, opts)
	if err != nil {
		return err
	}

	p := output.NewPrinter(a.out)
	tel := telemetry.NewNoOp()

	var errs error
	for _, req := range reqs {
		meta := req.Recipe.Metadata()
		cfg, err := a.pipeline.Plan(ctx, tel, req)
		if err != nil {
			p.Rejected(meta.Ref().String(), err)
			errs = errors.Join(errs, err)
			continue
		}
		p.Config(cfg)
	}
	return errs
}

// InfoOptions configures the info command.
type InfoOptions struct {
	JSON bool
}

// Info prints the stored package record of a recipe.
func (a *App) Info(_ context.Context, name string, opts InfoOptions) error {
	recipe, err := a.registry.Get(name)
	if err != nil {
		return err
	}
	meta := recipe.Metadata()
	ref := meta.Ref()

	info, err := a.store.Get(a.paths.Store, ref)
	if err != nil {
		return err
	}
	if info == nil {
		return zerr.With(zerr.Wrap(domain.ErrPackageNotFound, "recipe has not been built"), "ref", ref.String())
	}

	if opts.JSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}
	output.NewPrinter(a.out).PackageInfo(*info)
	return nil
}

// List prints the registered recipes.
func (a *App) List(_ context.Context) error {
	recipes := a.registry.List()
	metas := make([]domain.Metadata, 0, len(recipes))
	for _, r := range recipes {
		metas = append(metas, r.Metadata())
	}
	output.NewPrinter(a.out).Recipes(metas)
	return nil
}

// prepare loads the profile and builds one pipeline request per named recipe.
func (a *App) prepare(names []string, opts RunOptions) ([]pipeline.Request, error) {
	if len(names) == 0 {
		return nil, domain.ErrNoRecipesSpecified
	}

	recipes := make([]ports.Recipe, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		r, err := a.registry.Get(name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[r.Metadata().Name]; dup {
			continue
		}
		seen[r.Metadata().Name] = struct{}{}
		recipes = append(recipes, r)
	}

	profile, err := a.loader.Load(opts.Profile)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load profile")
	}

	settings, err := resolveSettings(profile, opts.Settings)
	if err != nil {
		return nil, err
	}
	deps, err := resolveDependencies(profile, opts.Dependencies)
	if err != nil {
		return nil, err
	}
	options, err := resolveOptions(profile, recipes, opts.Options)
	if err != nil {
		return nil, err
	}

	generator := opts.Generator
	jobs := opts.Jobs
	if profile != nil {
		if generator == "" {
			generator = profile.Generator
		}
		if jobs <= 0 {
			jobs = profile.Jobs
		}
	}
	jobs = max(jobs, 0)

	paths := a.paths
	if opts.WorkDir != "" {
		paths.Work = opts.WorkDir
	}
	if opts.OutputDir != "" {
		paths.Packages = opts.OutputDir
	}

	reqs := make([]pipeline.Request, 0, len(recipes))
	for _, r := range recipes {
		reqs = append(reqs, pipeline.Request{
			Recipe:       r,
			Settings:     settings,
			Options:      options[r.Metadata().Name],
			Dependencies: deps,
			Generator:    generator,
			Jobs:         jobs,
			Force:        opts.Force,
			KeepWork:     opts.KeepWork,
			Paths:        paths,
		})
	}
	return reqs, nil
}
