package pipeline

import (
	"context"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// recipeRun carries what the build stages of one invocation hand to each other.
type recipeRun struct {
	p         *Pipeline
	recipe    ports.Recipe
	cfg       domain.Config
	ws        domain.Workspace
	packageID string
	storeRoot string
	downloads string

	revision   string
	sourceHash string
	gen        domain.GenerateRequest
	libs       []string
	info       domain.PackageInfo
}

func (r *recipeRun) source(ctx context.Context) error {
	plan, err := r.recipe.Source(r.cfg)
	if err != nil {
		return err
	}

	res, err := r.p.fetcher.Fetch(ctx, plan.Source, r.ws.Source, r.downloads)
	if err != nil {
		return err
	}
	r.revision = res.Revision

	if err := r.p.patcher.Apply(r.ws.Source, plan.Patches); err != nil {
		return err
	}

	for _, c := range plan.Copies {
		from := filepath.Join(r.ws.Source, filepath.FromSlash(c.From))
		to := filepath.Join(r.ws.Source, filepath.FromSlash(c.To))
		if err := r.p.packager.CopyFile(from, to); err != nil {
			return err
		}
	}

	sum, err := r.p.hasher.ComputeTreeHash(r.ws.Source)
	if err != nil {
		return err
	}
	r.sourceHash = sum
	return nil
}

func (r *recipeRun) configure(ctx context.Context) error {
	defs, err := r.recipe.Definitions(r.cfg)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigureFailed.Error())
	}

	if err := r.p.packager.Prune(r.ws.Root, []string{domain.BuildSubfolder, domain.PackageStaging}); err != nil {
		return zerr.Wrap(err, domain.ErrWorkspaceFailed.Error())
	}

	r.gen = domain.GenerateRequest{
		SourceDir:    r.ws.Source,
		BuildDir:     r.ws.Build,
		PackageDir:   r.ws.Staging,
		Generator:    r.cfg.Generator,
		BuildType:    r.cfg.Settings.BuildType,
		Jobs:         r.cfg.Jobs,
		Definitions:  defs,
		Runtime:      r.cfg.Settings.Runtime,
		CppStd:       r.cfg.Settings.CppStd,
		Dependencies: r.cfg.Dependencies(),
	}
	return r.p.generator.Configure(ctx, r.gen)
}

func (r *recipeRun) build(ctx context.Context) error {
	req := r.gen
	req.Target = r.recipe.BuildTarget(r.cfg)
	return r.p.generator.Build(ctx, req)
}

func (r *recipeRun) pkg(ctx context.Context) error {
	plan := r.recipe.Package(r.cfg)

	if plan.Install {
		if err := r.p.generator.Install(ctx, r.gen); err != nil {
			return err
		}
	}

	for _, rule := range plan.Copies {
		root := r.ws.Source
		if rule.From == domain.FromBuild {
			root = r.ws.Build
		}
		if _, err := r.p.packager.Copy(rule, root, r.ws.Staging); err != nil {
			return err
		}
	}

	if err := r.p.packager.Prune(r.ws.Staging, plan.Prune); err != nil {
		return err
	}

	libs, err := r.p.packager.CollectLibs(r.ws.Staging)
	if err != nil {
		return err
	}
	r.libs = libs

	return r.p.packager.Promote(r.ws.Staging, r.ws.Package)
}

func (r *recipeRun) packageInfo(_ context.Context) error {
	deps := r.cfg.Dependencies()
	names := make([]string, 0, len(deps))
	for _, d := range deps {
		names = append(names, d.String())
	}

	r.info = domain.PackageInfo{
		Ref:          r.cfg.Ref.String(),
		PackageID:    r.packageID,
		Settings:     r.cfg.Settings.Map(),
		Options:      r.cfg.Options.Map(),
		Dependencies: names,
		CppInfo:      r.recipe.PackageInfo(r.cfg, r.libs),
		Folder:       r.ws.Package,
		Revision:     r.revision,
		SourceHash:   r.sourceHash,
		Timestamp:    r.p.now().UTC(),
	}
	return r.p.store.Put(r.storeRoot, r.info)
}
