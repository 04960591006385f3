package pipeline

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

// Plan resolves the configuration of req: it validates the recipe metadata, resolves
// options and requirements and runs the recipe validation. Nothing is fetched or built.
func (p *Pipeline) Plan(ctx context.Context, tel ports.Telemetry, req Request) (domain.Config, error) {
	meta := req.Recipe.Metadata()
	ref := meta.Ref()

	err := p.stage(ctx, tel, ref, StageMetadata, func(context.Context) error {
		return meta.Validate()
	})
	if err != nil {
		return domain.Config{}, err
	}

	var cfg domain.Config
	err = p.stage(ctx, tel, ref, StageOptions, func(context.Context) error {
		opts, err := domain.ResolveOptions(meta.Options, req.Recipe.OptionRules(), req.Settings.OS, req.Options)
		if err != nil {
			return err
		}
		cfg = domain.NewConfig(ref, req.Settings, opts).WithGenerator(req.Generator, req.Jobs)
		return nil
	})
	if err != nil {
		return domain.Config{}, err
	}

	err = p.stage(ctx, tel, ref, StageRequirements, func(context.Context) error {
		warn := func(name string, v domain.Version, rng domain.VersionRange) {
			p.logger.Warn(ref.String() + ": " + name + "/" + v.String() +
				" is outside the declared range " + rng.String())
		}
		deps, err := domain.ResolveRequirements(req.Recipe.Requirements(cfg), cfg.Options, req.Dependencies, warn)
		if err != nil {
			return err
		}
		cfg = cfg.WithDependencies(deps)
		return nil
	})
	if err != nil {
		return domain.Config{}, err
	}

	err = p.stage(ctx, tel, ref, StageValidate, func(context.Context) error {
		if err := cfg.Settings.CheckMinCppStd(meta.MinCppStd); err != nil {
			return err
		}
		return req.Recipe.Validate(cfg)
	})
	if err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}
