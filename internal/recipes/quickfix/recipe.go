// Package quickfix is the recipe of the QuickFIX FIX protocol engine.
package quickfix

import (
	_ "embed"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/recipes/recipedata"
	"go.trai.ch/zerr"
)

const (
	// Name is the package name.
	Name = "quickfix"
	// Version is the packaged release.
	Version = "1.15.1"

	// OptionSSL enables the OpenSSL transport.
	OptionSSL = "ssl"

	// Target is the CMake target of the library itself; examples and tests are not built.
	Target = "quickfix"

	opensslRange = "[>=1.0.2a]"
)

//go:embed conandata.yml
var conandata []byte

// windowsSystemLibs are the socket libraries QuickFIX links on Windows.
var windowsSystemLibs = []string{"ws2_32", "wsock32"}

// Recipe builds quickfix from its git repository.
type Recipe struct {
	data *recipedata.Data
}

var _ ports.Recipe = (*Recipe)(nil)

// New parses the embedded recipe data.
func New() (*Recipe, error) {
	data, err := recipedata.Parse(conandata, nil)
	if err != nil {
		return nil, zerr.With(err, "recipe", Name)
	}
	if !data.Has(Version) {
		err := zerr.Wrap(domain.ErrSourceNotDeclared, "recipe data does not declare the packaged version")
		return nil, zerr.With(zerr.With(err, "recipe", Name), "version", Version)
	}
	return &Recipe{data: data}, nil
}

// Metadata implements ports.Recipe.
func (r *Recipe) Metadata() domain.Metadata {
	return domain.Metadata{
		Name:        Name,
		Version:     Version,
		License:     "The QuickFIX Software License, Version 1.0",
		URL:         "https://github.com/conan-io/conan-center-index",
		Homepage:    "http://www.quickfixengine.org",
		Description: "QuickFIX is a free and open source implementation of the FIX protocol",
		Topics:      []string{"conan", "QuickFIX", "FIX", "Financial Information Exchange", "libraries", "cpp"},
		Options:     []domain.OptionDecl{domain.BoolOption(OptionSSL, false)},
	}
}

// OptionRules implements ports.Recipe.
func (r *Recipe) OptionRules() []domain.OptionRule {
	return nil
}

// Requirements implements ports.Recipe.
func (r *Recipe) Requirements(_ domain.Config) []domain.Requirement {
	return []domain.Requirement{domain.RequireIf(OptionSSL, "openssl", opensslRange)}
}

// Source implements ports.Recipe. The public Except.h header lives next to the
// sources upstream and is copied into include/ before configuration.
func (r *Recipe) Source(cfg domain.Config) (domain.SourcePlan, error) {
	plan, err := r.data.Plan(cfg.Ref.Version)
	if err != nil {
		return domain.SourcePlan{}, err
	}
	plan.Copies = []domain.FileCopy{{From: "src/C++/Except.h", To: "include/Except.h"}}
	return plan, nil
}

// Validate implements ports.Recipe.
func (r *Recipe) Validate(cfg domain.Config) error {
	if !cfg.Options.Bool(OptionSSL) {
		return nil
	}
	v, ok := cfg.Dependency("openssl")
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfiguration, "ssl requires openssl"), "recipe", Name)
	}
	if !domain.MustParseVersionRange(opensslRange).Satisfies(v) {
		err := zerr.Wrap(domain.ErrInvalidConfiguration, "openssl version outside "+opensslRange)
		return zerr.With(zerr.With(err, "recipe", Name), "openssl", v.String())
	}
	return nil
}

// Definitions implements ports.Recipe.
func (r *Recipe) Definitions(cfg domain.Config) (domain.Definitions, error) {
	if cfg.Options.Bool(OptionSSL) {
		return domain.NewDefinitions(domain.BoolDef("HAVE_SSL", true))
	}
	return domain.NewDefinitions()
}

// BuildTarget implements ports.Recipe.
func (r *Recipe) BuildTarget(_ domain.Config) string {
	return Target
}

// Package implements ports.Recipe.
func (r *Recipe) Package(_ domain.Config) domain.PackagePlan {
	return domain.PackagePlan{
		Install: true,
		Copies: []domain.CopyRule{
			{Pattern: "config.h", From: domain.FromSource, Dst: domain.IncludeDir},
			{Pattern: "Except.h", From: domain.FromSource, Src: "src/C++", Dst: domain.IncludeDir},
		},
	}
}

// PackageInfo implements ports.Recipe.
func (r *Recipe) PackageInfo(cfg domain.Config, collected []string) domain.CppInfo {
	info := domain.DefaultCppInfo(collected...)
	if cfg.Settings.OS == domain.OSWindows {
		info.SystemLibs = append([]string(nil), windowsSystemLibs...)
	}
	return info
}
