// Package jinja2cpp is the recipe of the Jinja2C++ template engine.
package jinja2cpp

import (
	_ "embed"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/recipes/recipedata"
	"go.trai.ch/zerr"
)

const (
	// Name is the package name.
	Name = "jinja2cpp"
	// Version is the packaged release.
	Version = "1.1.0"

	// LibName is the library consumers link.
	LibName = "jinja2cpp"

	defaultCppStd = 14
)

//go:embed conandata.yml
var conandata []byte

// maxFmt is the first fmt release the library does not compile with.
var maxFmt = domain.ParseVersion("7.0.0")

// Recipe builds jinja2cpp with its bundled CMake project.
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
		License:     "MIT",
		URL:         "https://github.com/conan-io/conan-center-index",
		Homepage:    "https://jinja2cpp.dev/",
		Description: "Jinja2 C++ (and for C++) almost full-conformance template engine implementation",
		Topics:      []string{"conan", "cpp14", "cpp17", "jinja2", "string templates", "templates engine"},
		Options: []domain.OptionDecl{
			domain.BoolOption(domain.OptionShared, false),
			domain.BoolOption(domain.OptionFPIC, true),
		},
		MinCppStd: defaultCppStd,
	}
}

// OptionRules implements ports.Recipe.
func (r *Recipe) OptionRules() []domain.OptionRule {
	return []domain.OptionRule{domain.RemoveWhen(domain.OptionFPIC, domain.OptionShared, domain.True)}
}

// Requirements implements ports.Recipe.
func (r *Recipe) Requirements(_ domain.Config) []domain.Requirement {
	return []domain.Requirement{
		domain.Require("boost", "1.74.0"),
		domain.Require("expected-lite", "0.4.0"),
		domain.Require("fmt", "6.2.1"),
		domain.Require("optional-lite", "3.2.0"),
		domain.Require("rapidjson", "cci.20200410"),
		domain.Require("string-view-lite", "1.4.0"),
		domain.Require("variant-lite", "1.2.2"),
	}
}

// Source implements ports.Recipe.
func (r *Recipe) Source(cfg domain.Config) (domain.SourcePlan, error) {
	return r.data.Plan(cfg.Ref.Version)
}

// Validate rejects fmt 7 and later, whose API the library does not build against.
func (r *Recipe) Validate(cfg domain.Config) error {
	v, ok := cfg.Dependency("fmt")
	if !ok {
		return nil
	}
	cmp, known := v.Compare(maxFmt)
	if known && cmp < 0 {
		return nil
	}
	err := zerr.Wrap(domain.ErrInvalidConfiguration, "jinja2cpp requires fmt < 7.0.0")
	return zerr.With(zerr.With(err, "recipe", Name), "fmt", v.String())
}

// Definitions implements ports.Recipe.
func (r *Recipe) Definitions(cfg domain.Config) (domain.Definitions, error) {
	cppstd, ok := cfg.Settings.CppStdNumber()
	if !ok {
		cppstd = defaultCppStd
	}

	defs := []domain.Definition{
		domain.BoolDef("JINJA2CPP_BUILD_TESTS", false),
		domain.BoolDef("JINJA2CPP_STRICT_WARNINGS", false),
		domain.BoolDef("JINJA2CPP_BUILD_SHARED", cfg.Options.Bool(domain.OptionShared)),
		domain.StringDef("JINJA2CPP_DEPS_MODE", "conan-build"),
		domain.IntDef("JINJA2CPP_CXX_STANDARD", cppstd),
		// Multi-config generators drop the build type, the project reads it anyway.
		domain.StringDef("CMAKE_BUILD_TYPE", string(cfg.Settings.BuildType)),
	}
	if flag, ok := msvcRuntime(cfg.Settings); ok {
		defs = append(defs, domain.StringDef("JINJA2CPP_MSVC_RUNTIME_TYPE", flag))
	}
	return domain.NewDefinitions(defs...)
}

// msvcRuntime returns the runtime flag without its debug suffix.
func msvcRuntime(s domain.Settings) (string, bool) {
	if s.Compiler != domain.CompilerVisualStudio && s.Compiler != domain.CompilerMSVC {
		return "", false
	}
	switch s.Runtime {
	case "MT", "MTd", "static":
		return "/MT", true
	case "MD", "MDd", "dynamic":
		return "/MD", true
	default:
		return "", false
	}
}

// BuildTarget implements ports.Recipe. The default target builds the library.
func (r *Recipe) BuildTarget(_ domain.Config) string {
	return ""
}

// Package implements ports.Recipe.
func (r *Recipe) Package(_ domain.Config) domain.PackagePlan {
	return domain.PackagePlan{
		Install: true,
		Copies: []domain.CopyRule{
			{Pattern: "LICENSE", From: domain.FromSource, Dst: domain.LicensesDir},
		},
		Prune: []string{"lib/jinja2cpp", "share"},
	}
}

// PackageInfo implements ports.Recipe.
func (r *Recipe) PackageInfo(_ domain.Config, _ []string) domain.CppInfo {
	return domain.DefaultCppInfo(LibName)
}
