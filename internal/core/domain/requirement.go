package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Requirement declares an external library needed by a recipe.
type Requirement struct {
	Name  string
	Range VersionRange

	// When, if set, makes the requirement conditional on the resolved options.
	When func(OptionValues) bool
}

// Require builds an unconditional requirement from a range literal.
func Require(name, rng string) Requirement {
	return Requirement{Name: name, Range: MustParseVersionRange(rng)}
}

// RequireIf builds a requirement that only applies when the named boolean option is true.
func RequireIf(option, name, rng string) Requirement {
	r := Require(name, rng)
	r.When = func(o OptionValues) bool { return o.Bool(option) }
	return r
}

// Applies reports whether the requirement is active for the given options.
func (r Requirement) Applies(opts OptionValues) bool {
	return r.When == nil || r.When(opts)
}

// Dependency is a requirement bound to a concrete version.
type Dependency struct {
	Name    string
	Version Version
}

func (d Dependency) String() string {
	return d.Name + "/" + d.Version.String()
}

// ResolveRequirements binds each active requirement to a version.
// A version supplied in overrides always wins; if it falls outside the declared range
// warn is called and the recipe's own validation decides whether it is acceptable.
// Without an override the range must pin an exact version.
func ResolveRequirements(
	reqs []Requirement,
	opts OptionValues,
	overrides map[string]string,
	warn func(name string, version Version, rng VersionRange),
) ([]Dependency, error) {
	deps := make([]Dependency, 0, len(reqs))
	for _, req := range reqs {
		if !req.Applies(opts) {
			continue
		}
		if raw, ok := overrides[req.Name]; ok {
			v := ParseVersion(raw)
			if !req.Range.Satisfies(v) && warn != nil {
				warn(req.Name, v, req.Range)
			}
			deps = append(deps, Dependency{Name: req.Name, Version: v})
			continue
		}
		v, ok := req.Range.Pinned()
		if !ok {
			err := zerr.Wrap(ErrDependencyNotFound, "no version supplied for version range")
			return nil, zerr.With(zerr.With(err, "dependency", req.Name), "range", req.Range.String())
		}
		deps = append(deps, Dependency{Name: req.Name, Version: v})
	}
	slices.SortFunc(deps, func(a, b Dependency) int {
		return strings.Compare(a.Name, b.Name)
	})
	return deps, nil
}
