package app

import (
	"maps"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// parseAssignment splits a key=value flag value.
func parseAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", zerr.With(zerr.Wrap(domain.ErrInvalidAssignment, "cannot parse override"), "value", s)
	}
	return key, strings.TrimSpace(value), nil
}

// resolveSettings overlays the command line settings on the profile settings and the host defaults.
func resolveSettings(profile *domain.Profile, flags []string) (domain.Settings, error) {
	values := make(map[string]string)
	if profile != nil {
		maps.Copy(values, profile.Settings)
	}
	for _, f := range flags {
		key, value, err := parseAssignment(f)
		if err != nil {
			return domain.Settings{}, err
		}
		values[key] = value
	}
	return domain.ParseSettings(domain.DefaultSettings(), values)
}

// resolveDependencies overlays the -d name/version flags on the profile dependency versions.
func resolveDependencies(profile *domain.Profile, flags []string) (map[string]string, error) {
	deps := make(map[string]string)
	if profile != nil {
		maps.Copy(deps, profile.Dependencies)
	}
	for _, f := range flags {
		ref, err := domain.ParseRef(f)
		if err != nil {
			return nil, err
		}
		deps[ref.Name] = ref.Version
	}
	return deps, nil
}

// resolveOptions returns the option overrides of every requested recipe.
// A flag of the form recipe:name=value targets one recipe; a bare name=value applies
// to every requested recipe that declares the option.
func resolveOptions(
	profile *domain.Profile,
	recipes []ports.Recipe,
	flags []string,
) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(recipes))
	declared := make(map[string][]string, len(recipes))
	for _, r := range recipes {
		meta := r.Metadata()
		values := make(map[string]string)
		maps.Copy(values, profile.OptionsFor(meta.Name))
		out[meta.Name] = values

		for _, decl := range meta.Options {
			declared[meta.Name] = append(declared[meta.Name], decl.Name)
		}
	}

	for _, f := range flags {
		key, value, err := parseAssignment(f)
		if err != nil {
			return nil, err
		}

		if scope, name, ok := strings.Cut(key, ":"); ok {
			values, requested := out[scope]
			if !requested {
				err := zerr.Wrap(domain.ErrUnknownOption, "option targets a recipe that is not requested")
				return nil, zerr.With(zerr.With(err, "recipe", scope), "option", name)
			}
			values[name] = value
			continue
		}

		matched := false
		for recipe, names := range declared {
			if slices.Contains(names, key) {
				out[recipe][key] = value
				matched = true
			}
		}
		if !matched {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownOption, "no requested recipe declares the option"), "option", key)
		}
	}
	return out, nil
}
