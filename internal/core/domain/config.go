package domain

import "slices"

// Config is the immutable configuration of one recipe invocation.
// Stages receive it by value and never mutate it.
type Config struct {
	Ref       Ref
	Settings  Settings
	Options   OptionValues
	Generator string
	Jobs      int

	deps []Dependency
}

// NewConfig builds a Config without resolved dependencies.
func NewConfig(ref Ref, settings Settings, options OptionValues) Config {
	return Config{Ref: ref, Settings: settings, Options: options}
}

// WithDependencies returns a copy of c carrying deps.
func (c Config) WithDependencies(deps []Dependency) Config {
	next := c
	next.deps = slices.Clone(deps)
	return next
}

// WithGenerator returns a copy of c using the named generator and parallelism.
func (c Config) WithGenerator(generator string, jobs int) Config {
	next := c
	next.Generator = generator
	next.Jobs = jobs
	return next
}

// Dependencies returns a copy of the resolved dependencies.
func (c Config) Dependencies() []Dependency {
	return slices.Clone(c.deps)
}

// Dependency returns the resolved version of the named dependency.
func (c Config) Dependency(name string) (Version, bool) {
	for _, d := range c.deps {
		if d.Name == name {
			return d.Version, true
		}
	}
	return Version{}, false
}
