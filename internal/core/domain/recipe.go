// Package domain contains the core models of kiln: recipe identity, options,
// settings, requirements and the records the build stages exchange.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Ref identifies one version of a package.
type Ref struct {
	Name    string
	Version string
}

// ParseRef parses a "name/version" reference.
func ParseRef(s string) (Ref, error) {
	name, version, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || name == "" || version == "" || strings.Contains(version, "/") {
		return Ref{}, zerr.With(zerr.Wrap(ErrInvalidRef, "cannot parse reference"), "ref", s)
	}
	return Ref{Name: name, Version: version}, nil
}

// String returns the reference in "name/version" form.
func (r Ref) String() string {
	return r.Name + "/" + r.Version
}

// Metadata is the static identity of a recipe and the build-input knobs it declares.
type Metadata struct {
	Name        string
	Version     string
	License     string
	URL         string
	Homepage    string
	Description string
	Topics      []string
	Options     []OptionDecl

	// MinCppStd is the lowest C++ standard the library compiles with (e.g. 14).
	// Zero means no requirement.
	MinCppStd int
}

// Ref returns the reference described by the metadata.
func (m *Metadata) Ref() Ref {
	return Ref{Name: m.Name, Version: m.Version}
}

// Validate checks that the identity fields are present and option declarations are sound.
func (m *Metadata) Validate() error {
	switch {
	case m.Name == "":
		return zerr.With(zerr.Wrap(ErrInvalidMetadata, "name is empty"), "field", "name")
	case m.Version == "":
		return zerr.With(zerr.Wrap(ErrInvalidMetadata, "version is empty"), "recipe", m.Name)
	case m.License == "":
		return zerr.With(zerr.Wrap(ErrInvalidMetadata, "license is empty"), "recipe", m.Name)
	}

	seen := make(map[string]struct{}, len(m.Options))
	for _, decl := range m.Options {
		if _, dup := seen[decl.Name]; dup {
			err := zerr.Wrap(ErrInvalidMetadata, "option declared twice")
			return zerr.With(zerr.With(err, "recipe", m.Name), "option", decl.Name)
		}
		seen[decl.Name] = struct{}{}

		if _, err := decl.Normalize(decl.Default); err != nil {
			err := zerr.Wrap(ErrInvalidMetadata, "default value outside option domain")
			return zerr.With(zerr.With(err, "recipe", m.Name), "option", decl.Name)
		}
	}
	return nil
}
