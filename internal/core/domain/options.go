package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Well-known option names.
const (
	// OptionShared selects shared instead of static linking.
	OptionShared = "shared"
	// OptionFPIC enables position-independent code for static libraries.
	OptionFPIC = "fPIC"
)

// Canonical boolean option values.
const (
	True  = "True"
	False = "False"
)

// OptionDecl declares a recipe option, its domain and its default.
// An empty Values slice declares a boolean option.
type OptionDecl struct {
	Name    string
	Values  []string
	Default string
}

// BoolOption declares a boolean option.
func BoolOption(name string, def bool) OptionDecl {
	return OptionDecl{Name: name, Default: FormatBool(def)}
}

// IsBool reports whether the option has a boolean domain.
func (d OptionDecl) IsBool() bool {
	return len(d.Values) == 0
}

// Normalize validates value against the declared domain and returns its canonical form.
func (d OptionDecl) Normalize(value string) (string, error) {
	if d.IsBool() {
		b, ok := ParseBool(value)
		if !ok {
			return "", invalidOptionValue(d.Name, value)
		}
		return FormatBool(b), nil
	}
	if !slices.Contains(d.Values, value) {
		return "", invalidOptionValue(d.Name, value)
	}
	return value, nil
}

func invalidOptionValue(name, value string) error {
	err := zerr.Wrap(ErrInvalidOptionValue, "value outside option domain")
	return zerr.With(zerr.With(err, "option", name), "value", value)
}

// ParseBool accepts the spellings commonly used on command lines and in profiles.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// FormatBool returns the canonical option spelling of b.
func FormatBool(b bool) string {
	if b {
		return True
	}
	return False
}

// OptionValues is an immutable set of resolved option values.
type OptionValues struct {
	values map[string]string
}

// NewOptionValues copies m into an OptionValues.
func NewOptionValues(m map[string]string) OptionValues {
	values := make(map[string]string, len(m))
	for k, v := range m {
		values[k] = v
	}
	return OptionValues{values: values}
}

// Get returns the value of the named option.
func (o OptionValues) Get(name string) (string, bool) {
	v, ok := o.values[name]
	return v, ok
}

// Has reports whether the named option is part of the resolved set.
func (o OptionValues) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Bool returns the boolean value of the named option; absent options are false.
func (o OptionValues) Bool(name string) bool {
	b, _ := ParseBool(o.values[name])
	return b
}

// With returns a copy with name set to value.
func (o OptionValues) With(name, value string) OptionValues {
	next := NewOptionValues(o.values)
	next.values[name] = value
	return next
}

// Without returns a copy with name removed.
func (o OptionValues) Without(name string) OptionValues {
	next := NewOptionValues(o.values)
	delete(next.values, name)
	return next
}

// Names returns the option names in sorted order.
func (o OptionValues) Names() []string {
	names := make([]string, 0, len(o.values))
	for k := range o.values {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Map returns a copy of the values.
func (o OptionValues) Map() map[string]string {
	return NewOptionValues(o.values).values
}

// String renders the values as "a=1,b=2" in name order.
func (o OptionValues) String() string {
	parts := make([]string, 0, len(o.values))
	for _, name := range o.Names() {
		parts = append(parts, name+"="+o.values[name])
	}
	return strings.Join(parts, ",")
}

// unsupportedOptions lists, per platform, the options that have no meaningful effect there.
var unsupportedOptions = map[OS][]string{
	OSWindows: {OptionFPIC},
}

// Capabilities returns the names of the declared options applicable on os.
func Capabilities(os OS, decls []OptionDecl) map[string]struct{} {
	caps := make(map[string]struct{}, len(decls))
	for _, decl := range decls {
		if slices.Contains(unsupportedOptions[os], decl.Name) {
			continue
		}
		caps[decl.Name] = struct{}{}
	}
	return caps
}

// OptionRule removes Remove from the resolved set when option When has value Equals.
type OptionRule struct {
	Remove string
	When   string
	Equals string
}

// RemoveWhen builds an OptionRule.
func RemoveWhen(remove, when, equals string) OptionRule {
	return OptionRule{Remove: remove, When: when, Equals: equals}
}

// ResolveOptions computes the resolved option set for a platform.
// Defaults are taken from decls, overrides are validated against the declared domains,
// options outside the platform capabilities are removed, then rules are applied in order.
// Overriding an option that ends up removed is an error.
func ResolveOptions(
	decls []OptionDecl,
	rules []OptionRule,
	os OS,
	overrides map[string]string,
) (OptionValues, error) {
	caps := Capabilities(os, decls)
	byName := make(map[string]OptionDecl, len(decls))
	values := make(map[string]string, len(decls))

	for _, decl := range decls {
		byName[decl.Name] = decl
		if _, ok := caps[decl.Name]; ok {
			values[decl.Name] = decl.Default
		}
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		decl, ok := byName[name]
		if !ok {
			return OptionValues{}, zerr.With(zerr.Wrap(ErrUnknownOption, "option is not declared"), "option", name)
		}
		if _, ok := caps[name]; !ok {
			err := zerr.Wrap(ErrOptionNotApplicable, "option is not supported on this platform")
			return OptionValues{}, zerr.With(zerr.With(err, "option", name), "os", string(os))
		}
		value, err := decl.Normalize(overrides[name])
		if err != nil {
			return OptionValues{}, err
		}
		values[name] = value
	}

	for _, rule := range rules {
		if _, ok := values[rule.Remove]; !ok {
			continue
		}
		if values[rule.When] != rule.Equals {
			continue
		}
		if _, overridden := overrides[rule.Remove]; overridden {
			err := zerr.Wrap(ErrOptionNotApplicable, "option is removed by another option")
			err = zerr.With(err, "option", rule.Remove)
			return OptionValues{}, zerr.With(err, "because", rule.When+"="+rule.Equals)
		}
		delete(values, rule.Remove)
	}

	return OptionValues{values: values}, nil
}
