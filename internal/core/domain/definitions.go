package domain

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// DefinitionKind is the type of a build definition value.
type DefinitionKind int

const (
	// DefinitionBool renders as ON or OFF.
	DefinitionBool DefinitionKind = iota
	// DefinitionString renders verbatim.
	DefinitionString
	// DefinitionInt renders in base 10.
	DefinitionInt
)

var definitionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Definition is a single typed generator definition.
type Definition struct {
	Name string
	Kind DefinitionKind

	boolValue   bool
	stringValue string
	intValue    int
}

// BoolDef builds a boolean definition.
func BoolDef(name string, v bool) Definition {
	return Definition{Name: name, Kind: DefinitionBool, boolValue: v}
}

// StringDef builds a string definition.
func StringDef(name, v string) Definition {
	return Definition{Name: name, Kind: DefinitionString, stringValue: v}
}

// IntDef builds an integer definition.
func IntDef(name string, v int) Definition {
	return Definition{Name: name, Kind: DefinitionInt, intValue: v}
}

// Value renders the definition value as the generator expects it.
func (d Definition) Value() string {
	switch d.Kind {
	case DefinitionBool:
		if d.boolValue {
			return "ON"
		}
		return "OFF"
	case DefinitionInt:
		return strconv.Itoa(d.intValue)
	default:
		return d.stringValue
	}
}

// Arg renders the definition as a -DNAME=VALUE argument.
func (d Definition) Arg() string {
	return "-D" + d.Name + "=" + d.Value()
}

func (d Definition) validate() error {
	if !definitionName.MatchString(d.Name) {
		return zerr.With(zerr.Wrap(ErrInvalidDefinition, "malformed definition name"), "name", d.Name)
	}
	if d.Kind == DefinitionString && strings.ContainsAny(d.stringValue, "\n\r") {
		return zerr.With(zerr.Wrap(ErrInvalidDefinition, "value contains a line break"), "name", d.Name)
	}
	if d.Kind < DefinitionBool || d.Kind > DefinitionInt {
		return zerr.With(zerr.Wrap(ErrInvalidDefinition, "unknown definition kind"), "name", d.Name)
	}
	return nil
}

// Definitions is a validated, name-sorted set of generator definitions.
type Definitions struct {
	items []Definition
}

// NewDefinitions validates defs and rejects duplicate names.
func NewDefinitions(defs ...Definition) (Definitions, error) {
	items := make([]Definition, 0, len(defs))
	seen := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return Definitions{}, err
		}
		if _, dup := seen[d.Name]; dup {
			return Definitions{}, zerr.With(zerr.Wrap(ErrDuplicateDefinition, "definition set twice"), "name", d.Name)
		}
		seen[d.Name] = struct{}{}
		items = append(items, d)
	}
	slices.SortFunc(items, func(a, b Definition) int {
		return strings.Compare(a.Name, b.Name)
	})
	return Definitions{items: items}, nil
}

// Get returns the named definition.
func (d Definitions) Get(name string) (Definition, bool) {
	i, found := slices.BinarySearchFunc(d.items, name, func(item Definition, target string) int {
		return strings.Compare(item.Name, target)
	})
	if !found {
		return Definition{}, false
	}
	return d.items[i], true
}

// Len returns the number of definitions.
func (d Definitions) Len() int {
	return len(d.items)
}

// WithDefault returns a copy that also holds def, unless a definition with that name exists.
func (d Definitions) WithDefault(def Definition) (Definitions, error) {
	if _, ok := d.Get(def.Name); ok {
		return d, nil
	}
	return NewDefinitions(append(slices.Clone(d.items), def)...)
}

// Args renders every definition as a -D argument in name order.
func (d Definitions) Args() []string {
	args := make([]string, 0, len(d.items))
	for _, item := range d.items {
		args = append(args, item.Arg())
	}
	return args
}
