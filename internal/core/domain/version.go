package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

// Version is a recipe or dependency version such as "1.74.0", "1.0.2a" or "cci.20200410".
type Version struct {
	raw     string
	numeric []int
	suffix  string
}

// ParseVersion splits s into its numeric components and alpha suffix.
// Versions that do not start with a digit are kept as opaque strings.
func ParseVersion(s string) Version {
	v := Version{raw: strings.TrimSpace(s)}

	parts := strings.Split(v.raw, ".")
	numeric := make([]int, 0, len(parts))
	for i, part := range parts {
		digits := leadingDigits(part)
		if digits == "" {
			return Version{raw: v.raw}
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Version{raw: v.raw}
		}
		numeric = append(numeric, n)
		if rest := part[len(digits):]; rest != "" {
			if i != len(parts)-1 {
				return Version{raw: v.raw}
			}
			v.suffix = rest
		}
	}
	v.numeric = numeric
	return v
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// String returns the version as written.
func (v Version) String() string {
	return v.raw
}

// IsNumeric reports whether the version has a dotted numeric core.
func (v Version) IsNumeric() bool {
	return len(v.numeric) > 0
}

// Compare orders v against o. The second result is false when the versions
// cannot be ordered, which happens when only one of them is numeric.
func (v Version) Compare(o Version) (int, bool) {
	if v.IsNumeric() != o.IsNumeric() {
		return 0, false
	}
	if !v.IsNumeric() {
		return strings.Compare(v.raw, o.raw), true
	}

	if c := semver.Compare(v.canonical(), o.canonical()); c != 0 {
		return c, true
	}
	for i := 3; i < max(len(v.numeric), len(o.numeric)); i++ {
		a, b := component(v.numeric, i), component(o.numeric, i)
		if a != b {
			if a < b {
				return -1, true
			}
			return 1, true
		}
	}
	return strings.Compare(v.suffix, o.suffix), true
}

// canonical renders the first three numeric components as a semver string.
func (v Version) canonical() string {
	return "v" + strconv.Itoa(component(v.numeric, 0)) +
		"." + strconv.Itoa(component(v.numeric, 1)) +
		"." + strconv.Itoa(component(v.numeric, 2))
}

func component(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// VersionConstraint is a single comparison in a version range.
type VersionConstraint struct {
	Op      string
	Version Version
}

// Satisfies reports whether v meets the constraint.
func (c VersionConstraint) Satisfies(v Version) bool {
	cmp, ok := v.Compare(c.Version)
	if !ok {
		return false
	}
	switch c.Op {
	case ">=":
		return cmp >= 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	case "<":
		return cmp < 0
	default:
		return cmp == 0
	}
}

func (c VersionConstraint) String() string {
	if c.Op == "=" {
		return c.Version.String()
	}
	return c.Op + c.Version.String()
}

// VersionRange is a conjunction of constraints.
type VersionRange struct {
	raw         string
	constraints []VersionConstraint
}

var rangeOperators = []string{">=", "<=", "==", ">", "<", "="}

// ParseVersionRange parses expressions such as "1.74.0", "[>=1.0.2a]" or ">=6.0 <7.0.0".
func ParseVersionRange(s string) (VersionRange, error) {
	expr := strings.TrimSpace(s)
	expr = strings.TrimSuffix(strings.TrimPrefix(expr, "["), "]")

	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(fields) == 0 {
		return VersionRange{}, zerr.With(zerr.Wrap(ErrInvalidVersionRange, "empty expression"), "range", s)
	}

	r := VersionRange{raw: s, constraints: make([]VersionConstraint, 0, len(fields))}
	for _, field := range fields {
		op := "="
		for _, candidate := range rangeOperators {
			if strings.HasPrefix(field, candidate) {
				op = candidate
				field = strings.TrimPrefix(field, candidate)
				break
			}
		}
		if op == "==" {
			op = "="
		}
		if field == "" {
			return VersionRange{}, zerr.With(zerr.Wrap(ErrInvalidVersionRange, "operator without version"), "range", s)
		}
		r.constraints = append(r.constraints, VersionConstraint{Op: op, Version: ParseVersion(field)})
	}
	return r, nil
}

// MustParseVersionRange is ParseVersionRange for literals known to be valid.
func MustParseVersionRange(s string) VersionRange {
	r, err := ParseVersionRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Satisfies reports whether v meets every constraint in the range.
func (r VersionRange) Satisfies(v Version) bool {
	for _, c := range r.constraints {
		if !c.Satisfies(v) {
			return false
		}
	}
	return true
}

// Pinned returns the version when the range is a single exact constraint.
func (r VersionRange) Pinned() (Version, bool) {
	if len(r.constraints) != 1 || r.constraints[0].Op != "=" {
		return Version{}, false
	}
	return r.constraints[0].Version, true
}

func (r VersionRange) String() string {
	return r.raw
}
