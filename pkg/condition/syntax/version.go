package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/condition"
)

// Version is a description format version such as 1.2.
type Version struct {
	Major int
	Minor int
}

var (
	V1_0 = Version{1, 0}
	V1_1 = Version{1, 1}
	V1_2 = Version{1, 2}
)

// ParseVersion parses "major.minor". An empty string is 1.0.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return V1_0, nil
	}
	major, minor, _ := strings.Cut(s, ".")
	var v Version
	var err error
	if v.Major, err = strconv.Atoi(major); err != nil {
		return Version{}, fmt.Errorf("syntax: invalid format version %q", s)
	}
	if minor != "" {
		if v.Minor, err = strconv.Atoi(minor); err != nil {
			return Version{}, fmt.Errorf("syntax: invalid format version %q", s)
		}
	}
	return v, nil
}

// Less orders versions.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// PropertyTypes reports the declared type of a property.
type PropertyTypes interface {
	PropertyKind(name string) (condition.Kind, bool)
}

// Kinds is a PropertyTypes backed by a map.
type Kinds map[string]condition.Kind

func (k Kinds) PropertyKind(name string) (condition.Kind, bool) {
	kind, ok := k[name]
	return kind, ok
}

// Parser compiles condition text into a Tree.
type Parser interface {
	Parse(text string, props PropertyTypes) (condition.Tree, error)
}

// ParserFor returns the dialect parser for a format version.
func ParserFor(v Version) Parser {
	switch {
	case v.Less(V1_1):
		return Legacy
	case v.Less(V1_2):
		return V11
	default:
		return Modern
	}
}

// Parse compiles text using the dialect for version v.
func Parse(v Version, text string, props PropertyTypes) (condition.Tree, error) {
	return ParserFor(v).Parse(text, props)
}
