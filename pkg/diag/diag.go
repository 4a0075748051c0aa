// Package diag collects positioned load-time problems.
//
// Loading a component description keeps going after a bad element: the
// element is dropped, an Issue is recorded and siblings are still processed.
package diag

import (
	"fmt"
	"strings"
)

// Severity classifies an Issue.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Position is a 1-based line/column in a source file. Zero means unknown.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Issue is a single load diagnostic.
type Issue struct {
	Severity Severity
	Pos      Position
	Message  string
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s: %s", i.Pos, i.Severity, i.Message)
}

// Issues is an ordered list of diagnostics.
type Issues []Issue

// Errorf records an Error at pos.
func (is *Issues) Errorf(pos Position, format string, args ...any) {
	*is = append(*is, Issue{Severity: Error, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Warnf records a Warning at pos.
func (is *Issues) Warnf(pos Position, format string, args ...any) {
	*is = append(*is, Issue{Severity: Warning, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// Append adds all of other.
func (is *Issues) Append(other Issues) {
	*is = append(*is, other...)
}

// HasErrors reports whether any Issue has Error severity.
func (is Issues) HasErrors() bool {
	for _, i := range is {
		if i.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the Error severity issues.
func (is Issues) Errors() Issues {
	var out Issues
	for _, i := range is {
		if i.Severity == Error {
			out = append(out, i)
		}
	}
	return out
}

// Err returns nil when there are no errors, otherwise an error listing them.
func (is Issues) Err() error {
	errs := is.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &LoadError{Issues: errs}
}

// LoadError wraps the Error severity issues of a failed load.
type LoadError struct {
	Source string
	Issues Issues
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%d error(s)", len(e.Issues))
	for _, i := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(i.Error())
	}
	return b.String()
}
