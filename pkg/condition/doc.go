// Package condition implements the boolean expressions that gate render
// groups, connection groups, flag rules, format rules and definition values.
//
// A Tree is an immutable value: Always, a single Leaf, or an And/Or node over
// two subtrees. Leaves compare either the instance orientation (a State leaf)
// or a resolved property value (a Property leaf) against a literal.
//
// Trees are evaluated against a State, normally a description.Binding that
// applies configuration setters and property defaults.
//
// The textual dialects live in the syntax subpackage; all of them compile to
// the same Tree representation.
package condition
