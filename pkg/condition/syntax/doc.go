// Package syntax parses the textual condition dialects used by component
// descriptions.
//
// Three dialects exist, selected by the description's declared format
// version:
//
//	legacy (< 1.1)   horizontal,$Type(eq_Default),!$Inverted
//	v1.1             _horizontal,$Type(eq_Default)|$Style(ne_IEC)
//	modern (>= 1.2)  horizontal && ($Type == Default || $R < 1000)
//
// Every dialect compiles to the same condition.Tree. Literals are typed from
// the declared type of the property they are compared with, so a reference to
// an undeclared property is a parse error.
package syntax
