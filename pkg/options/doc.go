// Package options implements the declarative configuration framework used by
// the storage engine's options objects and its pluggable component system.
//
// A structure "shape" is described once by a FieldMap: an immutable table of
// per-field descriptors (OptionTypeInfo) built at registration time. Three
// symmetric engines walk a FieldMap together with a target structure:
//
//   - the parser populates a target from a textual key=value form,
//   - the serializer produces that textual form from a target,
//   - the comparator checks two targets for semantic equality under a
//     configurable strictness level.
//
// Field access goes through typed accessor closures bound when the
// descriptor is constructed, so the engines never touch raw memory. Nested
// structures, vector-valued fields, and polymorphic (Customizable) fields
// resolved by a type-id string through an external registry are all handled
// by recursion over nested descriptor tables.
//
// The textual grammar is a delimited key=value list; a value wrapped in
// matching braces is itself such a list, recursively. Vector elements are
// joined by a separator (default ':') and tokenized with the same
// brace-aware rule.
package options
