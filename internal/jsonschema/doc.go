// Package jsonschema derives JSON Schema documents from Go types by
// reflection. Generators embed the result in their prompts so the model knows
// the exact answer shape that recovery will decode into.
//
// Structs, primitives, slices, maps, pointers and interfaces are supported.
// A struct that contains itself is emitted once under $defs and referenced
// with $ref.
package jsonschema
