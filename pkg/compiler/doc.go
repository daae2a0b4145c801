// Package compiler loads rendered source text into instantiable artifacts.
//
// The "compile" step parses the source with go/parser, re-derives the field
// set from declared types and struct tags, and builds the runtime struct
// type with reflect.StructOf. This keeps compilation in-process and
// deterministic while preserving the contract that matters: the source text
// is the unit of identity (hashed for the cache) and the artifact is an
// opaque handle from which instances are constructed.
//
// Declared field types are re-validated against the descriptor whitelist at
// compile time, so hand-edited source cannot widen the type surface beyond
// what a validated descriptor could express.
package compiler
