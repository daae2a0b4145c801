// Package descriptor defines the record-type descriptor model and the
// safety validator that gates it.
//
// A TypeDescriptor is caller-supplied input that eventually becomes compiled
// source text, so validation here is the sole safety boundary of the
// pipeline: identifier grammar, a case-insensitive reserved-keyword check,
// field-count and length limits, and a closed whitelist of scalar field
// types. Nothing downstream re-sandboxes what this package lets through.
//
// All violations surface as *ValidationError, distinct from compilation and
// runtime errors, so transports can map them to "bad request".
package descriptor
