// Package typegen renders compilable Go source text from a validated type
// descriptor.
//
// The rendered text is the caller-visible artifact and, more importantly,
// the input to the compilation cache's content digest. Generation is
// therefore strictly deterministic: field order follows declaration order,
// imports are selected by the field set alone, and no timestamps or other
// environment-dependent text is ever emitted.
package typegen
