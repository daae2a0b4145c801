// Package forge orchestrates the dynamic type pipeline: descriptor
// validation, source generation, compilation and caching, instantiation,
// document binding, and XML rendering.
package forge
