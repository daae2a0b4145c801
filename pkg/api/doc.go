// Package api exposes the type-forging pipeline over HTTP: type generation,
// instance materialization, cache introspection and reset, health, and
// metrics. Descriptor validation failures map to 400; compilation,
// instantiation, and marshalling failures map to 500.
package api
