// Package binder populates compiled instances from untyped documents.
package binder
