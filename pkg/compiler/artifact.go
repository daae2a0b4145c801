package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"reflect"

	"github.com/typeforge/typeforge/pkg/descriptor"
)

// Field describes one bound field of a compiled artifact: its document key,
// its exported struct name, the schema type governing coercion, and its
// position inside the runtime struct.
type Field struct {
	Name     string // document key, e.g. "firstName"
	GoName   string // exported struct field, e.g. "FirstName"
	Type     descriptor.FieldType
	Required bool
	Default  string
	Index    int // index into the runtime struct
}

// Artifact is a compiled, loadable record type. The runtime Type is built
// with reflect.StructOf from the parsed source text; the field table is the
// only path by which values enter instances, so the type whitelist stays
// enforced in one place.
type Artifact struct {
	QualifiedName string
	TypeName      string
	SourceText    string
	ContentHash   string
	Type          reflect.Type
	Fields        []Field

	byGoName map[string]*Field
}

// FieldByGoName resolves a field by its exported struct name. The binder
// derives that name from a document key with the shared capitalization
// convention.
func (a *Artifact) FieldByGoName(name string) (*Field, bool) {
	f, ok := a.byGoName[name]
	return f, ok
}

// ContentHash computes the cache digest for a (qualified name, source text)
// pair: hex SHA-256 over both, NUL-separated. Identical pairs always hash
// identically; any edit to either produces a new digest.
func ContentHash(qualifiedName, sourceText string) string {
	h := sha256.New()
	h.Write([]byte(qualifiedName))
	h.Write([]byte{0})
	h.Write([]byte(sourceText))
	return hex.EncodeToString(h.Sum(nil))
}
