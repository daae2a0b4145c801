package typegen

import (
	"fmt"
	"strings"

	"github.com/typeforge/typeforge/pkg/descriptor"
)

// Generator renders Go source text for a validated type descriptor.
//
// Generation is pure and deterministic: the same descriptor always yields
// byte-identical source. The compilation cache keys on a digest of this
// text, so nothing time- or environment-dependent may be emitted.
type Generator struct{}

// NewGenerator creates a source generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Capitalize upper-cases the first letter of a field name. It is the single
// naming convention shared by the generator (struct fields, getters,
// setters) and the field binder (document key to setter resolution).
func Capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// PackageName returns the Go package name derived from a dot-separated
// namespace: its final segment.
func PackageName(namespace string) string {
	if idx := strings.LastIndex(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

// Generate renders the source text for the descriptor. It is total over
// descriptors accepted by descriptor.Validator; callers must validate first.
func (g *Generator) Generate(d *descriptor.TypeDescriptor) string {
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by typeforge for %s. DO NOT EDIT.\n", d.QualifiedName())
	if d.Description != "" {
		fmt.Fprintf(&b, "//\n// %s\n", d.Description)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "package %s // namespace %s\n\n", PackageName(d.Namespace), d.Namespace)

	g.writeImports(&b, d)
	g.writeStruct(&b, d)
	g.writeConstructor(&b, d)
	g.writeAccessors(&b, d)
	g.writeString(&b, d)
	g.writeEqual(&b, d)
	g.writeHash(&b, d)

	return b.String()
}

func (g *Generator) writeImports(b *strings.Builder, d *descriptor.TypeDescriptor) {
	needsTime := false
	needsDecimal := false
	for _, f := range d.Fields {
		ft, _ := descriptor.ParseFieldType(f.Type)
		switch ft {
		case descriptor.FieldTypeDate, descriptor.FieldTypeDateTime:
			needsTime = true
		case descriptor.FieldTypeDecimal:
			needsDecimal = true
		}
	}

	b.WriteString("import (\n")
	b.WriteString("\t\"encoding/xml\"\n")
	b.WriteString("\t\"fmt\"\n")
	b.WriteString("\t\"hash/fnv\"\n")
	if needsTime {
		b.WriteString("\t\"time\"\n")
	}
	if needsDecimal {
		b.WriteString("\n\t\"github.com/shopspring/decimal\"\n")
	}
	b.WriteString(")\n\n")
}

func (g *Generator) writeStruct(b *strings.Builder, d *descriptor.TypeDescriptor) {
	fmt.Fprintf(b, "// %s is a dynamically generated record type.\n", d.TypeName)
	fmt.Fprintf(b, "type %s struct {\n", d.TypeName)
	fmt.Fprintf(b, "\tXMLName xml.Name `json:\"-\" xml:\"%s\"`\n", d.TypeName)
	for _, f := range d.Fields {
		ft, _ := descriptor.ParseFieldType(f.Type)
		fmt.Fprintf(b, "\t%s %s `%s`\n", Capitalize(f.Name), ft.GoType(), FieldTag(f))
	}
	b.WriteString("}\n\n")
}

// FieldTag renders the struct tag for a field: json and xml bindings named
// after the document key, the canonical schema type in the forge tag
// (",required" appended for required fields), and the default literal when
// one is declared.
func FieldTag(f descriptor.FieldSpec) string {
	ft, _ := descriptor.ParseFieldType(f.Type)
	jsonTag := f.Name
	forgeTag := string(ft)
	if f.Required {
		forgeTag += ",required"
	} else {
		jsonTag += ",omitempty"
	}
	tag := fmt.Sprintf("json:%q xml:%q forge:%q", jsonTag, f.Name, forgeTag)
	if f.DefaultValue != "" {
		tag += fmt.Sprintf(" default:%q", f.DefaultValue)
	}
	return tag
}

func (g *Generator) writeConstructor(b *strings.Builder, d *descriptor.TypeDescriptor) {
	fmt.Fprintf(b, "// New%s creates an empty %s.\n", d.TypeName, d.TypeName)
	fmt.Fprintf(b, "func New%s() *%s {\n", d.TypeName, d.TypeName)
	fmt.Fprintf(b, "\treturn &%s{}\n", d.TypeName)
	b.WriteString("}\n\n")
}

func (g *Generator) writeAccessors(b *strings.Builder, d *descriptor.TypeDescriptor) {
	recv := receiverName(d.TypeName)
	for _, f := range d.Fields {
		ft, _ := descriptor.ParseFieldType(f.Type)
		goName := Capitalize(f.Name)
		fmt.Fprintf(b, "func (%s *%s) Get%s() %s {\n", recv, d.TypeName, goName, ft.GoType())
		fmt.Fprintf(b, "\treturn %s.%s\n", recv, goName)
		b.WriteString("}\n\n")
		fmt.Fprintf(b, "func (%s *%s) Set%s(v %s) {\n", recv, d.TypeName, goName, ft.GoType())
		fmt.Fprintf(b, "\t%s.%s = v\n", recv, goName)
		b.WriteString("}\n\n")
	}
}

func (g *Generator) writeString(b *strings.Builder, d *descriptor.TypeDescriptor) {
	recv := receiverName(d.TypeName)
	fmt.Fprintf(b, "func (%s *%s) String() string {\n", recv, d.TypeName)
	parts := make([]string, 0, len(d.Fields))
	args := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		parts = append(parts, f.Name+"=%v")
		args = append(args, recv+"."+Capitalize(f.Name))
	}
	fmt.Fprintf(b, "\treturn fmt.Sprintf(%q, %s)\n",
		d.TypeName+"{"+strings.Join(parts, ", ")+"}", strings.Join(args, ", "))
	b.WriteString("}\n\n")
}

func (g *Generator) writeEqual(b *strings.Builder, d *descriptor.TypeDescriptor) {
	recv := receiverName(d.TypeName)
	fmt.Fprintf(b, "// Equal reports structural equality across all fields.\n")
	fmt.Fprintf(b, "func (%s *%s) Equal(o *%s) bool {\n", recv, d.TypeName, d.TypeName)
	fmt.Fprintf(b, "\tif o == nil {\n\t\treturn false\n\t}\n")
	conds := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		ft, _ := descriptor.ParseFieldType(f.Type)
		goName := Capitalize(f.Name)
		switch ft {
		case descriptor.FieldTypeDate, descriptor.FieldTypeDateTime:
			conds = append(conds, fmt.Sprintf("%s.%s.Equal(o.%s)", recv, goName, goName))
		case descriptor.FieldTypeDecimal:
			conds = append(conds, fmt.Sprintf("%s.%s.Equal(o.%s)", recv, goName, goName))
		default:
			conds = append(conds, fmt.Sprintf("%s.%s == o.%s", recv, goName, goName))
		}
	}
	fmt.Fprintf(b, "\treturn %s\n", strings.Join(conds, " &&\n\t\t"))
	b.WriteString("}\n\n")
}

func (g *Generator) writeHash(b *strings.Builder, d *descriptor.TypeDescriptor) {
	recv := receiverName(d.TypeName)
	fmt.Fprintf(b, "// Hash combines all fields into a 64-bit FNV-1a digest.\n")
	fmt.Fprintf(b, "func (%s *%s) Hash() uint64 {\n", recv, d.TypeName)
	b.WriteString("\th := fnv.New64a()\n")
	for _, f := range d.Fields {
		fmt.Fprintf(b, "\tfmt.Fprintf(h, \"%%v\\x00\", %s.%s)\n", recv, Capitalize(f.Name))
	}
	b.WriteString("\treturn h.Sum64()\n")
	b.WriteString("}\n")
}

func receiverName(typeName string) string {
	c := typeName[0]
	if c == '_' {
		return "x"
	}
	return strings.ToLower(typeName[:1])
}
