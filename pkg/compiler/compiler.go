package compiler

import (
	"encoding/xml"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/typeforge/typeforge/pkg/descriptor"
)

// Compiler turns rendered source text into loadable artifacts.
//
// Instead of shelling out to a toolchain, it parses the source with
// go/parser, rebuilds the field set from the declared types and struct tags,
// and constructs the runtime type with reflect.StructOf. The declared Go
// type of every field is re-checked against the whitelist, so source text
// edited outside the generator cannot smuggle in types the schema never
// authorized.
type Compiler struct{}

// NewCompiler creates a compiler.
func NewCompiler() *Compiler {
	return &Compiler{}
}

var xmlNameType = reflect.TypeOf(xml.Name{})

// Compile parses sourceText and builds the artifact for qualifiedName.
// Any failure is reported as a *CompilationError carrying the qualified
// name and a diagnostic.
func (c *Compiler) Compile(qualifiedName, sourceText string) (*Artifact, error) {
	typeName := qualifiedName
	if idx := strings.LastIndex(qualifiedName, "."); idx >= 0 {
		typeName = qualifiedName[idx+1:]
	}
	if typeName == "" {
		return nil, &CompilationError{QualifiedName: qualifiedName, Diagnostic: "empty type name"}
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, typeName+".go", sourceText, parser.SkipObjectResolution)
	if err != nil {
		return nil, &CompilationError{QualifiedName: qualifiedName, Diagnostic: "source does not parse", Err: err}
	}

	structType := findStruct(file, typeName)
	if structType == nil {
		return nil, &CompilationError{QualifiedName: qualifiedName,
			Diagnostic: fmt.Sprintf("source declares no struct type %q", typeName)}
	}

	artifact := &Artifact{
		QualifiedName: qualifiedName,
		TypeName:      typeName,
		SourceText:    sourceText,
		ContentHash:   ContentHash(qualifiedName, sourceText),
		byGoName:      make(map[string]*Field),
	}

	structFields := []reflect.StructField{{
		Name: "XMLName",
		Type: xmlNameType,
		Tag:  reflect.StructTag(fmt.Sprintf("json:%q xml:%q", "-", typeName)),
	}}

	for _, astField := range structType.Fields.List {
		if len(astField.Names) != 1 {
			return nil, &CompilationError{QualifiedName: qualifiedName,
				Diagnostic: "struct fields must declare exactly one name"}
		}
		goName := astField.Names[0].Name
		if goName == "XMLName" {
			continue
		}

		tag, err := fieldTag(astField)
		if err != nil {
			return nil, &CompilationError{QualifiedName: qualifiedName,
				Diagnostic: fmt.Sprintf("field %s: %v", goName, err)}
		}

		ft, required, err := parseForgeTag(tag)
		if err != nil {
			return nil, &CompilationError{QualifiedName: qualifiedName,
				Diagnostic: fmt.Sprintf("field %s: %v", goName, err)}
		}

		// The declared Go type must agree with the schema type; a mismatch
		// means the source was edited outside the generator.
		declared := typeExprString(astField.Type)
		if declared != ft.GoType() {
			return nil, &CompilationError{QualifiedName: qualifiedName,
				Diagnostic: fmt.Sprintf("field %s declares type %s but schema type %s requires %s",
					goName, declared, ft, ft.GoType())}
		}

		docKey := documentKey(tag, goName)
		field := Field{
			Name:     docKey,
			GoName:   goName,
			Type:     ft,
			Required: required,
			Default:  tag.Get("default"),
			Index:    len(structFields),
		}
		artifact.Fields = append(artifact.Fields, field)
		structFields = append(structFields, reflect.StructField{
			Name: goName,
			Type: ft.ReflectType(),
			Tag:  tag,
		})
	}

	if len(artifact.Fields) == 0 {
		return nil, &CompilationError{QualifiedName: qualifiedName,
			Diagnostic: "struct declares no bindable fields"}
	}

	runtimeType, err := buildStruct(structFields)
	if err != nil {
		return nil, &CompilationError{QualifiedName: qualifiedName,
			Diagnostic: "runtime type construction failed", Err: err}
	}
	artifact.Type = runtimeType

	for i := range artifact.Fields {
		artifact.byGoName[artifact.Fields[i].GoName] = &artifact.Fields[i]
	}
	return artifact, nil
}

// buildStruct wraps reflect.StructOf, which panics on invalid input such as
// duplicate field names.
func buildStruct(fields []reflect.StructField) (t reflect.Type, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return reflect.StructOf(fields), nil
}

func findStruct(file *ast.File, typeName string) *ast.StructType {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.Name.Name != typeName {
				continue
			}
			if structType, ok := typeSpec.Type.(*ast.StructType); ok {
				return structType
			}
		}
	}
	return nil
}

func fieldTag(f *ast.Field) (reflect.StructTag, error) {
	if f.Tag == nil {
		return "", fmt.Errorf("missing struct tag")
	}
	raw, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return "", fmt.Errorf("malformed struct tag: %w", err)
	}
	return reflect.StructTag(raw), nil
}

func parseForgeTag(tag reflect.StructTag) (descriptor.FieldType, bool, error) {
	value, ok := tag.Lookup("forge")
	if !ok {
		return "", false, fmt.Errorf("missing forge tag")
	}
	parts := strings.Split(value, ",")
	ft, known := descriptor.ParseFieldType(parts[0])
	if !known {
		return "", false, fmt.Errorf("schema type %q is not in the whitelist", parts[0])
	}
	required := false
	for _, opt := range parts[1:] {
		if opt == "required" {
			required = true
		}
	}
	return ft, required, nil
}

func documentKey(tag reflect.StructTag, goName string) string {
	if xmlTag := tag.Get("xml"); xmlTag != "" {
		return strings.Split(xmlTag, ",")[0]
	}
	return strings.ToLower(goName[:1]) + goName[1:]
}

func typeExprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
	}
	return ""
}
