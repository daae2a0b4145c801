package descriptor

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports a descriptor that failed safety validation.
// It is the only error kind produced before any source text exists, so
// callers can map it to "bad input, fix and retry".
type ValidationError struct {
	Location string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("descriptor validation failed: %s", e.Message)
	}
	return fmt.Sprintf("descriptor validation failed at %s: %s", e.Location, e.Message)
}

const (
	// MaxNameLength bounds type, namespace, and field name lengths.
	MaxNameLength = 255
	// MaxFields bounds the number of fields per descriptor.
	MaxFields = 100
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// goKeywords is the reserved-word set checked case-insensitively against
// every identifier that ends up in generated source.
var goKeywords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},
}

func isKeyword(name string) bool {
	_, ok := goKeywords[strings.ToLower(name)]
	return ok
}

// reservedMemberNames are struct members every generated type already
// declares: the XML root-element slot and the String/Equal/Hash methods. A
// field whose capitalized form lands on one of these cannot be declared.
var reservedMemberNames = map[string]struct{}{
	"XMLName": {},
	"String":  {},
	"Equal":   {},
	"Hash":    {},
}

// Validator checks type descriptors against the safety rules before any
// source text is generated. There is no sandboxing downstream: a descriptor
// this validator accepts is trusted by the generator and compiler.
type Validator struct{}

// NewValidator creates a descriptor validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the descriptor and returns a *ValidationError on the
// first violated rule, nil otherwise.
func (v *Validator) Validate(d *TypeDescriptor) error {
	if d == nil {
		return &ValidationError{Message: "descriptor is nil"}
	}
	if err := v.validateTypeName(d.TypeName); err != nil {
		return err
	}
	if err := v.validateNamespace(d.Namespace); err != nil {
		return err
	}
	return v.validateFields(d.Fields)
}

func (v *Validator) validateTypeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Location: "typeName", Message: "type name must not be empty"}
	}
	if len(name) > MaxNameLength {
		return &ValidationError{Location: "typeName",
			Message: fmt.Sprintf("type name exceeds %d characters", MaxNameLength)}
	}
	if !identifierPattern.MatchString(name) {
		return &ValidationError{Location: "typeName",
			Message: fmt.Sprintf("invalid type name %q: must start with a letter or underscore and contain only letters, digits, and underscores", name)}
	}
	if isKeyword(name) {
		return &ValidationError{Location: "typeName",
			Message: fmt.Sprintf("type name %q is a reserved keyword", name)}
	}
	return nil
}

func (v *Validator) validateNamespace(ns string) error {
	if strings.TrimSpace(ns) == "" {
		return &ValidationError{Location: "namespace", Message: "namespace must not be empty"}
	}
	if len(ns) > MaxNameLength {
		return &ValidationError{Location: "namespace",
			Message: fmt.Sprintf("namespace exceeds %d characters", MaxNameLength)}
	}
	for _, segment := range strings.Split(ns, ".") {
		if !identifierPattern.MatchString(segment) {
			return &ValidationError{Location: "namespace",
				Message: fmt.Sprintf("invalid namespace %q: each dot-separated segment must be a valid identifier", ns)}
		}
		if isKeyword(segment) {
			return &ValidationError{Location: "namespace",
				Message: fmt.Sprintf("namespace segment %q is a reserved keyword", segment)}
		}
	}
	return nil
}

func (v *Validator) validateFields(fields []FieldSpec) error {
	if len(fields) == 0 {
		return &ValidationError{Location: "fields", Message: "at least one field must be defined"}
	}
	if len(fields) > MaxFields {
		return &ValidationError{Location: "fields",
			Message: fmt.Sprintf("too many fields: %d (max %d)", len(fields), MaxFields)}
	}

	seen := make(map[string]struct{}, len(fields))
	seenExported := make(map[string]string, len(fields))
	for i, f := range fields {
		location := fmt.Sprintf("fields[%d]", i)
		if strings.TrimSpace(f.Name) == "" {
			return &ValidationError{Location: location, Message: "field name must not be empty"}
		}
		if len(f.Name) > MaxNameLength {
			return &ValidationError{Location: location,
				Message: fmt.Sprintf("field name exceeds %d characters", MaxNameLength)}
		}
		if !identifierPattern.MatchString(f.Name) {
			return &ValidationError{Location: location,
				Message: fmt.Sprintf("invalid field name %q: must start with a letter or underscore and contain only letters, digits, and underscores", f.Name)}
		}
		if isKeyword(f.Name) {
			return &ValidationError{Location: location,
				Message: fmt.Sprintf("field name %q is a reserved keyword", f.Name)}
		}
		// A leading underscore survives capitalization, leaving the struct
		// field unexported and unbuildable via reflection.
		if f.Name[0] == '_' {
			return &ValidationError{Location: location,
				Message: fmt.Sprintf("field name %q must not start with an underscore", f.Name)}
		}
		if _, dup := seen[f.Name]; dup {
			return &ValidationError{Location: location,
				Message: fmt.Sprintf("duplicate field name %q", f.Name)}
		}
		seen[f.Name] = struct{}{}

		// Field names that differ only in the case of their first letter
		// collapse to the same exported struct field and cannot coexist.
		exported := strings.ToUpper(f.Name[:1]) + f.Name[1:]
		if _, reserved := reservedMemberNames[exported]; reserved {
			return &ValidationError{Location: location,
				Message: fmt.Sprintf("field name %q conflicts with the generated member %q", f.Name, exported)}
		}
		if prev, clash := seenExported[exported]; clash {
			return &ValidationError{Location: location,
				Message: fmt.Sprintf("field name %q collides with %q after capitalization", f.Name, prev)}
		}
		seenExported[exported] = f.Name

		if strings.TrimSpace(f.Type) == "" {
			return &ValidationError{Location: location,
				Message: fmt.Sprintf("field %q has no type", f.Name)}
		}
		if _, ok := ParseFieldType(f.Type); !ok {
			return &ValidationError{Location: location,
				Message: fmt.Sprintf("type %q is not allowed for field %q; allowed types: %s",
					f.Type, f.Name, strings.Join(AllowedTypeTokens(), ", "))}
		}
	}
	return nil
}
