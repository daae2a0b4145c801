package typegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeforge/typeforge/pkg/descriptor"
)

func personDescriptor() *descriptor.TypeDescriptor {
	return &descriptor.TypeDescriptor{
		TypeName:  "Person",
		Namespace: "com.example.generated",
		Fields: []descriptor.FieldSpec{
			{Name: "firstName", Type: "string", Required: true},
			{Name: "lastName", Type: "string", Required: true},
			{Name: "age", Type: "int", Required: false},
			{Name: "address", Type: "string", Required: false},
		},
	}
}

// TestGenerator_Deterministic asserts byte-identical output for identical
// descriptors, the property the content-addressed cache depends on.
func TestGenerator_Deterministic(t *testing.T) {
	g := NewGenerator()
	first := g.Generate(personDescriptor())
	second := g.Generate(personDescriptor())
	assert.Equal(t, first, second)
}

// TestGenerator_Generate checks the shape of the rendered source.
func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator()
	src := g.Generate(personDescriptor())

	assert.Contains(t, src, "package generated // namespace com.example.generated")
	assert.Contains(t, src, "type Person struct {")
	assert.Contains(t, src, "XMLName xml.Name `json:\"-\" xml:\"Person\"`")
	assert.Contains(t, src, "FirstName string `json:\"firstName\" xml:\"firstName\" forge:\"string,required\"`")
	assert.Contains(t, src, "Age int32 `json:\"age,omitempty\" xml:\"age\" forge:\"int32\"`")
	assert.Contains(t, src, "func NewPerson() *Person {")
	assert.Contains(t, src, "func (p *Person) GetFirstName() string {")
	assert.Contains(t, src, "func (p *Person) SetFirstName(v string) {")
	assert.Contains(t, src, "func (p *Person) String() string {")
	assert.Contains(t, src, "func (p *Person) Equal(o *Person) bool {")
	assert.Contains(t, src, "func (p *Person) Hash() uint64 {")

	// Fields appear in declaration order in the string representation.
	assert.Contains(t, src, "Person{firstName=%v, lastName=%v, age=%v, address=%v}")
}

// TestGenerator_Imports verifies the import block tracks the field set.
func TestGenerator_Imports(t *testing.T) {
	g := NewGenerator()

	t.Run("scalar fields only", func(t *testing.T) {
		src := g.Generate(personDescriptor())
		assert.NotContains(t, src, `"time"`)
		assert.NotContains(t, src, "shopspring/decimal")
	})

	t.Run("date and decimal fields", func(t *testing.T) {
		d := &descriptor.TypeDescriptor{
			TypeName:  "Invoice",
			Namespace: "billing",
			Fields: []descriptor.FieldSpec{
				{Name: "issuedAt", Type: "datetime", Required: true},
				{Name: "total", Type: "decimal", Required: true},
			},
		}
		src := g.Generate(d)
		assert.Contains(t, src, "\t\"time\"\n")
		assert.Contains(t, src, "github.com/shopspring/decimal")
		assert.Contains(t, src, "IssuedAt time.Time")
		assert.Contains(t, src, "Total decimal.Decimal")
		// Non-comparable field types use Equal instead of ==.
		assert.Contains(t, src, "i.IssuedAt.Equal(o.IssuedAt)")
		assert.Contains(t, src, "i.Total.Equal(o.Total)")
	})
}

// TestGenerator_DefaultTag checks the default literal survives into the tag.
func TestGenerator_DefaultTag(t *testing.T) {
	g := NewGenerator()
	d := personDescriptor()
	d.Fields[2].DefaultValue = "42"
	src := g.Generate(d)
	assert.Contains(t, src, "`json:\"age,omitempty\" xml:\"age\" forge:\"int32\" default:\"42\"`")
}

// TestGenerator_Description includes the descriptor description in the header.
func TestGenerator_Description(t *testing.T) {
	g := NewGenerator()
	d := personDescriptor()
	d.Description = "A person record"
	src := g.Generate(d)
	assert.Contains(t, src, "// A person record")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "FirstName", Capitalize("firstName"))
	assert.Equal(t, "Age", Capitalize("age"))
	assert.Equal(t, "X", Capitalize("x"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Already", Capitalize("Already"))
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "generated", PackageName("com.example.generated"))
	assert.Equal(t, "billing", PackageName("billing"))
}

// TestGenerator_DistinctDescriptorsDiffer guards against accidental reuse of
// source text across descriptors.
func TestGenerator_DistinctDescriptorsDiffer(t *testing.T) {
	g := NewGenerator()
	a := personDescriptor()
	b := personDescriptor()
	b.Fields[0].Name = "givenName"
	require.NotEqual(t, g.Generate(a), g.Generate(b))
}
