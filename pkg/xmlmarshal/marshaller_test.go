package xmlmarshal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeforge/typeforge/pkg/compiler"
	"github.com/typeforge/typeforge/pkg/descriptor"
	"github.com/typeforge/typeforge/pkg/typegen"
)

func boundPerson(t *testing.T) *compiler.Instance {
	t.Helper()
	d := &descriptor.TypeDescriptor{
		TypeName:  "Person",
		Namespace: "com.example.generated",
		Fields: []descriptor.FieldSpec{
			{Name: "firstName", Type: "string", Required: true},
			{Name: "lastName", Type: "string", Required: true},
			{Name: "age", Type: "int"},
		},
	}
	src := typegen.NewGenerator().Generate(d)
	artifact, err := compiler.NewCompiler().Compile(d.QualifiedName(), src)
	require.NoError(t, err)
	inst, err := compiler.NewInstance(artifact)
	require.NoError(t, err)

	set := func(goName string, value any) {
		f, ok := artifact.FieldByGoName(goName)
		require.True(t, ok)
		require.NoError(t, inst.Set(f, value))
	}
	set("FirstName", "John")
	set("LastName", "Doe")
	set("Age", float64(30))
	return inst
}

func TestMarshaller_Pretty(t *testing.T) {
	out, err := NewMarshaller().ToXML(boundPerson(t), true)
	require.NoError(t, err)

	want := "<Person>\n" +
		"  <firstName>John</firstName>\n" +
		"  <lastName>Doe</lastName>\n" +
		"  <age>30</age>\n" +
		"</Person>"
	assert.Equal(t, want, out)
}

func TestMarshaller_Compact(t *testing.T) {
	out, err := NewMarshaller().ToXML(boundPerson(t), false)
	require.NoError(t, err)

	assert.Equal(t,
		"<Person><firstName>John</firstName><lastName>Doe</lastName><age>30</age></Person>",
		out)
}

func TestMarshaller_NilInstance(t *testing.T) {
	_, err := NewMarshaller().ToXML(nil, true)
	var mErr *MarshallingError
	require.ErrorAs(t, err, &mErr)
	assert.Contains(t, err.Error(), "nil")
}

func TestMarshaller_DecimalAndTimeFields(t *testing.T) {
	d := &descriptor.TypeDescriptor{
		TypeName:  "Invoice",
		Namespace: "com.example.generated",
		Fields: []descriptor.FieldSpec{
			{Name: "total", Type: "decimal", Required: true},
			{Name: "issuedAt", Type: "datetime", Required: true},
		},
	}
	src := typegen.NewGenerator().Generate(d)
	artifact, err := compiler.NewCompiler().Compile(d.QualifiedName(), src)
	require.NoError(t, err)
	inst, err := compiler.NewInstance(artifact)
	require.NoError(t, err)

	total, _ := artifact.FieldByGoName("Total")
	issuedAt, _ := artifact.FieldByGoName("IssuedAt")
	require.NoError(t, inst.Set(total, "19.99"))
	require.NoError(t, inst.Set(issuedAt, "2024-06-01T10:30:00Z"))

	out, err := NewMarshaller().ToXML(inst, false)
	require.NoError(t, err)
	assert.Contains(t, out, "<total>19.99</total>")
	assert.Contains(t, out, "<issuedAt>2024-06-01T10:30:00Z</issuedAt>")
}
