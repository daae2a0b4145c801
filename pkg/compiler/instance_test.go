package compiler

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeforge/typeforge/pkg/descriptor"
	"github.com/typeforge/typeforge/pkg/typegen"
)

func compile(t *testing.T, d *descriptor.TypeDescriptor) *Artifact {
	t.Helper()
	src := typegen.NewGenerator().Generate(d)
	artifact, err := NewCompiler().Compile(d.QualifiedName(), src)
	require.NoError(t, err)
	return artifact
}

func TestNewInstance(t *testing.T) {
	artifact := compile(t, personDescriptor())

	inst, err := NewInstance(artifact)
	require.NoError(t, err)
	require.NotNil(t, inst)
	assert.Same(t, artifact, inst.Artifact())

	// Fields start at their zero values.
	age, _ := artifact.FieldByGoName("Age")
	assert.Equal(t, int32(0), inst.Get(age))
}

func TestNewInstance_NilArtifact(t *testing.T) {
	_, err := NewInstance(nil)
	var iErr *InstantiationError
	require.ErrorAs(t, err, &iErr)
}

func TestNewInstance_AppliesDefaults(t *testing.T) {
	artifact := compile(t, &descriptor.TypeDescriptor{
		TypeName:  "Widget",
		Namespace: "com.example.generated",
		Fields: []descriptor.FieldSpec{
			{Name: "name", Type: "string", DefaultValue: "unnamed"},
			{Name: "count", Type: "int32", DefaultValue: "3"},
			{Name: "active", Type: "bool", DefaultValue: "true"},
		},
	})

	inst, err := NewInstance(artifact)
	require.NoError(t, err)

	name, _ := artifact.FieldByGoName("Name")
	count, _ := artifact.FieldByGoName("Count")
	active, _ := artifact.FieldByGoName("Active")
	assert.Equal(t, "unnamed", inst.Get(name))
	assert.Equal(t, int32(3), inst.Get(count))
	assert.Equal(t, true, inst.Get(active))
}

func TestNewInstance_BadDefault(t *testing.T) {
	artifact := compile(t, &descriptor.TypeDescriptor{
		TypeName:  "Widget",
		Namespace: "com.example.generated",
		Fields: []descriptor.FieldSpec{
			{Name: "count", Type: "int32", DefaultValue: "not a number"},
		},
	})

	_, err := NewInstance(artifact)
	var iErr *InstantiationError
	require.ErrorAs(t, err, &iErr)
	assert.Equal(t, "com.example.generated.Widget", iErr.QualifiedName)
	assert.Contains(t, err.Error(), "count")
}

// TestInstance_SetCoercion exercises the conversion table with the value
// shapes a decoded JSON document actually produces.
func TestInstance_SetCoercion(t *testing.T) {
	artifact := compile(t, &descriptor.TypeDescriptor{
		TypeName:  "Everything",
		Namespace: "com.example.generated",
		Fields: []descriptor.FieldSpec{
			{Name: "name", Type: "string"},
			{Name: "count", Type: "int32"},
			{Name: "total", Type: "int64"},
			{Name: "ratio", Type: "float32"},
			{Name: "precise", Type: "float64"},
			{Name: "active", Type: "bool"},
			{Name: "born", Type: "date"},
			{Name: "updated", Type: "datetime"},
			{Name: "balance", Type: "decimal"},
		},
	})

	tests := []struct {
		name   string
		goName string
		in     any
		want   any
	}{
		{"string passthrough", "Name", "hello", "hello"},
		{"string from number", "Name", float64(42), "42"},
		{"string from bool", "Name", true, "true"},
		{"int32 from json number", "Count", float64(30), int32(30)},
		{"int32 from string", "Count", "30", int32(30)},
		{"int64 from json number", "Total", float64(9000000000), int64(9000000000)},
		{"int64 from string", "Total", "9000000000", int64(9000000000)},
		{"float32", "Ratio", float64(0.5), float32(0.5)},
		{"float64", "Precise", float64(2.25), 2.25},
		{"float64 from string", "Precise", "2.25", 2.25},
		{"bool passthrough", "Active", true, true},
		{"bool from string", "Active", "true", true},
		{"date", "Born", "1994-03-17", time.Date(1994, 3, 17, 0, 0, 0, 0, time.UTC)},
		{"datetime rfc3339", "Updated", "2024-06-01T10:30:00Z",
			time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)},
		{"datetime without zone", "Updated", "2024-06-01T10:30:00",
			time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := NewInstance(artifact)
			require.NoError(t, err)
			f, ok := artifact.FieldByGoName(tt.goName)
			require.True(t, ok)

			require.NoError(t, inst.Set(f, tt.in))
			assert.Equal(t, tt.want, inst.Get(f))
		})
	}

	t.Run("decimal from string", func(t *testing.T) {
		inst, err := NewInstance(artifact)
		require.NoError(t, err)
		f, _ := artifact.FieldByGoName("Balance")
		require.NoError(t, inst.Set(f, "19.99"))
		got := inst.Get(f).(decimal.Decimal)
		assert.True(t, got.Equal(decimal.RequireFromString("19.99")))
	})

	t.Run("decimal from number", func(t *testing.T) {
		inst, err := NewInstance(artifact)
		require.NoError(t, err)
		f, _ := artifact.FieldByGoName("Balance")
		require.NoError(t, inst.Set(f, float64(2.5)))
		got := inst.Get(f).(decimal.Decimal)
		assert.True(t, got.Equal(decimal.NewFromFloat(2.5)))
	})
}

func TestInstance_SetRejections(t *testing.T) {
	artifact := compile(t, &descriptor.TypeDescriptor{
		TypeName:  "Everything",
		Namespace: "com.example.generated",
		Fields: []descriptor.FieldSpec{
			{Name: "count", Type: "int32"},
			{Name: "active", Type: "bool"},
			{Name: "born", Type: "date"},
			{Name: "balance", Type: "decimal"},
		},
	})

	tests := []struct {
		name   string
		goName string
		in     any
	}{
		{"nil value", "Count", nil},
		{"int32 overflow", "Count", float64(1 << 40)},
		{"int32 garbage string", "Count", "thirty"},
		{"int32 from bool", "Count", true},
		{"bool garbage string", "Active", "yep"},
		{"date garbage", "Born", "17/03/1994"},
		{"date from number", "Born", float64(1)},
		{"decimal garbage", "Balance", "lots"},
		{"decimal from bool", "Balance", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst, err := NewInstance(artifact)
			require.NoError(t, err)
			f, ok := artifact.FieldByGoName(tt.goName)
			require.True(t, ok)
			assert.Error(t, inst.Set(f, tt.in))
		})
	}
}
