package typecache

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/typeforge/typeforge/pkg/compiler"
	"github.com/typeforge/typeforge/pkg/descriptor"
	"github.com/typeforge/typeforge/pkg/typegen"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newCache(t *testing.T, config *Config) *Cache {
	t.Helper()
	c, err := New(config, compiler.NewCompiler(), quietLogger(), nil)
	require.NoError(t, err)
	return c
}

func sourceFor(typeName string) (string, string) {
	d := &descriptor.TypeDescriptor{
		TypeName:  typeName,
		Namespace: "com.example.generated",
		Fields: []descriptor.FieldSpec{
			{Name: "name", Type: "string", Required: true},
		},
	}
	return d.QualifiedName(), typegen.NewGenerator().Generate(d)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 1000, config.MaxEntries)
	assert.Equal(t, 256, config.ArtifactTierSize)
}

func TestCache_HitReturnsSameArtifact(t *testing.T) {
	c := newCache(t, nil)
	qn, src := sourceFor("Person")

	first, err := c.CompileAndLoad(qn, src)
	require.NoError(t, err)
	second, err := c.CompileAndLoad(qn, src)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, Stats{LiveArtifacts: 1, RetainedSources: 1}, c.Stats())
}

func TestCache_ContentAddressing(t *testing.T) {
	c := newCache(t, nil)
	qn, src := sourceFor("Person")

	a, err := c.CompileAndLoad(qn, src)
	require.NoError(t, err)

	// Same source under a different name is a distinct entry.
	b, err := c.CompileAndLoad("com.other.Person", src)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.NotEqual(t, a.ContentHash, b.ContentHash)

	// Any edit to the source is a distinct entry too.
	edited, err := c.CompileAndLoad(qn, src+"\n// touched\n")
	require.NoError(t, err)
	assert.NotSame(t, a, edited)

	assert.Equal(t, Stats{LiveArtifacts: 3, RetainedSources: 3}, c.Stats())
}

func TestCache_RecompilesAfterTierEviction(t *testing.T) {
	c := newCache(t, &Config{MaxEntries: 1000, ArtifactTierSize: 2})

	qnA, srcA := sourceFor("Alpha")
	qnB, srcB := sourceFor("Beta")
	qnC, srcC := sourceFor("Gamma")

	first, err := c.CompileAndLoad(qnA, srcA)
	require.NoError(t, err)
	_, err = c.CompileAndLoad(qnB, srcB)
	require.NoError(t, err)
	_, err = c.CompileAndLoad(qnC, srcC)
	require.NoError(t, err)

	// Alpha was pushed out of the strong tier but its source survives, so
	// loading it again yields a fresh, equivalent artifact.
	stats := c.Stats()
	assert.Equal(t, 2, stats.LiveArtifacts)
	assert.Equal(t, 3, stats.RetainedSources)

	again, err := c.CompileAndLoad(qnA, srcA)
	require.NoError(t, err)
	assert.NotSame(t, first, again)
	assert.Equal(t, first.ContentHash, again.ContentHash)
	assert.Equal(t, first.QualifiedName, again.QualifiedName)
}

func TestCache_ClearsAtCeiling(t *testing.T) {
	c := newCache(t, &Config{MaxEntries: 3, ArtifactTierSize: 8})

	for i := 0; i < 3; i++ {
		qn, src := sourceFor(fmt.Sprintf("Type%d", i))
		_, err := c.CompileAndLoad(qn, src)
		require.NoError(t, err)
	}
	assert.Equal(t, Stats{LiveArtifacts: 3, RetainedSources: 3}, c.Stats())

	// The insert that would exceed the ceiling clears everything first and
	// then lands alone.
	qn, src := sourceFor("Overflow")
	_, err := c.CompileAndLoad(qn, src)
	require.NoError(t, err)
	assert.Equal(t, Stats{LiveArtifacts: 1, RetainedSources: 1}, c.Stats())
}

func TestCache_KnownDigestDoesNotTriggerClear(t *testing.T) {
	c := newCache(t, &Config{MaxEntries: 2, ArtifactTierSize: 1})

	qnA, srcA := sourceFor("Alpha")
	qnB, srcB := sourceFor("Beta")
	_, err := c.CompileAndLoad(qnA, srcA)
	require.NoError(t, err)
	_, err = c.CompileAndLoad(qnB, srcB)
	require.NoError(t, err)

	// Alpha's artifact was reclaimed by the tiny tier; reloading it
	// recompiles under an already-retained digest and must not clear.
	_, err = c.CompileAndLoad(qnA, srcA)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Stats().RetainedSources)
}

func TestCache_SourceText(t *testing.T) {
	c := newCache(t, nil)
	qn, src := sourceFor("Person")

	artifact, err := c.CompileAndLoad(qn, src)
	require.NoError(t, err)

	got, ok := c.SourceText(artifact.ContentHash)
	require.True(t, ok)
	assert.Equal(t, src, got)

	_, ok = c.SourceText("deadbeef")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := newCache(t, nil)
	qn, src := sourceFor("Person")

	_, err := c.CompileAndLoad(qn, src)
	require.NoError(t, err)

	c.Clear()
	assert.Equal(t, Stats{}, c.Stats())

	// Entries can be recreated after a clear.
	_, err = c.CompileAndLoad(qn, src)
	require.NoError(t, err)
	assert.Equal(t, Stats{LiveArtifacts: 1, RetainedSources: 1}, c.Stats())
}

func TestCache_FailureNotCached(t *testing.T) {
	c := newCache(t, nil)

	_, err := c.CompileAndLoad("bad.Thing", "not go source")
	var cErr *compiler.CompilationError
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, Stats{}, c.Stats())
}

func TestCache_ConcurrentLoads(t *testing.T) {
	c := newCache(t, nil)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		i := i
		g.Go(func() error {
			qn, src := sourceFor(fmt.Sprintf("Type%d", i%4))
			for j := 0; j < 20; j++ {
				if _, err := c.CompileAndLoad(qn, src); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	stats := c.Stats()
	assert.Equal(t, 4, stats.RetainedSources)
	assert.Equal(t, 4, stats.LiveArtifacts)
}
