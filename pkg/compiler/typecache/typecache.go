package typecache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/typeforge/typeforge/pkg/compiler"
	"github.com/typeforge/typeforge/pkg/observability"
)

// Config holds cache tuning knobs.
type Config struct {
	// MaxEntries is the hard ceiling on retained entries. Reaching it
	// clears the entire cache before the next insert: artifacts are cheap
	// to rebuild from retained source, so whole-cache invalidation buys
	// simplicity over recency tracking at the cost of a latency cliff.
	MaxEntries int

	// ArtifactTierSize bounds the strongly-held artifact tier. Artifacts
	// pushed out of the tier keep their retained source and are recompiled
	// on the next load, standing in for soft-reference reclamation under
	// memory pressure without depending on the garbage collector's timing.
	ArtifactTierSize int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxEntries:       1000,
		ArtifactTierSize: 256,
	}
}

// Stats reports cache occupancy.
type Stats struct {
	LiveArtifacts   int `json:"liveArtifactCount"`
	RetainedSources int `json:"retainedSourceCount"`
}

// Cache is the content-addressed compilation cache. Keys are SHA-256
// digests over (qualified name, source text); identical inputs always reuse
// an artifact, and any edit to either produces a new entry.
//
// Safe for concurrent use. Two callers racing to compile the same digest
// may both compile; compilation is deterministic, so the redundant work is
// harmless and the second result simply overwrites the first.
type Cache struct {
	config   *Config
	compiler *compiler.Compiler
	log      *logrus.Logger
	metrics  *observability.Metrics

	mu        sync.RWMutex
	sources   map[string]string // digest -> retained source text
	artifacts *lru.Cache[string, *compiler.Artifact]
}

// New creates a compilation cache. A nil config uses DefaultConfig; a nil
// logger falls back to a fresh logrus logger; metrics may be nil.
func New(config *Config, comp *compiler.Compiler, log *logrus.Logger, metrics *observability.Metrics) (*Cache, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if comp == nil {
		comp = compiler.NewCompiler()
	}
	if log == nil {
		log = logrus.New()
	}

	c := &Cache{
		config:   config,
		compiler: comp,
		log:      log,
		metrics:  metrics,
		sources:  make(map[string]string),
	}

	tier, err := lru.NewWithEvict[string, *compiler.Artifact](config.ArtifactTierSize,
		func(key string, _ *compiler.Artifact) {
			if metrics != nil {
				metrics.CacheEvictionsTotal.Inc()
			}
			log.WithField("content_hash", key).Debug("artifact evicted from strong tier")
		})
	if err != nil {
		return nil, err
	}
	c.artifacts = tier
	return c, nil
}

// CompileAndLoad resolves the artifact for (qualifiedName, sourceText):
// strong-tier hit, recompile from retained source, or first compile. Failed
// compilations are never cached.
func (c *Cache) CompileAndLoad(qualifiedName, sourceText string) (*compiler.Artifact, error) {
	digest := compiler.ContentHash(qualifiedName, sourceText)

	if artifact, ok := c.artifacts.Get(digest); ok {
		c.recordHit()
		c.log.WithFields(logrus.Fields{
			"qualified_name": qualifiedName,
			"content_hash":   digest,
		}).Debug("compilation cache hit")
		return artifact, nil
	}
	c.recordMiss()

	c.mu.RLock()
	retained, known := c.sources[digest]
	c.mu.RUnlock()
	if known {
		// The artifact was reclaimed from the strong tier; pay a one-time
		// recompilation from the retained source.
		c.log.WithField("qualified_name", qualifiedName).Debug("artifact reclaimed, recompiling from retained source")
		sourceText = retained
	}

	artifact, err := c.compileTimed(qualifiedName, sourceText)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if _, exists := c.sources[digest]; !exists && len(c.sources) >= c.config.MaxEntries {
		c.log.WithField("max_entries", c.config.MaxEntries).
			Warn("compilation cache reached maximum size, clearing")
		c.clearLocked()
	}
	c.sources[digest] = sourceText
	c.mu.Unlock()
	c.artifacts.Add(digest, artifact)

	c.updateGauges()
	c.log.WithFields(logrus.Fields{
		"qualified_name": qualifiedName,
		"content_hash":   digest,
	}).Info("artifact compiled and cached")
	return artifact, nil
}

func (c *Cache) compileTimed(qualifiedName, sourceText string) (*compiler.Artifact, error) {
	start := time.Now()
	artifact, err := c.compiler.Compile(qualifiedName, sourceText)
	if c.metrics != nil {
		c.metrics.CompilationsTotal.Inc()
		c.metrics.CompilationDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			c.metrics.CompilationErrorsTotal.Inc()
		}
	}
	if err != nil {
		c.log.WithError(err).WithField("qualified_name", qualifiedName).Error("compilation failed")
		return nil, err
	}
	return artifact, nil
}

// SourceText returns the retained source for a content digest, if present.
func (c *Cache) SourceText(digest string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src, ok := c.sources[digest]
	return src, ok
}

// Stats returns current cache occupancy.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	retained := len(c.sources)
	c.mu.RUnlock()
	return Stats{
		LiveArtifacts:   c.artifacts.Len(),
		RetainedSources: retained,
	}
}

// Clear drops all entries and artifacts.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.clearLocked()
	c.mu.Unlock()
	c.updateGauges()
	c.log.Info("compilation cache cleared")
}

func (c *Cache) clearLocked() {
	c.sources = make(map[string]string)
	c.artifacts.Purge()
	if c.metrics != nil {
		c.metrics.CacheClearsTotal.Inc()
	}
}

func (c *Cache) recordHit() {
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *Cache) recordMiss() {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

func (c *Cache) updateGauges() {
	if c.metrics == nil {
		return
	}
	stats := c.Stats()
	c.metrics.CacheLiveArtifacts.Set(float64(stats.LiveArtifacts))
	c.metrics.CacheRetainedSource.Set(float64(stats.RetainedSources))
}
