// Package typecache implements the content-addressed compilation cache.
//
// Entries are keyed by a SHA-256 digest of qualified name plus source text.
// Each entry keeps its source text strongly while the compiled artifact
// lives in a bounded LRU tier; eviction from that tier models
// memory-pressure reclamation deterministically, and the next load pays a
// one-time recompilation from the retained source. When the entry table
// reaches its hard ceiling the whole cache is cleared rather than evicted
// incrementally, a documented simplicity tradeoff.
package typecache
