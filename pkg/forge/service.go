package forge

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/typeforge/typeforge/pkg/binder"
	"github.com/typeforge/typeforge/pkg/compiler"
	"github.com/typeforge/typeforge/pkg/compiler/typecache"
	"github.com/typeforge/typeforge/pkg/contextkeys"
	"github.com/typeforge/typeforge/pkg/descriptor"
	"github.com/typeforge/typeforge/pkg/observability"
	"github.com/typeforge/typeforge/pkg/typegen"
	"github.com/typeforge/typeforge/pkg/xmlmarshal"
)

// GeneratedType is the result of submitting a type descriptor: the
// artifact's identity, its source text, and a cache snapshot. The compiled
// handle itself never leaves the cache.
type GeneratedType struct {
	TypeID        string          `json:"typeId"`
	TypeName      string          `json:"typeName"`
	Namespace     string          `json:"namespace"`
	QualifiedName string          `json:"qualifiedName"`
	SourceText    string          `json:"sourceText"`
	ContentHash   string          `json:"contentHash"`
	CacheStats    typecache.Stats `json:"cacheStats"`
}

// RenderedInstance is the result of materializing a type and rendering a
// bound instance to XML.
type RenderedInstance struct {
	QualifiedName string          `json:"qualifiedName"`
	XML           string          `json:"xml"`
	CacheStats    typecache.Stats `json:"cacheStats"`
}

// Service sequences the pipeline: validate, generate, compile-and-cache,
// and later instantiate, bind, and marshal. It holds no state of its own
// beyond references to the components.
type Service struct {
	validator  *descriptor.Validator
	generator  *typegen.Generator
	cache      *typecache.Cache
	binder     *binder.Binder
	marshaller *xmlmarshal.Marshaller
	log        *logrus.Logger
}

// NewService wires the pipeline components. A nil cache config uses
// typecache.DefaultConfig; logger and metrics may be nil.
func NewService(cacheConfig *typecache.Config, log *logrus.Logger, metrics *observability.Metrics) (*Service, error) {
	if log == nil {
		log = logrus.New()
	}
	cache, err := typecache.New(cacheConfig, compiler.NewCompiler(), log, metrics)
	if err != nil {
		return nil, err
	}
	return &Service{
		validator:  descriptor.NewValidator(),
		generator:  typegen.NewGenerator(),
		cache:      cache,
		binder:     binder.NewBinder(log, metrics),
		marshaller: xmlmarshal.NewMarshaller(),
		log:        log,
	}, nil
}

// GenerateType validates the descriptor, renders source text, compiles and
// caches the artifact, and returns its identity. Propagates
// *descriptor.ValidationError and *compiler.CompilationError unchanged.
func (s *Service) GenerateType(ctx context.Context, d *descriptor.TypeDescriptor) (*GeneratedType, error) {
	log := s.requestLog(ctx)
	if err := s.validator.Validate(d); err != nil {
		log.WithError(err).Warn("descriptor rejected")
		return nil, err
	}
	log.WithField("qualified_name", d.QualifiedName()).Info("descriptor validated")

	sourceText := s.generator.Generate(d)

	artifact, err := s.cache.CompileAndLoad(d.QualifiedName(), sourceText)
	if err != nil {
		return nil, err
	}

	return &GeneratedType{
		TypeID:        uuid.NewString(),
		TypeName:      d.TypeName,
		Namespace:     d.Namespace,
		QualifiedName: artifact.QualifiedName,
		SourceText:    artifact.SourceText,
		ContentHash:   artifact.ContentHash,
		CacheStats:    s.cache.Stats(),
	}, nil
}

// MaterializeAndRender resolves the compiled artifact (cache hit or
// recompile from the supplied source), instantiates it, binds the document
// into its fields best-effort, and renders the instance to XML.
func (s *Service) MaterializeAndRender(ctx context.Context, qualifiedName, sourceText string, document map[string]any, pretty bool) (*RenderedInstance, error) {
	artifact, err := s.cache.CompileAndLoad(qualifiedName, sourceText)
	if err != nil {
		return nil, err
	}

	instance, err := compiler.NewInstance(artifact)
	if err != nil {
		return nil, err
	}

	s.binder.Bind(instance, document)

	rendered, err := s.marshaller.ToXML(instance, pretty)
	if err != nil {
		return nil, err
	}

	s.requestLog(ctx).WithField("qualified_name", qualifiedName).Info("instance rendered")
	return &RenderedInstance{
		QualifiedName: qualifiedName,
		XML:           rendered,
		CacheStats:    s.cache.Stats(),
	}, nil
}

// requestLog attaches the request ID when the context carries one.
func (s *Service) requestLog(ctx context.Context) *logrus.Entry {
	if requestID := contextkeys.GetRequestID(ctx); requestID != "" {
		return s.log.WithField("request_id", requestID)
	}
	return logrus.NewEntry(s.log)
}

// CacheStats returns a snapshot of compilation cache occupancy.
func (s *Service) CacheStats() typecache.Stats {
	return s.cache.Stats()
}

// ResetCache drops all cached entries and artifacts.
func (s *Service) ResetCache() {
	s.cache.Clear()
}
