package binder

import (
	"github.com/sirupsen/logrus"

	"github.com/typeforge/typeforge/pkg/compiler"
	"github.com/typeforge/typeforge/pkg/observability"
	"github.com/typeforge/typeforge/pkg/typegen"
)

// Binder copies values from an untyped document into a compiled instance.
//
// Binding is best-effort by design: by the time it runs the target type is
// already validated and compiled, so unknown keys and malformed values are
// noise to log and skip, never a reason to fail the whole call.
type Binder struct {
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewBinder creates a binder. A nil logger falls back to a fresh logrus
// logger; metrics may be nil.
func NewBinder(log *logrus.Logger, metrics *observability.Metrics) *Binder {
	if log == nil {
		log = logrus.New()
	}
	return &Binder{log: log, metrics: metrics}
}

// Bind sets instance fields from the document. For each key it derives the
// target field with the generator's capitalization convention (the
// equivalent of resolving "set" + capitalized key), coerces the value to
// the field's schema type, and stores it. Keys without a matching field and
// values that fail coercion are logged at warn and skipped.
func (b *Binder) Bind(instance *compiler.Instance, document map[string]any) {
	if instance == nil || len(document) == 0 {
		return
	}
	artifact := instance.Artifact()
	for key, value := range document {
		field, ok := artifact.FieldByGoName(typegen.Capitalize(key))
		if !ok {
			b.skip(artifact.QualifiedName, key, "no matching setter")
			continue
		}
		if err := instance.Set(field, value); err != nil {
			b.skip(artifact.QualifiedName, key, err.Error())
			continue
		}
		b.log.WithFields(logrus.Fields{
			"qualified_name": artifact.QualifiedName,
			"field":          key,
		}).Debug("field bound")
	}
}

func (b *Binder) skip(qualifiedName, key, reason string) {
	if b.metrics != nil {
		b.metrics.BindSkippedKeysTotal.Inc()
	}
	b.log.WithFields(logrus.Fields{
		"qualified_name": qualifiedName,
		"field":          key,
		"reason":         reason,
	}).Warn("skipping unbindable document key")
}
