package api

import (
	"errors"
	"net/http"

	"github.com/typeforge/typeforge/pkg/compiler"
	"github.com/typeforge/typeforge/pkg/descriptor"
	"github.com/typeforge/typeforge/pkg/httputil"
	"github.com/typeforge/typeforge/pkg/xmlmarshal"
)

// InstanceRequest is the payload for POST /api/v1/instances. SourceText is
// required so the artifact can be recompiled after a cache miss.
type InstanceRequest struct {
	QualifiedName string         `json:"qualifiedName"`
	SourceText    string         `json:"sourceText"`
	Data          map[string]any `json:"data"`
	Pretty        *bool          `json:"pretty,omitempty"`
}

// InstanceResponse is the payload returned by POST /api/v1/instances.
type InstanceResponse struct {
	Success       bool   `json:"success"`
	QualifiedName string `json:"qualifiedName"`
	XML           string `json:"xml"`
	CacheStats    any    `json:"cacheStats"`
}

func (s *Server) generateType(w http.ResponseWriter, r *http.Request) {
	var d descriptor.TypeDescriptor
	if !httputil.ParseJSONOrError(w, r, &d) {
		return
	}

	generated, err := s.service.GenerateType(r.Context(), &d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, generated)
}

func (s *Server) materializeInstance(w http.ResponseWriter, r *http.Request) {
	var req InstanceRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.QualifiedName, "qualifiedName") {
		return
	}
	if !httputil.RequireNonEmpty(w, req.SourceText, "sourceText") {
		return
	}
	if req.Data == nil {
		httputil.WriteBadRequest(w, "invalid request", "data is required")
		return
	}

	pretty := true
	if req.Pretty != nil {
		pretty = *req.Pretty
	}

	rendered, err := s.service.MaterializeAndRender(r.Context(), req.QualifiedName, req.SourceText, req.Data, pretty)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteSuccess(w, InstanceResponse{
		Success:       true,
		QualifiedName: rendered.QualifiedName,
		XML:           rendered.XML,
		CacheStats:    rendered.CacheStats,
	})
}

func (s *Server) cacheStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]any{
		"success":    true,
		"cacheStats": s.service.CacheStats(),
	})
}

func (s *Server) resetCache(w http.ResponseWriter, r *http.Request) {
	s.service.ResetCache()
	httputil.WriteSuccess(w, map[string]any{
		"success": true,
		"message": "cache cleared",
	})
}

// writeError maps pipeline error kinds to HTTP status codes: descriptor
// validation is the caller's fault (400), everything else is a server-side
// failure (500).
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var validationErr *descriptor.ValidationError
	if errors.As(err, &validationErr) {
		httputil.WriteBadRequest(w, "validation failed", validationErr.Error())
		return
	}

	var compilationErr *compiler.CompilationError
	if errors.As(err, &compilationErr) {
		httputil.WriteInternalError(w, "compilation failed", compilationErr.Error())
		return
	}

	var instantiationErr *compiler.InstantiationError
	if errors.As(err, &instantiationErr) {
		httputil.WriteInternalError(w, "instantiation failed", instantiationErr.Error())
		return
	}

	var marshallingErr *xmlmarshal.MarshallingError
	if errors.As(err, &marshallingErr) {
		httputil.WriteInternalError(w, "marshalling failed", marshallingErr.Error())
		return
	}

	httputil.WriteInternalError(w, "internal error", err.Error())
}
