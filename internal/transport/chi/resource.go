package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/placebook/internal/domain"
)

// CRUD is the service contract a resource handler drives.
type CRUD[In any, V any] interface {
	Create(ctx context.Context, in In) (V, error)
	Get(ctx context.Context, id string) (V, error)
	List(ctx context.Context) ([]V, error)
	Update(ctx context.Context, id string, in In) (V, error)
	Delete(ctx context.Context, id string) error
}

// AttachmentBinder maps uploaded file URLs onto an input.
type AttachmentBinder[In any] interface {
	AttachmentFields() []string
	BindAttachments(in In, files map[string][]string) In
}

// Resource is a REST collection mounted under /api/{path}.
type Resource interface {
	Path() string
	register(r chi.Router, s *Server)
}

// ResourceHandler serves the five CRUD routes of one resource.
type ResourceHandler[In any, V any] struct {
	path   string
	svc    CRUD[In, V]
	binder AttachmentBinder[In]
}

// NewResource creates a handler for the resource mounted at /api/{path}.
func NewResource[In any, V any](path string, svc CRUD[In, V]) *ResourceHandler[In, V] {
	return &ResourceHandler[In, V]{path: path, svc: svc}
}

// WithAttachments accepts multipart uploads for the binder's fields.
func (h *ResourceHandler[In, V]) WithAttachments(b AttachmentBinder[In]) *ResourceHandler[In, V] {
	h.binder = b
	return h
}

// Path returns the URL segment of the resource.
func (h *ResourceHandler[In, V]) Path() string { return h.path }

func (h *ResourceHandler[In, V]) register(r chi.Router, s *Server) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) { h.create(s, w, r) })
	r.Get("/", func(w http.ResponseWriter, r *http.Request) { h.list(s, w, r) })
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) { h.get(s, w, r) })
	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) { h.update(s, w, r) })
	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) { h.delete(s, w, r) })
}

func (h *ResourceHandler[In, V]) create(s *Server, w http.ResponseWriter, r *http.Request) {
	in, err := decodeInput(s, r, h.path, h.binder)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	view, err := h.svc.Create(r.Context(), in)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ResourceHandler[In, V]) get(s *Server, w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	view, err := h.svc.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ResourceHandler[In, V]) list(s *Server, w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.List(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if views == nil {
		views = []V{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *ResourceHandler[In, V]) update(s *Server, w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	in, err := decodeInput(s, r, h.path, h.binder)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	view, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ResourceHandler[In, V]) delete(s *Server, w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID binds the {id} path parameter.
func pathID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", domain.NewValidationError("id", err.Error())
	}
	return id, nil
}
