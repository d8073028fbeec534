package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-push/pkg/simplepush"
)

// ResourceHandler exposes the writable resource backend so parts can be
// pushed by name.
type ResourceHandler struct {
	store simplepush.ResourceStore
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(store simplepush.ResourceStore) *ResourceHandler {
	return &ResourceHandler{store: store}
}

// Routes returns the routes for resources. Resource names may contain
// slashes, so the wildcard pattern is used.
func (h *ResourceHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Put("/*", h.PutResource)
	r.Get("/*", h.GetResource)
	r.Delete("/*", h.DeleteResource)

	return r
}

// PutResource stores the request body under the resource name
func (h *ResourceHandler) PutResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if name == "" {
		http.Error(w, "Resource name is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Put(r.Context(), name, r.Body); err != nil {
		slog.Error("Failed to store resource", "name", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"name": name})
}

// GetResource streams the named resource back to the client
func (h *ResourceHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if name == "" {
		http.Error(w, "Resource name is required", http.StatusBadRequest)
		return
	}

	rc, err := h.store.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, simplepush.ErrResourceNotFound) {
			http.Error(w, "Resource not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to open resource", "name", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Client went away mid-download", "name", name, "error", err)
	}
}

// DeleteResource removes the named resource when the backend supports it
func (h *ResourceHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if name == "" {
		http.Error(w, "Resource name is required", http.StatusBadRequest)
		return
	}

	del, ok := h.store.(interface {
		Delete(ctx context.Context, name string) error
	})
	if !ok {
		http.Error(w, "Delete not supported by this backend", http.StatusMethodNotAllowed)
		return
	}

	if err := del.Delete(r.Context(), name); err != nil {
		if errors.Is(err, simplepush.ErrResourceNotFound) {
			http.Error(w, "Resource not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to delete resource", "name", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
