package web

import (
	"net/http"

	"github.com/artpar/occigate/core/parser"
	"github.com/artpar/occigate/domain/occierr"
	"github.com/go-chi/chi/v5"
)

// Query answers capability discovery, optionally narrowed by a filter in
// the Category request header.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}

	var filter *parser.Representation
	if r.Header.Get("Category") != "" {
		p := &parser.TextParser{FromHeaders: true, Filter: true}
		filter, err = p.Parse(r.Header, nil)
		if err != nil {
			h.writeError(w, rend, err)
			return
		}
	}

	col, err := h.query.Capabilities(filter)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	h.writeResult(w, rend, http.StatusOK, col)
}

// ComputeIndex lists the tenant's compute resources.
func (h *Handler) ComputeIndex(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	col, err := h.compute.Index(r.Context(), t)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	h.writeResult(w, rend, http.StatusOK, col)
}

// ComputeCreate boots a server from a creation representation.
func (h *Handler) ComputeCreate(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	rep, err := h.parseRequest(w, r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	col, err := h.compute.Create(r.Context(), t, rep)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	h.writeResult(w, rend, http.StatusCreated, col)
}

// ComputeShow retrieves one compute resource.
func (h *Handler) ComputeShow(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	res, err := h.compute.Show(r.Context(), t, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	h.writeResult(w, rend, http.StatusOK, res)
}

// ComputeAction runs a lifecycle action named in the action query
// parameter against one compute resource.
func (h *Handler) ComputeAction(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	term := r.URL.Query().Get("action")
	if term == "" {
		h.writeError(w, rend, occierr.InvalidAction(""))
		return
	}
	rep, err := h.parseRequest(w, r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	if err := h.compute.RunAction(r.Context(), t, chi.URLParam(r, "id"), term, rep); err != nil {
		h.writeError(w, rend, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ComputeDelete removes one compute resource.
func (h *Handler) ComputeDelete(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	if err := h.compute.Delete(r.Context(), t, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, rend, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ComputeDeleteAll removes every compute resource of the tenant.
func (h *Handler) ComputeDeleteAll(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	if err := h.compute.DeleteAll(r.Context(), t); err != nil {
		h.writeError(w, rend, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StorageIndex lists the tenant's storage resources.
func (h *Handler) StorageIndex(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	col, err := h.storage.Index(r.Context(), t)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	h.writeResult(w, rend, http.StatusOK, col)
}

// StorageCreate provisions a volume from a creation representation.
func (h *Handler) StorageCreate(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	rep, err := h.parseRequest(w, r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	col, err := h.storage.Create(r.Context(), t, rep)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	h.writeResult(w, rend, http.StatusCreated, col)
}

// StorageShow retrieves one storage resource.
func (h *Handler) StorageShow(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	res, err := h.storage.Show(r.Context(), t, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	h.writeResult(w, rend, http.StatusOK, res)
}

// StorageAction validates a storage action request.
func (h *Handler) StorageAction(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}
	term := r.URL.Query().Get("action")
	if term == "" {
		h.writeError(w, rend, occierr.InvalidAction(""))
		return
	}
	rep, err := h.parseRequest(w, r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	if err := h.storage.RunAction(r.Context(), t, chi.URLParam(r, "id"), term, rep); err != nil {
		h.writeError(w, rend, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StorageDelete removes one storage resource.
func (h *Handler) StorageDelete(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	if err := h.storage.Delete(r.Context(), t, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, rend, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StorageDeleteAll removes every storage resource of the tenant.
func (h *Handler) StorageDeleteAll(w http.ResponseWriter, r *http.Request) {
	rend, err := h.negotiate(r)
	if err != nil {
		h.writeError(w, h.renderers.Default(), err)
		return
	}
	t, err := tenant(r)
	if err != nil {
		h.writeError(w, rend, err)
		return
	}

	if err := h.storage.DeleteAll(r.Context(), t); err != nil {
		h.writeError(w, rend, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
