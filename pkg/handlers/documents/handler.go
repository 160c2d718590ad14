package documents

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/de-tools/relief-atlas/pkg/adapters"
	"github.com/de-tools/relief-atlas/pkg/handlers"
	"github.com/de-tools/relief-atlas/pkg/services/documents"
	"github.com/go-chi/chi/v5"
)

const (
	formField = "documentFile"
	// Multipart parts beyond this stay on disk while parsing.
	formMemory = 1 << 20
)

type Handler struct {
	manager documents.Manager
	maxSize int64
}

func NewHandler(manager documents.Manager, maxSize int64) *Handler {
	return &Handler{manager: manager, maxSize: maxSize}
}

func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.manager.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadGateway, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapDomainDocumentsToApi(docs))
}

func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope; the manager enforces the exact limit.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+formMemory)
	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.WriteError(w, r, http.StatusRequestEntityTooLarge, documents.ErrTooLarge)
			return
		}
		handlers.WriteError(w, r, http.StatusBadRequest, fmt.Errorf("invalid upload: %w", err))
		return
	}

	file, header, err := r.FormFile(formField)
	if err != nil {
		handlers.WriteError(w, r, http.StatusBadRequest, fmt.Errorf("missing %s: %w", formField, err))
		return
	}
	defer file.Close()

	doc, err := h.manager.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	switch {
	case errors.Is(err, documents.ErrTooLarge):
		handlers.WriteError(w, r, http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, documents.ErrUnsupportedType):
		handlers.WriteError(w, r, http.StatusUnsupportedMediaType, err)
	case err != nil:
		handlers.WriteError(w, r, http.StatusBadGateway, err)
	default:
		handlers.WriteJSON(w, r, http.StatusCreated, adapters.MapDomainDocumentToApi(*doc))
	}
}

func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := h.manager.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, documents.ErrNotFound):
		handlers.WriteError(w, r, http.StatusNotFound, err)
	case err != nil:
		handlers.WriteError(w, r, http.StatusBadGateway, err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
