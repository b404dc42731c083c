package document

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/OpenDataspace/portal/internal/apperrors"
)

type HTTPHandler struct {
	Store *Store
}

func NewHTTPHandler(store *Store) *HTTPHandler {
	return &HTTPHandler{Store: store}
}

// Register handles POST /api/documents/self-description requests.
// The document content is sent as a multipart file field together with the
// offer title it describes.
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Max memory 32MB
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, `{"error": "failed to parse form"}`, http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		http.Error(w, `{"error": "title is required"}`, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error": "file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	doc, err := h.Store.Register(r.Context(), title, file, header.Size)
	if err != nil {
		if apperrors.IsInvalidArgument(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.ErrorContext(r.Context(), "Document registration failed", "error", err)
		http.Error(w, `{"error": "registration failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

// Download handles GET /api/documents/{documentID} requests
func (h *HTTPHandler) Download(w http.ResponseWriter, r *http.Request) {
	documentID, err := uuid.Parse(r.PathValue("documentID"))
	if err != nil {
		http.Error(w, `{"error": "invalid document id"}`, http.StatusBadRequest)
		return
	}

	doc, reader, err := h.Store.Fetch(r.Context(), documentID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "Document download failed", "error", err)
		http.Error(w, `{"error": "download failed"}`, http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", doc.MediaType)
	io.Copy(w, reader)
}
