package uploads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/editmelo/studio-platform/pkg/logging"
)

// maxSignedURLTTL caps client-requested expiry at seven days, the S3 SigV4
// limit.
const maxSignedURLTTL = 7 * 24 * time.Hour

// Handler handles asset upload and signed-URL requests.
type Handler struct {
	store       *Store
	adminURLTTL time.Duration
	logger      *logging.Logger
}

// NewHandler creates an uploads handler. adminURLTTL is the default expiry
// for admin-requested signed URLs; zero means 24 hours.
func NewHandler(store *Store, adminURLTTL time.Duration, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if adminURLTTL <= 0 {
		adminURLTTL = 24 * time.Hour
	}
	return &Handler{
		store:       store,
		adminURLTTL: adminURLTTL,
		logger:      logger,
	}
}

// UploadAsset handles multipart POST /intake/assets with "file" and an
// optional "folder" field.
func (h *Handler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	// Slack for multipart framing on top of the file cap.
	maxBytes := h.store.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+(1<<20))

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("File is too large (max %dMB)", maxBytes>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ref, err := h.store.Upload(r.Context(), r.FormValue("folder"), header.Filename, contentType, header.Size, file)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		h.logger.Error("asset upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to upload file. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, ref)
}

type signedURLsRequest struct {
	FilePaths []string `json:"filePaths"`
	ExpiresIn int64    `json:"expiresIn"`
}

// SignedURLs handles POST /admin/signed-urls. The router mounts it behind
// admin auth.
func (h *Handler) SignedURLs(w http.ResponseWriter, r *http.Request) {
	var req signedURLsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.FilePaths) == 0 {
		writeError(w, http.StatusBadRequest, "filePaths is required")
		return
	}

	ttl := h.adminURLTTL
	if req.ExpiresIn > 0 {
		ttl = time.Duration(req.ExpiresIn) * time.Second
		if ttl > maxSignedURLTTL {
			ttl = maxSignedURLTTL
		}
	}

	urls := h.store.SignedURLs(r.Context(), req.FilePaths, ttl)
	writeJSON(w, http.StatusOK, map[string]any{"signedUrls": urls})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
