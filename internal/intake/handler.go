package intake

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/editmelo/studio-platform/pkg/logging"
)

// Handler handles HTTP requests for intake submissions
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new intake handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// SubmitIntake handles POST /intake with the full wizard form.
func (h *Handler) SubmitIntake(w http.ResponseWriter, r *http.Request) {
	var form Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.logger.Error("failed to decode intake form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stored, err := h.service.Submit(r.Context(), &form)
	if err != nil {
		var verr *ValidationError
		var serr *StorageError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Message)
		case errors.As(err, &serr):
			writeError(w, http.StatusInternalServerError, "Failed to save your intake. Please try again.")
		default:
			h.logger.Error("unexpected intake error", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      stored.ID,
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
