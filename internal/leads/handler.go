package leads

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/editmelo/studio-platform/pkg/logging"
)

// Handler handles HTTP requests for leads
type Handler struct {
	guard  *Guard
	logger *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(guard *Guard, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		guard:  guard,
		logger: logger,
	}
}

// SubmitLead handles POST /leads requests from the public capture form.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.logger.Error("failed to decode lead submission", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	decision, err := h.guard.Admit(r.Context(), &sub, clientIP(r))
	if err != nil {
		var verr *ValidationError
		var serr *StorageError
		switch {
		case errors.Is(err, ErrRateLimited):
			writeError(w, http.StatusTooManyRequests, "Too many submissions. Please try again later.")
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Message)
		case errors.Is(err, ErrSecurityCheck):
			writeError(w, http.StatusBadRequest, "Security verification failed. Please try again.")
		case errors.As(err, &serr):
			writeError(w, http.StatusInternalServerError, "Failed to save your information. Please try again.")
		default:
			h.logger.Error("unexpected lead pipeline error", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	// Bot-trapped and admitted submissions answer identically.
	_ = decision
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// clientIP returns the request's client address. The router's RealIP
// middleware has already folded X-Forwarded-For / X-Real-Ip into RemoteAddr.
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
