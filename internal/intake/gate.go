package intake

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/editmelo/studio-platform/internal/ratelimit"
	"github.com/editmelo/studio-platform/pkg/logging"
)

// Gate fronts the intake wizard with a shared password. It is a speed bump
// for casual visitors, not an authentication system.
type Gate struct {
	secret  string
	limiter *ratelimit.Limiter
	logger  *logging.Logger
}

// NewGate builds the gate. An empty secret disables verification and every
// attempt answers 500 until one is configured.
func NewGate(secret string, limiter *ratelimit.Limiter, logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.Default()
	}
	return &Gate{
		secret:  strings.TrimSpace(secret),
		limiter: limiter,
		logger:  logger,
	}
}

type gateRequest struct {
	Password string `json:"password"`
}

// VerifyPassword handles POST /intake/verify-password. Every response carries
// the {success, error?} envelope, and the rate limiter runs before the body is
// parsed so malformed attempts spend the same budget as real ones.
func (g *Gate) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	if g.limiter != nil && !g.limiter.Allow(r.Context(), clientIP(r)) {
		gateError(w, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
		return
	}

	var req gateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		gateError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		gateError(w, http.StatusBadRequest, "Password is required")
		return
	}

	if g.secret == "" {
		g.logger.Error("intake password is not configured")
		gateError(w, http.StatusInternalServerError, "Password verification not configured")
		return
	}

	if !strings.EqualFold(strings.TrimSpace(req.Password), g.secret) {
		gateError(w, http.StatusUnauthorized, "Incorrect password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func gateError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
